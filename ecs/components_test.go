package ecs_test

import "github.com/plus3/sheetdemo/ecs"

// Common test component types
type Position struct {
	X, Y float32
}

type Velocity struct {
	DX, DY float32
}

type Name struct {
	Value string
}

type Health struct {
	Current int
	Max     int
}

type PlayerTag struct{}

type Score int32
type Label string

type Inventory struct {
	Items []string
}

type Link struct {
	Next *Position
}

func newTestRegistry() *ecs.ComponentRegistry {
	registry := ecs.NewComponentRegistry()
	ecs.RegisterComponent[Position](registry)
	ecs.RegisterComponent[Velocity](registry)
	ecs.RegisterComponent[Name](registry)
	ecs.RegisterComponent[Health](registry)
	ecs.RegisterComponent[PlayerTag](registry)
	ecs.RegisterComponent[Score](registry)
	ecs.RegisterComponent[Label](registry)
	ecs.RegisterComponent[Inventory](registry)
	ecs.RegisterComponent[Link](registry)
	ecs.RegisterComponent[int](registry)
	ecs.RegisterComponent[string](registry)
	return registry
}
