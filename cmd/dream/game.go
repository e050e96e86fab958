package main

import (
	"errors"
	"log"
	"time"

	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/asset"
	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/sprite"
)

type GameState int

const (
	AssetLoading GameState = iota
	Next
)

func (s GameState) String() string {
	switch s {
	case AssetLoading:
		return "AssetLoading"
	case Next:
		return "Next"
	}
	return "GameState(?)"
}

type ImageAssets struct {
	Dream *asset.TextureAtlas `asset:"path=dreams/dream_sheet.png,tile_size_x=500,tile_size_y=500,columns=15,rows=1"`
}

const (
	dreamFrames   = 15
	frameInterval = 100 * time.Millisecond
)

// build wires the demo into a. loading supplies where sheets come from;
// its states are filled in here.
func build(a *app.App, loading asset.LoadingState[GameState, ImageAssets]) {
	loading.Loading = AssetLoading
	loading.Continue = Next

	ecs.AddState(a.Update, AssetLoading)
	a.AddPlugins(sprite.Plugin{}, loading)

	ecs.OnEnter(a.Update, Next, ecs.SystemFunc(drawAtlas))
	a.AddSystemsIf(ecs.InState(Next), &AnimateSystem{})
}

// drawAtlas spawns the camera, the whole sheet and the animated sprite.
func drawAtlas(frame *ecs.UpdateFrame) {
	assets := ecs.SingletonOf[ImageAssets](frame.Storage)
	if assets == nil || assets.Dream == nil {
		app.RequestExit(frame.Storage, errors.New("dream: sheet atlas missing after loading"))
		return
	}
	log.Printf("entered %s, %d frame sheet ready", Next, assets.Dream.Len())

	frame.Commands.Spawn(sprite.At(0, 0), sprite.Camera2D{})
	frame.Commands.Spawn(
		sprite.At(0, -150).WithScale(0.1),
		sprite.Sprite{Image: assets.Dream.Texture},
	)
	frame.Commands.Spawn(
		sprite.At(0, 150),
		sprite.AtlasSprite{Atlas: assets.Dream},
		sprite.NewAnimationTimer(frameInterval),
	)
}

// AnimateSystem advances every animated sprite by one frame per timer tick.
type AnimateSystem struct {
	Sprites ecs.Query[struct {
		*sprite.AtlasSprite
		*sprite.AnimationTimer
	}]
}

func (s *AnimateSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Sprites.Values() {
		e.AnimationTimer.Tick(frame.Delta())
		if e.AnimationTimer.JustFinished() {
			e.AtlasSprite.Index = (e.AtlasSprite.Index + 1) % dreamFrames
		}
	}
}
