package main

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/asset"
	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/input"
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

type Action int

const (
	Charge Action = iota
	Right
	Left
)

var actionNames = map[string]Action{
	"charge": Charge,
	"right":  Right,
	"left":   Left,
}

func (a Action) String() string {
	switch a {
	case Charge:
		return "charge"
	case Right:
		return "right"
	case Left:
		return "left"
	}
	return fmt.Sprintf("Action(%d)", int(a))
}

// Player marks the controllable mushroom.
type Player struct{}

type ImageAssets struct {
	Shroomy *asset.TextureAtlas `asset:"path=mushroom/frames/color-small/shroomy.png,tile_size_x=256,tile_size_y=256,columns=4,rows=5"`
}

const frameInterval = 100 * time.Millisecond

func defaultBindings() []input.Binding[Action] {
	return []input.Binding[Action]{
		input.Bind(Charge, ebiten.KeyO),
		input.Bind(Left, ebiten.KeyA),
		input.Bind(Right, ebiten.KeyD),
	}
}

// parseBindings applies configured keys over the defaults. An action named
// in the configuration loses its default keys.
func parseBindings(names map[string][]string) ([]input.Binding[Action], error) {
	configured, err := input.ParseBindings(actionNames, names)
	if err != nil {
		return nil, err
	}

	overridden := make(map[Action]bool)
	for _, b := range configured {
		overridden[b.Action] = true
	}

	var bindings []input.Binding[Action]
	for _, b := range defaultBindings() {
		if !overridden[b.Action] {
			bindings = append(bindings, b)
		}
	}
	return append(bindings, configured...), nil
}

// legend describes the controls, e.g. "O charge, A left, D right, Esc quit".
func legend(bindings []input.Binding[Action]) string {
	parts := make([]string, 0, len(bindings)+1)
	for _, b := range bindings {
		parts = append(parts, b.Key.String()+" "+b.Action.String())
	}
	parts = append(parts, "Esc quit")
	return strings.Join(parts, ", ")
}

// build wires the demo into a. loading supplies where sheets come from; its
// states are filled in here.
func build(a *app.App, keys input.KeyReader, bindings []input.Binding[Action], loading asset.LoadingState[GameState, ImageAssets]) {
	loading.Loading = AssetLoading
	loading.Continue = Next

	ecs.AddState(a.Update, AssetLoading)
	ecs.RegisterComponent[Player](a.Registry)
	a.AddPlugins(
		sprite.Plugin{},
		input.Plugin[Action]{Keys: keys},
		loading,
	)

	ecs.OnEnter(a.Update, Next, &drawAtlas{bindings: bindings})
	a.AddSystemsIf(ecs.InState(Next), &AnimateSystem{}, &MovementSystem{})
}

// drawAtlas spawns the camera, the whole sheet and the player.
type drawAtlas struct {
	Assets   ecs.Singleton[ImageAssets]
	bindings []input.Binding[Action]
}

func (d *drawAtlas) Execute(frame *ecs.UpdateFrame) {
	assets := d.Assets.Get()
	if assets == nil || assets.Shroomy == nil {
		app.RequestExit(frame.Storage, errors.New("shroomy: sheet atlas missing after loading"))
		return
	}
	log.Printf("entered %s, %d frame sheet ready", Next, assets.Shroomy.Len())

	frame.Commands.Spawn(sprite.At(0, 0), sprite.Camera2D{})
	frame.Commands.Spawn(
		sprite.At(0, -150).WithScale(0.1),
		sprite.Sprite{Image: assets.Shroomy.Texture},
	)
	frame.Commands.Spawn(
		sprite.At(0, 150),
		sprite.AtlasSprite{Atlas: assets.Shroomy},
		input.NewInputMap(d.bindings...),
		input.ActionState[Action]{},
		Player{},
		sprite.NewAnimationTimer(frameInterval),
	)
}
