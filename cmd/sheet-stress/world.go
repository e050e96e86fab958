package main

import (
	"image"
	"math/rand/v2"
	"time"

	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/asset"
	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/sprite"
)

// Velocity moves a sprite in world units per second.
type Velocity struct {
	X, Y float64
}

// FrameCounter is the singleton counting every atlas index advance.
type FrameCounter struct {
	Frames int64
}

const halfExtent = 1000

// syntheticAtlases returns textureless atlases with the layouts of the
// demo sheets, cycling through them.
func syntheticAtlases(n int) []*asset.TextureAtlas {
	layouts := []asset.AtlasLayout{
		asset.NewAtlasLayout(image.Pt(500, 500), 15, 1),
		asset.NewAtlasLayout(image.Pt(256, 256), 4, 5),
		asset.NewAtlasLayout(image.Pt(32, 32), 8, 8),
	}
	atlases := make([]*asset.TextureAtlas, n)
	for i := range atlases {
		atlases[i] = &asset.TextureAtlas{Layout: layouts[i%len(layouts)]}
	}
	return atlases
}

func build(a *app.App, opts options) *FrameCounter {
	ecs.RegisterComponent[sprite.Transform](a.Registry)
	ecs.RegisterComponent[sprite.AtlasSprite](a.Registry)
	ecs.RegisterComponent[sprite.AnimationTimer](a.Registry)
	ecs.RegisterComponent[Velocity](a.Registry)

	counter := ecs.NewSingleton[FrameCounter](a.Storage).Get()
	a.AddSystems(&AnimateSystem{}, &DriftSystem{})

	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed))
	atlases := syntheticAtlases(opts.Atlases)
	for i := range opts.Sprites {
		atlas := atlases[i%len(atlases)]
		interval := time.Duration(50+rng.IntN(150)) * time.Millisecond

		components := []any{
			sprite.At(rng.Float64()*2*halfExtent-halfExtent, rng.Float64()*2*halfExtent-halfExtent),
			sprite.AtlasSprite{Atlas: atlas, Index: rng.IntN(atlas.Len())},
			sprite.NewAnimationTimer(interval),
		}
		// half the sprites drift, so the world holds two archetypes
		if i%2 == 0 {
			components = append(components, Velocity{X: rng.Float64()*200 - 100, Y: rng.Float64()*200 - 100})
		}
		a.Storage.Spawn(components...)
	}
	return counter
}

// AnimateSystem cycles each sprite through every tile of its atlas.
type AnimateSystem struct {
	Sprites ecs.Query[struct {
		*sprite.AtlasSprite
		*sprite.AnimationTimer
	}]
	Counter ecs.Singleton[FrameCounter]
}

func (s *AnimateSystem) Execute(frame *ecs.UpdateFrame) {
	delta := frame.Delta()
	counter := s.Counter.Get()
	for e := range s.Sprites.Values() {
		e.AnimationTimer.Tick(delta)
		steps := e.AnimationTimer.TimesFinishedThisTick()
		if steps == 0 {
			continue
		}
		e.AtlasSprite.Index = (e.AtlasSprite.Index + steps) % e.AtlasSprite.Atlas.Len()
		counter.Frames += int64(steps)
	}
}

// DriftSystem moves drifting sprites and wraps them inside the world square.
type DriftSystem struct {
	Sprites ecs.Query[struct {
		*sprite.Transform
		*Velocity
	}]
}

func (s *DriftSystem) Execute(frame *ecs.UpdateFrame) {
	for e := range s.Sprites.Values() {
		e.Transform.Translation.X = wrap(e.Transform.Translation.X + e.Velocity.X*frame.DeltaTime)
		e.Transform.Translation.Y = wrap(e.Transform.Translation.Y + e.Velocity.Y*frame.DeltaTime)
	}
}

func wrap(v float64) float64 {
	switch {
	case v > halfExtent:
		return v - 2*halfExtent
	case v < -halfExtent:
		return v + 2*halfExtent
	}
	return v
}
