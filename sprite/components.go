// Package sprite holds the 2D scene components and draws them. World space
// has its origin at the screen center with y pointing up; one unit is one
// pixel at zoom 1.
package sprite

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheetdemo/asset"
)

type Vec2 struct {
	X, Y float64
}

// Transform places an entity in world space. Higher Z draws on top.
type Transform struct {
	Translation Vec2
	Z           float64
	Scale       Vec2
}

// At returns an unscaled transform at (x, y).
func At(x, y float64) Transform {
	return Transform{Translation: Vec2{X: x, Y: y}, Scale: Vec2{X: 1, Y: 1}}
}

// WithScale returns t uniformly scaled by s.
func (t Transform) WithScale(s float64) Transform {
	t.Scale = Vec2{X: s, Y: s}
	return t
}

// Sprite draws a whole image centered on the entity.
type Sprite struct {
	Image *ebiten.Image
}

// AtlasSprite draws one tile of an atlas centered on the entity.
type AtlasSprite struct {
	Atlas *asset.TextureAtlas
	Index int
	FlipX bool
}

// Camera2D marks the entity whose Transform the scene is viewed from. Zero
// Zoom means 1.
type Camera2D struct {
	Zoom float64
}

// AnimationTimer paces frame changes of an animated sprite.
type AnimationTimer struct {
	Timer
}

// NewAnimationTimer returns a repeating timer firing every interval.
func NewAnimationTimer(interval time.Duration) AnimationTimer {
	return AnimationTimer{Timer: NewTimer(interval, Repeating)}
}
