package sprite

import (
	"cmp"
	"image"
	"slices"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/ecs"
)

// Plugin registers the sprite components and the render system.
type Plugin struct{}

func (Plugin) Build(a *app.App) {
	ecs.RegisterComponent[Transform](a.Registry)
	ecs.RegisterComponent[Sprite](a.Registry)
	ecs.RegisterComponent[AtlasSprite](a.Registry)
	ecs.RegisterComponent[Camera2D](a.Registry)
	ecs.RegisterComponent[AnimationTimer](a.Registry)

	a.AddRenderSystems(&RenderSystem{})
}

type view struct {
	position Vec2
	zoom     float64
	screen   image.Point
}

type drawItem struct {
	image     *ebiten.Image
	transform *Transform
	flipX     bool
}

// RenderSystem draws every Sprite and AtlasSprite through the single
// Camera2D, lowest Z first. Nothing is drawn without exactly one camera.
type RenderSystem struct {
	Cameras ecs.Query[struct {
		*Transform
		*Camera2D
	}]
	Sprites ecs.Query[struct {
		*Transform
		*Sprite
	}]
	AtlasSprites ecs.Query[struct {
		*Transform
		*AtlasSprite
	}]
	Screen ecs.Singleton[app.Screen]

	items []drawItem
}

func (s *RenderSystem) Execute(frame *ecs.UpdateFrame) {
	screen := s.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}
	camera, ok := s.Cameras.Single()
	if !ok {
		return
	}

	w, h := screen.Size()
	v := view{
		position: camera.Transform.Translation,
		zoom:     camera.Camera2D.Zoom,
		screen:   image.Pt(w, h),
	}
	if v.zoom == 0 {
		v.zoom = 1
	}

	s.items = s.items[:0]
	for e := range s.Sprites.Values() {
		if e.Sprite.Image != nil {
			s.items = append(s.items, drawItem{image: e.Sprite.Image, transform: e.Transform})
		}
	}
	for e := range s.AtlasSprites.Values() {
		if e.AtlasSprite.Atlas == nil {
			continue
		}
		if img := e.AtlasSprite.Atlas.Frame(e.AtlasSprite.Index); img != nil {
			s.items = append(s.items, drawItem{image: img, transform: e.Transform, flipX: e.AtlasSprite.FlipX})
		}
	}

	slices.SortStableFunc(s.items, func(a, b drawItem) int {
		return cmp.Compare(a.transform.Z, b.transform.Z)
	})

	for _, item := range s.items {
		op := &ebiten.DrawImageOptions{}
		op.GeoM = spriteGeoM(item.image.Bounds().Size(), item.transform, item.flipX, v)
		op.Filter = ebiten.FilterLinear
		screen.Image.DrawImage(item.image, op)
	}
}

// spriteGeoM maps an image of the given size, centered on t, to screen
// pixels.
func spriteGeoM(size image.Point, t *Transform, flipX bool, v view) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-float64(size.X)/2, -float64(size.Y)/2)
	if flipX {
		g.Scale(-1, 1)
	}
	g.Scale(t.Scale.X, t.Scale.Y)
	// world y points up, screen y points down
	g.Translate(t.Translation.X-v.position.X, -(t.Translation.Y - v.position.Y))
	g.Scale(v.zoom, v.zoom)
	g.Translate(float64(v.screen.X)/2, float64(v.screen.Y)/2)
	return g
}
