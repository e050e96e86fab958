package app

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// game adapts an App to ebiten.Game.
type game struct {
	app *App
}

func (g *game) Update() error {
	if ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for _, h := range g.app.hooks {
		h.BeginUpdate()
	}
	err := g.app.Step(1.0 / float64(ebiten.TPS()))
	for _, h := range g.app.hooks {
		h.EndUpdate()
	}
	return err
}

func (g *game) Draw(screen *ebiten.Image) {
	a := g.app
	screen.Fill(a.cfg.ClearColor)

	a.screen.Get().Image = screen
	a.Render.Once(a.time.Get().Delta.Seconds())
	a.screen.Get().Image = nil

	for _, h := range a.hooks {
		h.Draw(screen)
	}
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	for _, h := range g.app.hooks {
		h.Layout(outsideWidth, outsideHeight)
	}
	return outsideWidth, outsideHeight
}
