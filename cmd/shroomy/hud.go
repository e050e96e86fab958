package main

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/input"
	"golang.org/x/image/font/basicfont"
)

// HUDSystem prints the controls in the top left corner, or a loading
// notice until the sheet is ready.
type HUDSystem struct {
	Screen ecs.Singleton[app.Screen]
	State  ecs.Singleton[ecs.State[GameState]]

	face   text.Face
	legend string
}

func NewHUDSystem(bindings []input.Binding[Action]) *HUDSystem {
	return &HUDSystem{
		face:   text.NewGoXFace(basicfont.Face7x13),
		legend: legend(bindings),
	}
}

func (h *HUDSystem) message() string {
	if st := h.State.Get(); st == nil || !st.Is(Next) {
		return "loading shroomy..."
	}
	return h.legend
}

func (h *HUDSystem) Execute(frame *ecs.UpdateFrame) {
	screen := h.Screen.Get()
	if screen == nil || screen.Image == nil {
		return
	}

	op := &text.DrawOptions{}
	op.GeoM.Translate(8, 8)
	op.ColorScale.ScaleWithColor(color.White)
	text.Draw(screen.Image, h.message(), h.face, op)
}
