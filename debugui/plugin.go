package debugui

import (
	"log"

	ebitenbackend "github.com/AllenDang/cimgui-go/backend/ebiten-backend"
	"github.com/AllenDang/cimgui-go/imgui"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/ecs"
)

// backend drives the ImGui frame lifecycle from the app loop.
type backend struct {
	*ebitenbackend.EbitenBackend
}

func (b backend) BeginUpdate() { b.BeginFrame() }

func (b backend) EndUpdate() { b.EndFrame() }

func (b backend) Draw(screen *ebiten.Image) { b.EbitenBackend.Draw(screen) }

func (b backend) Layout(width, height int) { b.EbitenBackend.Layout(width, height) }

// Plugin installs the overlay with a performance window and a sprite
// inspector.
type Plugin struct {
	// HistoryFrames is the length of the frame time graph; 0 means 120.
	HistoryFrames int
}

func (p Plugin) Build(a *app.App) {
	history := p.HistoryFrames
	if history <= 0 {
		history = 120
	}

	cfg := a.Config()
	b := ebitenbackend.NewEbitenBackend()
	b.CreateWindow(cfg.Title, cfg.Width, cfg.Height)
	imgui.CurrentIO().SetIniFilename("")
	a.AddHook(backend{b})

	ecs.RegisterComponent[ImguiItem](a.Registry)
	ecs.NewSingleton[ImguiInputState](a.Storage)
	a.AddSystems(&ImguiSystem{})

	perf := NewPerformanceWindow(history)
	inspector := NewSpriteInspector()
	a.Storage.Spawn(ImguiItem{Render: func() { perf.Render(a) }})
	a.Storage.Spawn(ImguiItem{Render: func() { inspector.Render(a.Storage) }})

	log.Println("debugui: overlay enabled")
}
