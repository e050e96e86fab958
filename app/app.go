// Package app drives an ecs world with Ebitengine. An App owns one storage
// and two schedulers: Update runs once per tick, Render once per drawn frame.
package app

import (
	"errors"
	"image/color"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/plus3/sheetdemo/ecs"
)

// Plugin bundles component registration and systems. Build runs as soon as
// the plugin is added, so plugins must be added before systems that read
// what they produce.
type Plugin interface {
	Build(a *App)
}

// PluginFunc adapts a plain function to the Plugin interface.
type PluginFunc func(a *App)

func (f PluginFunc) Build(a *App) {
	f(a)
}

// FrameHook is notified around each update and draw. It is how overlays
// with their own frame lifecycle (Dear ImGui) attach to the loop.
type FrameHook interface {
	BeginUpdate()
	EndUpdate()
	Draw(screen *ebiten.Image)
	Layout(width, height int)
}

// Config holds window settings.
type Config struct {
	Title      string
	Width      int
	Height     int
	ClearColor color.Color
}

// DefaultClearColor is the background drawn behind every frame.
var DefaultClearColor = color.RGBA{R: 0x66, G: 0x66, B: 0x66, A: 0xff}

// Screen is the render target singleton, valid while Render systems run.
type Screen struct {
	Image *ebiten.Image
}

// Size returns the target size in pixels.
func (s *Screen) Size() (int, int) {
	if s.Image == nil {
		return 0, 0
	}
	b := s.Image.Bounds()
	return b.Dx(), b.Dy()
}

// Time is the clock singleton advanced before every update pass.
type Time struct {
	Delta   time.Duration
	Elapsed time.Duration
	Frame   uint64
}

// Exit is the singleton systems use to stop the loop; see RequestExit.
type Exit struct {
	Requested bool
	Err       error
}

// RequestExit asks the app to stop after the current pass. A non-nil err is
// returned from Run. The first error wins.
func RequestExit(storage *ecs.Storage, err error) {
	exit := ecs.SingletonOf[Exit](storage)
	if exit == nil {
		storage.AddSingleton(&Exit{Requested: true, Err: err})
		return
	}
	exit.Requested = true
	if exit.Err == nil {
		exit.Err = err
	}
}

// App owns the world and the two schedulers Ebitengine drives: Update once
// per tick, Render once per drawn frame.
type App struct {
	Registry *ecs.ComponentRegistry
	Storage  *ecs.Storage
	Update   *ecs.Scheduler
	Render   *ecs.Scheduler

	cfg    Config
	hooks  []FrameHook
	time   *ecs.Singleton[Time]
	screen *ecs.Singleton[Screen]
	exit   *ecs.Singleton[Exit]
}

// New creates an app with an empty world.
func New(cfg Config) *App {
	if cfg.ClearColor == nil {
		cfg.ClearColor = DefaultClearColor
	}

	registry := ecs.NewComponentRegistry()
	storage := ecs.NewStorage(registry)

	return &App{
		Registry: registry,
		Storage:  storage,
		Update:   ecs.NewScheduler(storage),
		Render:   ecs.NewScheduler(storage),
		cfg:      cfg,
		time:     ecs.NewSingleton[Time](storage),
		screen:   ecs.NewSingleton[Screen](storage),
		exit:     ecs.NewSingleton[Exit](storage),
	}
}

// Config returns the window settings the app was created with.
func (a *App) Config() Config {
	return a.cfg
}

// AddPlugins builds each plugin immediately, in order.
func (a *App) AddPlugins(plugins ...Plugin) *App {
	for _, p := range plugins {
		p.Build(a)
	}
	return a
}

// AddSystems registers update systems. They run once per tick in
// registration order.
func (a *App) AddSystems(systems ...ecs.System) *App {
	for _, s := range systems {
		a.Update.Register(s)
	}
	return a
}

// AddSystemsIf registers update systems that only run while cond holds.
func (a *App) AddSystemsIf(cond ecs.RunCondition, systems ...ecs.System) *App {
	for _, s := range systems {
		a.Update.RegisterIf(cond, s)
	}
	return a
}

// AddRenderSystems registers systems run from Draw, while the Screen
// singleton holds the frame's render target.
func (a *App) AddRenderSystems(systems ...ecs.System) *App {
	for _, s := range systems {
		a.Render.Register(s)
	}
	return a
}

// AddHook adds a hook called around every update and after every draw.
func (a *App) AddHook(h FrameHook) *App {
	a.hooks = append(a.hooks, h)
	return a
}

// Step advances the clock by dt seconds and runs one update pass. It returns
// ebiten.Termination once a clean exit was requested.
func (a *App) Step(dt float64) error {
	clock := a.time.Get()
	clock.Delta = time.Duration(dt * float64(time.Second))
	clock.Elapsed += clock.Delta
	clock.Frame++

	a.Update.Once(dt)

	exit := a.exit.Get()
	if !exit.Requested {
		return nil
	}
	if exit.Err != nil {
		return exit.Err
	}
	return ebiten.Termination
}

// Run opens the window and blocks until the game ends. A clean exit (Esc or
// RequestExit without an error) returns nil.
func (a *App) Run() error {
	if a.cfg.Width > 0 && a.cfg.Height > 0 {
		ebiten.SetWindowSize(a.cfg.Width, a.cfg.Height)
	}
	if a.cfg.Title != "" {
		ebiten.SetWindowTitle(a.cfg.Title)
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	log.Printf("app: running %q at %d TPS", a.cfg.Title, ebiten.TPS())
	err := ebiten.RunGame(&game{app: a})
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
