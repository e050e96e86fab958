// Command shroomy shows a mushroom that walks with A and D and charges
// with O, animated from a 4x5 sprite sheet.
package main

import (
	"errors"
	"flag"
	"log"
	"os"

	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/asset"
	"github.com/plus3/sheetdemo/config"
	"github.com/plus3/sheetdemo/debugui"
	"github.com/plus3/sheetdemo/input"
)

func main() {
	log.SetPrefix("shroomy: ")

	cfg, err := config.Parse("shroomy", os.Args[1:], config.Default("shroomy"))
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%v", err)
	}

	bindings, err := parseBindings(cfg.Bindings)
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("assets from %s, controls: %s", cfg.Assets.Root, legend(bindings))

	a := app.New(cfg.App())
	var watchDir string
	if cfg.Assets.Watch {
		watchDir = cfg.Assets.Root
	}
	build(a, input.EbitenKeys{}, bindings, asset.LoadingState[GameState, ImageAssets]{
		FS:       os.DirFS(cfg.Assets.Root),
		WatchDir: watchDir,
	})
	a.AddRenderSystems(NewHUDSystem(bindings))
	if cfg.Debug {
		a.AddPlugins(debugui.Plugin{})
	}

	if err := a.Run(); err != nil {
		log.Fatalf("%v", err)
	}
}
