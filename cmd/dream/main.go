// Command dream loads a 15-frame sprite sheet and cycles through it ten
// times per second, with the whole sheet shown underneath.
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
)

func main() {
	log.SetPrefix("dream: ")

	cfg, err := config.Parse("dream", os.Args[1:], config.Default("dream"))
	if errors.Is(err, flag.ErrHelp) {
		return
	}
	if err != nil {
		log.Fatalf("%v", err)
	}
	log.Printf("assets from %s", cfg.Assets.Root)

	a := app.New(cfg.App())
	var watchDir string
	if cfg.Assets.Watch {
		watchDir = cfg.Assets.Root
	}
	build(a, asset.LoadingState[GameState, ImageAssets]{
		FS:       os.DirFS(cfg.Assets.Root),
		WatchDir: watchDir,
	})
	if cfg.Debug {
		a.AddPlugins(debugui.Plugin{})
	}

	if err := a.Run(); err != nil {
		log.Fatalf("%v", err)
	}
}
