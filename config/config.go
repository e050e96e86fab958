// Package config reads demo settings from an optional YAML file and command
// line flags. Flags win over the file, the file wins over defaults.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/plus3/sheetdemo/app"
	"gopkg.in/yaml.v3"
)

type Window struct {
	Title  string `yaml:"title"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

type Assets struct {
	// Root is the directory sheet paths are relative to.
	Root string `yaml:"root"`
	// Watch reloads sheets when they change on disk.
	Watch bool `yaml:"watch"`
}

type Config struct {
	Window Window `yaml:"window"`
	Assets Assets `yaml:"assets"`
	Debug  bool   `yaml:"debug"`

	// Bindings maps action names to key names, e.g. {"charge": ["O"]}.
	// Actions left out keep their built-in keys.
	Bindings map[string][]string `yaml:"bindings"`
}

func Default(title string) Config {
	return Config{
		Window: Window{Title: title, Width: 1280, Height: 720},
		Assets: Assets{Root: "assets"},
	}
}

// App returns the window settings for app.New.
func (c Config) App() app.Config {
	return app.Config{
		Title:  c.Window.Title,
		Width:  c.Window.Width,
		Height: c.Window.Height,
	}
}

// Load overlays the YAML file at path onto cfg. Keys absent from the file
// keep their current value.
func Load(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

// Parse builds the configuration of program name from args.
func Parse(name string, args []string, defaults Config) (Config, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	var (
		path   = fs.String("config", "", "YAML config `file`")
		title  = fs.String("title", defaults.Window.Title, "window title")
		width  = fs.Int("width", defaults.Window.Width, "window width")
		height = fs.Int("height", defaults.Window.Height, "window height")
		root   = fs.String("assets", defaults.Assets.Root, "asset root `dir`")
		watch  = fs.Bool("watch", defaults.Assets.Watch, "reload sheets when they change on disk")
		debug  = fs.Bool("debug", defaults.Debug, "show the Dear ImGui debug overlay")
	)
	if err := fs.Parse(args); err != nil {
		return defaults, err
	}

	cfg := defaults
	if *path != "" {
		if err := Load(*path, &cfg); err != nil {
			return defaults, err
		}
		log.Printf("config: loaded %s", *path)
	}

	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "title":
			cfg.Window.Title = *title
		case "width":
			cfg.Window.Width = *width
		case "height":
			cfg.Window.Height = *height
		case "assets":
			cfg.Assets.Root = *root
		case "watch":
			cfg.Assets.Watch = *watch
		case "debug":
			cfg.Debug = *debug
		}
	})

	if err := cfg.Validate(); err != nil {
		return defaults, err
	}
	return cfg, nil
}

var errEmptyRoot = errors.New("config: asset root is empty")

func (c Config) Validate() error {
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("config: window size %dx%d must be positive", c.Window.Width, c.Window.Height)
	}
	if c.Assets.Root == "" {
		return errEmptyRoot
	}
	return nil
}
