package config_test

import (
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/plus3/sheetdemo/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "shroomy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestParseDefaults(t *testing.T) {
	cfg, err := config.Parse("dream", nil, config.Default("dream"))
	require.NoError(t, err)
	assert.Equal(t, config.Default("dream"), cfg)

	appCfg := cfg.App()
	assert.Equal(t, "dream", appCfg.Title)
	assert.Equal(t, 1280, appCfg.Width)
	assert.Equal(t, 720, appCfg.Height)
}

func TestParseFileAndFlags(t *testing.T) {
	path := writeConfig(t, `
window:
  title: from file
  width: 640
assets:
  root: /srv/sheets
bindings:
  charge: [Space]
  right: [D, ArrowRight]
`)

	cfg, err := config.Parse("shroomy", []string{"-config", path, "-width", "800", "-debug"}, config.Default("shroomy"))
	require.NoError(t, err)

	assert.Equal(t, "from file", cfg.Window.Title)
	assert.Equal(t, 800, cfg.Window.Width, "flag wins over file")
	assert.Equal(t, 720, cfg.Window.Height, "default kept when file omits it")
	assert.Equal(t, "/srv/sheets", cfg.Assets.Root)
	assert.False(t, cfg.Assets.Watch)
	assert.True(t, cfg.Debug)
	assert.Equal(t, map[string][]string{
		"charge": {"Space"},
		"right":  {"D", "ArrowRight"},
	}, cfg.Bindings)
}

func TestParseErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.Parse("dream", []string{"-config", filepath.Join(t.TempDir(), "nope.yaml")}, config.Default("dream"))
		assert.ErrorIs(t, err, fs.ErrNotExist)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := writeConfig(t, "window: [not, a, map]")
		_, err := config.Parse("dream", []string{"-config", path}, config.Default("dream"))
		assert.ErrorContains(t, err, "config: parse")
	})

	t.Run("bad size", func(t *testing.T) {
		_, err := config.Parse("dream", []string{"-height", "0"}, config.Default("dream"))
		assert.ErrorContains(t, err, "must be positive")
	})

	t.Run("empty root", func(t *testing.T) {
		_, err := config.Parse("dream", []string{"-assets", ""}, config.Default("dream"))
		assert.ErrorContains(t, err, "asset root is empty")
	})

	t.Run("unknown flag", func(t *testing.T) {
		_, err := config.Parse("dream", []string{"-nope"}, config.Default("dream"))
		assert.Error(t, err)
	})
}
