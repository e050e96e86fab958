package main

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/plus3/sheetdemo/app"
	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/sprite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatsFinalize(t *testing.T) {
	var s Stats
	s.Finalize()
	assert.Zero(t, s.Avg)

	s.Samples = []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond}
	s.Finalize()
	assert.Equal(t, time.Millisecond, s.Min)
	assert.Equal(t, 3*time.Millisecond, s.Max)
	assert.Equal(t, 2*time.Millisecond, s.Avg)
}

func TestAnimateSystemCatchesUp(t *testing.T) {
	a := app.New(app.Config{})
	counter := build(a, options{Sprites: 0, Atlases: 1, Seed: 1})

	atlas := syntheticAtlases(1)[0]
	id := a.Storage.Spawn(
		sprite.At(0, 0),
		sprite.AtlasSprite{Atlas: atlas, Index: 13},
		sprite.NewAnimationTimer(100*time.Millisecond),
	)

	// a 250ms hitch owes two frames
	require.NoError(t, a.Step(0.25))
	assert.Equal(t, 0, ecs.ReadComponent[sprite.AtlasSprite](a.Storage, id).Index)
	assert.EqualValues(t, 2, counter.Frames)
}

func TestDriftWraps(t *testing.T) {
	assert.Equal(t, -999.0, wrap(1001))
	assert.Equal(t, 999.0, wrap(-1001))
	assert.Equal(t, 10.0, wrap(10))
}

func TestRunReport(t *testing.T) {
	report, err := run(context.Background(), options{
		Duration:       50 * time.Millisecond,
		Sprites:        200,
		Atlases:        3,
		FixedStep:      true,
		Seed:           7,
		GCPauseMetrics: true,
	})
	require.NoError(t, err)

	assert.Positive(t, report.TotalUpdates)
	assert.Len(t, report.UpdateTime.Samples, int(report.TotalUpdates))
	assert.Equal(t, 200, report.Storage.TotalEntityCount)
	assert.Equal(t, 2, report.Storage.ArchetypeCount)
	require.Len(t, report.Systems, 2)
	assert.Equal(t, "AnimateSystem", report.Systems[0].Name)
	assert.Equal(t, report.TotalUpdates, report.Systems[0].ExecutionCount)

	var buf bytes.Buffer
	require.NoError(t, report.Generate(&buf))
	out := buf.String()
	assert.Contains(t, out, "**Sprites:** 200")
	assert.Contains(t, out, "DriftSystem")
	assert.Contains(t, out, "GC Pause Durations")
}

func TestRunRejectsBadOptions(t *testing.T) {
	_, err := run(context.Background(), options{Duration: time.Millisecond, Atlases: 0})
	assert.Error(t, err)
}
