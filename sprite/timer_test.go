package sprite_test

import (
	"testing"
	"time"

	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/sprite"
	"github.com/stretchr/testify/assert"
)

func TestRepeatingTimer(t *testing.T) {
	timer := sprite.NewTimer(100*time.Millisecond, sprite.Repeating)

	timer.Tick(50 * time.Millisecond)
	assert.False(t, timer.Finished())
	assert.False(t, timer.JustFinished())
	assert.InDelta(t, 0.5, timer.Fraction(), 1e-9)

	timer.Tick(50 * time.Millisecond)
	assert.True(t, timer.Finished())
	assert.True(t, timer.JustFinished())
	assert.Equal(t, 1, timer.TimesFinishedThisTick())
	assert.Equal(t, time.Duration(0), timer.Elapsed())

	timer.Tick(50 * time.Millisecond)
	assert.False(t, timer.Finished())

	timer.Tick(300 * time.Millisecond)
	assert.Equal(t, 3, timer.TimesFinishedThisTick())
	assert.Equal(t, 50*time.Millisecond, timer.Elapsed())
}

func TestOnceTimer(t *testing.T) {
	timer := sprite.NewTimer(100*time.Millisecond, sprite.Once)

	timer.Tick(150 * time.Millisecond)
	assert.True(t, timer.Finished())
	assert.True(t, timer.JustFinished())
	assert.Equal(t, 100*time.Millisecond, timer.Elapsed())

	timer.Tick(150 * time.Millisecond)
	assert.True(t, timer.Finished())
	assert.False(t, timer.JustFinished())

	timer.Reset()
	assert.False(t, timer.Finished())
	assert.Equal(t, time.Duration(0), timer.Elapsed())
}

func TestPausedTimer(t *testing.T) {
	timer := sprite.NewTimer(100*time.Millisecond, sprite.Repeating)
	timer.Tick(100 * time.Millisecond)
	assert.True(t, timer.JustFinished())

	timer.Paused = true
	timer.Tick(time.Second)
	assert.False(t, timer.Finished())
	assert.False(t, timer.JustFinished())
	assert.Equal(t, time.Duration(0), timer.Elapsed())
}

func TestZeroDurationTimer(t *testing.T) {
	timer := sprite.NewTimer(0, sprite.Repeating)
	for range 3 {
		timer.Tick(time.Millisecond)
		assert.True(t, timer.JustFinished())
		assert.Equal(t, 1, timer.TimesFinishedThisTick())
	}
	assert.Equal(t, float64(1), timer.Fraction())
}

func TestAnimationTimerAtTickRate(t *testing.T) {
	anim := sprite.NewAnimationTimer(100 * time.Millisecond)
	frame := &ecs.UpdateFrame{DeltaTime: 1.0 / 60}

	wraps := 0
	for range 600 {
		anim.Tick(frame.Delta())
		if anim.JustFinished() {
			wraps++
		}
	}
	// ten seconds at 10 frames per second, give or take rounding of dt
	assert.InDelta(t, 100, wraps, 1)
	assert.Equal(t, sprite.Repeating, anim.Mode)
	assert.Equal(t, "Repeating", anim.Mode.String())
}
