package main

import (
	"github.com/plus3/sheetdemo/ecs"
	"github.com/plus3/sheetdemo/input"
	"github.com/plus3/sheetdemo/sprite"
)

const (
	idleFrames   = 8
	chargeFrames = 7
	moveFrames   = 7

	chargeRow = 4
	moveRow   = 12
)

// MovementSystem walks the player one unit per frame. Right wins when both
// directions are held.
type MovementSystem struct {
	Players ecs.Query[struct {
		*sprite.Transform
		*input.ActionState[Action]
		*Player
	}]
}

func (s *MovementSystem) Execute(frame *ecs.UpdateFrame) {
	for p := range s.Players.Values() {
		switch {
		case p.ActionState.Pressed(Right):
			p.Transform.Translation.X++
		case p.ActionState.Pressed(Left):
			p.Transform.Translation.X--
		}
	}
}

// stepCounters hold the animation position of each clip. All three advance
// on every tick whichever clip is showing.
type stepCounters struct {
	idle, charge, move int
}

func (c *stepCounters) advance() {
	c.idle = (c.idle + 1) % idleFrames
	c.charge = (c.charge + 1) % chargeFrames
	c.move = (c.move + 1) % moveFrames
}

// frame picks the sheet index and mirroring for the held actions. Charge
// wins over walking; idle plays forward then back.
func (c stepCounters) frame(actions *input.ActionState[Action]) (index int, flipX bool) {
	switch {
	case actions.Pressed(Charge):
		return chargeRow + c.charge, false
	case actions.Pressed(Right):
		return moveRow + c.move, false
	case actions.Pressed(Left):
		return moveRow + c.move, true
	case c.idle >= idleFrames/2:
		return 3 - (c.idle - idleFrames/2), false
	default:
		return c.idle, false
	}
}

// AnimateSystem steps the player's clip each time its timer fires. The
// counters belong to the system, not to an entity.
type AnimateSystem struct {
	Players ecs.Query[struct {
		*sprite.AtlasSprite
		*sprite.AnimationTimer
		*input.ActionState[Action]
		*Player
	}]

	counters stepCounters
}

func (s *AnimateSystem) Execute(frame *ecs.UpdateFrame) {
	for p := range s.Players.Values() {
		p.AnimationTimer.Tick(frame.Delta())
		if !p.AnimationTimer.JustFinished() {
			continue
		}
		s.counters.advance()
		p.AtlasSprite.Index, p.AtlasSprite.FlipX = s.counters.frame(p.ActionState)
	}
}
