package robot

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/mazebot/nav"
)

// Pilot tracks where the robot believes it is and turns relative moves into actuations.
// After every sub-move it yields to the frame and checks the context; once either asks to stop,
// the pilot stays aborted and refuses further actuation.
type Pilot struct {
	bot     Robot
	wallAt  float64
	cell    nav.Cell
	facing  nav.Direction
	aborted bool
}

func newPilot(bot Robot, cfg Config) *Pilot {
	return &Pilot{
		bot:    bot,
		wallAt: cfg.CellSize,
		cell:   cfg.Start,
		facing: cfg.StartFacing,
	}
}

// Cell returns the cell the robot is on.
func (p *Pilot) Cell() nav.Cell {
	return p.cell
}

// Facing returns the robot's heading.
func (p *Pilot) Facing() nav.Direction {
	return p.facing
}

// WallFront reports a wall between the current cell and the one ahead.
func (p *Pilot) WallFront() bool {
	return p.bot.FrontDistance() < p.wallAt
}

// WallLeft reports a wall on the robot's left.
func (p *Pilot) WallLeft() bool {
	return p.bot.LeftDistance() < p.wallAt
}

// WallRight reports a wall on the robot's right.
func (p *Pilot) WallRight() bool {
	return p.bot.RightDistance() < p.wallAt
}

// OnMarker reports whether the robot stands on the ground marker.
func (p *Pilot) OnMarker() bool {
	return p.bot.OnGroundMarker()
}

// Priority lists headings front, left, right, back relative to the current facing.
// It is the tie-break order for every choice a strategy makes between neighbours.
func (p *Pilot) Priority() []nav.Direction {
	return []nav.Direction{p.facing, p.facing.Left(), p.facing.Right(), p.facing.Behind()}
}

// TurnRight turns 90 degrees clockwise.
func (p *Pilot) TurnRight(ctx context.Context, frame Frame) error {
	if p.aborted {
		return errAborted
	}
	p.facing = p.facing.Right()
	p.bot.TurnRight()
	return p.yield(ctx, frame)
}

// TurnLeft turns 90 degrees counter-clockwise.
func (p *Pilot) TurnLeft(ctx context.Context, frame Frame) error {
	if p.aborted {
		return errAborted
	}
	p.facing = p.facing.Left()
	p.bot.TurnLeft()
	return p.yield(ctx, frame)
}

// TurnAround turns twice to the right. Each turn is its own suspension point.
func (p *Pilot) TurnAround(ctx context.Context, frame Frame) error {
	if err := p.TurnRight(ctx, frame); err != nil {
		return err
	}
	return p.TurnRight(ctx, frame)
}

// Forward moves one cell ahead.
func (p *Pilot) Forward(ctx context.Context, frame Frame) error {
	if p.aborted {
		return errAborted
	}
	p.cell = p.cell.Step(p.facing)
	p.bot.MoveForward()
	return p.yield(ctx, frame)
}

// GoTo drives to an adjacent cell: straight ahead, after a left or right turn, or after turning around.
func (p *Pilot) GoTo(ctx context.Context, frame Frame, next nav.Cell) error {
	d, ok := p.cell.DirectionTo(next)
	if !ok {
		return fmt.Errorf("%w: %v -> %v", ErrNotAdjacent, p.cell, next)
	}

	var err error
	switch d {
	case p.facing:
	case p.facing.Left():
		err = p.TurnLeft(ctx, frame)
	case p.facing.Right():
		err = p.TurnRight(ctx, frame)
	default:
		err = p.TurnAround(ctx, frame)
	}
	if err != nil {
		return err
	}
	return p.Forward(ctx, frame)
}

// checkpoint reports errAborted if the run was already stopped or the context is done.
func (p *Pilot) checkpoint(ctx context.Context) error {
	if p.aborted {
		return errAborted
	}
	if ctx.Err() != nil {
		p.aborted = true
		return errAborted
	}
	return nil
}

func (p *Pilot) yield(ctx context.Context, frame Frame) error {
	if frame != nil && !frame.Refresh() {
		p.aborted = true
		return errAborted
	}
	return p.checkpoint(ctx)
}
