package robot

import (
	"context"
	"fmt"

	"github.com/beka-birhanu/mazebot/nav"
)

// inwardFacing returns, for a corner cell, the inward heading whose right-hand side is the other inward
// heading:
//
//	(0,0) EAST    (side-1,0) SOUTH
//	(0,side-1) NORTH    (side-1,side-1) WEST
//
// ok is false for non-corner cells and for grids smaller than 2x2.
func inwardFacing(c nav.Cell, side int) (nav.Direction, bool) {
	if side < 2 {
		return nav.North, false
	}
	last := side - 1
	switch c {
	case nav.Cell{X: 0, Y: 0}:
		return nav.East, true
	case nav.Cell{X: last, Y: 0}:
		return nav.South, true
	case nav.Cell{X: last, Y: last}:
		return nav.West, true
	case nav.Cell{X: 0, Y: last}:
		return nav.North, true
	}
	return nav.North, false
}

// calibrate works out the true facing from a corner start with a fixed sequence of checks and moves.
//
// Both outward sides of a corner are boundary walls, so once the robot faces an opening it faces one of
// the two inward headings. It assumes the one returned by inwardFacing and walks the corridor ahead until
// a side opens. Along the assumed heading the left side runs against the boundary, so an opening on the
// right confirms the guess and an opening on the left means the robot really faces the other inward
// heading. It then walks back to the start.
func (f *FloodFill) calibrate(ctx context.Context, frame Frame) error {
	p := f.pilot
	start := f.cfg.Start
	assumed, _ := inwardFacing(start, f.cfg.GridSide)

	var err error
	switch {
	case !p.WallFront():
	case !p.WallRight():
		err = p.TurnRight(ctx, frame)
	case !p.WallLeft():
		err = p.TurnLeft(ctx, frame)
	default:
		err = p.TurnAround(ctx, frame)
		if err == nil && p.WallFront() {
			return fmt.Errorf("%w: start %v is enclosed", ErrCalibrationFailed, start)
		}
	}
	if err != nil {
		return err
	}
	p.facing = assumed

	limit := f.cfg.GridSide - 1
	moves := 0
	var correct bool
	for {
		rightOpen, leftOpen := !p.WallRight(), !p.WallLeft()
		if rightOpen || leftOpen {
			correct = rightOpen
			break
		}
		if moves == limit || p.WallFront() {
			return fmt.Errorf("%w: corridor from %v ends after %d moves without a side opening", ErrCalibrationFailed, start, moves)
		}
		if err := p.Forward(ctx, frame); err != nil {
			return err
		}
		moves++
	}

	if moves > 0 {
		if err := p.TurnAround(ctx, frame); err != nil {
			return err
		}
		for i := 0; i < moves; i++ {
			if err := p.Forward(ctx, frame); err != nil {
				return err
			}
		}
		if err := p.TurnAround(ctx, frame); err != nil {
			return err
		}
	}

	p.cell = start
	p.facing = assumed
	if !correct {
		p.facing = assumed.Right()
	}
	return nil
}
