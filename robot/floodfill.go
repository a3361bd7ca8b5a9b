package robot

import (
	"context"
	"fmt"
	"log"

	"github.com/beka-birhanu/mazebot/config"
	"github.com/beka-birhanu/mazebot/nav"
)

// Leg is the target a FloodFill run is currently heading for.
type Leg int

const (
	LegToCenter Leg = iota
	LegToStart
)

func (l Leg) String() string {
	if l == LegToStart {
		return "TO_START"
	}
	return "TO_CENTER"
}

// FloodFill heads for the maze center without a map. After every move it floods the grid from the active
// target, treating every pair not proven blocked as open, and steps to the strictly closest neighbour.
// On arrival it swaps center and start and keeps going: the run only ends when the caller stops stepping.
//
// A corner start does not need a trusted facing; the first step calibrates it (see calibrate).
type FloodFill struct {
	bot             Robot
	logger          *log.Logger
	skipCalibration bool

	cfg        Config
	center     nav.Cell
	pilot      *Pilot
	walls      *nav.WallSet
	open       *nav.Graph
	field      *nav.FloodField
	calibrated bool
	leg        Leg
	laps       int
	failure    error
	ready      bool
}

// NewFloodFill creates the strategy for the given robot. Setup must be called before Step.
func NewFloodFill(bot Robot, opts *Options) *FloodFill {
	f := &FloodFill{
		bot:    bot,
		logger: opts.logger(),
	}
	if opts != nil {
		f.skipCalibration = opts.SkipCalibration
	}
	return f
}

// Setup resets all state for a fresh run. Without SkipCalibration the start must be a grid corner.
func (f *FloodFill) Setup(cfg Config) error {
	f.ready = false
	if err := cfg.Validate(); err != nil {
		return err
	}
	if !f.skipCalibration {
		if _, ok := inwardFacing(cfg.Start, cfg.GridSide); !ok {
			return fmt.Errorf("%w: calibration needs a corner start on a grid of side 2 or more, got %v", ErrInvalidConfig, cfg.Start)
		}
	}

	f.cfg = cfg
	f.center = nav.Cell{X: cfg.GridSide / 2, Y: cfg.GridSide / 2}
	f.pilot = newPilot(f.bot, cfg)
	f.walls = nav.NewWallSet(cfg.GridSide)
	f.open = nav.NewGraph()
	f.field = nav.NewFloodField(cfg.GridSide)
	f.calibrated = f.skipCalibration
	f.leg = LegToCenter
	f.laps = 0
	f.failure = nil
	f.ready = true
	return nil
}

// Step calibrates on the first call, then performs one sense, plan and move cycle.
// It never reports StatusStop on its own.
func (f *FloodFill) Step(ctx context.Context, frame Frame) (Status, error) {
	if !f.ready {
		return StatusFailed, ErrNotSetup
	}
	if f.failure != nil {
		return statusOf(f.failure, false)
	}
	if err := f.pilot.checkpoint(ctx); err != nil {
		return f.fail(err)
	}

	var err error
	if !f.calibrated {
		err = f.calibrate(ctx, frame)
		if err == nil {
			f.calibrated = true
			f.logger.Printf("%s[INFO]%s calibrated facing %v at %v", config.LogInfoColor, config.LogColorReset, f.pilot.Facing(), f.pilot.Cell())
		}
	} else {
		err = f.advance(ctx, frame)
	}
	if err != nil {
		return f.fail(err)
	}
	return StatusContinue, nil
}

func (f *FloodFill) fail(err error) (Status, error) {
	f.failure = err
	status, err := statusOf(err, false)
	if err != nil {
		f.logger.Printf("%s[ERROR]%s flood fill stopped at %v on leg %v: %v", config.LogErrorColor, config.LogColorReset, f.pilot.Cell(), f.leg, err)
	}
	return status, err
}

func (f *FloodFill) advance(ctx context.Context, frame Frame) error {
	p := f.pilot
	here := p.Cell()
	if err := f.sense(); err != nil {
		return err
	}

	target := f.Target()
	if here == target {
		f.arrive()
		return nil
	}

	f.field.Compute(target, f.walls)
	next, ok := f.field.NextHop(here, f.walls, p.Priority())
	if !ok {
		return fmt.Errorf("%w: %v is walled off from %v", nav.ErrPathNotFound, here, target)
	}

	// The rear is never sensed directly, so look before backing into it.
	if next == here.Step(p.Facing().Behind()) && !f.open.HasEdge(here, next) {
		if err := p.TurnAround(ctx, frame); err != nil {
			return err
		}
		if err := f.record(here, p.Facing(), p.WallFront()); err != nil {
			return err
		}
		if f.walls.Blocked(here, next) {
			return nil
		}
	}

	if err := p.GoTo(ctx, frame, next); err != nil {
		return err
	}
	if p.Cell() == target {
		f.arrive()
	}
	return nil
}

func (f *FloodFill) sense() error {
	p := f.pilot
	here, facing := p.Cell(), p.Facing()
	if err := f.record(here, facing, p.WallFront()); err != nil {
		return err
	}
	if err := f.record(here, facing.Left(), p.WallLeft()); err != nil {
		return err
	}
	return f.record(here, facing.Right(), p.WallRight())
}

// record stores one sensed side both as an opening or a wall and rejects readings that flip earlier ones.
func (f *FloodFill) record(here nav.Cell, d nav.Direction, wall bool) error {
	n := here.Step(d)
	if !n.InBounds(f.cfg.GridSide) {
		return nil
	}
	if wall {
		if f.open.HasEdge(here, n) {
			return fmt.Errorf("%w: wall sensed between %v and %v after an opening", ErrSensorInconsistency, here, n)
		}
		f.walls.Add(here, n)
		return nil
	}
	if f.walls.Blocked(here, n) {
		return fmt.Errorf("%w: opening sensed between %v and %v after a wall", ErrSensorInconsistency, here, n)
	}
	f.open.AddEdge(here, n)
	return nil
}

func (f *FloodFill) arrive() {
	f.laps++
	if f.leg == LegToCenter {
		f.leg = LegToStart
	} else {
		f.leg = LegToCenter
	}
	f.logger.Printf("%s[INFO]%s lap %d done at %v, heading %v", config.LogInfoColor, config.LogColorReset, f.laps, f.pilot.Cell(), f.leg)
}

// Target returns the cell the active leg heads for.
func (f *FloodFill) Target() nav.Cell {
	if f.leg == LegToStart {
		return f.cfg.Start
	}
	return f.center
}

// Leg returns the active leg.
func (f *FloodFill) Leg() Leg {
	return f.leg
}

// Laps counts completed legs.
func (f *FloodFill) Laps() int {
	return f.laps
}

// Calibrated reports whether the facing is known.
func (f *FloodFill) Calibrated() bool {
	return f.calibrated
}

// Walls returns the walls sensed so far. It must not be modified.
func (f *FloodFill) Walls() *nav.WallSet {
	return f.walls
}

// Openings returns the openings sensed so far. It must not be modified.
func (f *FloodFill) Openings() *nav.Graph {
	return f.open
}

// Field returns the distance field of the last plan.
func (f *FloodFill) Field() *nav.FloodField {
	return f.field
}

// Pose returns where the robot believes it is and which way it faces.
func (f *FloodFill) Pose() (nav.Cell, nav.Direction) {
	return f.pilot.Cell(), f.pilot.Facing()
}
