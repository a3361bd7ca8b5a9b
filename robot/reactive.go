package robot

import (
	"context"
	"fmt"
	"log"

	"github.com/beka-birhanu/mazebot/config"
	"github.com/beka-birhanu/mazebot/nav"
)

// RightHandRule follows the wall on its right until it stands on the ground marker.
// Each step it goes right if it can, else straight, else left, else back the way it came.
type RightHandRule struct {
	bot    Robot
	logger *log.Logger

	pilot   *Pilot
	failure error
	ready   bool
}

// NewRightHandRule creates the strategy for the given robot.
func NewRightHandRule(bot Robot, opts *Options) *RightHandRule {
	return &RightHandRule{bot: bot, logger: opts.logger()}
}

// Setup resets the pose for a fresh run.
func (r *RightHandRule) Setup(cfg Config) error {
	r.ready = false
	if err := cfg.Validate(); err != nil {
		return err
	}
	r.pilot = newPilot(r.bot, cfg)
	r.failure = nil
	r.ready = true
	return nil
}

// Step makes one move, or reports StatusStop on the marker.
func (r *RightHandRule) Step(ctx context.Context, frame Frame) (Status, error) {
	if !r.ready {
		return StatusFailed, ErrNotSetup
	}
	if r.failure != nil {
		return statusOf(r.failure, false)
	}
	p := r.pilot
	if err := p.checkpoint(ctx); err != nil {
		r.failure = err
		return statusOf(err, false)
	}
	if p.OnMarker() {
		r.logger.Printf("%s[INFO]%s ground marker reached at %v", config.LogInfoColor, config.LogColorReset, p.Cell())
		return StatusStop, nil
	}

	var err error
	switch {
	case !p.WallRight():
		err = p.TurnRight(ctx, frame)
	case !p.WallFront():
	case !p.WallLeft():
		err = p.TurnLeft(ctx, frame)
	default:
		err = p.TurnAround(ctx, frame)
		if err == nil && p.WallFront() {
			err = fmt.Errorf("%w: %v is enclosed", nav.ErrPathNotFound, p.Cell())
		}
	}
	if err == nil {
		err = p.Forward(ctx, frame)
	}
	if err != nil {
		r.failure = err
		return statusOf(err, false)
	}
	return StatusContinue, nil
}

// Pose returns where the robot believes it is and which way it faces.
func (r *RightHandRule) Pose() (nav.Cell, nav.Direction) {
	return r.pilot.Cell(), r.pilot.Facing()
}

// KeyEscape stops a Manual run like 'q'.
const KeyEscape rune = 27

// KeySource yields the next key pressed by the operator.
type KeySource interface {
	NextKey() rune
}

// KeyFunc adapts a function to KeySource.
type KeyFunc func() rune

// NextKey calls f.
func (f KeyFunc) NextKey() rune {
	return f()
}

// Manual drives the robot from the keyboard: w forward, a left, d right, s turn around, q or Esc stop.
// Forward is refused while a wall is sensed ahead. Other keys are ignored.
type Manual struct {
	bot    Robot
	keys   KeySource
	logger *log.Logger

	pilot   *Pilot
	failure error
	ready   bool
}

// NewManual creates a key driven strategy.
func NewManual(bot Robot, keys KeySource, opts *Options) *Manual {
	return &Manual{bot: bot, keys: keys, logger: opts.logger()}
}

// Setup resets the pose for a fresh run.
func (m *Manual) Setup(cfg Config) error {
	m.ready = false
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.pilot = newPilot(m.bot, cfg)
	m.failure = nil
	m.ready = true
	return nil
}

// Step reads one key and acts on it.
func (m *Manual) Step(ctx context.Context, frame Frame) (Status, error) {
	if !m.ready {
		return StatusFailed, ErrNotSetup
	}
	if m.failure != nil {
		return statusOf(m.failure, false)
	}
	p := m.pilot
	if err := p.checkpoint(ctx); err != nil {
		m.failure = err
		return statusOf(err, false)
	}

	var err error
	switch key := m.keys.NextKey(); key {
	case 'w', 'W':
		if p.WallFront() {
			m.logger.Printf("%s[WARN]%s wall ahead of %v facing %v", config.LogWarnColor, config.LogColorReset, p.Cell(), p.Facing())
			break
		}
		err = p.Forward(ctx, frame)
	case 'a', 'A':
		err = p.TurnLeft(ctx, frame)
	case 'd', 'D':
		err = p.TurnRight(ctx, frame)
	case 's', 'S':
		err = p.TurnAround(ctx, frame)
	case 'q', 'Q', KeyEscape:
		return StatusStop, nil
	}
	if err != nil {
		m.failure = err
		return statusOf(err, false)
	}
	return StatusContinue, nil
}

// Pose returns where the robot believes it is and which way it faces.
func (m *Manual) Pose() (nav.Cell, nav.Direction) {
	return m.pilot.Cell(), m.pilot.Facing()
}
