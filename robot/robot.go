/*
Package robot drives a maze-solving robot one bounded step at a time.

The robot itself is an external collaborator seen only through `Sensor` and `Actuator`. A strategy owns
all knowledge gathered during one run (graph, visited cells, backtrack stack, wall set) and is driven by
an outer loop that calls `Setup` once and then `Step` until the returned `Status` is no longer
`StatusContinue`.

Every physical sub-move (a turn or a forward step) is followed by a call to the loop's `Frame`, which
redraws the scene and reports whether the run should go on. A refused frame or a cancelled context stops
the step right there: no further actuation is issued and the strategy reports `StatusCancelled` from then on.

Strategies:
  - DepthFirstSearch explores every reachable cell, discovering the target by its ground marker, then
    drives the shortest path from the start cell to the target.
  - FloodFill knows the target (the maze center) up front and re-plans after every move, shuttling between
    center and start for as long as it is stepped.
  - RightHandRule and Manual are simple reactive controllers.
*/
package robot

import (
	"errors"
	"fmt"
	"io"
	"log"

	"github.com/beka-birhanu/mazebot/nav"
)

var (
	// ErrUnknownTarget is returned when exploration ends without ever standing on the ground marker.
	ErrUnknownTarget = errors.New("no target found")
	// ErrSensorInconsistency is returned when a reading contradicts what was sensed earlier for the same cell pair.
	ErrSensorInconsistency = errors.New("sensor reading contradicts recorded maze")
	// ErrCalibrationFailed is returned when the facing direction could not be worked out at startup.
	ErrCalibrationFailed = errors.New("direction calibration failed")
	// ErrInvalidConfig is returned by Setup for an unusable configuration.
	ErrInvalidConfig = errors.New("invalid robot configuration")
	// ErrNotSetup is returned by Step before Setup succeeded.
	ErrNotSetup = errors.New("strategy is not set up")
	// ErrNotAdjacent is returned when asked to drive to a cell that is not next to the robot.
	ErrNotAdjacent = errors.New("cell is not adjacent")

	// errAborted is the internal signal that the frame or context asked to stop.
	errAborted = errors.New("aborted")
)

// Sensor reports what the robot perceives from its current cell, relative to its facing.
type Sensor interface {
	FrontDistance() float64
	LeftDistance() float64
	RightDistance() float64
	// OnGroundMarker reports whether the floor under the robot carries the target marking.
	OnGroundMarker() bool
}

// Actuator moves the robot. Actuations always succeed.
type Actuator interface {
	MoveForward()
	TurnRight()
	TurnLeft()
}

// Robot is the full capability set a strategy drives.
type Robot interface {
	Sensor
	Actuator
}

// Frame is called after every physical sub-move. Refresh returns false to abort the run.
type Frame interface {
	Refresh() bool
}

// FrameFunc adapts a function to Frame.
type FrameFunc func() bool

// Refresh calls f.
func (f FrameFunc) Refresh() bool {
	return f()
}

// Status is what a step tells the outer loop.
type Status int

const (
	StatusContinue Status = iota
	StatusStop
	StatusCancelled
	StatusUnknownTarget
	StatusPathNotFound
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusContinue:
		return "CONTINUE"
	case StatusStop:
		return "STOP"
	case StatusCancelled:
		return "CANCELLED"
	case StatusUnknownTarget:
		return "UNKNOWN_TARGET"
	case StatusPathNotFound:
		return "PATH_NOT_FOUND"
	case StatusFailed:
		return "FAILED"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports whether the loop should stop stepping.
func (s Status) Terminal() bool {
	return s != StatusContinue
}

// Config is the per-run configuration handed to Setup.
type Config struct {
	GridSide    int           // Cells per side of the square maze
	Start       nav.Cell      // Cell the robot starts on
	StartFacing nav.Direction // Heading the robot starts with
	CellSize    float64       // Sensor readings below this mean a wall in the current cell
}

// Validate checks the configuration against the grid.
func (c Config) Validate() error {
	if c.GridSide <= 0 {
		return fmt.Errorf("%w: grid side must be positive, got %d", ErrInvalidConfig, c.GridSide)
	}
	if c.CellSize <= 0 {
		return fmt.Errorf("%w: cell size must be positive, got %v", ErrInvalidConfig, c.CellSize)
	}
	if !c.Start.InBounds(c.GridSide) {
		return fmt.Errorf("%w: start %v is outside a %dx%d grid", ErrInvalidConfig, c.Start, c.GridSide, c.GridSide)
	}
	if !c.StartFacing.Valid() {
		return fmt.Errorf("%w: bad start facing %v", ErrInvalidConfig, c.StartFacing)
	}
	return nil
}

// Options tune a strategy. A nil *Options uses the defaults.
type Options struct {
	Logger *log.Logger
	// SkipCalibration makes FloodFill trust Config.StartFacing instead of calibrating at startup.
	SkipCalibration bool
}

func (o *Options) logger() *log.Logger {
	if o == nil || o.Logger == nil {
		return log.New(io.Discard, "", 0)
	}
	return o.Logger
}

// statusOf maps a step result to the status the loop sees. Cancellation is a status, not an error.
func statusOf(err error, done bool) (Status, error) {
	switch {
	case err == nil && done:
		return StatusStop, nil
	case err == nil:
		return StatusContinue, nil
	case errors.Is(err, errAborted):
		return StatusCancelled, nil
	case errors.Is(err, ErrUnknownTarget):
		return StatusUnknownTarget, err
	case errors.Is(err, nav.ErrPathNotFound):
		return StatusPathNotFound, err
	default:
		return StatusFailed, err
	}
}
