package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"testing"

	"github.com/beka-birhanu/mazebot/maze"
	"github.com/beka-birhanu/mazebot/nav"
	"github.com/beka-birhanu/mazebot/robot"
	"github.com/beka-birhanu/mazebot/service/i"
	"github.com/beka-birhanu/mazebot/sim"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	_ i.Strategy = (*robot.DepthFirstSearch)(nil)
	_ i.Strategy = (*robot.FloodFill)(nil)
	_ i.Strategy = (*robot.RightHandRule)(nil)
	_ i.Strategy = (*robot.Manual)(nil)
)

// scripted returns its statuses in order, then keeps returning StatusContinue.
type scripted struct {
	setupErr error
	statuses []robot.Status
	errs     []error
	steps    int
	onStep   func()
}

func (s *scripted) Setup(robot.Config) error {
	return s.setupErr
}

func (s *scripted) Step(context.Context, robot.Frame) (robot.Status, error) {
	s.steps++
	if s.onStep != nil {
		s.onStep()
	}
	if s.steps > len(s.statuses) {
		return robot.StatusContinue, nil
	}
	var err error
	if s.steps <= len(s.errs) {
		err = s.errs[s.steps-1]
	}
	return s.statuses[s.steps-1], err
}

var cfg = robot.Config{GridSide: 3, Start: nav.Cell{}, StartFacing: nav.East, CellSize: 10}

func TestRunner(t *testing.T) {
	t.Run("steps until terminal", func(t *testing.T) {
		s := &scripted{statuses: []robot.Status{robot.StatusContinue, robot.StatusContinue, robot.StatusStop}}
		report, err := NewRunner(s, nil).Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.Equal(t, 3, report.Steps)
		assert.Equal(t, robot.StatusStop, report.Status)
		assert.NotEqual(t, uuid.Nil, report.RunID)
	})

	t.Run("step error is returned", func(t *testing.T) {
		boom := errors.New("boom")
		s := &scripted{
			statuses: []robot.Status{robot.StatusContinue, robot.StatusFailed},
			errs:     []error{nil, boom},
		}
		report, err := NewRunner(s, nil).Run(context.Background(), cfg)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, robot.StatusFailed, report.Status)
		assert.Equal(t, 2, report.Steps)
	})

	t.Run("setup error", func(t *testing.T) {
		s := &scripted{setupErr: robot.ErrInvalidConfig}
		report, err := NewRunner(s, nil).Run(context.Background(), cfg)
		assert.ErrorIs(t, err, robot.ErrInvalidConfig)
		assert.Equal(t, robot.StatusFailed, report.Status)
		assert.Zero(t, s.steps)
	})

	t.Run("step limit", func(t *testing.T) {
		s := &scripted{}
		report, err := NewRunner(s, &Options{MaxSteps: 5}).Run(context.Background(), cfg)
		assert.ErrorIs(t, err, ErrStepLimit)
		assert.Equal(t, robot.StatusContinue, report.Status)
		assert.Equal(t, 5, report.Steps)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		s := &scripted{}
		s.onStep = func() {
			if s.steps == 2 {
				cancel()
			}
		}
		report, err := NewRunner(s, nil).Run(ctx, cfg)
		assert.NoError(t, err)
		assert.Equal(t, robot.StatusCancelled, report.Status)
		assert.Equal(t, 2, report.Steps)
	})

	t.Run("logs with colored levels", func(t *testing.T) {
		var buf bytes.Buffer
		s := &scripted{statuses: []robot.Status{robot.StatusStop}}
		_, err := NewRunner(s, &Options{Logger: log.New(&buf, "[RUNNER] ", 0)}).Run(context.Background(), cfg)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), "[RUNNER] ")
		assert.Contains(t, buf.String(), "[INFO]")
		assert.Contains(t, buf.String(), "finished with STOP after 1 steps")
	})
}

func TestRunnerDrivesDepthFirstSearch(t *testing.T) {
	m, err := maze.New(6, 6, 8)
	require.NoError(t, err)
	m.MarkCenter()
	bot := sim.New(m, nav.Cell{}, nav.East, 10)

	frames := 0
	runner := NewRunner(robot.NewDepthFirstSearch(bot, nil), &Options{
		Frame: robot.FrameFunc(func() bool {
			frames++
			return true
		}),
	})
	report, err := runner.Run(context.Background(), robot.Config{GridSide: 6, StartFacing: nav.East, CellSize: 10})
	require.NoError(t, err)
	assert.Equal(t, robot.StatusStop, report.Status)
	assert.Equal(t, bot.Moves()+bot.Turns(), frames, "one refresh per sub-move")

	cell, _ := bot.Pose()
	assert.Equal(t, nav.Cell{X: 3, Y: 3}, cell)
}
