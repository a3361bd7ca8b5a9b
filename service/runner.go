package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/beka-birhanu/mazebot/config"
	"github.com/beka-birhanu/mazebot/robot"
	"github.com/beka-birhanu/mazebot/service/i"
	"github.com/google/uuid"
)

const (
	defaultMaxSteps = 10000
)

var (
	ErrStepLimit = errors.New("step limit reached")
)

type Options struct {
	Frame    robot.Frame // Called after every physical sub-move; nil never aborts
	Logger   *log.Logger
	MaxSteps int
}

// Report summarizes one run.
type Report struct {
	RunID   uuid.UUID
	Steps   int
	Status  robot.Status
	Elapsed time.Duration
}

// Runner is the simulation loop: it sets a strategy up once and steps it until it is done.
type Runner struct {
	strategy i.Strategy
	frame    robot.Frame
	logger   *log.Logger
	maxSteps int
}

func NewRunner(strategy i.Strategy, opts *Options) *Runner {
	if opts == nil {
		opts = &Options{}
	}

	r := &Runner{
		strategy: strategy,
		frame:    opts.Frame,
		logger:   opts.Logger,
		maxSteps: opts.MaxSteps,
	}

	if r.frame == nil {
		r.frame = robot.FrameFunc(func() bool { return true })
	}

	if r.logger == nil {
		r.logger = log.New(io.Discard, "", 0)
	}

	if r.maxSteps <= 0 {
		r.maxSteps = defaultMaxSteps
	}

	return r
}

// Run drives one maze-solving run. Cancelling ctx ends the run with StatusCancelled and no error.
// Running out of steps returns ErrStepLimit with the report's status still StatusContinue.
func (r *Runner) Run(ctx context.Context, cfg robot.Config) (Report, error) {
	report := Report{RunID: uuid.New(), Status: robot.StatusContinue}
	started := time.Now()

	r.logger.Printf("%s[INFO]%s run %s: %dx%d grid, start %v facing %v", config.LogInfoColor, config.LogColorReset, report.RunID, cfg.GridSide, cfg.GridSide, cfg.Start, cfg.StartFacing)
	if err := r.strategy.Setup(cfg); err != nil {
		report.Status = robot.StatusFailed
		r.logger.Printf("%s[ERROR]%s run %s: setup: %v", config.LogErrorColor, config.LogColorReset, report.RunID, err)
		return r.finish(&report, started), fmt.Errorf("setting up run %s: %w", report.RunID, err)
	}

	for {
		if ctx.Err() != nil {
			report.Status = robot.StatusCancelled
			r.logger.Printf("%s[INFO]%s run %s cancelled after %d steps", config.LogInfoColor, config.LogColorReset, report.RunID, report.Steps)
			return r.finish(&report, started), nil
		}

		if report.Steps >= r.maxSteps {
			r.logger.Printf("%s[WARN]%s run %s: no result after %d steps", config.LogWarnColor, config.LogColorReset, report.RunID, report.Steps)
			return r.finish(&report, started), fmt.Errorf("run %s: %w after %d steps", report.RunID, ErrStepLimit, report.Steps)
		}

		status, err := r.strategy.Step(ctx, r.frame)
		report.Steps++
		report.Status = status
		if err != nil {
			r.logger.Printf("%s[ERROR]%s run %s: step %d: %s: %v", config.LogErrorColor, config.LogColorReset, report.RunID, report.Steps, status, err)
			return r.finish(&report, started), err
		}

		if status.Terminal() {
			r.logger.Printf("%s[INFO]%s run %s finished with %s after %d steps", config.LogInfoColor, config.LogColorReset, report.RunID, status, report.Steps)
			return r.finish(&report, started), nil
		}
	}
}

func (r *Runner) finish(report *Report, started time.Time) Report {
	report.Elapsed = time.Since(started)
	return *report
}
