package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/beka-birhanu/mazebot/config"
	"github.com/beka-birhanu/mazebot/maze"
	"github.com/beka-birhanu/mazebot/nav"
	"github.com/beka-birhanu/mazebot/robot"
	"github.com/beka-birhanu/mazebot/service"
	"github.com/beka-birhanu/mazebot/service/i"
	"github.com/beka-birhanu/mazebot/sim"
)

// Global variables for dependencies
var (
	appLogger *log.Logger
	robotCfg  robot.Config
	world     *maze.Maze
	bot       *sim.Robot
	strategy  i.Strategy
	runner    *service.Runner
)

func newLogger(prefix, color string) *log.Logger {
	return log.New(os.Stdout, fmt.Sprintf("%s[%s]%s ", color, prefix, config.ColorReset), log.LstdFlags)
}

func initRobotConfig() {
	facing, err := nav.ParseDirection(config.Envs.StartFacing)
	if err != nil {
		appLogger.Fatalf("%s[ERROR]%s START_FACING: %v", config.LogErrorColor, config.LogColorReset, err)
	}

	robotCfg = robot.Config{
		GridSide:    config.Envs.GridSide,
		Start:       nav.Cell{X: config.Envs.StartX, Y: config.Envs.StartY},
		StartFacing: facing,
		CellSize:    config.Envs.CellSize,
	}
	if err := robotCfg.Validate(); err != nil {
		appLogger.Fatalf("%s[ERROR]%s %v", config.LogErrorColor, config.LogColorReset, err)
	}
	appLogger.Printf("%s[INFO]%s Robot config initialized", config.LogInfoColor, config.LogColorReset)
}

func initMaze() {
	seed := config.Envs.MazeSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	var err error
	world, err = maze.New(robotCfg.GridSide, robotCfg.GridSide, seed)
	if err != nil {
		appLogger.Fatalf("%s[ERROR]%s Creating maze: %v", config.LogErrorColor, config.LogColorReset, err)
	}
	world.MarkCenter()
	appLogger.Printf("%s[INFO]%s Maze generated with seed %d\n%s", config.LogInfoColor, config.LogColorReset, seed, world)
}

func initRobot() {
	bot = sim.New(world, robotCfg.Start, robotCfg.StartFacing, robotCfg.CellSize)
	appLogger.Printf("%s[INFO]%s Simulated robot placed at %v facing %v", config.LogInfoColor, config.LogColorReset, robotCfg.Start, robotCfg.StartFacing)
}

func initStrategy() {
	switch name := strings.ToLower(config.Envs.Strategy); name {
	case "dfs":
		strategy = robot.NewDepthFirstSearch(bot, &robot.Options{Logger: newLogger("DFS", config.ColorCyan)})
	case "flood":
		strategy = robot.NewFloodFill(bot, &robot.Options{
			Logger:          newLogger("FLOOD", config.ColorMagenta),
			SkipCalibration: config.Envs.SkipCalibration,
		})
	case "righthand":
		strategy = robot.NewRightHandRule(bot, &robot.Options{Logger: appLogger})
	case "manual":
		strategy = robot.NewManual(bot, stdinKeys(), &robot.Options{Logger: appLogger})
	default:
		appLogger.Fatalf("%s[ERROR]%s Unknown strategy %q, want dfs, flood, righthand or manual", config.LogErrorColor, config.LogColorReset, name)
	}
	appLogger.Printf("%s[INFO]%s Strategy %s initialized", config.LogInfoColor, config.LogColorReset, config.Envs.Strategy)
}

func initRunner() {
	delay := config.Envs.FrameDelay
	runner = service.NewRunner(strategy, &service.Options{
		Logger:   newLogger("RUNNER", config.ColorBlue),
		MaxSteps: config.Envs.MaxSteps,
		Frame: robot.FrameFunc(func() bool {
			if delay > 0 {
				time.Sleep(delay)
			}
			return true
		}),
	})
	appLogger.Printf("%s[INFO]%s Runner initialized", config.LogInfoColor, config.LogColorReset)
}

// stdinKeys reads one key per line from standard input. A closed input stops the run.
func stdinKeys() robot.KeySource {
	reader := bufio.NewReader(os.Stdin)
	return robot.KeyFunc(func() rune {
		fmt.Print("key (w/a/s/d, q to quit): ")
		line, err := reader.ReadString('\n')
		line = strings.TrimSpace(line)
		if line == "" {
			if err != nil {
				return 'q'
			}
			return 0
		}
		return []rune(line)[0]
	})
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	appLogger = newLogger("APP", config.LogInfoColor)

	initRobotConfig()
	initMaze()
	initRobot()
	initStrategy()
	initRunner()

	report, err := runner.Run(ctx, robotCfg)
	cell, facing := bot.Pose()
	appLogger.Printf("%s[INFO]%s Run %s: %s after %d steps in %v, robot at %v facing %v, %d moves, %d turns",
		config.LogInfoColor, config.LogColorReset, report.RunID, report.Status, report.Steps, report.Elapsed, cell, facing, bot.Moves(), bot.Turns())
	if n := bot.Collisions(); n > 0 {
		appLogger.Printf("%s[WARN]%s Robot hit a wall %d times", config.LogWarnColor, config.LogColorReset, n)
	}
	switch {
	case errors.Is(err, service.ErrStepLimit):
		appLogger.Printf("%s[WARN]%s %v", config.LogWarnColor, config.LogColorReset, err)
	case err != nil:
		appLogger.Printf("%s[ERROR]%s %v", config.LogErrorColor, config.LogColorReset, err)
		os.Exit(1)
	}
}
