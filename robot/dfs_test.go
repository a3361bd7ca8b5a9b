package robot

import (
	"bytes"
	"context"
	"log"
	"strings"
	"testing"

	"github.com/beka-birhanu/mazebot/config"
	"github.com/beka-birhanu/mazebot/maze"
	"github.com/beka-birhanu/mazebot/nav"
	"github.com/beka-birhanu/mazebot/sim"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// blinded reports walls everywhere once blind is set and openings everywhere once seeThrough is set.
type blinded struct {
	*sim.Robot
	blind      bool
	seeThrough bool
}

func (b *blinded) FrontDistance() float64 { return b.reading(b.Robot.FrontDistance()) }
func (b *blinded) LeftDistance() float64  { return b.reading(b.Robot.LeftDistance()) }
func (b *blinded) RightDistance() float64 { return b.reading(b.Robot.RightDistance()) }

func (b *blinded) reading(d float64) float64 {
	switch {
	case b.blind:
		return 0
	case b.seeThrough:
		return 100 * cellSize
	}
	return d
}

func newDFS(t *testing.T, text string, start nav.Cell, facing nav.Direction) (*DepthFirstSearch, *sim.Robot, *maze.Maze) {
	t.Helper()
	m := maze.MustParse(text)
	bot := sim.New(m, start, facing, cellSize)
	s := NewDepthFirstSearch(bot, nil)
	require.NoError(t, s.Setup(runConfig(m.Width, start, facing)))
	return s, bot, m
}

func TestDepthFirstSearchScenario(t *testing.T) {
	s, bot, m := newDFS(t, centerPocket, nav.Cell{X: 0, Y: 0}, nav.East)
	ctx := context.Background()

	status, err := s.Step(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, StatusContinue, status)
	cell, facing := bot.Pose()
	assert.Equal(t, nav.Cell{X: 1, Y: 0}, cell)
	assert.Equal(t, nav.East, facing)

	_, err = s.Step(ctx, nil)
	require.NoError(t, err)
	cell, facing = bot.Pose()
	assert.Equal(t, nav.Cell{X: 1, Y: 1}, cell)
	assert.Equal(t, nav.South, facing)

	_, err = s.Step(ctx, nil)
	require.NoError(t, err)
	target, ok := s.Target()
	require.True(t, ok)
	assert.Equal(t, nav.Cell{X: 1, Y: 1}, target)

	status, steps, err := runToEnd(t, s, 100)
	require.NoError(t, err)
	assert.Equal(t, StatusStop, status)
	assert.Equal(t, 19, 3+steps, "17 exploration steps and 2 route moves")
	assert.Equal(t, "DONE", s.Phase())

	g := s.Graph()
	assert.True(t, g.HasEdge(nav.Cell{X: 0, Y: 0}, nav.Cell{X: 1, Y: 0}))
	assert.True(t, g.HasEdge(nav.Cell{X: 1, Y: 0}, nav.Cell{X: 1, Y: 1}))
	assert.False(t, g.HasEdge(nav.Cell{X: 0, Y: 1}, nav.Cell{X: 1, Y: 1}))
	assertMatchesMaze(t, g, m)

	assert.Len(t, s.Visited(), 9)
	assert.Empty(t, s.Stack())
	assert.Empty(t, s.Route())

	cell, _ = bot.Pose()
	assert.Equal(t, nav.Cell{X: 1, Y: 1}, cell)
	believed, facing := s.Pose()
	assert.Equal(t, cell, believed)
	_, trueFacing := bot.Pose()
	assert.Equal(t, trueFacing, facing)
	assert.Zero(t, bot.Collisions())

	status, err = s.Step(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, StatusStop, status, "stepping after the end keeps stopping")
}

func TestDepthFirstSearchPrefersLeftOverRight(t *testing.T) {
	// Entering (1,1) eastward, the front is walled while both (1,0) on the left and (1,2) on the right are
	// open and unvisited.
	const junction = `
+---+---+---+
|           |
+---+   +   +
|     * |   |
+---+   +   +
|           |
+---+---+---+
`
	s, bot, m := newDFS(t, junction, nav.Cell{X: 0, Y: 1}, nav.East)
	ctx := context.Background()

	_, err := s.Step(ctx, nil)
	require.NoError(t, err)
	assert.Zero(t, bot.Turns(), "the rear of (0,1) is the grid boundary")
	cell, facing := bot.Pose()
	assert.Equal(t, nav.Cell{X: 1, Y: 1}, cell)
	assert.Equal(t, nav.East, facing)

	_, err = s.Step(ctx, nil)
	require.NoError(t, err)
	cell, facing = bot.Pose()
	assert.Equal(t, nav.Cell{X: 1, Y: 0}, cell)
	assert.Equal(t, nav.North, facing)
	assert.Equal(t, []nav.Cell{{X: 0, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 0}}, s.Stack())

	status, _, err := runToEnd(t, s, 100)
	require.NoError(t, err)
	assert.Equal(t, StatusStop, status)
	assert.Len(t, s.Visited(), 9)
	assertMatchesMaze(t, s.Graph(), m)
	cell, _ = bot.Pose()
	assert.Equal(t, nav.Cell{X: 1, Y: 1}, cell)
	assert.Zero(t, bot.Collisions())
}

func TestDepthFirstSearchLogs(t *testing.T) {
	var buf bytes.Buffer
	m := maze.MustParse(centerPocket)
	bot := sim.New(m, nav.Cell{}, nav.East, cellSize)
	s := NewDepthFirstSearch(bot, &Options{Logger: log.New(&buf, "", 0)})
	require.NoError(t, s.Setup(runConfig(3, nav.Cell{}, nav.East)))

	status, _, err := runToEnd(t, s, 100)
	require.NoError(t, err)
	assert.Equal(t, StatusStop, status)
	assert.Contains(t, buf.String(), config.LogInfoColor+"[INFO]"+config.LogColorReset+" ground marker found at (1,1)")
	assert.Contains(t, buf.String(), "route to (1,1) planned: 2 moves")
}

func TestDepthFirstSearchUnknownTarget(t *testing.T) {
	s, bot, _ := newDFS(t, strings.Replace(centerPocket, " * ", "   ", 1), nav.Cell{X: 0, Y: 0}, nav.East)

	status, steps, err := runToEnd(t, s, 100)
	assert.Equal(t, StatusUnknownTarget, status)
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.Equal(t, 17, steps)
	assert.Len(t, s.Visited(), 9)
	assert.Empty(t, s.Stack())

	moves := bot.Moves()
	status, err = s.Step(context.Background(), nil)
	assert.Equal(t, StatusUnknownTarget, status)
	assert.ErrorIs(t, err, ErrUnknownTarget)
	assert.Equal(t, moves, bot.Moves())
}

func TestDepthFirstSearchCancellation(t *testing.T) {
	s, bot, _ := newDFS(t, centerPocket, nav.Cell{X: 0, Y: 0}, nav.East)
	frame := &countingFrame{abortAt: 2}
	ctx := context.Background()

	status, err := s.Step(ctx, frame)
	require.NoError(t, err)
	assert.Equal(t, StatusContinue, status)

	status, err = s.Step(ctx, frame)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, status)
	assert.Len(t, s.Visited(), 2)
	assert.Equal(t, 1, bot.Moves())
	assert.Equal(t, 1, bot.Turns(), "the move after the turn is never issued")

	status, err = s.Step(ctx, frame)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, status)
	assert.Equal(t, 1, bot.Moves())
	assert.Equal(t, 1, bot.Turns())
	assert.Equal(t, 2, frame.calls)
}

func TestDepthFirstSearchContextCancelled(t *testing.T) {
	s, bot, _ := newDFS(t, centerPocket, nav.Cell{X: 0, Y: 0}, nav.East)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	status, err := s.Step(ctx, nil)
	assert.NoError(t, err)
	assert.Equal(t, StatusCancelled, status)
	assert.Zero(t, bot.Moves())
	assert.Zero(t, bot.Turns())
}

func TestDepthFirstSearchRearSurvey(t *testing.T) {
	// Facing north from (0,1), (0,2) is only visible behind the robot: the rest of the maze hangs off it.
	s, bot, m := newDFS(t, centerPocket, nav.Cell{X: 0, Y: 1}, nav.North)

	_, err := s.Step(context.Background(), nil)
	require.NoError(t, err)
	assert.True(t, s.Graph().HasEdge(nav.Cell{X: 0, Y: 1}, nav.Cell{X: 0, Y: 2}))

	status, _, err := runToEnd(t, s, 100)
	require.NoError(t, err)
	assert.Equal(t, StatusStop, status)
	assert.Len(t, s.Visited(), 9)
	assertMatchesMaze(t, s.Graph(), m)

	cell, _ := bot.Pose()
	assert.Equal(t, nav.Cell{X: 1, Y: 1}, cell)
}

func TestDepthFirstSearchGenerated(t *testing.T) {
	m, err := maze.New(8, 8, 5)
	require.NoError(t, err)
	m.MarkCenter()
	start := nav.Cell{X: 0, Y: 0}
	bot := sim.New(m, start, nav.South, cellSize)
	s := NewDepthFirstSearch(bot, nil)
	require.NoError(t, s.Setup(runConfig(8, start, nav.South)))

	status, _, err := runToEnd(t, s, 1000)
	require.NoError(t, err)
	assert.Equal(t, StatusStop, status)
	assert.Len(t, s.Visited(), 64)
	assert.Equal(t, 63, s.Graph().EdgeCount())
	assertMatchesMaze(t, s.Graph(), m)
	assert.Zero(t, bot.Collisions())

	cell, _ := bot.Pose()
	assert.Equal(t, m.Center(), cell)
	trail := bot.Trail()
	route, err := nav.ShortestPath(s.Graph(), start, m.Center())
	require.NoError(t, err)
	assert.Equal(t, route, trail[len(trail)-len(route):])
}

func TestDepthFirstSearchSensorInconsistency(t *testing.T) {
	m := maze.MustParse(centerPocket)
	start := nav.Cell{X: 0, Y: 0}
	bot := &blinded{Robot: sim.New(m, start, nav.East, cellSize)}
	s := NewDepthFirstSearch(bot, nil)
	require.NoError(t, s.Setup(runConfig(3, start, nav.East)))
	ctx := context.Background()

	_, err := s.Step(ctx, nil)
	require.NoError(t, err)
	bot.blind = true
	_, err = s.Step(ctx, nil)
	require.NoError(t, err)

	status, err := s.Step(ctx, nil)
	assert.Equal(t, StatusFailed, status)
	assert.ErrorIs(t, err, ErrSensorInconsistency)
}

func TestDepthFirstSearchSetup(t *testing.T) {
	bot := sim.New(maze.MustParse(centerPocket), nav.Cell{}, nav.East, cellSize)
	s := NewDepthFirstSearch(bot, nil)

	status, err := s.Step(context.Background(), nil)
	assert.Equal(t, StatusFailed, status)
	assert.ErrorIs(t, err, ErrNotSetup)

	assert.ErrorIs(t, s.Setup(runConfig(3, nav.Cell{X: -1, Y: 0}, nav.East)), ErrInvalidConfig)
	_, err = s.Step(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNotSetup)
}

// assertMatchesMaze checks the graph is symmetric and holds exactly the maze's openings.
func assertMatchesMaze(t *testing.T, g *nav.Graph, m *maze.Maze) {
	t.Helper()
	for _, a := range g.Cells() {
		for _, b := range g.Neighbors(a) {
			assert.True(t, g.HasEdge(b, a), "edge %v-%v is one-way", a, b)
		}
		assert.ElementsMatch(t, m.OpenNeighbors(a), g.Neighbors(a), "neighbours of %v", a)
	}
}
