package robot

import (
	"context"
	"fmt"
	"log"

	"github.com/beka-birhanu/mazebot/config"
	"github.com/beka-birhanu/mazebot/nav"
	"github.com/zyedidia/generic/mapset"
)

type dfsPhase int

const (
	phaseDiscovering dfsPhase = iota
	phaseRouting
	phaseDone
)

func (p dfsPhase) String() string {
	switch p {
	case phaseDiscovering:
		return "DISCOVERING"
	case phaseRouting:
		return "ROUTING"
	default:
		return "DONE"
	}
}

// DepthFirstSearch explores the whole maze with an explicit backtrack stack, records every opening it senses,
// and once the stack is empty drives the shortest known path from the start cell to the ground marker.
//
// Among unvisited neighbours it prefers front, then left, then right, then back.
type DepthFirstSearch struct {
	bot    Robot
	logger *log.Logger

	cfg      Config
	pilot    *Pilot
	graph    *nav.Graph
	visited  mapset.Set[nav.Cell]
	stack    []nav.Cell
	target   *nav.Cell
	route    []nav.Cell
	phase    dfsPhase
	surveyed bool
	failure  error
	ready    bool
}

// NewDepthFirstSearch creates the strategy for the given robot. Setup must be called before Step.
func NewDepthFirstSearch(bot Robot, opts *Options) *DepthFirstSearch {
	return &DepthFirstSearch{
		bot:    bot,
		logger: opts.logger(),
	}
}

// Setup resets all state for a fresh run.
func (s *DepthFirstSearch) Setup(cfg Config) error {
	s.ready = false
	if err := cfg.Validate(); err != nil {
		return err
	}

	s.cfg = cfg
	s.pilot = newPilot(s.bot, cfg)
	s.graph = nav.NewGraph()
	s.visited = mapset.New[nav.Cell]()
	s.stack = []nav.Cell{cfg.Start}
	s.target = nil
	s.route = nil
	s.phase = phaseDiscovering
	s.surveyed = false
	s.failure = nil
	s.ready = true
	return nil
}

// Step performs one unit of exploration or one move along the planned route.
func (s *DepthFirstSearch) Step(ctx context.Context, frame Frame) (Status, error) {
	if !s.ready {
		return StatusFailed, ErrNotSetup
	}
	if s.failure != nil {
		return statusOf(s.failure, false)
	}
	if s.phase == phaseDone {
		return StatusStop, nil
	}
	if err := s.pilot.checkpoint(ctx); err != nil {
		return s.fail(err)
	}

	var (
		done bool
		err  error
	)
	switch s.phase {
	case phaseDiscovering:
		done, err = s.discover(ctx, frame)
	case phaseRouting:
		done, err = s.drive(ctx, frame)
	}
	if err != nil {
		return s.fail(err)
	}
	if done {
		s.phase = phaseDone
	}
	return statusOf(nil, done)
}

func (s *DepthFirstSearch) fail(err error) (Status, error) {
	s.failure = err
	status, err := statusOf(err, false)
	if err != nil {
		s.logger.Printf("%s[ERROR]%s exploration stopped at %v: %v", config.LogErrorColor, config.LogColorReset, s.pilot.Cell(), err)
	}
	return status, err
}

func (s *DepthFirstSearch) discover(ctx context.Context, frame Frame) (bool, error) {
	p := s.pilot
	here := p.Cell()
	facing := p.Facing()

	if err := s.record(here, facing, p.WallFront()); err != nil {
		return false, err
	}
	if err := s.record(here, facing.Left(), p.WallLeft()); err != nil {
		return false, err
	}
	if err := s.record(here, facing.Right(), p.WallRight()); err != nil {
		return false, err
	}
	s.visited.Put(here)

	if s.target == nil && p.OnMarker() {
		target := here
		s.target = &target
		s.logger.Printf("%s[INFO]%s ground marker found at %v", config.LogInfoColor, config.LogColorReset, here)
	}

	// Only three sides are ever sensed, so the start cell's rear is looked at once by turning left.
	if !s.surveyed {
		s.surveyed = true
		if rear := here.Step(facing.Behind()); rear.InBounds(s.cfg.GridSide) {
			if err := p.TurnLeft(ctx, frame); err != nil {
				return false, err
			}
			if err := s.record(here, p.Facing().Left(), p.WallLeft()); err != nil {
				return false, err
			}
		}
	}

	if next, ok := s.unvisitedNeighbor(here); ok {
		s.stack = append(s.stack, next)
		return false, p.GoTo(ctx, frame, next)
	}

	s.stack = s.stack[:len(s.stack)-1]
	if len(s.stack) == 0 {
		return s.plan()
	}
	return false, p.GoTo(ctx, frame, s.stack[len(s.stack)-1])
}

// record stores one sensed side of a cell. Openings toward visited cells are recorded too.
func (s *DepthFirstSearch) record(here nav.Cell, d nav.Direction, wall bool) error {
	n := here.Step(d)
	if !n.InBounds(s.cfg.GridSide) {
		return nil
	}
	if wall {
		if s.graph.HasEdge(here, n) {
			return fmt.Errorf("%w: wall sensed between %v and %v after an opening", ErrSensorInconsistency, here, n)
		}
		return nil
	}
	s.graph.AddEdge(here, n)
	return nil
}

func (s *DepthFirstSearch) unvisitedNeighbor(here nav.Cell) (nav.Cell, bool) {
	for _, d := range s.pilot.Priority() {
		n := here.Step(d)
		if s.graph.HasEdge(here, n) && !s.visited.Has(n) {
			return n, true
		}
	}
	return here, false
}

func (s *DepthFirstSearch) plan() (bool, error) {
	s.logger.Printf("%s[INFO]%s exploration complete: %d cells, %d openings", config.LogInfoColor, config.LogColorReset, s.visited.Size(), s.graph.EdgeCount())
	if s.target == nil {
		return false, fmt.Errorf("%w: explored %d cells", ErrUnknownTarget, s.visited.Size())
	}

	route, err := nav.ShortestPath(s.graph, s.cfg.Start, *s.target)
	if err != nil {
		return false, fmt.Errorf("from %v to %v: %w", s.cfg.Start, *s.target, err)
	}
	s.route = route
	s.phase = phaseRouting
	s.logger.Printf("%s[INFO]%s route to %v planned: %d moves", config.LogInfoColor, config.LogColorReset, *s.target, len(route))
	return len(route) == 0, nil
}

func (s *DepthFirstSearch) drive(ctx context.Context, frame Frame) (bool, error) {
	next := s.route[0]
	s.route = s.route[1:]
	if err := s.pilot.GoTo(ctx, frame, next); err != nil {
		return false, err
	}
	if len(s.route) == 0 {
		s.logger.Printf("%s[INFO]%s reached target %v", config.LogInfoColor, config.LogColorReset, next)
		return true, nil
	}
	return false, nil
}

// Graph returns the maze graph built so far. It must not be modified.
func (s *DepthFirstSearch) Graph() *nav.Graph {
	return s.graph
}

// Visited returns the visited cells in row-major order.
func (s *DepthFirstSearch) Visited() []nav.Cell {
	cells := make([]nav.Cell, 0, s.visited.Size())
	s.visited.Each(func(c nav.Cell) {
		cells = append(cells, c)
	})
	nav.SortCells(cells)
	return cells
}

// Stack returns a copy of the backtrack stack, bottom first.
func (s *DepthFirstSearch) Stack() []nav.Cell {
	return append([]nav.Cell(nil), s.stack...)
}

// Target returns the cell the ground marker was found on.
func (s *DepthFirstSearch) Target() (nav.Cell, bool) {
	if s.target == nil {
		return nav.Cell{}, false
	}
	return *s.target, true
}

// Route returns the moves of the planned route not yet driven.
func (s *DepthFirstSearch) Route() []nav.Cell {
	return append([]nav.Cell(nil), s.route...)
}

// Pose returns where the robot believes it is and which way it faces.
func (s *DepthFirstSearch) Pose() (nav.Cell, nav.Direction) {
	return s.pilot.Cell(), s.pilot.Facing()
}

// Phase reports DISCOVERING, ROUTING or DONE.
func (s *DepthFirstSearch) Phase() string {
	return s.phase.String()
}
