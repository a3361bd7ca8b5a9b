package nav

import (
	"slices"

	"github.com/zyedidia/generic/mapset"
)

// adjacency is an undirected relation between cells: pair (a, b) present implies (b, a) present.
type adjacency struct {
	sets  map[Cell]*mapset.Set[Cell]
	pairs int
}

func newAdjacency() adjacency {
	return adjacency{sets: make(map[Cell]*mapset.Set[Cell])}
}

func (r *adjacency) ensure(c Cell) *mapset.Set[Cell] {
	if s, ok := r.sets[c]; ok {
		return s
	}
	s := mapset.New[Cell]()
	r.sets[c] = &s
	return &s
}

// link records the pair and reports whether it was new.
func (r *adjacency) link(a, b Cell) bool {
	sa := r.ensure(a)
	sb := r.ensure(b)
	if sa.Has(b) {
		return false
	}
	sa.Put(b)
	sb.Put(a)
	r.pairs++
	return true
}

func (r *adjacency) has(a, b Cell) bool {
	s, ok := r.sets[a]
	return ok && s.Has(b)
}

func (r *adjacency) known(c Cell) bool {
	_, ok := r.sets[c]
	return ok
}

func (r *adjacency) related(c Cell) []Cell {
	s, ok := r.sets[c]
	if !ok {
		return nil
	}
	out := make([]Cell, 0, s.Size())
	s.Each(func(o Cell) {
		out = append(out, o)
	})
	slices.SortFunc(out, compareCells)
	return out
}

func (r *adjacency) cells() []Cell {
	out := make([]Cell, 0, len(r.sets))
	for c := range r.sets {
		out = append(out, c)
	}
	slices.SortFunc(out, compareCells)
	return out
}

// Graph records which adjacent cell pairs are known to be open.
// Edges are only ever added; a cell absent from the graph is unknown, not isolated.
type Graph struct {
	adj adjacency
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{adj: newAdjacency()}
}

// AddEdge inserts a and b (if absent) and links them both ways. Adding an existing edge is a no-op.
func (g *Graph) AddEdge(a, b Cell) {
	g.adj.link(a, b)
}

// HasEdge reports whether the pair is known to be open.
func (g *Graph) HasEdge(a, b Cell) bool {
	return g.adj.has(a, b)
}

// Known reports whether c has ever been recorded in the graph.
func (g *Graph) Known(c Cell) bool {
	return g.adj.known(c)
}

// Neighbors returns the cells linked to c in row-major order, or nil for an unknown cell.
func (g *Graph) Neighbors(c Cell) []Cell {
	return g.adj.related(c)
}

// Cells returns every recorded cell in row-major order.
func (g *Graph) Cells() []Cell {
	return g.adj.cells()
}

// Len returns the number of recorded cells.
func (g *Graph) Len() int {
	return len(g.adj.sets)
}

// EdgeCount returns the number of undirected edges.
func (g *Graph) EdgeCount() int {
	return g.adj.pairs
}

// WallSet records adjacent cell pairs known to be blocked, limited to a grid of the given side.
type WallSet struct {
	side int
	adj  adjacency
}

// NewWallSet returns an empty wall set for a grid of the given side length.
func NewWallSet(side int) *WallSet {
	return &WallSet{side: side, adj: newAdjacency()}
}

// Add records a wall between a and b. Pairs with a cell outside the grid are ignored, since the grid
// boundary already blocks them. It reports whether the wall was new.
func (w *WallSet) Add(a, b Cell) bool {
	if !a.InBounds(w.side) || !b.InBounds(w.side) {
		return false
	}
	return w.adj.link(a, b)
}

// Blocked reports whether a wall between a and b is known.
func (w *WallSet) Blocked(a, b Cell) bool {
	return w.adj.has(a, b)
}

// Around returns the cells walled off from c in row-major order.
func (w *WallSet) Around(c Cell) []Cell {
	return w.adj.related(c)
}

// Len returns the number of recorded walls.
func (w *WallSet) Len() int {
	return w.adj.pairs
}

// Side returns the grid side length the set was created for.
func (w *WallSet) Side() int {
	return w.side
}
