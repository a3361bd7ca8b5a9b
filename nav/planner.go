package nav

import (
	"errors"
	"fmt"
)

// Unknown is the distance reported for a cell the field never reached.
const Unknown = -1

var (
	// ErrPathNotFound indicates the descent from the start cell hit a cell with no strictly closer neighbour.
	ErrPathNotFound = errors.New("nav: path not found")
)

// DistanceField maps cells to their edge count from a source cell.
type DistanceField struct {
	source Cell
	dist   map[Cell]int
}

// Source returns the cell the field was labelled from.
func (f *DistanceField) Source() Cell {
	return f.source
}

// At returns the distance of c, or Unknown when c was not labelled.
func (f *DistanceField) At(c Cell) int {
	if d, ok := f.dist[c]; ok {
		return d
	}
	return Unknown
}

// Len returns the number of labelled cells.
func (f *DistanceField) Len() int {
	return len(f.dist)
}

// Distances labels every cell reachable from source in g with its breadth-first distance.
func Distances(g *Graph, source Cell) *DistanceField {
	return label(g, source, nil)
}

// DistancesUntil is Distances that stops as soon as stop has been labelled.
// Every cell closer to source than stop is still labelled exactly.
func DistancesUntil(g *Graph, source, stop Cell) *DistanceField {
	return label(g, source, &stop)
}

func label(g *Graph, source Cell, stop *Cell) *DistanceField {
	f := &DistanceField{
		source: source,
		dist:   map[Cell]int{source: 0},
	}
	if stop != nil && *stop == source {
		return f
	}

	queue := []Cell{source}
	for qi := 0; qi < len(queue); qi++ {
		u := queue[qi]
		for _, v := range g.Neighbors(u) {
			if _, seen := f.dist[v]; seen {
				continue
			}
			f.dist[v] = f.dist[u] + 1
			if stop != nil && v == *stop {
				return f
			}
			queue = append(queue, v)
		}
	}
	return f
}

// Descend walks from start to the field's source, always stepping to the graph neighbour with the
// strictly smallest distance. Ties go to the first heading in North, East, South, West order.
// The returned path excludes start and ends at the source; it is empty when start is the source.
func Descend(g *Graph, field *DistanceField, start Cell) ([]Cell, error) {
	cur := start
	best := field.At(cur)
	if best == Unknown {
		return nil, fmt.Errorf("%w: %v is not reachable from %v", ErrPathNotFound, start, field.Source())
	}

	path := make([]Cell, 0, best)
	for best > 0 {
		next := cur
		for _, d := range Directions {
			n := cur.Step(d)
			if !g.HasEdge(cur, n) {
				continue
			}
			if v := field.At(n); v != Unknown && v < best {
				best = v
				next = n
			}
		}
		if next == cur {
			return nil, fmt.Errorf("%w: dead end at %v", ErrPathNotFound, cur)
		}
		cur = next
		path = append(path, cur)
	}
	return path, nil
}

// ShortestPath labels g from target and descends from start. The path excludes start and ends at target.
func ShortestPath(g *Graph, start, target Cell) ([]Cell, error) {
	field := DistancesUntil(g, target, start)
	return Descend(g, field, start)
}
