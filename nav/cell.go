/*
Package nav holds the maze model a robot builds while it explores and the planners that run on it.

A maze is a square grid of `Cell`s addressed by (X, Y) with the origin at the top-left corner; X grows
to the east and Y grows to the south. Knowledge about the maze is kept as a `Graph` of cell pairs known to
be open and, for flood-fill navigation, a `WallSet` of pairs known to be blocked.

Planning is breadth-first: `Distances` labels every cell of a graph with its edge count to a source and
`ShortestPath` descends that gradient from a start cell; `Flood` computes the same field over the whole grid
treating every pair not in a `WallSet` as open.
*/
package nav

import (
	"fmt"
	"slices"
	"strings"
)

// Direction is an absolute heading on the grid.
type Direction int

const (
	North Direction = iota
	East
	South
	West

	directionCount = 4
)

// Directions lists every heading in clockwise order starting at North.
var Directions = [directionCount]Direction{North, East, South, West}

// deltas maps a heading to its unit step. North decreases Y.
var deltas = [directionCount][2]int{
	North: {0, -1},
	East:  {1, 0},
	South: {0, 1},
	West:  {-1, 0},
}

// Right returns the heading after a 90 degree clockwise turn.
func (d Direction) Right() Direction {
	return (d + 1) % directionCount
}

// Left returns the heading after a 90 degree counter-clockwise turn.
func (d Direction) Left() Direction {
	return (d + directionCount - 1) % directionCount
}

// Behind returns the opposite heading.
func (d Direction) Behind() Direction {
	return (d + 2) % directionCount
}

// Delta returns the unit step (dx, dy) for the heading.
func (d Direction) Delta() (int, int) {
	v := deltas[d.normalize()]
	return v[0], v[1]
}

// Valid reports whether d is one of the four headings.
func (d Direction) Valid() bool {
	return d >= North && d < directionCount
}

func (d Direction) normalize() Direction {
	return ((d % directionCount) + directionCount) % directionCount
}

func (d Direction) String() string {
	switch d {
	case North:
		return "NORTH"
	case East:
		return "EAST"
	case South:
		return "SOUTH"
	case West:
		return "WEST"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts a heading name (NORTH, east, S, ...) case-insensitively.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "NORTH", "N":
		return North, nil
	case "EAST", "E":
		return East, nil
	case "SOUTH", "S":
		return South, nil
	case "WEST", "W":
		return West, nil
	}
	return North, fmt.Errorf("unknown direction %q", s)
}

// Cell is a grid coordinate. Cells are compared by value.
type Cell struct {
	X int
	Y int
}

// Step returns the neighbouring cell in direction d. The result may lie outside the grid.
func (c Cell) Step(d Direction) Cell {
	dx, dy := d.Delta()
	return Cell{X: c.X + dx, Y: c.Y + dy}
}

// InBounds reports whether c lies on a grid with the given side length.
func (c Cell) InBounds(side int) bool {
	return c.X >= 0 && c.X < side && c.Y >= 0 && c.Y < side
}

// DirectionTo returns the heading that leads from c to an adjacent cell o.
// ok is false when o is not one of the four neighbours of c.
func (c Cell) DirectionTo(o Cell) (d Direction, ok bool) {
	for _, d := range Directions {
		if c.Step(d) == o {
			return d, true
		}
	}
	return North, false
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d,%d)", c.X, c.Y)
}

// compareCells orders cells row-major, used wherever a deterministic listing is needed.
func compareCells(a, b Cell) int {
	if a.Y != b.Y {
		return a.Y - b.Y
	}
	return a.X - b.X
}

// SortCells orders cells row-major in place.
func SortCells(cells []Cell) {
	slices.SortFunc(cells, compareCells)
}
