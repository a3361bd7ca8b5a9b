/*
Package maze provides the ground-truth rectangular mazes a simulated robot drives through.

It defines the `Maze` structure, composed of `Cell` objects that include wall configurations and an optional
ground marker.

The package includes random maze generation with Wilson's algorithm (seeded, so a seed always yields the same
maze), wall queries and moves, and an ASCII form that `String` writes and `Parse` reads back:

	+---+---+---+
	|       |   |
	+   +   +   +
	|   | * |   |
	+   +---+   +
	|           |
	+---+---+---+
*/
package maze

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/beka-birhanu/mazebot/nav"
	"github.com/zyedidia/generic/mapset"
)

const (
	maxMazeDimension = 32
)

var (
	ErrInvalidDimensions = errors.New("invalid maze dimensions")
	ErrInvalidMove       = errors.New("invalid move request")
	ErrOutOfBounds       = errors.New("cell is out of the maze")
	ErrMalformed         = errors.New("malformed maze text")
)

// Maze represents a rectangular maze consisting of cells with walls and optional ground markers.
// Grid is indexed Grid[y][x].
type Maze struct {
	Width  int       // Width of the maze (number of columns)
	Height int       // Height of the maze (number of rows)
	Grid   [][]*Cell // 2D grid of cells forming the maze
}

// New initializes a new maze of the given dimensions and generates a perfect layout from seed.
func New(width, height int, seed int64) (*Maze, error) {
	m, err := newWalled(width, height)
	if err != nil {
		return nil, err
	}
	m.generateMaze(rand.New(rand.NewSource(seed)))
	return m, nil
}

// newWalled returns a maze with every wall standing.
func newWalled(width, height int) (*Maze, error) {
	if min(width, height) <= 0 || max(width, height) > maxMazeDimension {
		return nil, fmt.Errorf("%w: %dx%d, each side must be in 1..%d", ErrInvalidDimensions, width, height, maxMazeDimension)
	}

	grid := make([][]*Cell, height)
	for i := range grid {
		grid[i] = make([]*Cell, width)
		for j := range grid[i] {
			grid[i][j] = walledCell()
		}
	}

	return &Maze{
		Width:  width,
		Height: height,
		Grid:   grid,
	}, nil
}

// InBound reports whether c lies inside the maze.
func (m *Maze) InBound(c nav.Cell) bool {
	return c.X >= 0 && c.X < m.Width && c.Y >= 0 && c.Y < m.Height
}

// randomCellPosition generates a random position within the maze.
func (m *Maze) randomCellPosition(rng *rand.Rand) nav.Cell {
	return nav.Cell{X: rng.Intn(m.Width), Y: rng.Intn(m.Height)}
}

// randomUnvisitedCellPosition selects a random position that has not been visited.
func (m *Maze) randomUnvisitedCellPosition(rng *rand.Rand, visited mapset.Set[nav.Cell]) nav.Cell {
	for {
		pos := m.randomCellPosition(rng)
		if !visited.Has(pos) {
			return pos
		}
	}
}

// neighbors lists the directions leading from pos to another cell of the maze.
func (m *Maze) neighbors(pos nav.Cell) []nav.Direction {
	var result []nav.Direction
	for _, d := range nav.Directions {
		if m.InBound(pos.Step(d)) {
			result = append(result, d)
		}
	}
	return result
}

// openWall removes the wall between pos and its neighbour in direction d.
func (m *Maze) openWall(pos nav.Cell, d nav.Direction) {
	to := pos.Step(d)
	m.Grid[pos.Y][pos.X].setWall(d, false)
	m.Grid[to.Y][to.X].setWall(d.Behind(), false)
}

// randomWalk walks from a random unvisited cell until it hits the visited tree. Each cell keeps only its
// last exit, which erases the loops of the walk.
func (m *Maze) randomWalk(rng *rand.Rand, visited mapset.Set[nav.Cell]) (nav.Cell, map[nav.Cell]nav.Direction) {
	start := m.randomUnvisitedCellPosition(rng, visited)
	exits := make(map[nav.Cell]nav.Direction)
	cell := start

	for {
		dirs := m.neighbors(cell)
		d := dirs[rng.Intn(len(dirs))]
		exits[cell] = d
		next := cell.Step(d)
		if visited.Has(next) {
			break
		}
		cell = next
	}

	return start, exits
}

// generateMaze carves a uniform spanning tree with Wilson's algorithm.
func (m *Maze) generateMaze(rng *rand.Rand) {
	visited := mapset.New[nav.Cell]()
	visited.Put(m.randomCellPosition(rng))

	for visited.Size() < m.Width*m.Height {
		start, exits := m.randomWalk(rng, visited)
		for cell := start; !visited.Has(cell); {
			d := exits[cell]
			m.openWall(cell, d)
			visited.Put(cell)
			cell = cell.Step(d)
		}
	}
}

// CanMove checks if a move is valid (i.e., both cells are in the maze and the connecting wall is down).
func (m *Maze) CanMove(from nav.Cell, d nav.Direction) bool {
	if !m.InBound(from) || !m.InBound(from.Step(d)) {
		return false
	}
	return !m.Grid[from.Y][from.X].HasWall(d)
}

// Move returns the cell reached by moving from `from` in direction d, or ErrInvalidMove when a wall is in the way.
func (m *Maze) Move(from nav.Cell, d nav.Direction) (nav.Cell, error) {
	if !m.CanMove(from, d) {
		return from, fmt.Errorf("%w: %v going %v", ErrInvalidMove, from, d)
	}
	return from.Step(d), nil
}

// OpenNeighbors lists the cells reachable from c in one move, in north, east, south, west order.
func (m *Maze) OpenNeighbors(c nav.Cell) []nav.Cell {
	var result []nav.Cell
	for _, d := range nav.Directions {
		if m.CanMove(c, d) {
			result = append(result, c.Step(d))
		}
	}
	return result
}

// Center returns the center cell, rounding toward the bottom right on even sides.
func (m *Maze) Center() nav.Cell {
	return nav.Cell{X: m.Width / 2, Y: m.Height / 2}
}

// Mark puts the ground marker on c.
func (m *Maze) Mark(c nav.Cell) error {
	if !m.InBound(c) {
		return fmt.Errorf("%w: %v", ErrOutOfBounds, c)
	}
	m.Grid[c.Y][c.X].Marker = true
	return nil
}

// MarkCenter puts the ground marker on the center cell.
func (m *Maze) MarkCenter() {
	_ = m.Mark(m.Center())
}

// Marked reports whether c carries the ground marker.
func (m *Maze) Marked(c nav.Cell) bool {
	return m.InBound(c) && m.Grid[c.Y][c.X].Marker
}

// String provides a textual representation of the maze.
func (m *Maze) String() string {
	var output strings.Builder

	// Top boundary
	output.WriteString("+" + strings.Repeat("---+", m.Width) + "\n")

	for row := 0; row < m.Height; row++ {
		// Cell rows
		output.WriteString("|")
		for col := 0; col < m.Width; col++ {
			cell := m.Grid[row][col]

			if cell.Marker {
				output.WriteString(" * ")
			} else {
				output.WriteString("   ")
			}

			if cell.EastWall {
				output.WriteString("|")
			} else {
				output.WriteString(" ")
			}
		}
		output.WriteString("\n")

		// Wall rows
		output.WriteString("+")
		for col := 0; col < m.Width; col++ {
			if m.Grid[row][col].SouthWall {
				output.WriteString("---+")
			} else {
				output.WriteString("   +")
			}
		}
		output.WriteString("\n")
	}

	return output.String()
}

// Parse reads a maze in the format String writes. Surrounding blank lines and trailing spaces are ignored;
// the outer boundary must be closed.
func Parse(text string) (*Maze, error) {
	lines := strings.Split(strings.Trim(text, "\r\n"), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	if len(lines) < 3 || len(lines)%2 == 0 {
		return nil, fmt.Errorf("%w: expected an odd number of lines, got %d", ErrMalformed, len(lines))
	}

	top := lines[0]
	width := (len(top) - 1) / 4
	if width < 1 || top != "+"+strings.Repeat("---+", width) {
		return nil, fmt.Errorf("%w: bad top boundary %q", ErrMalformed, top)
	}
	height := (len(lines) - 1) / 2

	m, err := newWalled(width, height)
	if err != nil {
		return nil, err
	}

	span := len(top)
	for row := 0; row < height; row++ {
		cells, walls := lines[2*row+1], lines[2*row+2]
		if len(cells) != span || len(walls) != span {
			return nil, fmt.Errorf("%w: row %d is not %d characters wide", ErrMalformed, row, span)
		}
		if cells[0] != '|' || cells[span-1] != '|' || walls[0] != '+' {
			return nil, fmt.Errorf("%w: row %d has an open side boundary", ErrMalformed, row)
		}

		for col := 0; col < width; col++ {
			pos := nav.Cell{X: col, Y: row}
			at := 4 * col

			switch cells[at+1 : at+4] {
			case "   ":
			case " * ":
				m.Grid[row][col].Marker = true
			default:
				return nil, fmt.Errorf("%w: unexpected cell %q at %v", ErrMalformed, cells[at+1:at+4], pos)
			}

			if col < width-1 {
				switch cells[at+4] {
				case '|':
				case ' ':
					m.openWall(pos, nav.East)
				default:
					return nil, fmt.Errorf("%w: unexpected east side %q at %v", ErrMalformed, cells[at+4], pos)
				}
			}

			switch walls[at+1 : at+4] {
			case "---":
			case "   ":
				if row == height-1 {
					return nil, fmt.Errorf("%w: open bottom boundary at %v", ErrMalformed, pos)
				}
				m.openWall(pos, nav.South)
			default:
				return nil, fmt.Errorf("%w: unexpected south side %q at %v", ErrMalformed, walls[at+1:at+4], pos)
			}
			if walls[at+4] != '+' {
				return nil, fmt.Errorf("%w: missing corner after %v", ErrMalformed, pos)
			}
		}
	}

	return m, nil
}

// MustParse is like Parse but panics on error. It is meant for fixed mazes in tests and examples.
func MustParse(text string) *Maze {
	m, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return m
}
