/*
Package sim provides a simulated robot that satisfies robot.Robot over a ground-truth maze.

Distance sensors cast a ray from the middle of the current cell: a reading is `(k + 0.5) * cellSize` where k
counts the open cells before the first wall, so a wall on the robot's own cell always reads below one cell
size. Driving forward into a wall leaves the robot where it is and counts a collision.
*/
package sim

import (
	"github.com/beka-birhanu/mazebot/nav"
)

// Maze is the ground truth the simulated robot moves through.
type Maze interface {
	// CanMove reports whether the side of c facing d is open and leads to another cell.
	CanMove(c nav.Cell, d nav.Direction) bool
	// Move returns the cell reached from c going d, or an error when a wall is in the way.
	Move(c nav.Cell, d nav.Direction) (nav.Cell, error)
	// Marked reports whether the floor of c carries the ground marker.
	Marked(c nav.Cell) bool
}

// Robot is a simulated robot. Its pose is the ground truth, independent of what a strategy believes.
type Robot struct {
	maze     Maze
	cell     nav.Cell
	facing   nav.Direction
	cellSize float64

	moves      int
	turns      int
	collisions int
	trail      []nav.Cell
}

// New places a robot on start facing the given way.
func New(maze Maze, start nav.Cell, facing nav.Direction, cellSize float64) *Robot {
	return &Robot{
		maze:     maze,
		cell:     start,
		facing:   facing,
		cellSize: cellSize,
		trail:    []nav.Cell{start},
	}
}

func (r *Robot) distance(d nav.Direction) float64 {
	k := 0
	for c := r.cell; r.maze.CanMove(c, d); c = c.Step(d) {
		k++
	}
	return (float64(k) + 0.5) * r.cellSize
}

// FrontDistance measures ahead.
func (r *Robot) FrontDistance() float64 {
	return r.distance(r.facing)
}

// LeftDistance measures to the left.
func (r *Robot) LeftDistance() float64 {
	return r.distance(r.facing.Left())
}

// RightDistance measures to the right.
func (r *Robot) RightDistance() float64 {
	return r.distance(r.facing.Right())
}

// OnGroundMarker reports the marker under the robot.
func (r *Robot) OnGroundMarker() bool {
	return r.maze.Marked(r.cell)
}

// MoveForward drives one cell ahead, or bumps into the wall.
func (r *Robot) MoveForward() {
	next, err := r.maze.Move(r.cell, r.facing)
	if err != nil {
		r.collisions++
		return
	}
	r.cell = next
	r.moves++
	r.trail = append(r.trail, next)
}

// TurnRight turns 90 degrees clockwise in place.
func (r *Robot) TurnRight() {
	r.facing = r.facing.Right()
	r.turns++
}

// TurnLeft turns 90 degrees counter-clockwise in place.
func (r *Robot) TurnLeft() {
	r.facing = r.facing.Left()
	r.turns++
}

// Pose returns the true cell and facing.
func (r *Robot) Pose() (nav.Cell, nav.Direction) {
	return r.cell, r.facing
}

// Moves counts successful forward moves.
func (r *Robot) Moves() int {
	return r.moves
}

// Turns counts quarter turns.
func (r *Robot) Turns() int {
	return r.turns
}

// Collisions counts forward moves refused by a wall.
func (r *Robot) Collisions() int {
	return r.collisions
}

// Trail returns every cell the robot stood on, in order, starting with the start cell.
func (r *Robot) Trail() []nav.Cell {
	return append([]nav.Cell(nil), r.trail...)
}
