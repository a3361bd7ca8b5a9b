package maze

import "github.com/beka-birhanu/mazebot/nav"

// Cell represents a single cell in a maze grid.
// It includes properties for walls on each side and whether the floor carries the ground marker.
type Cell struct {
	NorthWall bool // NorthWall indicates whether there is a wall on the north side of the cell.
	SouthWall bool // SouthWall indicates whether there is a wall on the south side of the cell.
	EastWall  bool // EastWall indicates whether there is a wall on the east side of the cell.
	WestWall  bool // WestWall indicates whether there is a wall on the west side of the cell.
	Marker    bool // Marker indicates the cell is the target a robot has to find.
}

func walledCell() *Cell {
	return &Cell{
		NorthWall: true,
		SouthWall: true,
		EastWall:  true,
		WestWall:  true,
	}
}

// HasWall reports whether the side of the cell facing d is walled.
func (c *Cell) HasWall(d nav.Direction) bool {
	switch d {
	case nav.North:
		return c.NorthWall
	case nav.South:
		return c.SouthWall
	case nav.East:
		return c.EastWall
	case nav.West:
		return c.WestWall
	}
	return true
}

// setWall sets the side of the cell facing d.
func (c *Cell) setWall(d nav.Direction, wall bool) {
	switch d {
	case nav.North:
		c.NorthWall = wall
	case nav.South:
		c.SouthWall = wall
	case nav.East:
		c.EastWall = wall
	case nav.West:
		c.WestWall = wall
	}
}
