package sim

import (
	"testing"

	"github.com/beka-birhanu/mazebot/maze"
	"github.com/beka-birhanu/mazebot/nav"
	"github.com/stretchr/testify/assert"
)

const corridor = `
+---+---+---+---+
|             * |
+---+---+   +---+
|               |
+---+---+---+---+
`

func TestSensors(t *testing.T) {
	m := maze.MustParse(corridor)
	r := New(m, nav.Cell{X: 0, Y: 0}, nav.East, 10)

	assert.Equal(t, 35.0, r.FrontDistance())
	assert.Equal(t, 5.0, r.LeftDistance())
	assert.Equal(t, 5.0, r.RightDistance())
	assert.False(t, r.OnGroundMarker())

	r.MoveForward()
	r.MoveForward()
	assert.Equal(t, 15.0, r.FrontDistance())
	assert.Equal(t, 15.0, r.RightDistance(), "opening down to the second row")

	r.MoveForward()
	assert.True(t, r.OnGroundMarker())
	assert.Equal(t, 5.0, r.FrontDistance())
}

func TestActuators(t *testing.T) {
	m := maze.MustParse(corridor)
	r := New(m, nav.Cell{X: 2, Y: 0}, nav.North, 10)

	r.MoveForward()
	assert.Equal(t, 1, r.Collisions())
	assert.Equal(t, 0, r.Moves())

	r.TurnRight()
	r.TurnRight()
	r.MoveForward()
	r.TurnLeft()
	r.MoveForward()

	cell, facing := r.Pose()
	assert.Equal(t, nav.Cell{X: 3, Y: 1}, cell)
	assert.Equal(t, nav.East, facing)
	assert.Equal(t, 2, r.Moves())
	assert.Equal(t, 3, r.Turns())
	assert.Equal(t, []nav.Cell{{X: 2, Y: 0}, {X: 2, Y: 1}, {X: 3, Y: 1}}, r.Trail())
}
