package i

import (
	"context"

	"github.com/beka-birhanu/mazebot/robot"
)

// Strategy is a maze-solving controller driven one bounded step at a time.
type Strategy interface {
	// Setup initializes all owned state for a fresh run.
	Setup(robot.Config) error

	// Step performs one unit of sensing, deciding and moving, refreshing frame after every sub-move.
	Step(context.Context, robot.Frame) (robot.Status, error)
}
