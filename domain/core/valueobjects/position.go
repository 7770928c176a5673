package valueobjects

import (
	"math"

	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// Position is a value object for node coordinates on the canvas.
// Coordinates refer to the center of the node's box.
type Position struct {
	x float64
	y float64
}

// NewPosition creates a position with validation.
func NewPosition(x, y float64) (Position, error) {
	if !isValidCoordinate(x) || !isValidCoordinate(y) {
		return Position{}, pkgerrors.NewValidationError("invalid coordinates: must be finite numbers")
	}
	return Position{x: x, y: y}, nil
}

// X returns the X coordinate.
func (p Position) X() float64 {
	return p.x
}

// Y returns the Y coordinate.
func (p Position) Y() float64 {
	return p.y
}

// DistanceTo calculates the Euclidean distance to another position.
func (p Position) DistanceTo(other Position) float64 {
	dx := p.x - other.x
	dy := p.y - other.y
	return math.Sqrt(dx*dx + dy*dy)
}

// Equals checks if two positions are equal within epsilon tolerance.
func (p Position) Equals(other Position) bool {
	const epsilon = 1e-9
	return math.Abs(p.x-other.x) < epsilon &&
		math.Abs(p.y-other.y) < epsilon
}

// Translate moves the position by the given offsets.
func (p Position) Translate(dx, dy float64) (Position, error) {
	return NewPosition(p.x+dx, p.y+dy)
}

// Lerp linearly interpolates toward another position. t=0 yields p,
// t=1 yields other; t outside [0,1] extrapolates, which the elastic
// snap easing relies on for its overshoot.
func (p Position) Lerp(other Position, t float64) Position {
	return Position{
		x: p.x + (other.x-p.x)*t,
		y: p.y + (other.y-p.y)*t,
	}
}

// Midpoint calculates the midpoint between two positions.
func (p Position) Midpoint(other Position) Position {
	return Position{
		x: (p.x + other.x) / 2,
		y: (p.y + other.y) / 2,
	}
}

func isValidCoordinate(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
