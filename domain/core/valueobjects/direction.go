package valueobjects

import (
	pkgerrors "github.com/shalles/web-mind/pkg/errors"
)

// Direction represents which side of the root a branch is laid out on.
type Direction string

const (
	DirectionLeft  Direction = "left"
	DirectionRight Direction = "right"
)

// ParseDirection converts a string into a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case DirectionLeft:
		return DirectionLeft, nil
	case DirectionRight:
		return DirectionRight, nil
	default:
		return "", pkgerrors.NewValidationError("direction must be \"left\" or \"right\"")
	}
}

// IsValid reports whether the direction is one of the two known sides.
func (d Direction) IsValid() bool {
	return d == DirectionLeft || d == DirectionRight
}

// Opposite returns the other side.
func (d Direction) Opposite() Direction {
	if d == DirectionLeft {
		return DirectionRight
	}
	return DirectionLeft
}

// Sign returns the horizontal layout multiplier: -1 for left, +1 for right.
func (d Direction) Sign() float64 {
	if d == DirectionLeft {
		return -1
	}
	return 1
}

// String returns the string representation.
func (d Direction) String() string {
	return string(d)
}
