package valueobjects

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPosition(t *testing.T) {
	tests := []struct {
		name    string
		x, y    float64
		wantErr bool
	}{
		{
			name:    "valid position at origin",
			x:       0,
			y:       0,
			wantErr: false,
		},
		{
			name:    "valid positive position",
			x:       100.5,
			y:       200.75,
			wantErr: false,
		},
		{
			name:    "valid negative position",
			x:       -100.5,
			y:       -200.75,
			wantErr: false,
		},
		{
			name:    "very large coordinates",
			x:       1e10,
			y:       -1e10,
			wantErr: false,
		},
		{
			name:    "NaN x coordinate",
			x:       math.NaN(),
			y:       0,
			wantErr: true,
		},
		{
			name:    "NaN y coordinate",
			x:       0,
			y:       math.NaN(),
			wantErr: true,
		},
		{
			name:    "infinite x coordinate",
			x:       math.Inf(1),
			y:       0,
			wantErr: true,
		},
		{
			name:    "negative infinite y coordinate",
			x:       0,
			y:       math.Inf(-1),
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos, err := NewPosition(tt.x, tt.y)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.x, pos.X())
				assert.Equal(t, tt.y, pos.Y())
			}
		})
	}
}

func TestPosition_DistanceTo(t *testing.T) {
	tests := []struct {
		name     string
		pos1     Position
		pos2     Position
		expected float64
	}{
		{
			name:     "distance between same points",
			pos1:     mustPosition(0, 0),
			pos2:     mustPosition(0, 0),
			expected: 0,
		},
		{
			name:     "distance along x-axis",
			pos1:     mustPosition(0, 0),
			pos2:     mustPosition(10, 0),
			expected: 10,
		},
		{
			name:     "distance along y-axis",
			pos1:     mustPosition(0, 0),
			pos2:     mustPosition(0, 10),
			expected: 10,
		},
		{
			name:     "3-4-5 triangle",
			pos1:     mustPosition(0, 0),
			pos2:     mustPosition(3, 4),
			expected: 5,
		},
		{
			name:     "negative coordinates",
			pos1:     mustPosition(-5, -5),
			pos2:     mustPosition(5, 5),
			expected: math.Sqrt(200),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			distance := tt.pos1.DistanceTo(tt.pos2)
			assert.InDelta(t, tt.expected, distance, 0.0001)

			// Distance should be symmetric
			assert.InDelta(t, distance, tt.pos2.DistanceTo(tt.pos1), 0.0001)
		})
	}
}

func TestPosition_Equals(t *testing.T) {
	tests := []struct {
		name     string
		pos1     Position
		pos2     Position
		expected bool
	}{
		{
			name:     "same positions",
			pos1:     mustPosition(1.5, 2.5),
			pos2:     mustPosition(1.5, 2.5),
			expected: true,
		},
		{
			name:     "different x",
			pos1:     mustPosition(1.5, 2.5),
			pos2:     mustPosition(1.6, 2.5),
			expected: false,
		},
		{
			name:     "different y",
			pos1:     mustPosition(1.5, 2.5),
			pos2:     mustPosition(1.5, 2.6),
			expected: false,
		},
		{
			name:     "difference within epsilon",
			pos1:     mustPosition(1.0, 2.0),
			pos2:     mustPosition(1.0+1e-10, 2.0+1e-10),
			expected: true,
		},
		{
			name:     "difference outside epsilon",
			pos1:     mustPosition(1.0, 2.0),
			pos2:     mustPosition(1.0+1e-8, 2.0),
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.pos1.Equals(tt.pos2))
		})
	}
}

func TestPosition_Translate(t *testing.T) {
	tests := []struct {
		name     string
		initial  Position
		dx, dy   float64
		wantErr  bool
		expected Position
	}{
		{
			name:     "translate from origin",
			initial:  mustPosition(0, 0),
			dx:       10,
			dy:       20,
			expected: mustPosition(10, 20),
		},
		{
			name:     "translate with negative deltas",
			initial:  mustPosition(100, 100),
			dx:       -50,
			dy:       -25,
			expected: mustPosition(50, 75),
		},
		{
			name:     "no translation",
			initial:  mustPosition(100, 200),
			dx:       0,
			dy:       0,
			expected: mustPosition(100, 200),
		},
		{
			name:    "overflow to infinity",
			initial: mustPosition(1e308, 0),
			dx:      1e308,
			dy:      0,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			newPos, err := tt.initial.Translate(tt.dx, tt.dy)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.True(t, newPos.Equals(tt.expected))
			}
		})
	}
}

func TestPosition_Lerp(t *testing.T) {
	from := mustPosition(0, 0)
	to := mustPosition(100, 50)

	tests := []struct {
		name     string
		t        float64
		expected Position
	}{
		{"start", 0, mustPosition(0, 0)},
		{"end", 1, mustPosition(100, 50)},
		{"halfway", 0.5, mustPosition(50, 25)},
		{"quarter", 0.25, mustPosition(25, 12.5)},
		{"elastic overshoot", 1.1, mustPosition(110, 55)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := from.Lerp(to, tt.t)
			assert.True(t, got.Equals(tt.expected),
				"lerp(%v) = (%v, %v)", tt.t, got.X(), got.Y())
		})
	}
}

func TestPosition_Midpoint(t *testing.T) {
	tests := []struct {
		name     string
		pos1     Position
		pos2     Position
		expected Position
	}{
		{
			name:     "midpoint of same points",
			pos1:     mustPosition(10, 20),
			pos2:     mustPosition(10, 20),
			expected: mustPosition(10, 20),
		},
		{
			name:     "midpoint along x-axis",
			pos1:     mustPosition(0, 0),
			pos2:     mustPosition(10, 0),
			expected: mustPosition(5, 0),
		},
		{
			name:     "midpoint with negative coordinates",
			pos1:     mustPosition(-10, -20),
			pos2:     mustPosition(10, 20),
			expected: mustPosition(0, 0),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			midpoint := tt.pos1.Midpoint(tt.pos2)
			assert.True(t, midpoint.Equals(tt.expected))

			// Midpoint should be symmetric
			assert.True(t, midpoint.Equals(tt.pos2.Midpoint(tt.pos1)))
		})
	}
}

// Helper for tests
func mustPosition(x, y float64) Position {
	pos, err := NewPosition(x, y)
	if err != nil {
		panic(err)
	}
	return pos
}

// Benchmarks
func BenchmarkNewPosition(b *testing.B) {
	for i := 0; i < b.N; i++ {
		_, _ = NewPosition(100, 200)
	}
}

func BenchmarkPosition_DistanceTo(b *testing.B) {
	pos1 := mustPosition(0, 0)
	pos2 := mustPosition(100, 200)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = pos1.DistanceTo(pos2)
	}
}

func BenchmarkPosition_Lerp(b *testing.B) {
	pos1 := mustPosition(0, 0)
	pos2 := mustPosition(100, 200)
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		_ = pos1.Lerp(pos2, 0.5)
	}
}
