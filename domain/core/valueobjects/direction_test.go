package valueobjects

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDirection(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected Direction
		wantErr  bool
	}{
		{"left", "left", DirectionLeft, false},
		{"right", "right", DirectionRight, false},
		{"empty", "", "", true},
		{"unknown", "up", "", true},
		{"case sensitive", "Left", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir, err := ParseDirection(tt.input)

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.expected, dir)
			}
		})
	}
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, DirectionRight, DirectionLeft.Opposite())
	assert.Equal(t, DirectionLeft, DirectionRight.Opposite())
}

func TestDirection_Sign(t *testing.T) {
	assert.Equal(t, float64(-1), DirectionLeft.Sign())
	assert.Equal(t, float64(1), DirectionRight.Sign())
}

func TestDirection_IsValid(t *testing.T) {
	assert.True(t, DirectionLeft.IsValid())
	assert.True(t, DirectionRight.IsValid())
	assert.False(t, Direction("").IsValid())
	assert.False(t, Direction("diagonal").IsValid())
}
