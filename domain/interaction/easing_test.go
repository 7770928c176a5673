package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEaseOutElastic(t *testing.T) {
	tests := []struct {
		name string
		t    float64
		want float64
	}{
		{name: "start", t: 0, want: 0},
		{name: "end", t: 1, want: 1},
		{name: "clamps below zero", t: -0.5, want: 0},
		{name: "clamps above one", t: 1.5, want: 1},
		// The 2pi/3 period makes the quarter points exact.
		{name: "first overshoot peak region", t: 0.1, want: 1.25},
		{name: "quarter", t: 0.25, want: 0.9116116523516816},
		{name: "half", t: 0.5, want: 1.015625},
		{name: "three quarters", t: 0.75, want: 1.0055242717280199},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, EaseOutElastic(tt.t), 1e-12)
		})
	}
}

func TestEaseOutElastic_Overshoots(t *testing.T) {
	// Elastic easing must cross 1 before settling; a plain ease-out
	// never does.
	overshot := false
	for p := 0.01; p < 1; p += 0.01 {
		if EaseOutElastic(p) > 1 {
			overshot = true
			break
		}
	}
	assert.True(t, overshot)
}

func TestEaseOutElastic_SettlesNearEnd(t *testing.T) {
	// Oscillation amplitude decays exponentially; by 90% progress the
	// curve stays within half a percent of the target.
	for p := 0.9; p < 1; p += 0.01 {
		v := EaseOutElastic(p)
		assert.InDelta(t, 1.0, v, 0.005, "progress %.2f", p)
	}
}

func BenchmarkEaseOutElastic(b *testing.B) {
	for i := 0; i < b.N; i++ {
		EaseOutElastic(float64(i%100) / 100)
	}
}
