package interaction

import "math"

// elasticPeriod is the angular frequency of the elastic-out curve,
// giving it its characteristic 0.3 period.
const elasticPeriod = 2 * math.Pi / 3

// EaseOutElastic maps linear progress to an elastic overshoot curve:
// the value shoots past 1 and oscillates back with exponentially
// decaying amplitude. Inputs at or beyond the boundaries clamp to them.
func EaseOutElastic(t float64) float64 {
	if t <= 0 {
		return 0
	}
	if t >= 1 {
		return 1
	}
	return math.Pow(2, -10*t)*math.Sin((10*t-0.75)*elasticPeriod) + 1
}
