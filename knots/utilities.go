package knots

import (
	"fmt"
	"math"

	"github.com/npillmayer/knotwork"
)

// Reduce an angle to fit into -pi .. pi. Works for angles within -3pi .. 3pi,
// which covers differences of two reduced angles.
func reduceAngle(a float64) float64 {
	if math.Abs(a) > math.Pi {
		if a > 0 {
			a -= 2 * math.Pi
		} else {
			a += 2 * math.Pi
		}
	}
	return a
}

// normalizeAngle maps any finite angle into -pi .. pi.
func normalizeAngle(a float64) float64 {
	return math.Remainder(a, 2*math.Pi)
}

func rad2deg(a float64) float64 {
	return a * 180 / math.Pi
}

func ptstring(p knotwork.Pair, iscontrol bool) string {
	if p.IsNaN() {
		return "(<unknown>)"
	}
	if iscontrol {
		return fmt.Sprintf("(%.4f,%.4f)", round(p.X()), round(p.Y()))
	}
	return fmt.Sprintf("(%.4g,%.4g)", round(p.X()), round(p.Y()))
}

func round(x float64) float64 {
	r := math.Round(x*10000.0) / 10000.0
	if r == 0 {
		return 0 // no negative zero in output
	}
	return r
}
