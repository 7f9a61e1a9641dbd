package state

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// DefaultTolerance is the pick radius in screen pixels.
const DefaultTolerance = 7.0

// Transform maps image coordinates to the screen space the cursor lives in.
type Transform interface {
	ToScreen(r2.Vec) r2.Vec
}

// FindNearest returns the index of the point closest to cursor in screen
// space and whether it is strictly closer than tolerance. With an empty set
// it returns (-1, false).
//
// Among exact ties the lowest index wins; callers should not depend on it.
func FindNearest(points []Point, cursor r2.Vec, tolerance float64, t Transform) (int, bool) {
	if len(points) == 0 {
		return -1, false
	}
	best, bestDist := -1, math.Inf(1)
	for i, p := range points {
		d := r2.Norm(r2.Sub(t.ToScreen(p.Pos()), cursor))
		if d < bestDist {
			best, bestDist = i, d
		}
	}
	return best, bestDist < tolerance
}
