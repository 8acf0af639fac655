package domain

import "math"

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// HitTest returns the index of the first star, in list order, whose pick
// radius contains p. It returns -1 when no star is hit.
func HitTest(stars []Star, p Point, radius float64) int {
	for i, star := range stars {
		if Distance(star.Point(), p) < radius {
			return i
		}
	}
	return -1
}

// OverlappingStars returns every pair of stars whose pick radii overlap, which
// makes the first-match tie-break observable to players.
func OverlappingStars(stars []Star, radius float64) []Edge {
	var out []Edge
	for i := 0; i < len(stars); i++ {
		for j := i + 1; j < len(stars); j++ {
			if Distance(stars[i].Point(), stars[j].Point()) < 2*radius {
				out = append(out, Edge{A: i, B: j})
			}
		}
	}
	return out
}
