package solver

import (
	"math/rand"

	"constellation/internal/domain"
)

// PathStrategy draws each target edge from its lower to its higher star.
type PathStrategy struct{}

func (PathStrategy) Plan(c *domain.Constellation, radius float64) []domain.Point {
	clicks := make([]domain.Point, 0, 2*len(c.Edges))
	for _, e := range c.Edges {
		clicks = append(clicks, c.Stars[e.A].Point(), c.Stars[e.B].Point())
	}
	return clicks
}

// ShuffledStrategy draws the target edges in a random order, each in a random direction.
type ShuffledStrategy struct {
	rng *rand.Rand
}

func (s *ShuffledStrategy) Plan(c *domain.Constellation, radius float64) []domain.Point {
	clicks := make([]domain.Point, 0, 2*len(c.Edges))
	for _, e := range shuffledEdges(s.rng, c.Edges) {
		clicks = append(clicks, c.Stars[e.A].Point(), c.Stars[e.B].Point())
	}
	return clicks
}

// SloppyStrategy solves the puzzle while making mistakes the puzzle must absorb.
type SloppyStrategy struct {
	rng *rand.Rand
}

func (s *SloppyStrategy) Plan(c *domain.Constellation, radius float64) []domain.Point {
	miss, hasMiss := EmptySpot(c, radius)
	var clicks []domain.Point
	for _, e := range shuffledEdges(s.rng, c.Edges) {
		from, to := c.Stars[e.A].Point(), c.Stars[e.B].Point()
		if hasMiss && s.rng.Intn(3) == 0 {
			// No selection is pending here, so the miss is a no-op.
			clicks = append(clicks, miss)
		}
		clicks = append(clicks, from)
		if s.rng.Intn(3) == 0 {
			clicks = append(clicks, from)
		}
		clicks = append(clicks, to)
		if s.rng.Intn(4) == 0 {
			clicks = append(clicks, to, from)
		}
	}
	return clicks
}

// EmptySpot finds a canvas point outside every star's pick radius.
func EmptySpot(c *domain.Constellation, radius float64) (domain.Point, bool) {
	const step = 10.0
	for y := step / 2; y < domain.DefaultCanvasSize; y += step {
		for x := step / 2; x < domain.DefaultCanvasSize; x += step {
			p := domain.Point{X: x, Y: y}
			if domain.HitTest(c.Stars, p, radius) < 0 {
				return p, true
			}
		}
	}
	return domain.Point{}, false
}

func shuffledEdges(rng *rand.Rand, edges []domain.Edge) []domain.Edge {
	out := make([]domain.Edge, len(edges))
	copy(out, edges)
	rng.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	for i := range out {
		if rng.Intn(2) == 0 {
			out[i] = domain.Edge{A: out[i].B, B: out[i].A}
		}
	}
	return out
}
