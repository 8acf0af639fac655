package solver

import (
	"constellation/internal/domain"
)

// Level names a solving strategy.
type Level string

const (
	// LevelPath clicks the target edges in catalog order.
	LevelPath Level = "path"
	// LevelShuffled clicks the target edges in random order and direction.
	LevelShuffled Level = "shuffled"
	// LevelSloppy behaves like LevelShuffled but adds clicks the puzzle must ignore:
	// misses, repeated stars and redrawn edges.
	LevelSloppy Level = "sloppy"
)

// Strategy is the interface that all solving strategies must implement.
type Strategy interface {
	// Plan returns the click sequence that solves c with the given pick radius.
	Plan(c *domain.Constellation, radius float64) []domain.Point
}
