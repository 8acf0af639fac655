package solver

import (
	"fmt"
	"math/rand"
)

// NewStrategy creates a strategy for the specified level. rng is only used by
// randomized levels and may be nil for LevelPath.
func NewStrategy(level Level, rng *rand.Rand) (Strategy, error) {
	switch level {
	case LevelPath:
		return PathStrategy{}, nil
	case LevelShuffled:
		if rng == nil {
			return nil, fmt.Errorf("level %q requires an rng", level)
		}
		return &ShuffledStrategy{rng: rng}, nil
	case LevelSloppy:
		if rng == nil {
			return nil, fmt.Errorf("level %q requires an rng", level)
		}
		return &SloppyStrategy{rng: rng}, nil
	default:
		return nil, fmt.Errorf("unknown solver level: %q", level)
	}
}
