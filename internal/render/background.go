package render

import "math/rand"

// BackgroundStar is a decorative point with no gameplay effect.
type BackgroundStar struct {
	X, Y   float64
	Radius float64
	Alpha  float64
}

// Background is a fixed set of decorative stars. It is generated once per
// session so frames stay visually stable between redraws.
type Background struct {
	Seed  int64
	Stars []BackgroundStar
}

// NewBackground scatters count stars over a size×size canvas from seed.
func NewBackground(seed int64, count int, size float64) *Background {
	if count < 0 {
		count = 0
	}
	rng := rand.New(rand.NewSource(seed))
	stars := make([]BackgroundStar, count)
	for i := range stars {
		stars[i] = BackgroundStar{
			X:      rng.Float64() * size,
			Y:      rng.Float64() * size,
			Radius: 0.5 + rng.Float64(),
			Alpha:  0.3 + rng.Float64()*0.5,
		}
	}
	return &Background{Seed: seed, Stars: stars}
}
