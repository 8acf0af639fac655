package catalog

import (
	"errors"
	"fmt"

	"constellation/internal/domain"
)

// Limits bounds what a valid catalog may contain.
type Limits struct {
	CanvasSize float64
	PickRadius float64
}

// DefaultLimits matches the widget defaults.
func DefaultLimits() Limits {
	return Limits{CanvasSize: domain.DefaultCanvasSize, PickRadius: domain.DefaultPickRadius}
}

// Validate reports every structural problem in the catalog as one joined error.
func (c *Catalog) Validate(limits Limits) error {
	var errs []error
	if len(c.entries) == 0 {
		errs = append(errs, errors.New("catalog is empty"))
	}

	seen := make(map[string]bool, len(c.entries))
	for i, con := range c.entries {
		where := fmt.Sprintf("constellation %d (%q)", i, con.ID)
		if con.ID == "" {
			errs = append(errs, fmt.Errorf("%s: empty id", where))
		} else if seen[con.ID] {
			errs = append(errs, fmt.Errorf("%s: duplicate id", where))
		}
		seen[con.ID] = true

		for _, lang := range []domain.Language{domain.LangEnglish, domain.LangSpanish} {
			if con.Names[lang] == "" {
				errs = append(errs, fmt.Errorf("%s: missing %s name", where, lang))
			}
		}

		if len(con.Stars) < 2 {
			errs = append(errs, fmt.Errorf("%s: needs at least two stars", where))
		}
		for j, s := range con.Stars {
			if s.X < 0 || s.Y < 0 || s.X > limits.CanvasSize || s.Y > limits.CanvasSize {
				errs = append(errs, fmt.Errorf("%s: star %d (%g,%g) outside the canvas", where, j, s.X, s.Y))
			}
		}

		if len(con.Edges) == 0 {
			errs = append(errs, fmt.Errorf("%s: no target edges", where))
		}
		edgeSeen := make(map[domain.Edge]bool, len(con.Edges))
		for _, e := range con.Edges {
			switch {
			case e.A == e.B:
				errs = append(errs, fmt.Errorf("%s: self loop on star %d", where, e.A))
			case e.A < 0 || e.B < 0 || e.A >= len(con.Stars) || e.B >= len(con.Stars):
				errs = append(errs, fmt.Errorf("%s: edge %s references a missing star", where, e))
			case edgeSeen[e]:
				errs = append(errs, fmt.Errorf("%s: duplicate edge %s", where, e))
			}
			edgeSeen[e] = true
		}

		for _, pair := range domain.OverlappingStars(con.Stars, limits.PickRadius) {
			errs = append(errs, fmt.Errorf("%s: stars %d and %d have overlapping pick radii", where, pair.A, pair.B))
		}
	}
	return errors.Join(errs...)
}
