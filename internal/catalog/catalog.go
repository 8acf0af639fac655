// Package catalog holds the static constellation definitions the puzzle is played on.
package catalog

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"

	"constellation/internal/domain"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinYAML []byte

// ErrUnknownConstellation is returned when an id is not in the catalog.
var ErrUnknownConstellation = errors.New("unknown constellation")

// Catalog is an ordered, read-only list of constellations.
type Catalog struct {
	entries []*domain.Constellation
	byID    map[string]*domain.Constellation
}

type fileFormat struct {
	Constellations []entryFormat `yaml:"constellations"`
}

type entryFormat struct {
	ID    string            `yaml:"id"`
	Names map[string]string `yaml:"names"`
	Stars []domain.Star     `yaml:"stars"`
	Edges [][]int           `yaml:"edges"`
}

var (
	builtin     *Catalog
	builtinOnce sync.Once
	builtinErr  error
)

// Default returns the embedded catalog. It is parsed once.
func Default() (*Catalog, error) {
	builtinOnce.Do(func() {
		builtin, builtinErr = Parse(builtinYAML)
	})
	return builtin, builtinErr
}

// MustDefault is Default for callers that treat a broken embedded catalog as a bug.
func MustDefault() *Catalog {
	c, err := Default()
	if err != nil {
		panic(fmt.Sprintf("catalog: embedded catalog is invalid: %v", err))
	}
	return c
}

// LoadFile reads and parses a catalog file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return Parse(data)
}

// Parse decodes a YAML catalog. Edges are stored canonically; structural
// problems are left to Validate so a caller can report all of them at once.
func Parse(data []byte) (*Catalog, error) {
	var f fileFormat
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to unmarshal catalog: %w", err)
	}

	c := &Catalog{byID: make(map[string]*domain.Constellation, len(f.Constellations))}
	for _, e := range f.Constellations {
		names := make(map[domain.Language]string, len(e.Names))
		for lang, name := range e.Names {
			names[domain.Language(lang)] = name
		}
		edges := make([]domain.Edge, 0, len(e.Edges))
		for j, p := range e.Edges {
			if len(p) != 2 {
				return nil, fmt.Errorf("constellation %q: edge %d must have exactly two star indices", e.ID, j)
			}
			// Keep invalid pairs as-is so Validate can see them.
			if edge, ok := domain.NewEdge(p[0], p[1]); ok {
				edges = append(edges, edge)
			} else {
				edges = append(edges, domain.Edge{A: p[0], B: p[1]})
			}
		}
		con := &domain.Constellation{
			ID:    e.ID,
			Names: names,
			Stars: e.Stars,
			Edges: edges,
		}
		c.entries = append(c.entries, con)
		if _, dup := c.byID[e.ID]; !dup {
			c.byID[e.ID] = con
		}
	}
	return c, nil
}

// Get looks a constellation up by id.
func (c *Catalog) Get(id string) (*domain.Constellation, error) {
	con, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w: %q (known: %s)", ErrUnknownConstellation, id, strings.Join(c.IDs(), ", "))
	}
	return con, nil
}

// All returns the constellations in catalog order.
func (c *Catalog) All() []*domain.Constellation {
	out := make([]*domain.Constellation, len(c.entries))
	copy(out, c.entries)
	return out
}

// IDs returns the constellation ids in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.entries))
	for i, e := range c.entries {
		ids[i] = e.ID
	}
	return ids
}

// Len returns the number of constellations.
func (c *Catalog) Len() int {
	return len(c.entries)
}

// Next returns the constellation following id, wrapping around. An unknown
// id yields the first entry.
func (c *Catalog) Next(id string) *domain.Constellation {
	if len(c.entries) == 0 {
		return nil
	}
	for i, e := range c.entries {
		if e.ID == id {
			return c.entries[(i+1)%len(c.entries)]
		}
	}
	return c.entries[0]
}
