package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Edge is an unordered pair of star indices stored with the lower index first.
type Edge struct {
	A int
	B int
}

// NewEdge canonicalizes (a, b). ok is false for self loops and negative indices.
func NewEdge(a, b int) (Edge, bool) {
	if a == b || a < 0 || b < 0 {
		return Edge{}, false
	}
	if a > b {
		a, b = b, a
	}
	return Edge{A: a, B: b}, true
}

// String renders the edge as "a-b".
func (e Edge) String() string {
	return strconv.Itoa(e.A) + "-" + strconv.Itoa(e.B)
}

// ParseEdge parses the "a-b" form produced by String. The result is canonical.
func ParseEdge(s string) (Edge, error) {
	left, right, found := strings.Cut(strings.TrimSpace(s), "-")
	if !found {
		return Edge{}, fmt.Errorf("edge %q: expected form a-b", s)
	}
	a, err := strconv.Atoi(strings.TrimSpace(left))
	if err != nil {
		return Edge{}, fmt.Errorf("edge %q: %w", s, err)
	}
	b, err := strconv.Atoi(strings.TrimSpace(right))
	if err != nil {
		return Edge{}, fmt.Errorf("edge %q: %w", s, err)
	}
	e, ok := NewEdge(a, b)
	if !ok {
		return Edge{}, fmt.Errorf("edge %q: not a valid pair of distinct stars", s)
	}
	return e, nil
}

// ConnectionSet is the set of edges drawn by the player. Insertion order is
// kept for rendering only.
type ConnectionSet struct {
	order []Edge
	index map[Edge]struct{}
}

// NewConnectionSet returns an empty set.
func NewConnectionSet() *ConnectionSet {
	return &ConnectionSet{index: make(map[Edge]struct{})}
}

// Add inserts the canonical form of (a, b). It reports false for self loops
// and for edges already present.
func (cs *ConnectionSet) Add(a, b int) (Edge, bool) {
	e, ok := NewEdge(a, b)
	if !ok {
		return Edge{}, false
	}
	if cs.index == nil {
		cs.index = make(map[Edge]struct{})
	}
	if _, exists := cs.index[e]; exists {
		return e, false
	}
	cs.index[e] = struct{}{}
	cs.order = append(cs.order, e)
	return e, true
}

// Contains reports whether the canonical form of e is present.
func (cs *ConnectionSet) Contains(e Edge) bool {
	c, ok := NewEdge(e.A, e.B)
	if !ok {
		return false
	}
	_, exists := cs.index[c]
	return exists
}

// Len returns the number of distinct edges.
func (cs *ConnectionSet) Len() int {
	return len(cs.order)
}

// Edges returns a copy of the edges in insertion order.
func (cs *ConnectionSet) Edges() []Edge {
	out := make([]Edge, len(cs.order))
	copy(out, cs.order)
	return out
}

// Clear removes every edge.
func (cs *ConnectionSet) Clear() {
	cs.order = nil
	cs.index = make(map[Edge]struct{})
}

// IsComplete reports whether the connections are exactly the target edge set:
// same size and every target edge present. Extra or missing edges both fail.
func IsComplete(connections *ConnectionSet, target []Edge) bool {
	if connections.Len() != len(target) {
		return false
	}
	for _, e := range target {
		if !connections.Contains(e) {
			return false
		}
	}
	return true
}
