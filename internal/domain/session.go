package domain

// ClickOutcome classifies what a star click did to a session.
type ClickOutcome int

const (
	// OutcomeIgnored means the click changed nothing.
	OutcomeIgnored ClickOutcome = iota
	// OutcomeSelected means a star became the pending selection.
	OutcomeSelected
	// OutcomeDeselected means a click on empty space cleared the selection.
	OutcomeDeselected
	// OutcomeEdgeAdded means a new edge entered the connection set.
	OutcomeEdgeAdded
	// OutcomeDuplicateEdge means the pair already existed; the selection was cleared.
	OutcomeDuplicateEdge
)

func (o ClickOutcome) String() string {
	switch o {
	case OutcomeSelected:
		return "selected"
	case OutcomeDeselected:
		return "deselected"
	case OutcomeEdgeAdded:
		return "edge_added"
	case OutcomeDuplicateEdge:
		return "duplicate_edge"
	default:
		return "ignored"
	}
}

// ClickResult reports the effect of a single star click.
type ClickResult struct {
	Outcome ClickOutcome
	Star    int  // hit star index, -1 on a miss
	Edge    Edge // set for OutcomeEdgeAdded and OutcomeDuplicateEdge
	// Completed is true only on the click that solved the puzzle.
	Completed bool
}

// Session is the puzzle state of one player on one constellation.
type Session struct {
	ID            string
	Constellation *Constellation
	Connections   *ConnectionSet
	Selection     Selection
	Completed     bool
	HintVisible   bool

	// Pointer is the last known pointer position, used for the pending line.
	Pointer      Point
	PointerKnown bool

	PickRadius float64
}

// NewSession returns a fresh session for c. A non-positive radius falls back
// to DefaultPickRadius.
func NewSession(id string, c *Constellation, pickRadius float64) *Session {
	if pickRadius <= 0 {
		pickRadius = DefaultPickRadius
	}
	return &Session{
		ID:            id,
		Constellation: c,
		Connections:   NewConnectionSet(),
		Selection:     NoSelection,
		PickRadius:    pickRadius,
	}
}

// HandleStarClick applies the pick-source, pick-destination interaction.
func (s *Session) HandleStarClick(p Point) ClickResult {
	s.Pointer = p
	s.PointerKnown = true

	if s.Completed {
		return ClickResult{Outcome: OutcomeIgnored, Star: -1}
	}

	hit := HitTest(s.Constellation.Stars, p, s.PickRadius)
	if hit < 0 {
		if s.Selection.Active {
			s.Selection = NoSelection
			return ClickResult{Outcome: OutcomeDeselected, Star: -1}
		}
		return ClickResult{Outcome: OutcomeIgnored, Star: -1}
	}

	if !s.Selection.Active {
		s.Selection = Selected(hit)
		return ClickResult{Outcome: OutcomeSelected, Star: hit}
	}

	from := s.Selection.Index
	if from == hit {
		return ClickResult{Outcome: OutcomeIgnored, Star: hit}
	}

	s.Selection = NoSelection
	edge, added := s.Connections.Add(from, hit)
	if !added {
		return ClickResult{Outcome: OutcomeDuplicateEdge, Star: hit, Edge: edge}
	}

	res := ClickResult{Outcome: OutcomeEdgeAdded, Star: hit, Edge: edge}
	res.Completed = s.checkCompletion()
	return res
}

// MovePointer records the pointer position. It reports whether the frame
// needs to be redrawn, which is only the case while a selection is pending.
func (s *Session) MovePointer(p Point) bool {
	s.Pointer = p
	s.PointerKnown = true
	return s.Selection.Active && !s.Completed
}

// Reset clears connections, selection and completion, keeping the constellation.
func (s *Session) Reset() {
	s.Connections.Clear()
	s.Selection = NoSelection
	s.Completed = false
}

// ToggleHint flips the hint overlay and returns the new visibility.
func (s *Session) ToggleHint() bool {
	s.HintVisible = !s.HintVisible
	return s.HintVisible
}

// Progress returns how many target edges are drawn and the target size.
func (s *Session) Progress() (matched, total int) {
	for _, e := range s.Constellation.Edges {
		if s.Connections.Contains(e) {
			matched++
		}
	}
	return matched, len(s.Constellation.Edges)
}

// checkCompletion re-evaluates the detector and reports a false-to-true transition.
func (s *Session) checkCompletion() bool {
	if s.Completed {
		return false
	}
	s.Completed = IsComplete(s.Connections, s.Constellation.Edges)
	return s.Completed
}
