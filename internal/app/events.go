package app

import "constellation/internal/domain"

// EventKind identifies emitted puzzle events for host dispatch.
type EventKind string

const (
	EventSessionStarted   EventKind = "session_started"
	EventSessionReset     EventKind = "session_reset"
	EventSelectionChanged EventKind = "selection_changed"
	EventEdgeAdded        EventKind = "edge_added"
	EventPuzzleCompleted  EventKind = "puzzle_completed"
	EventHintToggled      EventKind = "hint_toggled"
	EventPointerMoved     EventKind = "pointer_moved"
)

// Event is an app event produced by a session operation.
type Event struct {
	Kind    EventKind
	Payload any
}

type SessionStartedPayload struct {
	SessionID       string
	ConstellationID string
	StarCount       int
	TargetEdges     int
}

type SessionResetPayload struct {
	SessionID       string
	ConstellationID string
}

type SelectionChangedPayload struct {
	Selection domain.Selection
}

type EdgeAddedPayload struct {
	Edge    domain.Edge
	Matched int // target edges drawn so far
	Total   int
	// Extra counts drawn edges that are not part of the target.
	Extra int
}

type PuzzleCompletedPayload struct {
	SessionID       string
	ConstellationID string
	Edges           []domain.Edge
}

type HintToggledPayload struct {
	Visible bool
}

type PointerMovedPayload struct {
	Point domain.Point
}
