package app

import (
	"errors"
	"fmt"

	"constellation/internal/catalog"
	"constellation/internal/domain"

	"github.com/google/uuid"
)

// Service contains puzzle use-cases operating on domain sessions.
type Service struct {
	catalog    *catalog.Catalog
	pickRadius float64
	newID      func() string
}

// NewService constructs a Service over cat. A non-positive pickRadius uses
// the domain default.
func NewService(cat *catalog.Catalog, pickRadius float64) *Service {
	return &Service{
		catalog:    cat,
		pickRadius: pickRadius,
		newID:      uuid.NewString,
	}
}

var (
	ErrNoSession = errors.New("no active session")
	ErrNoCatalog = errors.New("catalog not configured")

	// ErrInvalidEdge reports an edge that does not join two distinct stars of the constellation.
	ErrInvalidEdge = errors.New("invalid edge")
)

// Catalog returns the catalog the service selects from.
func (s *Service) Catalog() *catalog.Catalog {
	return s.catalog
}

// SelectConstellation creates a fresh session for the given constellation.
// The previous session, if any, is discarded by the caller.
func (s *Service) SelectConstellation(id string) (*domain.Session, []Event, error) {
	if s.catalog == nil {
		return nil, nil, ErrNoCatalog
	}
	con, err := s.catalog.Get(id)
	if err != nil {
		return nil, nil, err
	}

	sess := domain.NewSession(s.newID(), con, s.pickRadius)
	return sess, []Event{{
		Kind: EventSessionStarted,
		Payload: SessionStartedPayload{
			SessionID:       sess.ID,
			ConstellationID: con.ID,
			StarCount:       len(con.Stars),
			TargetEdges:     len(con.Edges),
		},
	}}, nil
}

// ClickStar applies a pointer click to the session and reports what changed.
// Ignored clicks produce no events.
func (s *Service) ClickStar(sess *domain.Session, p domain.Point) ([]Event, error) {
	if sess == nil {
		return nil, ErrNoSession
	}

	res := sess.HandleStarClick(p)
	switch res.Outcome {
	case domain.OutcomeSelected, domain.OutcomeDeselected, domain.OutcomeDuplicateEdge:
		return []Event{selectionChanged(sess)}, nil
	case domain.OutcomeEdgeAdded:
		matched, total := sess.Progress()
		events := []Event{
			selectionChanged(sess),
			{
				Kind: EventEdgeAdded,
				Payload: EdgeAddedPayload{
					Edge:    res.Edge,
					Matched: matched,
					Total:   total,
					Extra:   sess.Connections.Len() - matched,
				},
			},
		}
		if res.Completed {
			events = append(events, Event{
				Kind: EventPuzzleCompleted,
				Payload: PuzzleCompletedPayload{
					SessionID:       sess.ID,
					ConstellationID: sess.Constellation.ID,
					Edges:           sess.Connections.Edges(),
				},
			})
		}
		return events, nil
	default:
		return nil, nil
	}
}

// MovePointer records the pointer. An event is emitted only when the pending
// line needs redrawing.
func (s *Service) MovePointer(sess *domain.Session, p domain.Point) ([]Event, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	if !sess.MovePointer(p) {
		return nil, nil
	}
	return []Event{{Kind: EventPointerMoved, Payload: PointerMovedPayload{Point: p}}}, nil
}

// ResetCurrent clears progress on the current constellation.
func (s *Service) ResetCurrent(sess *domain.Session) ([]Event, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	sess.Reset()
	return []Event{{
		Kind: EventSessionReset,
		Payload: SessionResetPayload{
			SessionID:       sess.ID,
			ConstellationID: sess.Constellation.ID,
		},
	}}, nil
}

// ToggleHint flips the hint overlay. Gameplay state is untouched.
func (s *Service) ToggleHint(sess *domain.Session) ([]Event, error) {
	if sess == nil {
		return nil, ErrNoSession
	}
	visible := sess.ToggleHint()
	return []Event{{Kind: EventHintToggled, Payload: HintToggledPayload{Visible: visible}}}, nil
}

func selectionChanged(sess *domain.Session) Event {
	return Event{Kind: EventSelectionChanged, Payload: SelectionChangedPayload{Selection: sess.Selection}}
}

// Replay starts a session on id and draws edges by clicking their endpoints,
// as a player would. Edges referring to missing stars are rejected.
func (s *Service) Replay(id string, edges []domain.Edge) (*domain.Session, error) {
	sess, _, err := s.SelectConstellation(id)
	if err != nil {
		return nil, err
	}
	stars := sess.Constellation.Stars
	for _, raw := range edges {
		e, ok := domain.NewEdge(raw.A, raw.B)
		if !ok || e.B >= len(stars) {
			return nil, fmt.Errorf("%w: %s", ErrInvalidEdge, raw)
		}
		for _, i := range []int{e.A, e.B} {
			if _, err := s.ClickStar(sess, stars[i].Point()); err != nil {
				return nil, err
			}
		}
	}
	return sess, nil
}
