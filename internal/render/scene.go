// Package render turns puzzle session state into frames: an ordered display
// list that hosts rasterize, plus a PNG rasterizer.
package render

import "constellation/internal/domain"

// OpKind identifies a display-list primitive.
type OpKind int

const (
	OpFill OpKind = iota
	OpBackgroundStar
	OpStarGlow
	OpStarCore
	OpEdge
	OpHintEdge
	OpPendingEdge
)

func (k OpKind) String() string {
	switch k {
	case OpFill:
		return "fill"
	case OpBackgroundStar:
		return "background_star"
	case OpStarGlow:
		return "star_glow"
	case OpStarCore:
		return "star_core"
	case OpEdge:
		return "edge"
	case OpHintEdge:
		return "hint_edge"
	case OpPendingEdge:
		return "pending_edge"
	default:
		return "unknown"
	}
}

// Op is one drawing primitive. Lines use From and To; points use From and Radius.
type Op struct {
	Kind   OpKind
	From   domain.Point
	To     domain.Point
	Radius float64
	Alpha  float64
	// Star is the constellation star index for star ops, -1 otherwise.
	Star int
	// Selected marks the star core of the pending selection.
	Selected bool
}

// Scene is a frame in back-to-front drawing order.
type Scene struct {
	Size float64
	Ops  []Op
}

// Options tunes scene construction.
type Options struct {
	Size       float64
	GlowRadius float64
	CoreRadius float64
}

// DefaultOptions matches the reference widget look.
func DefaultOptions() Options {
	return Options{
		Size:       domain.DefaultCanvasSize,
		GlowRadius: 12,
		CoreRadius: 3,
	}
}

// Build produces the frame for sess. bg may be nil.
func Build(sess *domain.Session, bg *Background, opts Options) Scene {
	if opts.Size <= 0 {
		opts = DefaultOptions()
	}
	stars := sess.Constellation.Stars
	ops := make([]Op, 0, 1+bgLen(bg)+2*len(stars)+sess.Connections.Len()+len(sess.Constellation.Edges)+1)

	ops = append(ops, Op{Kind: OpFill, To: domain.Point{X: opts.Size, Y: opts.Size}, Star: -1, Alpha: 1})

	if bg != nil {
		for _, b := range bg.Stars {
			ops = append(ops, Op{Kind: OpBackgroundStar, From: domain.Point{X: b.X, Y: b.Y}, Radius: b.Radius, Alpha: b.Alpha, Star: -1})
		}
	}

	for i, s := range stars {
		selected := sess.Selection.Active && sess.Selection.Index == i
		ops = append(ops,
			Op{Kind: OpStarGlow, From: s.Point(), Radius: opts.GlowRadius, Alpha: 0.6, Star: i, Selected: selected},
			Op{Kind: OpStarCore, From: s.Point(), Radius: opts.CoreRadius, Alpha: 1, Star: i, Selected: selected},
		)
	}

	for _, e := range sess.Connections.Edges() {
		ops = append(ops, edgeOp(OpEdge, stars, e, 1))
	}

	if sess.HintVisible {
		for _, e := range sess.Constellation.Edges {
			ops = append(ops, edgeOp(OpHintEdge, stars, e, 0.35))
		}
	}

	if sess.Selection.Active && sess.PointerKnown && !sess.Completed {
		from := stars[sess.Selection.Index].Point()
		ops = append(ops, Op{Kind: OpPendingEdge, From: from, To: sess.Pointer, Alpha: 0.8, Star: -1})
	}

	return Scene{Size: opts.Size, Ops: ops}
}

func edgeOp(kind OpKind, stars []domain.Star, e domain.Edge, alpha float64) Op {
	return Op{Kind: kind, From: stars[e.A].Point(), To: stars[e.B].Point(), Alpha: alpha, Star: -1}
}

func bgLen(bg *Background) int {
	if bg == nil {
		return 0
	}
	return len(bg.Stars)
}
