package nakama

import (
	"fmt"

	"constellation/internal/domain"

	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

const (
	MatchLabelKey_OpenSlots = "open" // Key for the free puzzle slots in the match label
	MatchLabelKey_Game      = "game"
	matchLabelGame          = "constellation"
)

// matchLabel renders the match label as protojson so label queries can filter on it.
func matchLabel(open int) (string, error) {
	label, err := structpb.NewStruct(map[string]interface{}{
		MatchLabelKey_Game:      matchLabelGame,
		MatchLabelKey_OpenSlots: open,
	})
	if err != nil {
		return "", err
	}
	b, err := protojson.Marshal(label)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// decodeRequest reads a client message. An empty message decodes to an empty struct.
func decodeRequest(data []byte) (*structpb.Struct, error) {
	req := &structpb.Struct{}
	if len(data) == 0 {
		return req, nil
	}
	if err := proto.Unmarshal(data, req); err != nil {
		return nil, err
	}
	return req, nil
}

func encodePayload(fields map[string]interface{}) ([]byte, error) {
	s, err := structpb.NewStruct(fields)
	if err != nil {
		return nil, err
	}
	return proto.Marshal(s)
}

func stringField(req *structpb.Struct, key string) string {
	return req.GetFields()[key].GetStringValue()
}

// pointFromRequest reads the required numeric x and y fields.
func pointFromRequest(req *structpb.Struct) (domain.Point, error) {
	fields := req.GetFields()
	x, okX := fields["x"].GetKind().(*structpb.Value_NumberValue)
	y, okY := fields["y"].GetKind().(*structpb.Value_NumberValue)
	if !okX || !okY {
		return domain.Point{}, fmt.Errorf("x and y are required numbers")
	}
	return domain.Point{X: x.NumberValue, Y: y.NumberValue}, nil
}

func edgesToList(edges []domain.Edge) []interface{} {
	out := make([]interface{}, 0, len(edges))
	for _, e := range edges {
		out = append(out, []interface{}{e.A, e.B})
	}
	return out
}

func starsToList(stars []domain.Star) []interface{} {
	out := make([]interface{}, 0, len(stars))
	for _, s := range stars {
		out = append(out, map[string]interface{}{"x": s.X, "y": s.Y})
	}
	return out
}

func selectionIndex(sel domain.Selection) int {
	if !sel.Active {
		return -1
	}
	return sel.Index
}

// sessionSnapshot is the full state of one player's session. Target edges are
// only included while the hint is visible.
func sessionSnapshot(sess *domain.Session, lang domain.Language) map[string]interface{} {
	matched, total := sess.Progress()
	snapshot := map[string]interface{}{
		"session_id":       sess.ID,
		"constellation_id": sess.Constellation.ID,
		"name":             sess.Constellation.Name(lang),
		"language":         string(lang),
		"stars":            starsToList(sess.Constellation.Stars),
		"connections":      edgesToList(sess.Connections.Edges()),
		"selected":         selectionIndex(sess.Selection),
		"completed":        sess.Completed,
		"hint_visible":     sess.HintVisible,
		"matched":          matched,
		"total":            total,
	}
	if sess.HintVisible {
		snapshot["target_edges"] = edgesToList(sess.Constellation.Edges)
	}
	return snapshot
}
