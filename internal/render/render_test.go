package render

import (
	"bytes"
	"image/png"
	"testing"

	"constellation/internal/catalog"
	"constellation/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cassiopeiaSession(t *testing.T) *domain.Session {
	t.Helper()
	con, err := catalog.MustDefault().Get("cassiopeia")
	require.NoError(t, err)
	return domain.NewSession("s1", con, 0)
}

func kinds(scene Scene) []OpKind {
	out := make([]OpKind, 0, len(scene.Ops))
	for _, op := range scene.Ops {
		if len(out) > 0 && out[len(out)-1] == op.Kind {
			continue
		}
		out = append(out, op.Kind)
	}
	return out
}

func TestBuildDrawOrder(t *testing.T) {
	sess := cassiopeiaSession(t)
	sess.Connections.Add(0, 1)
	sess.HintVisible = true
	sess.HandleStarClick(sess.Constellation.Stars[2].Point())
	sess.MovePointer(domain.Point{X: 10, Y: 290})

	scene := Build(sess, NewBackground(1, 20, 300), DefaultOptions())

	// Glow and core alternate per star, so collapse to the layer sequence.
	layers := []OpKind{}
	for _, k := range kinds(scene) {
		if k == OpStarCore {
			k = OpStarGlow
		}
		if len(layers) == 0 || layers[len(layers)-1] != k {
			layers = append(layers, k)
		}
	}
	assert.Equal(t, []OpKind{OpFill, OpBackgroundStar, OpStarGlow, OpEdge, OpHintEdge, OpPendingEdge}, layers)

	last := scene.Ops[len(scene.Ops)-1]
	assert.Equal(t, sess.Constellation.Stars[2].Point(), last.From)
	assert.Equal(t, domain.Point{X: 10, Y: 290}, last.To)
}

func TestBuildOmitsHintAndPendingByDefault(t *testing.T) {
	sess := cassiopeiaSession(t)
	scene := Build(sess, nil, DefaultOptions())

	for _, op := range scene.Ops {
		assert.NotEqual(t, OpHintEdge, op.Kind)
		assert.NotEqual(t, OpPendingEdge, op.Kind)
		assert.NotEqual(t, OpBackgroundStar, op.Kind)
	}
	// fill + glow/core per star
	assert.Len(t, scene.Ops, 1+2*len(sess.Constellation.Stars))
}

func TestBuildHintDrawsAllTargetsRegardlessOfProgress(t *testing.T) {
	sess := cassiopeiaSession(t)
	sess.Connections.Add(0, 1)
	sess.HintVisible = true

	var hints int
	for _, op := range Build(sess, nil, DefaultOptions()).Ops {
		if op.Kind == OpHintEdge {
			hints++
		}
	}
	assert.Equal(t, len(sess.Constellation.Edges), hints)
}

func TestBuildMarksSelectedStar(t *testing.T) {
	sess := cassiopeiaSession(t)
	sess.HandleStarClick(sess.Constellation.Stars[4].Point())

	for _, op := range Build(sess, nil, DefaultOptions()).Ops {
		if op.Kind == OpStarCore {
			assert.Equal(t, op.Star == 4, op.Selected, "star %d", op.Star)
		}
	}
}

func TestBackgroundIsStablePerSeed(t *testing.T) {
	a := NewBackground(42, 50, 300)
	b := NewBackground(42, 50, 300)
	c := NewBackground(43, 50, 300)
	assert.Equal(t, a.Stars, b.Stars)
	assert.NotEqual(t, a.Stars, c.Stars)
	for _, s := range a.Stars {
		assert.True(t, s.X >= 0 && s.X < 300 && s.Y >= 0 && s.Y < 300)
	}
	assert.Empty(t, NewBackground(1, -3, 300).Stars)
}

func TestEncodePNG(t *testing.T) {
	sess := cassiopeiaSession(t)
	sess.Connections.Add(0, 1)
	sess.HintVisible = true
	sess.HandleStarClick(sess.Constellation.Stars[2].Point())
	sess.MovePointer(domain.Point{X: 150, Y: 250})

	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, Build(sess, NewBackground(7, 30, 300), DefaultOptions()), PNGOptions{Pixels: 120, Dash: 4}))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 120, img.Bounds().Dx())
	assert.Equal(t, 120, img.Bounds().Dy())

	// The sky fill dominates the top-left corner.
	r, g, b, _ := img.At(0, 0).RGBA()
	assert.Less(t, r>>8, uint32(40))
	assert.Less(t, g>>8, uint32(40))
	assert.Less(t, b>>8, uint32(60))
}

func TestEncodePNGRejectsEmptyScene(t *testing.T) {
	var buf bytes.Buffer
	assert.Error(t, EncodePNG(&buf, Scene{}, DefaultPNGOptions()))
}
