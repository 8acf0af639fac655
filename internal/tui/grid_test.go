package tui

import (
	"testing"

	"constellation/internal/catalog"
	"constellation/internal/domain"
	"constellation/internal/render"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGridMapping(t *testing.T) {
	g := NewGrid(30, 300)
	assert.Equal(t, 60, g.Cols)

	col, row := g.PointToCell(domain.Point{X: 42, Y: 105})
	assert.Equal(t, 8, col)
	assert.Equal(t, 10, row)
	assert.Equal(t, domain.Point{X: 42.5, Y: 105}, g.CellToPoint(col, row))

	col, row = g.PointToCell(domain.Point{X: 300, Y: -5})
	assert.Equal(t, 59, col, "clamped to the last column")
	assert.Equal(t, 0, row, "clamped to the first row")
}

// Clicking the cell that shows a star must hit that star.
func TestGridStarCellsHitTheirStar(t *testing.T) {
	cat := catalog.MustDefault()
	for rows := minRows; rows <= 40; rows++ {
		g := NewGrid(rows, domain.DefaultCanvasSize)
		for _, c := range cat.All() {
			for i, s := range c.Stars {
				col, row := g.PointToCell(s.Point())
				got := domain.HitTest(c.Stars, g.ClickPoint(c.Stars, col, row), domain.DefaultPickRadius)
				assert.Equal(t, i, got, "%s star %d at %d rows", c.ID, i, rows)
			}
		}
	}
}

func TestClickPointOffStarIsCellCentre(t *testing.T) {
	c, err := catalog.MustDefault().Get("crux")
	require.NoError(t, err)
	g := NewGrid(minRows, domain.DefaultCanvasSize)

	col, row := g.PointToCell(c.Stars[0].Point())
	assert.Equal(t, c.Stars[0].Point(), g.ClickPoint(c.Stars, col, row))

	assert.Equal(t, g.CellToPoint(0, 0), g.ClickPoint(c.Stars, 0, 0))
}

func TestRasterKeepsStarsAboveEdges(t *testing.T) {
	c, err := catalog.MustDefault().Get("cassiopeia")
	require.NoError(t, err)
	sess := domain.NewSession("s", c, 0)
	sess.Connections.Add(0, 1)
	sess.HintVisible = true

	g := NewGrid(30, 300)
	cells := g.Raster(render.Build(sess, nil, render.DefaultOptions()))

	counts := map[CellKind]int{}
	for _, row := range cells {
		for _, cell := range row {
			counts[cell.Kind]++
		}
	}
	assert.Equal(t, len(c.Stars), counts[CellStar])
	assert.Positive(t, counts[CellEdge])
	assert.Positive(t, counts[CellHint])

	// Edge 0-1 runs down and to the right.
	c0, r0 := g.PointToCell(c.Stars[0].Point())
	c1, r1 := g.PointToCell(c.Stars[1].Point())
	assert.Equal(t, CellStar, cells[r0][c0].Kind)
	assert.Equal(t, CellStar, cells[r1][c1].Kind)
	assert.Equal(t, CellEdge, cells[r0+1][c0+2].Kind)
}

func TestRasterPendingLineIsDashed(t *testing.T) {
	c, err := catalog.MustDefault().Get("cassiopeia")
	require.NoError(t, err)
	sess := domain.NewSession("s", c, 0)
	sess.HandleStarClick(c.Stars[0].Point())
	sess.MovePointer(domain.Point{X: 40, Y: 250})

	g := NewGrid(30, 300)
	cells := g.Raster(render.Build(sess, nil, render.DefaultOptions()))

	col, _ := g.PointToCell(c.Stars[0].Point())
	var column []CellKind
	for r := 11; r <= 25; r++ {
		column = append(column, cells[r][col].Kind)
	}
	assert.Contains(t, column, CellPending)
	assert.Contains(t, column, CellEmpty, "dashed lines leave gaps")

	sel, r := g.PointToCell(c.Stars[0].Point())
	assert.Equal(t, CellSelected, cells[r][sel].Kind)
}

func TestLineGlyph(t *testing.T) {
	assert.Equal(t, '─', lineGlyph(10, 0))
	assert.Equal(t, '│', lineGlyph(0, 5))
	assert.Equal(t, '╲', lineGlyph(4, 2))
	assert.Equal(t, '╱', lineGlyph(4, -2))
}
