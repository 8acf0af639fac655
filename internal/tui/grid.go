package tui

import (
	"math"

	"constellation/internal/domain"
	"constellation/internal/render"
)

// CellKind selects the glyph style of a grid cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellDust
	CellGlow
	CellStar
	CellSelected
	CellEdge
	CellHint
	CellPending
	CellPanel
	CellButton
)

// Cell is one terminal character of the canvas.
type Cell struct {
	Rune rune
	Kind CellKind
}

// Grid maps the square widget canvas onto terminal cells. Terminal cells are
// roughly twice as tall as they are wide, so Cols is normally 2*Rows.
type Grid struct {
	Cols, Rows int
	Size       float64
}

// NewGrid returns a grid of rows terminal rows over a size×size canvas.
func NewGrid(rows int, size float64) Grid {
	if rows < 1 {
		rows = 1
	}
	return Grid{Cols: rows * 2, Rows: rows, Size: size}
}

// CellToPoint returns the canvas point at the centre of a cell.
func (g Grid) CellToPoint(col, row int) domain.Point {
	return domain.Point{
		X: (float64(col) + 0.5) * g.Size / float64(g.Cols),
		Y: (float64(row) + 0.5) * g.Size / float64(g.Rows),
	}
}

// PointToCell returns the cell containing p, clamped to the grid.
func (g Grid) PointToCell(p domain.Point) (col, row int) {
	col = clamp(int(math.Floor(p.X*float64(g.Cols)/g.Size)), 0, g.Cols-1)
	row = clamp(int(math.Floor(p.Y*float64(g.Rows)/g.Size)), 0, g.Rows-1)
	return col, row
}

// ClickPoint maps a click on (col, row) to a canvas point. A click on the cell
// that shows a star lands on that star; any other cell maps to its centre.
func (g Grid) ClickPoint(stars []domain.Star, col, row int) domain.Point {
	for _, s := range stars {
		if c, r := g.PointToCell(s.Point()); c == col && r == row {
			return s.Point()
		}
	}
	return g.CellToPoint(col, row)
}

// Contains reports whether (col, row) lies on the grid.
func (g Grid) Contains(col, row int) bool {
	return col >= 0 && col < g.Cols && row >= 0 && row < g.Rows
}

// Raster draws scene onto the grid in display-list order. Lines never cover
// the star cells they connect.
func (g Grid) Raster(scene render.Scene) [][]Cell {
	cells := make([][]Cell, g.Rows)
	for r := range cells {
		cells[r] = make([]Cell, g.Cols)
	}
	wipe := func() {
		for r := range cells {
			for c := range cells[r] {
				cells[r][c] = Cell{Rune: ' ', Kind: CellEmpty}
			}
		}
	}
	wipe()

	for _, op := range scene.Ops {
		switch op.Kind {
		case render.OpFill:
			wipe()
		case render.OpBackgroundStar:
			c, r := g.PointToCell(op.From)
			glyph := '.'
			if op.Alpha > 0.6 {
				glyph = '·'
			}
			cells[r][c] = Cell{Rune: glyph, Kind: CellDust}
		case render.OpStarGlow:
			c, r := g.PointToCell(op.From)
			for _, dc := range []int{-1, 1} {
				if g.Contains(c+dc, r) && cells[r][c+dc].Kind <= CellDust {
					cells[r][c+dc] = Cell{Rune: '·', Kind: CellGlow}
				}
			}
		case render.OpStarCore:
			c, r := g.PointToCell(op.From)
			if op.Selected {
				cells[r][c] = Cell{Rune: '◉', Kind: CellSelected}
			} else {
				cells[r][c] = Cell{Rune: '✦', Kind: CellStar}
			}
		case render.OpEdge:
			g.line(cells, op.From, op.To, false, func(prev Cell, glyph rune) (Cell, bool) {
				return Cell{Rune: glyph, Kind: CellEdge}, true
			})
		case render.OpHintEdge:
			g.line(cells, op.From, op.To, false, func(prev Cell, glyph rune) (Cell, bool) {
				// Translucent: confirmed edges show through.
				if prev.Kind == CellEdge {
					return prev, false
				}
				return Cell{Rune: '·', Kind: CellHint}, true
			})
		case render.OpPendingEdge:
			g.line(cells, op.From, op.To, true, func(prev Cell, glyph rune) (Cell, bool) {
				return Cell{Rune: glyph, Kind: CellPending}, true
			})
		}
	}
	return cells
}

// line plots a Bresenham line between the cells of from and to. The start
// cell is never drawn and the end cell only when it holds no star.
func (g Grid) line(cells [][]Cell, from, to domain.Point, dashed bool, paint func(prev Cell, glyph rune) (Cell, bool)) {
	c0, r0 := g.PointToCell(from)
	c1, r1 := g.PointToCell(to)
	glyph := lineGlyph(c1-c0, r1-r0)

	dc, dr := abs(c1-c0), -abs(r1-r0)
	sc, sr := sign(c1-c0), sign(r1-r0)
	errAcc := dc + dr
	c, r := c0, r0
	for step := 0; ; step++ {
		if step > 0 && (!dashed || step%2 == 1) {
			prev := cells[r][c]
			if prev.Kind != CellStar && prev.Kind != CellSelected {
				if next, ok := paint(prev, glyph); ok {
					cells[r][c] = next
				}
			}
		}
		if c == c1 && r == r1 {
			return
		}
		e2 := 2 * errAcc
		if e2 >= dr {
			errAcc += dr
			c += sc
		}
		if e2 <= dc {
			errAcc += dc
			r += sr
		}
	}
}

// lineGlyph picks a box-drawing character for a line direction in cell units.
// Rows are twice as tall as columns, so the row delta is weighted double.
func lineGlyph(dc, dr int) rune {
	x, y := float64(abs(dc)), 2*float64(abs(dr))
	switch {
	case y <= x/2.5:
		return '─'
	case x <= y/2.5:
		return '│'
	case sign(dc) == sign(dr):
		return '╲'
	default:
		return '╱'
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	default:
		return 0
	}
}
