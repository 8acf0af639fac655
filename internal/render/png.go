package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/fogleman/gg"
)

// PNGOptions configures PNG rasterization.
type PNGOptions struct {
	// Pixels is the output width and height in pixels.
	Pixels int
	Dash   float64
}

// DefaultPNGOptions returns sensible defaults for PNG rendering.
func DefaultPNGOptions() PNGOptions {
	return PNGOptions{Pixels: 600, Dash: 5}
}

// Colors used in rendering
var (
	colorSky      = color.RGBA{5, 8, 22, 255}
	colorDust     = color.RGBA{200, 210, 255, 255}
	colorGlow     = color.RGBA{120, 170, 255, 255}
	colorCore     = color.RGBA{255, 255, 255, 255}
	colorSelected = color.RGBA{255, 214, 102, 255}
	colorEdge     = color.RGBA{140, 200, 255, 255}
	colorHint     = color.RGBA{255, 120, 200, 255}
	colorPending  = color.RGBA{255, 255, 255, 255}
)

// EncodePNG rasterizes scene into w.
func EncodePNG(w io.Writer, scene Scene, opts PNGOptions) error {
	if opts.Pixels <= 0 {
		opts = DefaultPNGOptions()
	}
	if scene.Size <= 0 {
		return fmt.Errorf("scene has no size")
	}

	dc := gg.NewContext(opts.Pixels, opts.Pixels)
	scale := float64(opts.Pixels) / scene.Size
	dc.Scale(scale, scale)

	for _, op := range scene.Ops {
		switch op.Kind {
		case OpFill:
			dc.SetColor(colorSky)
			dc.Clear()
		case OpBackgroundStar:
			dc.SetColor(withAlpha(colorDust, op.Alpha))
			dc.DrawCircle(op.From.X, op.From.Y, op.Radius)
			dc.Fill()
		case OpStarGlow:
			glow := colorGlow
			if op.Selected {
				glow = colorSelected
			}
			grad := gg.NewRadialGradient(op.From.X, op.From.Y, 0, op.From.X, op.From.Y, op.Radius)
			grad.AddColorStop(0, withAlpha(glow, op.Alpha))
			grad.AddColorStop(1, withAlpha(glow, 0))
			dc.SetFillStyle(grad)
			dc.DrawCircle(op.From.X, op.From.Y, op.Radius)
			dc.Fill()
		case OpStarCore:
			core := colorCore
			if op.Selected {
				core = colorSelected
			}
			dc.SetColor(withAlpha(core, op.Alpha))
			dc.DrawCircle(op.From.X, op.From.Y, op.Radius)
			dc.Fill()
		case OpEdge:
			strokeLine(dc, op, colorEdge, 2, nil)
		case OpHintEdge:
			strokeLine(dc, op, colorHint, 3, nil)
		case OpPendingEdge:
			strokeLine(dc, op, colorPending, 1.5, []float64{opts.Dash, opts.Dash})
		}
	}

	return dc.EncodePNG(w)
}

func strokeLine(dc *gg.Context, op Op, c color.RGBA, width float64, dash []float64) {
	dc.SetColor(withAlpha(c, op.Alpha))
	dc.SetLineWidth(width)
	dc.SetDash(dash...)
	dc.DrawLine(op.From.X, op.From.Y, op.To.X, op.To.Y)
	dc.Stroke()
	dc.SetDash()
}

// withAlpha returns c with its alpha scaled by a in [0,1], premultiplied as color.RGBA expects.
func withAlpha(c color.RGBA, a float64) color.RGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	return color.RGBA{
		R: uint8(float64(c.R) * a),
		G: uint8(float64(c.G) * a),
		B: uint8(float64(c.B) * a),
		A: uint8(float64(c.A) * a),
	}
}
