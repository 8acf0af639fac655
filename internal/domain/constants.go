package domain

const (
	// DefaultPickRadius is the distance under which a click hits a star.
	DefaultPickRadius = 15.0
	// DefaultCanvasSize is the width and height of the widget-local canvas.
	DefaultCanvasSize = 300.0
)
