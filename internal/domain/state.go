package domain

// Language selects which display string is shown to the player.
type Language string

const (
	// LangEnglish is the default display language.
	LangEnglish Language = "en"
	// LangSpanish is the secondary display language.
	LangSpanish Language = "es"
)

// Valid reports whether l is one of the supported display languages.
func (l Language) Valid() bool {
	return l == LangEnglish || l == LangSpanish
}

// Point is a position in widget-local canvas coordinates.
type Point struct {
	X float64
	Y float64
}

// Star is a fixed point of a constellation. Its identity is its index in
// the constellation's star list.
type Star struct {
	X float64 `yaml:"x" json:"x"`
	Y float64 `yaml:"y" json:"y"`
}

// Point returns the star position as a Point.
func (s Star) Point() Point {
	return Point{X: s.X, Y: s.Y}
}

// Constellation is a static puzzle definition.
type Constellation struct {
	ID    string
	Names map[Language]string
	Stars []Star
	Edges []Edge // target edges, canonical
}

// Name returns the display name in lang, falling back to English and then the ID.
func (c *Constellation) Name(lang Language) string {
	if name, ok := c.Names[lang]; ok && name != "" {
		return name
	}
	if name, ok := c.Names[LangEnglish]; ok && name != "" {
		return name
	}
	return c.ID
}

// Selection is the pending source star of a two-click connection.
// Index is only meaningful when Active is true.
type Selection struct {
	Active bool
	Index  int
}

// NoSelection is the empty selection.
var NoSelection = Selection{}

// Selected returns a selection pending on star index i.
func Selected(i int) Selection {
	return Selection{Active: true, Index: i}
}
