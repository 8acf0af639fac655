package domain

import "testing"

func TestHitTest(t *testing.T) {
	stars := []Star{{X: 50, Y: 50}, {X: 100, Y: 50}, {X: 60, Y: 50}}

	tests := []struct {
		name  string
		point Point
		want  int
	}{
		{name: "center", point: Point{X: 100, Y: 50}, want: 1},
		{name: "inside radius", point: Point{X: 110, Y: 55}, want: 1},
		{name: "on the boundary misses", point: Point{X: 115, Y: 50}, want: -1},
		{name: "empty space", point: Point{X: 200, Y: 200}, want: -1},
		{name: "overlap resolves to first in list", point: Point{X: 56, Y: 50}, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HitTest(stars, tt.point, DefaultPickRadius); got != tt.want {
				t.Fatalf("HitTest(%v) = %d, want %d", tt.point, got, tt.want)
			}
		})
	}
}

func TestOverlappingStars(t *testing.T) {
	stars := []Star{{X: 50, Y: 50}, {X: 100, Y: 50}, {X: 60, Y: 50}}
	got := OverlappingStars(stars, DefaultPickRadius)
	if len(got) != 1 || got[0] != (Edge{A: 0, B: 2}) {
		t.Fatalf("OverlappingStars = %v, want [0-2]", got)
	}
}

func TestConstellationNameFallback(t *testing.T) {
	c := &Constellation{ID: "lyra", Names: map[Language]string{LangEnglish: "Lyra"}}
	if got := c.Name(LangSpanish); got != "Lyra" {
		t.Fatalf("Name(es) = %q, want English fallback", got)
	}
	c.Names = nil
	if got := c.Name(LangEnglish); got != "lyra" {
		t.Fatalf("Name(en) = %q, want id fallback", got)
	}
}
