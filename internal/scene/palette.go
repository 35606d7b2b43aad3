package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/msalah0e/strainscope/internal/lineage"
)

// Scene colours.
var (
	Background = "#141d2b"
	Highlight  = "#fff59d"
	EdgeColor  = "#5c6b82"
	RingColor  = "#2a3850"
	StarColor  = "#f2f2f2"
	LabelColor = "#f2f2f2"
	Fallback   = "#9e9e9e"
)

// TypeColors maps the four real strain types to their orb colours.
var TypeColors = map[lineage.Type]string{
	lineage.Sativa:    "#ff8a65",
	lineage.Indica:    "#9575cd",
	lineage.Hybrid:    "#4db6ac",
	lineage.Ruderalis: "#ffd54f",
}

// TypeColor returns the orb colour for t, or Fallback for anything that is
// not one of the four real types.
func TypeColor(t lineage.Type) string {
	if c, ok := TypeColors[t]; ok {
		return c
	}
	return Fallback
}

// Fade blends hex toward the scene background. opacity 1 keeps the colour,
// 0 returns the background.
func Fade(hex string, opacity float64) string {
	return Blend(hex, Background, 1-clamp01(opacity))
}

// Blend mixes a toward b by t in RGB space. Unparseable colours are
// returned unchanged.
func Blend(a, b string, t float64) string {
	ca, err := colorful.Hex(a)
	if err != nil {
		return a
	}
	cb, err := colorful.Hex(b)
	if err != nil {
		return a
	}
	return ca.BlendRgb(cb, clamp01(t)).Clamped().Hex()
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	}
	return v
}
