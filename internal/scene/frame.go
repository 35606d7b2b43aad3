// Package scene turns a laid-out lineage graph and the explorer state into
// drawable sprites, and rasterises them into a terminal character grid.
package scene

import (
	"math"
	"math/rand"

	"github.com/msalah0e/strainscope/internal/explorer"
	"github.com/msalah0e/strainscope/internal/layout"
)

// States supplies the per-node display state. *explorer.Controller
// implements it.
type States interface {
	State(n *layout.Node) explorer.State
	SearchText() string
}

// Emphasis is the scale rule applied to a node, in increasing priority.
type Emphasis int

const (
	EmphasisDefault Emphasis = iota
	EmphasisHovered
	EmphasisMatched
	EmphasisHighlighted
	EmphasisFocused
)

func (e Emphasis) String() string {
	switch e {
	case EmphasisHovered:
		return "hovered"
	case EmphasisMatched:
		return "matched"
	case EmphasisHighlighted:
		return "highlighted"
	case EmphasisFocused:
		return "focused"
	}
	return "default"
}

// EdgeKind classifies how a connection is drawn.
type EdgeKind int

const (
	EdgeDefault EdgeKind = iota
	EdgeHighlighted
	EdgeDimmed
)

// NodeSprite is the drawable form of one strain.
type NodeSprite struct {
	Node     *layout.Node
	State    explorer.State
	Emphasis Emphasis
	Color    string
	Opacity  float64
	Scale    float64
}

// EdgeSprite is the drawable form of one connection.
type EdgeSprite struct {
	From, To *layout.Node
	Kind     EdgeKind
	Color    string
	Opacity  float64
	Width    float64
}

// Ring marks a year on the timeline axis.
type Ring struct {
	Year   int
	Center layout.Vec3
	Radius float64
}

// Star is one background point.
type Star struct {
	Position   layout.Vec3
	Brightness float64
}

// Frame is everything drawn in one tick.
type Frame struct {
	Nodes []NodeSprite
	Edges []EdgeSprite
	Rings []Ring
	Stars []Star
}

// Options are the static scene settings.
type Options struct {
	RingInterval int     // years between rings; 0 disables them
	Stars        int     // starfield size
	StarRadius   float64 // starfield shell radius around the graph centre
	Seed         int64   // starfield seed
}

// DefaultOptions returns the settings used when nothing is configured.
func DefaultOptions() Options {
	return Options{RingInterval: 10, Stars: 120, StarRadius: 400, Seed: 1960}
}

// Compose derives the frame for graph g. It has no side effects; clock is
// the animation time in seconds and hovered the id under the pointer.
func Compose(g *layout.Graph, states States, hovered string, clock float64, opts Options) Frame {
	var f Frame
	if g == nil {
		return f
	}
	searching := states.SearchText() != ""

	byID := make(map[string]explorer.State, g.Len())
	for _, n := range g.Sorted() {
		st := states.State(n)
		byID[n.ID] = st
		f.Nodes = append(f.Nodes, nodeSprite(n, st, searching, n.ID == hovered, clock))
	}

	for _, c := range g.Connections {
		from, okFrom := g.Node(c.From)
		to, okTo := g.Node(c.To)
		if !okFrom || !okTo || from.IsRoot() || to.IsRoot() {
			continue
		}
		f.Edges = append(f.Edges, edgeSprite(from, to, byID[c.From], byID[c.To]))
	}

	f.Rings = Rings(g, opts.RingInterval)
	f.Stars = Starfield(opts.Stars, opts.Seed, g.Center(), opts.StarRadius)
	return f
}

func nodeSprite(n *layout.Node, st explorer.State, searching, hovered bool, clock float64) NodeSprite {
	s := NodeSprite{
		Node:    n,
		State:   st,
		Color:   TypeColor(n.Type),
		Opacity: 0.85,
	}
	switch {
	case st.Focused:
		s.Emphasis = EmphasisFocused
		s.Scale = pulse(1.7, 0.15, 4, clock)
	case st.Highlighted:
		s.Emphasis = EmphasisHighlighted
		s.Scale = pulse(1.35, 0.1, 3, clock)
	case searching && st.Match:
		s.Emphasis = EmphasisMatched
		s.Scale = pulse(1.15, 0.04, 2, clock)
	case hovered:
		s.Emphasis = EmphasisHovered
		s.Scale = 1.08
	default:
		s.Scale = 1
	}
	switch {
	case st.Dimmed:
		s.Opacity = 0.15
	case st.Focused, st.Highlighted:
		s.Opacity = 1
	}
	return s
}

func edgeSprite(from, to *layout.Node, a, b explorer.State) EdgeSprite {
	e := EdgeSprite{From: from, To: to}
	switch {
	case a.Highlighted && b.Highlighted:
		e.Kind = EdgeHighlighted
		e.Color = Highlight
		e.Opacity = 1
		e.Width = 2
	case !a.Match || !b.Match:
		e.Kind = EdgeDimmed
		e.Color = EdgeColor
		e.Opacity = 0.1
		e.Width = 1
	default:
		e.Color = EdgeColor
		e.Opacity = 0.45
		e.Width = 1
	}
	return e
}

func pulse(base, amp, freq, clock float64) float64 {
	return base + amp*math.Sin(clock*freq)
}

// Rings returns a ring every interval years across the graph's year span.
// Each ring sits just outside the deepest ancestor level.
func Rings(g *layout.Graph, interval int) []Ring {
	if interval <= 0 || g.Len() == 0 {
		return nil
	}
	b := g.Bounds()
	radius := float64(b.MaxDepth+1) * g.Params.RadiusIncrement

	first := b.MinYear - mod(b.MinYear, interval)
	var out []Ring
	for y := first; y <= b.MaxYear; y += interval {
		out = append(out, Ring{
			Year:   y,
			Center: layout.Vec3{X: g.Params.TimelineX(y)},
			Radius: radius,
		})
	}
	return out
}

// Starfield scatters n stars on a spherical shell around center. The same
// seed always yields the same stars.
func Starfield(n int, seed int64, center layout.Vec3, radius float64) []Star {
	if n <= 0 || radius <= 0 {
		return nil
	}
	rng := rand.New(rand.NewSource(seed))
	out := make([]Star, n)
	for i := range out {
		// uniform direction on the sphere
		z := rng.Float64()*2 - 1
		theta := rng.Float64() * 2 * math.Pi
		r := math.Sqrt(1 - z*z)
		dist := radius * (0.8 + 0.2*rng.Float64())
		out[i] = Star{
			Position: center.Add(layout.Vec3{
				X: r * math.Cos(theta) * dist,
				Y: z * dist,
				Z: r * math.Sin(theta) * dist,
			}),
			Brightness: 0.3 + 0.7*rng.Float64(),
		}
	}
	return out
}

func mod(a, b int) int {
	m := a % b
	if m < 0 {
		m += b
	}
	return m
}
