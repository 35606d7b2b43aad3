// Package layout places a lineage tree in 3D space.
//
// Strains are laid out along the X axis by year. Distance from that
// timeline axis grows with ancestor depth, and the angle around it comes
// from recursively splitting the full circle between a node's parents.
package layout

import (
	"errors"
	"fmt"
	"math"

	"github.com/msalah0e/strainscope/internal/lineage"
)

// ErrInvalidParams is returned for parameters that would collapse the layout.
var ErrInvalidParams = errors.New("invalid layout parameters")

// Vec3 is a point or direction in scene space.
type Vec3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 { return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

// Scale returns v * k.
func (v Vec3) Scale(k float64) Vec3 { return Vec3{v.X * k, v.Y * k, v.Z * k} }

// Len returns the euclidean length of v.
func (v Vec3) Len() float64 { return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z) }

// Dot is the scalar product of v and o.
func (v Vec3) Dot(o Vec3) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

// Cross is the vector product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{v.Y*o.Z - v.Z*o.Y, v.Z*o.X - v.X*o.Z, v.X*o.Y - v.Y*o.X}
}

// Unit returns v scaled to length 1, or the zero vector.
func (v Vec3) Unit() Vec3 {
	l := v.Len()
	if l == 0 {
		return Vec3{}
	}
	return v.Scale(1 / l)
}

// Lerp moves v toward o by fraction t.
func (v Vec3) Lerp(o Vec3, t float64) Vec3 { return v.Add(o.Sub(v).Scale(t)) }

// AxisDistance is the distance of v from the timeline (X) axis.
func (v Vec3) AxisDistance() float64 { return math.Hypot(v.Y, v.Z) }

// Params controls the geometry of the layout.
type Params struct {
	BaseYear        int
	WidthPerYear    float64
	RadiusIncrement float64
}

// DefaultParams returns the parameters used when nothing is configured.
func DefaultParams() Params {
	return Params{BaseYear: 1960, WidthPerYear: 0.6, RadiusIncrement: 4}
}

// Validate rejects parameters that break the ordering laws of the layout.
func (p Params) Validate() error {
	if p.WidthPerYear <= 0 {
		return fmt.Errorf("%w: width per year must be positive, got %v", ErrInvalidParams, p.WidthPerYear)
	}
	if p.RadiusIncrement <= 0 {
		return fmt.Errorf("%w: radius increment must be positive, got %v", ErrInvalidParams, p.RadiusIncrement)
	}
	return nil
}

// TimelineX is the timeline coordinate of a year.
func (p Params) TimelineX(year int) float64 {
	return float64(year-p.BaseYear) * p.WidthPerYear
}

// Place computes the position of a node at the given depth whose angular
// slice starts at angleStart and spans angleRange.
func (p Params) Place(year, depth int, angleStart, angleRange float64) Vec3 {
	r := float64(depth) * p.RadiusIncrement
	mid := angleStart + angleRange/2
	return Vec3{
		X: p.TimelineX(year),
		Y: math.Cos(mid) * r,
		Z: math.Sin(mid) * r,
	}
}

// visit is called once per traversal step. parent is nil for the root.
// first reports whether this is the first time the node's id is reached.
type visit struct {
	node   *lineage.Strain
	parent *lineage.Strain
	depth  int
	pos    Vec3
	first  bool
}

// walk runs the depth-first pre-order traversal shared by Positions and
// Build. Each distinct record is expanded at most once, so cyclic data
// terminates; a repeated id reached through a different record is still
// expanded so its own ancestors get visited.
func walk(root *lineage.Strain, p Params, fn func(visit)) {
	placed := make(map[string]bool)
	expanded := make(map[*lineage.Strain]bool)

	var step func(n, parent *lineage.Strain, depth int, start, span float64)
	step = func(n, parent *lineage.Strain, depth int, start, span float64) {
		if n == nil {
			return
		}
		first := !placed[n.ID]
		placed[n.ID] = true
		fn(visit{
			node:   n,
			parent: parent,
			depth:  depth,
			pos:    p.Place(n.Year, depth, start, span),
			first:  first,
		})

		if expanded[n] {
			return
		}
		expanded[n] = true

		k := len(n.Parents)
		if k == 0 {
			return
		}
		slice := span / float64(k)
		for i, child := range n.Parents {
			step(child, n, depth+1, start+float64(i)*slice, slice)
		}
	}
	step(root, nil, 0, 0, 2*math.Pi)
}

// Positions computes a position for every id reachable from root.
// The first visit of an id decides its position.
func Positions(root *lineage.Strain, p Params) map[string]Vec3 {
	out := make(map[string]Vec3)
	walk(root, p, func(v visit) {
		if v.first {
			out[v.node.ID] = v.pos
		}
	})
	return out
}
