// Package camera moves the scene camera: the focus rig that flies toward a
// selected strain, the idle auto-rotation, and perspective projection.
package camera

import (
	"math"

	"github.com/msalah0e/strainscope/internal/layout"
)

const (
	minPolar    = 0.1
	maxPolar    = math.Pi - 0.1
	minDistance = 4.0
	maxDistance = 600.0
	nearPlane   = 0.1
)

// Camera is a perspective camera orbiting Target.
type Camera struct {
	Position layout.Vec3
	Target   layout.Vec3
	FOV      float64 // vertical field of view in degrees
}

// Orbit is the camera position in spherical coordinates around the target.
// Azimuth turns around the vertical axis, measured from +Z toward +X.
type Orbit struct {
	Azimuth  float64
	Polar    float64
	Distance float64
}

// OrbitOf returns c's spherical position around its target.
func OrbitOf(c Camera) Orbit {
	off := c.Position.Sub(c.Target)
	d := off.Len()
	if d == 0 {
		return Orbit{Polar: math.Pi / 2}
	}
	return Orbit{
		Azimuth:  math.Atan2(off.X, off.Z),
		Polar:    math.Acos(clamp(off.Y/d, -1, 1)),
		Distance: d,
	}
}

// WithOrbit places c at o around its current target.
func (c Camera) WithOrbit(o Orbit) Camera {
	s := math.Sin(o.Polar)
	c.Position = c.Target.Add(layout.Vec3{
		X: o.Distance * s * math.Sin(o.Azimuth),
		Y: o.Distance * math.Cos(o.Polar),
		Z: o.Distance * s * math.Cos(o.Azimuth),
	})
	return c
}

// Looking returns a camera aimed at target from the given orbit.
func Looking(target layout.Vec3, o Orbit, fov float64) Camera {
	return Camera{Target: target, FOV: fov}.WithOrbit(o)
}

// Rotate turns the camera around its target, keeping the polar angle away
// from the poles.
func (c Camera) Rotate(dAzimuth, dPolar float64) Camera {
	o := OrbitOf(c)
	o.Azimuth += dAzimuth
	o.Polar = clamp(o.Polar+dPolar, minPolar, maxPolar)
	return c.WithOrbit(o)
}

// Zoom scales the distance to the target by factor.
func (c Camera) Zoom(factor float64) Camera {
	o := OrbitOf(c)
	o.Distance = clamp(o.Distance*factor, minDistance, maxDistance)
	return c.WithOrbit(o)
}

// Viewport is the character grid the scene is projected on. CellAspect is
// the height/width ratio of one terminal cell.
type Viewport struct {
	Width      int
	Height     int
	CellAspect float64
}

// Project maps p to viewport coordinates. depth is the distance along the
// view direction; ok is false for points behind the near plane.
func (c Camera) Project(p layout.Vec3, vp Viewport) (x, y, depth float64, ok bool) {
	forward := c.Target.Sub(c.Position).Unit()
	if forward == (layout.Vec3{}) {
		return 0, 0, 0, false
	}
	up := layout.Vec3{Y: 1}
	right := forward.Cross(up).Unit()
	if right == (layout.Vec3{}) {
		right = layout.Vec3{X: 1}
	}
	camUp := right.Cross(forward)

	rel := p.Sub(c.Position)
	depth = rel.Dot(forward)
	if depth <= nearPlane {
		return 0, 0, depth, false
	}

	fov := c.FOV
	if fov <= 0 {
		fov = 60
	}
	f := math.Tan(fov * math.Pi / 360)
	nx := rel.Dot(right) / (depth * f)
	ny := rel.Dot(camUp) / (depth * f)

	aspect := vp.CellAspect
	if aspect <= 0 {
		aspect = 2
	}
	half := float64(vp.Height) / 2
	x = float64(vp.Width)/2 + nx*half*aspect
	y = half - ny*half
	return x, y, depth, true
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
