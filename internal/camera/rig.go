package camera

import (
	"math"

	"github.com/msalah0e/strainscope/internal/layout"
)

// Rig flies the camera toward the focused strain.
type Rig struct {
	// Offset is added to the focused position to get the camera position.
	Offset layout.Vec3
	// Rate is the exponential approach rate per second.
	Rate float64
}

// Step advances c by dt seconds toward focus. The orbit target approaches
// the focused position and the camera approaches focus + Offset, both by
// the same exponential factor, so the result does not depend on how dt is
// split across frames. With no focus the camera is left untouched.
func (r Rig) Step(c Camera, focus *layout.Node, dt float64) Camera {
	if focus == nil || dt <= 0 {
		return c
	}
	alpha := 1 - math.Exp(-r.Rate*dt)
	c.Target = c.Target.Lerp(focus.Position, alpha)
	c.Position = c.Position.Lerp(focus.Position.Add(r.Offset), alpha)
	return c
}

// Converged reports whether c is within eps of its resting place for focus.
func (r Rig) Converged(c Camera, focus *layout.Node, eps float64) bool {
	if focus == nil {
		return true
	}
	return c.Target.Sub(focus.Position).Len() <= eps &&
		c.Position.Sub(focus.Position.Add(r.Offset)).Len() <= eps
}
