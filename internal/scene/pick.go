package scene

import (
	"math"

	"github.com/msalah0e/strainscope/internal/camera"
	"github.com/msalah0e/strainscope/internal/layout"
)

// PickRadius is how far, in cell heights, a click may land from a node and
// still hit it.
const PickRadius = 1.5

// Pick returns the node sprite nearest to the cell (x, y), or false when
// no node projects within PickRadius of it. Among equally near nodes the
// one closer to the camera wins.
func Pick(f Frame, cam camera.Camera, vp camera.Viewport, x, y int) (*layout.Node, bool) {
	aspect := vp.CellAspect
	if aspect <= 0 {
		aspect = 2
	}
	px, py := float64(x)+0.5, float64(y)+0.5

	var (
		best      *layout.Node
		bestDist  = math.Inf(1)
		bestDepth = math.Inf(1)
	)
	for _, n := range f.Nodes {
		sx, sy, d, ok := cam.Project(n.Node.Position, vp)
		if !ok {
			continue
		}
		cx, cy := math.Floor(sx)+0.5, math.Floor(sy)+0.5
		dist := math.Hypot((cx-px)/aspect, cy-py)
		if dist > PickRadius*math.Max(n.Scale, 1) {
			continue
		}
		if dist < bestDist || (dist == bestDist && d < bestDepth) {
			best, bestDist, bestDepth = n.Node, dist, d
		}
	}
	return best, best != nil
}
