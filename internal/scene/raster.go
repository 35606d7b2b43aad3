package scene

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/msalah0e/strainscope/internal/camera"
)

// Cell is one character of the rasterised scene.
type Cell struct {
	Rune  rune
	Color string
	Depth float64
}

// Grid is a depth-tested character canvas.
type Grid struct {
	Width  int
	Height int
	Cells  [][]Cell
}

// NewGrid returns an empty w×h grid.
func NewGrid(w, h int) *Grid {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	g := &Grid{Width: w, Height: h, Cells: make([][]Cell, h)}
	for y := range g.Cells {
		row := make([]Cell, w)
		for x := range row {
			row[x] = Cell{Rune: ' ', Depth: math.Inf(1)}
		}
		g.Cells[y] = row
	}
	return g
}

// Plot writes r at (x, y) when depth is nearer than what is already there.
func (g *Grid) Plot(x, y int, r rune, color string, depth float64) bool {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return false
	}
	c := &g.Cells[y][x]
	if depth >= c.Depth {
		return false
	}
	*c = Cell{Rune: r, Color: color, Depth: depth}
	return true
}

// Text writes s starting at (x, y), one rune per cell.
func (g *Grid) Text(x, y int, s, color string, depth float64) {
	for i, r := range []rune(s) {
		g.Plot(x+i, y, r, color, depth)
	}
}

// At returns the cell at (x, y).
func (g *Grid) At(x, y int) Cell {
	if x < 0 || y < 0 || x >= g.Width || y >= g.Height {
		return Cell{Rune: ' ', Depth: math.Inf(1)}
	}
	return g.Cells[y][x]
}

// Plain returns the grid without colour.
func (g *Grid) Plain() string {
	var b strings.Builder
	for y, row := range g.Cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		for _, c := range row {
			b.WriteRune(c.Rune)
		}
	}
	return b.String()
}

// String renders the grid with lipgloss, one style per run of equal colour.
func (g *Grid) String() string {
	styles := make(map[string]lipgloss.Style)
	style := func(color string) lipgloss.Style {
		s, ok := styles[color]
		if !ok {
			s = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
			styles[color] = s
		}
		return s
	}

	var b strings.Builder
	for y, row := range g.Cells {
		if y > 0 {
			b.WriteByte('\n')
		}
		var run []rune
		color := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if color == "" {
				b.WriteString(string(run))
			} else {
				b.WriteString(style(color).Render(string(run)))
			}
			run = run[:0]
		}
		for _, c := range row {
			cc := c.Color
			if c.Rune == ' ' {
				cc = ""
			}
			if cc != color {
				flush()
				color = cc
			}
			run = append(run, c.Rune)
		}
		flush()
	}
	return b.String()
}

// Raster projects f through cam and returns the styled character grid.
func Raster(f Frame, cam camera.Camera, vp camera.Viewport) string {
	return Rasterize(f, cam, vp).String()
}

// Rasterize draws stars, rings, edges and nodes, in that order, into a
// depth-tested grid. Nodes win ties against the lines that end on them.
func Rasterize(f Frame, cam camera.Camera, vp camera.Viewport) *Grid {
	g := NewGrid(vp.Width, vp.Height)

	for _, s := range f.Stars {
		x, y, d, ok := cam.Project(s.Position, vp)
		if !ok {
			continue
		}
		r := '.'
		if s.Brightness > 0.8 {
			r = '*'
		}
		g.Plot(int(math.Floor(x)), int(math.Floor(y)), r, Fade(StarColor, s.Brightness*0.6), d)
	}

	for _, ring := range f.Rings {
		drawRing(g, ring, cam, vp)
	}

	for _, e := range f.Edges {
		drawEdge(g, e, cam, vp)
	}

	for _, n := range f.Nodes {
		drawNode(g, n, cam, vp)
	}
	return g
}

const ringSegments = 64

func drawRing(g *Grid, ring Ring, cam camera.Camera, vp camera.Viewport) {
	color := RingColor
	for i := 0; i < ringSegments; i++ {
		a := 2 * math.Pi * float64(i) / ringSegments
		p := ring.Center
		p.Y += math.Cos(a) * ring.Radius
		p.Z += math.Sin(a) * ring.Radius
		x, y, d, ok := cam.Project(p, vp)
		if !ok {
			continue
		}
		g.Plot(int(math.Floor(x)), int(math.Floor(y)), '·', color, d)
	}
	top := ring.Center
	top.Y += ring.Radius
	if x, y, d, ok := cam.Project(top, vp); ok {
		g.Text(int(math.Floor(x))-2, int(math.Floor(y))-1, fmt.Sprint(ring.Year), Blend(RingColor, LabelColor, 0.35), d)
	}
}

func drawEdge(g *Grid, e EdgeSprite, cam camera.Camera, vp camera.Viewport) {
	x0, y0, d0, ok0 := cam.Project(e.From.Position, vp)
	x1, y1, d1, ok1 := cam.Project(e.To.Position, vp)
	if !ok0 || !ok1 {
		return
	}
	cx0, cy0, cx1, cy1, t0, t1, visible := clipLine(x0, y0, x1, y1, float64(g.Width), float64(g.Height))
	if !visible {
		return
	}
	da := d0 + (d1-d0)*t0
	db := d0 + (d1-d0)*t1

	r := lineRune(x1-x0, y1-y0, e.Kind)
	color := Fade(e.Color, e.Opacity)

	ax, ay := int(math.Floor(cx0)), int(math.Floor(cy0))
	bx, by := int(math.Floor(cx1)), int(math.Floor(cy1))
	steps := bresenham(ax, ay, bx, by)
	for i, pt := range steps {
		t := 0.0
		if len(steps) > 1 {
			t = float64(i) / float64(len(steps)-1)
		}
		g.Plot(pt[0], pt[1], r, color, da+(db-da)*t)
	}
}

// lineRune picks a glyph for a segment of screen slope (dx, dy). Cells are
// about twice as tall as they are wide.
func lineRune(dx, dy float64, kind EdgeKind) rune {
	if kind == EdgeDimmed {
		return '·'
	}
	ax, ay := math.Abs(dx), math.Abs(dy)*2
	heavy := kind == EdgeHighlighted
	switch {
	case ay < ax*0.4:
		if heavy {
			return '━'
		}
		return '─'
	case ax < ay*0.4:
		if heavy {
			return '┃'
		}
		return '│'
	case (dx > 0) == (dy > 0):
		return '╲'
	default:
		return '╱'
	}
}

func nodeRune(n NodeSprite) rune {
	switch {
	case n.State.Dimmed:
		return '·'
	case n.Emphasis == EmphasisFocused:
		return '◉'
	case n.Emphasis == EmphasisHighlighted, n.Emphasis == EmphasisMatched:
		return '●'
	case n.Emphasis == EmphasisHovered:
		return '◎'
	}
	return '•'
}

func drawNode(g *Grid, n NodeSprite, cam camera.Camera, vp camera.Viewport) {
	x, y, d, ok := cam.Project(n.Node.Position, vp)
	if !ok {
		return
	}
	cx, cy := int(math.Floor(x)), int(math.Floor(y))
	// Pull nodes slightly forward so they sit on top of their own edges.
	depth := d - 0.5*n.Scale
	g.Plot(cx, cy, nodeRune(n), Fade(n.Color, n.Opacity), depth)

	switch n.Emphasis {
	case EmphasisFocused:
		g.Text(cx+2, cy, fmt.Sprintf("%s (%d)", n.Node.Name, n.Node.Year), LabelColor, depth)
	case EmphasisHighlighted, EmphasisHovered:
		g.Text(cx+2, cy, n.Node.Name, Fade(LabelColor, 0.7), depth+0.25)
	}
}

// clipLine clips the segment to [0,w)×[0,h) (Liang-Barsky) and returns the
// clipped endpoints plus their parameters along the original segment.
func clipLine(x0, y0, x1, y1, w, h float64) (cx0, cy0, cx1, cy1, t0, t1 float64, ok bool) {
	dx, dy := x1-x0, y1-y0
	t0, t1 = 0, 1
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0, w - 1e-9 - x0, y0, h - 1e-9 - y0}
	for i := range p {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, 0, 0, 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, 0, 0, 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, 0, 0, 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	return x0 + t0*dx, y0 + t0*dy, x0 + t1*dx, y0 + t1*dy, t0, t1, true
}

func bresenham(x0, y0, x1, y1 int) [][2]int {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy
	pts := make([][2]int, 0, max(dx, -dy)+1)
	for {
		pts = append(pts, [2]int{x0, y0})
		if x0 == x1 && y0 == y1 {
			return pts
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
