package layout

import (
	"sort"

	"github.com/msalah0e/strainscope/internal/lineage"
)

// Node is a unique strain together with its computed position.
// Position and Depth come from the first traversal visit and never change.
type Node struct {
	ID       string       `json:"id"`
	Name     string       `json:"name"`
	Year     int          `json:"year"`
	Type     lineage.Type `json:"type"`
	Depth    int          `json:"depth"`
	Position Vec3         `json:"position"`

	// Strain is the first record seen for this id. Its Parents are the raw
	// links used for ancestor highlighting.
	Strain *lineage.Strain `json:"-"`
}

// IsRoot reports whether n is the synthetic root.
func (n *Node) IsRoot() bool { return n.ID == lineage.RootID }

// Connection is a drawn edge. From lists To among its parents, so From is
// the descendant and To the ancestor.
type Connection struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// Graph is the deduplicated lineage ready for rendering.
type Graph struct {
	Params      Params
	Nodes       map[string]*Node
	Connections []Connection

	sorted []*Node
}

// Bounds summarises the extent of a graph.
type Bounds struct {
	MinYear  int
	MaxYear  int
	MaxDepth int
}

// Build walks the tree once, keeping one Node per id and every distinct
// traversal edge between real strains.
func Build(root *lineage.Strain, p Params) (*Graph, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	g := &Graph{Params: p, Nodes: make(map[string]*Node)}
	seen := make(map[Connection]bool)

	walk(root, p, func(v visit) {
		if v.first {
			g.Nodes[v.node.ID] = &Node{
				ID:       v.node.ID,
				Name:     v.node.Name,
				Year:     v.node.Year,
				Type:     v.node.Type,
				Depth:    v.depth,
				Position: v.pos,
				Strain:   v.node,
			}
		}
		if v.parent == nil || v.parent.ID == lineage.RootID || v.node.Type == lineage.RootType {
			return
		}
		c := Connection{From: v.parent.ID, To: v.node.ID}
		if seen[c] {
			return
		}
		seen[c] = true
		g.Connections = append(g.Connections, c)
	})

	g.sorted = make([]*Node, 0, len(g.Nodes))
	for _, n := range g.Nodes {
		if !n.IsRoot() {
			g.sorted = append(g.sorted, n)
		}
	}
	sort.Slice(g.sorted, func(i, j int) bool {
		a, b := g.sorted[i], g.sorted[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ID < b.ID
	})
	return g, nil
}

// Node returns the node with the given id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.Nodes[id]
	return n, ok
}

// Sorted returns every non-root node ordered by year, then name.
// The slice is shared; callers must not modify it.
func (g *Graph) Sorted() []*Node {
	return g.sorted
}

// Len is the number of drawable (non-root) nodes.
func (g *Graph) Len() int { return len(g.sorted) }

// Bounds returns the year range and the deepest ancestor level.
func (g *Graph) Bounds() Bounds {
	var b Bounds
	for i, n := range g.sorted {
		if i == 0 || n.Year < b.MinYear {
			b.MinYear = n.Year
		}
		if n.Year > b.MaxYear {
			b.MaxYear = n.Year
		}
		if n.Depth > b.MaxDepth {
			b.MaxDepth = n.Depth
		}
	}
	return b
}

// Center is the midpoint of the timeline, where the idle camera looks.
func (g *Graph) Center() Vec3 {
	b := g.Bounds()
	return Vec3{X: (g.Params.TimelineX(b.MinYear) + g.Params.TimelineX(b.MaxYear)) / 2}
}

// Ancestors returns the nodes that id lists directly as parents.
func (g *Graph) Ancestors(id string) []*Node {
	var out []*Node
	for _, c := range g.Connections {
		if c.From == id {
			if n, ok := g.Nodes[c.To]; ok {
				out = append(out, n)
			}
		}
	}
	return out
}

// Descendants returns the nodes that list id as a parent.
func (g *Graph) Descendants(id string) []*Node {
	var out []*Node
	for _, c := range g.Connections {
		if c.To == id {
			if n, ok := g.Nodes[c.From]; ok {
				out = append(out, n)
			}
		}
	}
	return out
}
