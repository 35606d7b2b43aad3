// Package export writes a laid-out lineage graph to files: Graphviz DOT,
// JSON, a self-contained 3D HTML viewer and a plain ancestor tree.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
	"github.com/msalah0e/strainscope/internal/parallel"
	"github.com/msalah0e/strainscope/internal/scene"
)

// Format is an export format name.
type Format string

const (
	DOT  Format = "dot"
	JSON Format = "json"
	HTML Format = "html"
	Tree Format = "tree"
)

// Formats lists every supported format in the order they are written.
var Formats = []Format{DOT, JSON, HTML, Tree}

// Ext returns the file extension for f.
func (f Format) Ext() string {
	if f == Tree {
		return ".txt"
	}
	return "." + string(f)
}

// ParseFormats splits a comma-separated list such as "dot,json". "all"
// selects every format. Duplicates are dropped.
func ParseFormats(s string) ([]Format, error) {
	var out []Format
	seen := make(map[Format]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		if part == "all" {
			return append([]Format(nil), Formats...), nil
		}
		f := Format(part)
		if !isFormat(f) {
			return nil, fmt.Errorf("unknown export format %q (want dot, json, html, tree)", part)
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no export format given")
	}
	return out, nil
}

func isFormat(f Format) bool {
	for _, known := range Formats {
		if f == known {
			return true
		}
	}
	return false
}

// Render produces the contents of one format.
func Render(g *layout.Graph, f Format, view View) ([]byte, error) {
	switch f {
	case DOT:
		return []byte(RenderDOT(g)), nil
	case JSON:
		return RenderJSON(g)
	case HTML:
		return []byte(RenderHTML(g, view)), nil
	case Tree:
		return []byte(RenderForest(g, PlainStyle())), nil
	}
	return nil, fmt.Errorf("unknown export format %q", f)
}

// WriteAll renders each format into dir as <base><ext>, in parallel.
func WriteAll(ctx context.Context, g *layout.Graph, formats []Format, dir, base string, view View, progress io.Writer) []parallel.Result {
	tasks := make([]parallel.Task, 0, len(formats))
	for _, f := range formats {
		tasks = append(tasks, parallel.Task{
			Name: string(f),
			Fn: func(ctx context.Context) (string, error) {
				data, err := Render(g, f, view)
				if err != nil {
					return "", err
				}
				if err := ctx.Err(); err != nil {
					return "", err
				}
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return "", err
				}
				path := filepath.Join(dir, base+f.Ext())
				if err := os.WriteFile(path, data, 0o644); err != nil {
					return "", fmt.Errorf("write %s: %w", path, err)
				}
				return path, nil
			},
		})
	}
	return parallel.Run(ctx, tasks, len(tasks), progress)
}

// RenderDOT returns the graph in Graphviz DOT format. Edges point from
// ancestor to descendant and nodes are filled with their type colour.
func RenderDOT(g *layout.Graph) string {
	var b strings.Builder
	b.WriteString("digraph strain_lineage {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=ellipse, style=filled, fontname=\"Helvetica\"];\n\n")

	for _, n := range g.Sorted() {
		label := fmt.Sprintf("%s\\n%d", n.Name, n.Year)
		fmt.Fprintf(&b, "  %q [label=%q, fillcolor=%q, tooltip=%q];\n", n.ID, label, scene.TypeColor(n.Type), string(n.Type))
	}

	conns := append([]layout.Connection(nil), g.Connections...)
	sort.SliceStable(conns, func(i, j int) bool {
		if conns[i].To != conns[j].To {
			return conns[i].To < conns[j].To
		}
		return conns[i].From < conns[j].From
	})

	b.WriteString("\n")
	for _, c := range conns {
		if _, ok := g.Node(c.From); !ok {
			continue
		}
		if _, ok := g.Node(c.To); !ok {
			continue
		}
		fmt.Fprintf(&b, "  %q -> %q;\n", c.To, c.From)
	}
	b.WriteString("}\n")
	return b.String()
}

// Document is the JSON export shape.
type Document struct {
	Params      ParamsDoc           `json:"params"`
	Nodes       []*layout.Node      `json:"nodes"`
	Connections []layout.Connection `json:"connections"`
}

// ParamsDoc records the layout parameters the positions were computed with.
type ParamsDoc struct {
	BaseYear        int     `json:"base_year"`
	WidthPerYear    float64 `json:"width_per_year"`
	RadiusIncrement float64 `json:"radius_increment"`
}

// NewDocument builds the JSON export document. The synthetic root is left
// out.
func NewDocument(g *layout.Graph) Document {
	conns := g.Connections
	if conns == nil {
		conns = []layout.Connection{}
	}
	nodes := g.Sorted()
	if nodes == nil {
		nodes = []*layout.Node{}
	}
	return Document{
		Params: ParamsDoc{
			BaseYear:        g.Params.BaseYear,
			WidthPerYear:    g.Params.WidthPerYear,
			RadiusIncrement: g.Params.RadiusIncrement,
		},
		Nodes:       nodes,
		Connections: conns,
	}
}

// RenderJSON returns the graph as pretty-printed JSON.
func RenderJSON(g *layout.Graph) ([]byte, error) {
	data, err := json.MarshalIndent(NewDocument(g), "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// lineageIDs returns the sorted highlight set of n.
func lineageIDs(n *layout.Node) []string {
	set := lineage.Lineage(n.Strain)
	set[n.ID] = true
	ids := make([]string, 0, len(set))
	for id := range set {
		if id != lineage.RootID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
