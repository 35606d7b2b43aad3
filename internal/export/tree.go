package export

import (
	"fmt"
	"strings"

	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
)

// Style colours the parts of a tree. Each function wraps one string.
type Style struct {
	Name   func(string) string
	Subtle func(string) string
	Type   func(lineage.Type) string
}

// PlainStyle returns a style that adds nothing.
func PlainStyle() Style {
	id := func(s string) string { return s }
	return Style{
		Name:   id,
		Subtle: id,
		Type:   func(t lineage.Type) string { return string(t) },
	}
}

// RenderTree draws the ancestry of the strain with the given id, following
// its raw parent links. An ancestor already drawn earlier in the tree is
// listed once more but not expanded again.
func RenderTree(g *layout.Graph, id string, st Style) (string, error) {
	n, ok := g.Node(id)
	if !ok || n.IsRoot() {
		return "", fmt.Errorf("%q: %w", id, lineage.ErrNotFound)
	}
	var b strings.Builder
	writeStrain(&b, n.Strain, "", "", st)
	writeParents(&b, n.Strain, "", map[string]bool{n.ID: true}, st)
	return b.String(), nil
}

// RenderForest draws every top-level strain and its ancestry in dataset
// order.
func RenderForest(g *layout.Graph, st Style) string {
	root, ok := g.Node(lineage.RootID)
	if !ok || root.Strain == nil {
		return ""
	}
	var b strings.Builder
	seen := make(map[string]bool)
	for i, top := range root.Strain.Parents {
		if top == nil {
			continue
		}
		if i > 0 {
			b.WriteString("\n")
		}
		writeStrain(&b, top, "", "", st)
		if seen[top.ID] {
			continue
		}
		seen[top.ID] = true
		writeParents(&b, top, "", seen, st)
	}
	return b.String()
}

func writeParents(b *strings.Builder, s *lineage.Strain, prefix string, seen map[string]bool, st Style) {
	for i, p := range s.Parents {
		if p == nil {
			continue
		}
		isLast := i == len(s.Parents)-1

		connector := "├── "
		childPrefix := prefix + "│   "
		if isLast {
			connector = "└── "
			childPrefix = prefix + "    "
		}

		if seen[p.ID] {
			writeStrain(b, p, prefix+connector, st.Subtle(" (shown above)"), st)
			continue
		}
		seen[p.ID] = true
		writeStrain(b, p, prefix+connector, "", st)
		writeParents(b, p, childPrefix, seen, st)
	}
}

func writeStrain(b *strings.Builder, s *lineage.Strain, lead, suffix string, st Style) {
	fmt.Fprintf(b, "%s%s %s%s\n", lead, st.Name(s.Name), st.Subtle(fmt.Sprintf("(%d, %s)", s.Year, st.Type(s.Type))), suffix)
}
