package stats

import (
	"sort"
	"time"

	"github.com/msalah0e/strainscope/internal/activity"
	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
)

// Summary holds aggregated dataset stats.
type Summary struct {
	Strains     int
	Connections int
	TopLevel    int
	Founders    int // strains without parents
	MinYear     int
	MaxYear     int
	MaxDepth    int
	ByType      map[lineage.Type]int
	ByDecade    map[int]int
	// Shared lists strains with more than one descendant, most used first.
	Shared []Count
}

// Count pairs a strain with a tally.
type Count struct {
	ID    string
	Name  string
	Count int
}

// Summarize aggregates g. Unknown types are counted under lineage.Other.
func Summarize(g *layout.Graph) *Summary {
	b := g.Bounds()
	s := &Summary{
		Strains:     g.Len(),
		Connections: len(g.Connections),
		MinYear:     b.MinYear,
		MaxYear:     b.MaxYear,
		MaxDepth:    b.MaxDepth,
		ByType:      make(map[lineage.Type]int),
		ByDecade:    make(map[int]int),
	}
	if root, ok := g.Node(lineage.RootID); ok && root.Strain != nil {
		s.TopLevel = len(root.Strain.Parents)
	}

	children := make(map[string]int)
	for _, c := range g.Connections {
		children[c.To]++
	}

	for _, n := range g.Sorted() {
		t := n.Type
		if lineage.ParseType(string(t)) == lineage.Other {
			t = lineage.Other
		}
		s.ByType[t]++
		s.ByDecade[n.Year/10*10]++
		if len(n.Strain.Parents) == 0 {
			s.Founders++
		}
		if k := children[n.ID]; k > 1 {
			s.Shared = append(s.Shared, Count{ID: n.ID, Name: n.Name, Count: k})
		}
	}
	sortCounts(s.Shared)
	return s
}

// Decades returns the keys of ByDecade in order.
func (s *Summary) Decades() []int {
	out := make([]int, 0, len(s.ByDecade))
	for d := range s.ByDecade {
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}

// Usage holds aggregated explorer activity.
type Usage struct {
	Sessions   int
	Selections int
	Exports    int
	LastUsed   time.Time
	TopStrains []Count
}

// SummarizeUsage aggregates activity entries. Names come from g when the
// strain is still in the dataset.
func SummarizeUsage(entries []activity.Entry, g *layout.Graph) *Usage {
	u := &Usage{}
	sessions := make(map[string]bool)
	picks := make(map[string]int)
	for _, e := range entries {
		if e.Timestamp.After(u.LastUsed) {
			u.LastUsed = e.Timestamp
		}
		if e.Session != "" {
			sessions[e.Session] = true
		}
		switch e.Action {
		case "select":
			u.Selections++
			if e.Strain != "" {
				picks[e.Strain]++
			}
		case "export":
			u.Exports++
		}
	}
	u.Sessions = len(sessions)

	for id, k := range picks {
		name := id
		if g != nil {
			if n, ok := g.Node(id); ok {
				name = n.Name
			}
		}
		u.TopStrains = append(u.TopStrains, Count{ID: id, Name: name, Count: k})
	}
	sortCounts(u.TopStrains)
	return u
}

func sortCounts(c []Count) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Count != c[j].Count {
			return c[i].Count > c[j].Count
		}
		return c[i].ID < c[j].ID
	})
}
