package layout

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/msalah0e/strainscope/internal/lineage"
)

const eps = 1e-9

func strain(id string, year int, parents ...*lineage.Strain) *lineage.Strain {
	return &lineage.Strain{ID: id, Name: id, Year: year, Type: lineage.Hybrid, Parents: parents}
}

// sharedTree has problem-child-f2 reachable from two different strains.
func sharedTree() *lineage.Strain {
	ogKush := strain("og-kush", 1996)
	pcf2 := strain("problem-child-f2", 2016, ogKush)
	chem := strain("chem-91", 1991)
	cross := strain("chem91-problem-child", 2021, chem, pcf2)
	skinny := strain("skinny-kush", 2022, strain("problem-child-f2", 2016, strain("og-kush", 1996)))
	return lineage.NewRoot([]*lineage.Strain{cross, skinny})
}

func mustBuild(t *testing.T, root *lineage.Strain) *Graph {
	t.Helper()
	g, err := Build(root, DefaultParams())
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	return g
}

func TestPositionsDeterministic(t *testing.T) {
	p := DefaultParams()
	first := Positions(sharedTree(), p)
	second := Positions(sharedTree(), p)
	if diff := cmp.Diff(first, second, cmpopts.EquateApprox(0, eps)); diff != "" {
		t.Errorf("layout not deterministic (-first +second):\n%s", diff)
	}
}

func TestPositionsMatchBuild(t *testing.T) {
	root := sharedTree()
	pos := Positions(root, DefaultParams())
	g := mustBuild(t, root)
	if len(pos) != len(g.Nodes) {
		t.Fatalf("expected %d positions, got %d", len(g.Nodes), len(pos))
	}
	for id, n := range g.Nodes {
		if diff := cmp.Diff(pos[id], n.Position, cmpopts.EquateApprox(0, eps)); diff != "" {
			t.Errorf("position mismatch for %s:\n%s", id, diff)
		}
	}
}

func TestAngularSubdivision(t *testing.T) {
	a := strain("a", 2000)
	b := strain("b", 2000)
	c := strain("c", 1990)
	d := strain("d", 1980)
	b.Parents = []*lineage.Strain{c, d}
	root := lineage.NewRoot([]*lineage.Strain{a, b})
	p := Params{BaseYear: 1960, WidthPerYear: 1, RadiusIncrement: 2}

	pos := Positions(root, p)

	// a gets [0, π), mid π/2; b gets [π, 2π), mid 3π/2, both at depth 1.
	checkPoint(t, "a", pos["a"], Vec3{X: 40, Y: math.Cos(math.Pi/2) * 2, Z: math.Sin(math.Pi/2) * 2})
	checkPoint(t, "b", pos["b"], Vec3{X: 40, Y: math.Cos(3*math.Pi/2) * 2, Z: math.Sin(3*math.Pi/2) * 2})
	// c gets [π, 3π/2), d gets [3π/2, 2π), both at depth 2.
	checkPoint(t, "c", pos["c"], Vec3{X: 30, Y: math.Cos(5*math.Pi/4) * 4, Z: math.Sin(5*math.Pi/4) * 4})
	checkPoint(t, "d", pos["d"], Vec3{X: 20, Y: math.Cos(7*math.Pi/4) * 4, Z: math.Sin(7*math.Pi/4) * 4})
	// the root sits on the axis.
	if r := pos[lineage.RootID].AxisDistance(); r > eps {
		t.Errorf("root should be on the timeline axis, distance %v", r)
	}
}

func checkPoint(t *testing.T, id string, got, want Vec3) {
	t.Helper()
	if got.Sub(want).Len() > 1e-6 {
		t.Errorf("%s: expected %+v, got %+v", id, want, got)
	}
}

func TestDedupSharedAncestor(t *testing.T) {
	g := mustBuild(t, sharedTree())

	if _, ok := g.Node("problem-child-f2"); !ok {
		t.Fatal("problem-child-f2 missing from node map")
	}
	count := 0
	for _, n := range g.Sorted() {
		if n.ID == "problem-child-f2" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("expected exactly one problem-child-f2 node, got %d", count)
	}

	var into []string
	for _, c := range g.Connections {
		if c.To == "problem-child-f2" {
			into = append(into, c.From)
		}
	}
	want := []string{"chem91-problem-child", "skinny-kush"}
	if diff := cmp.Diff(want, into); diff != "" {
		t.Errorf("edges into problem-child-f2 (-want +got):\n%s", diff)
	}
}

func TestDedupFirstVisitWins(t *testing.T) {
	g := mustBuild(t, sharedTree())
	n, _ := g.Node("problem-child-f2")
	if n.Depth != 2 {
		t.Errorf("expected first-visit depth 2, got %d", n.Depth)
	}
	// repeated identical edges collapse
	seen := make(map[Connection]int)
	for _, c := range g.Connections {
		seen[c]++
		if seen[c] > 1 {
			t.Errorf("connection %+v recorded twice", c)
		}
	}
	if seen[Connection{From: "problem-child-f2", To: "og-kush"}] != 1 {
		t.Error("expected problem-child-f2 -> og-kush edge")
	}
}

func TestRepeatedIDExpandsNewAncestors(t *testing.T) {
	z := strain("z", 1970)
	firstX := strain("x", 1990)
	secondX := strain("x", 1990, z)
	root := lineage.NewRoot([]*lineage.Strain{strain("a", 2000, firstX), strain("b", 2001, secondX)})

	g := mustBuild(t, root)
	if _, ok := g.Node("z"); !ok {
		t.Fatal("ancestor listed only under the repeated id was not traversed")
	}
	zn, _ := g.Node("z")
	if zn.Depth != 3 {
		t.Errorf("expected z at depth 3, got %d", zn.Depth)
	}
	if len(g.Descendants("z")) != 1 || g.Descendants("z")[0].ID != "x" {
		t.Errorf("expected x -> z edge, got %+v", g.Descendants("z"))
	}
}

func TestConnectionRulesSkipRoot(t *testing.T) {
	g := mustBuild(t, sharedTree())
	for _, c := range g.Connections {
		if c.From == lineage.RootID || c.To == lineage.RootID {
			t.Errorf("connection touches the synthetic root: %+v", c)
		}
	}

	// a child of the sentinel type is never connected
	sentinel := &lineage.Strain{ID: "ghost", Name: "ghost", Year: 1990, Type: lineage.RootType}
	root := lineage.NewRoot([]*lineage.Strain{strain("a", 2000, sentinel)})
	g = mustBuild(t, root)
	if len(g.Connections) != 0 {
		t.Errorf("expected no connections, got %+v", g.Connections)
	}
}

func TestDepthRadiusLaw(t *testing.T) {
	g := mustBuild(t, sharedTree())
	nodes := g.Sorted()
	for _, a := range nodes {
		for _, b := range nodes {
			if a.Depth < b.Depth && !(a.Position.AxisDistance() < b.Position.AxisDistance()) {
				t.Errorf("%s (depth %d, r=%v) should be closer to the axis than %s (depth %d, r=%v)",
					a.ID, a.Depth, a.Position.AxisDistance(), b.ID, b.Depth, b.Position.AxisDistance())
			}
		}
	}
}

func TestTimelineLaw(t *testing.T) {
	g := mustBuild(t, sharedTree())
	nodes := g.Sorted()
	for _, a := range nodes {
		for _, b := range nodes {
			if a.Year < b.Year && !(a.Position.X < b.Position.X) {
				t.Errorf("%s (%d) should precede %s (%d) on the timeline", a.ID, a.Year, b.ID, b.Year)
			}
		}
	}
}

func TestCycleTerminates(t *testing.T) {
	a := strain("A", 2000)
	b := strain("B", 1990, a)
	a.Parents = []*lineage.Strain{b}
	root := lineage.NewRoot([]*lineage.Strain{a})

	g := mustBuild(t, root)
	if g.Len() != 2 {
		t.Errorf("expected 2 nodes, got %d", g.Len())
	}
	if len(g.Connections) != 2 {
		t.Errorf("expected A->B and B->A, got %+v", g.Connections)
	}
}

func TestSortedAndBounds(t *testing.T) {
	root := lineage.NewRoot([]*lineage.Strain{
		strain("n3", 2010, strain("n1", 1990)),
		strain("n2", 2000),
		{ID: "b", Name: "Beta", Year: 2000, Type: lineage.Sativa},
	})
	g := mustBuild(t, root)

	var ids []string
	for _, n := range g.Sorted() {
		ids = append(ids, n.ID)
	}
	if diff := cmp.Diff([]string{"n1", "b", "n2", "n3"}, ids); diff != "" {
		t.Errorf("sort order (-want +got):\n%s", diff)
	}

	b := g.Bounds()
	if b.MinYear != 1990 || b.MaxYear != 2010 || b.MaxDepth != 2 {
		t.Errorf("unexpected bounds %+v", b)
	}
	if got := g.Ancestors("n3"); len(got) != 1 || got[0].ID != "n1" {
		t.Errorf("unexpected ancestors of n3: %+v", got)
	}
}

func TestBuildRejectsBadParams(t *testing.T) {
	_, err := Build(sharedTree(), Params{BaseYear: 1960, WidthPerYear: 0, RadiusIncrement: 1})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
	_, err = Build(sharedTree(), Params{BaseYear: 1960, WidthPerYear: 1, RadiusIncrement: -1})
	if !errors.Is(err, ErrInvalidParams) {
		t.Errorf("expected ErrInvalidParams, got %v", err)
	}
}

func TestEmbeddedDataset(t *testing.T) {
	ds, err := lineage.LoadFile("../../lineage/strains.yaml")
	if err != nil {
		t.Fatalf("loading embedded dataset: %v", err)
	}
	g := mustBuild(t, ds.Root)

	var into int
	for _, c := range g.Connections {
		if c.To == "problem-child-f2" {
			into++
		}
	}
	if into != 2 {
		t.Errorf("expected 2 edges into problem-child-f2, got %d", into)
	}
	for _, c := range g.Connections {
		if _, ok := g.Node(c.From); !ok {
			t.Errorf("edge source %s missing", c.From)
		}
		if _, ok := g.Node(c.To); !ok {
			t.Errorf("edge target %s missing", c.To)
		}
	}
}
