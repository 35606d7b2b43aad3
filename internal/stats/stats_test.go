package stats

import (
	"testing"
	"time"

	"github.com/msalah0e/strainscope/internal/activity"
	"github.com/msalah0e/strainscope/internal/layout"
	"github.com/msalah0e/strainscope/internal/lineage"
)

func testGraph(t *testing.T) *layout.Graph {
	t.Helper()
	afghani := &lineage.Strain{ID: "afghani", Name: "Afghani", Year: 1962, Type: lineage.Indica}
	thai := &lineage.Strain{ID: "thai", Name: "Thai", Year: 1968, Type: lineage.Sativa}
	skunk := &lineage.Strain{ID: "skunk", Name: "Skunk #1", Year: 1978, Type: lineage.Hybrid,
		Parents: []*lineage.Strain{afghani, thai}}
	nl := &lineage.Strain{ID: "nl", Name: "Northern Lights", Year: 1985, Type: lineage.Type("landrace-ish"),
		Parents: []*lineage.Strain{afghani}}
	g, err := layout.Build(lineage.NewRoot([]*lineage.Strain{skunk, nl}), layout.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestSummarize(t *testing.T) {
	s := Summarize(testGraph(t))

	if s.Strains != 4 {
		t.Errorf("expected 4 strains, got %d", s.Strains)
	}
	if s.Connections != 3 {
		t.Errorf("expected 3 connections, got %d", s.Connections)
	}
	if s.TopLevel != 2 {
		t.Errorf("expected 2 top-level strains, got %d", s.TopLevel)
	}
	if s.Founders != 2 {
		t.Errorf("expected 2 founders, got %d", s.Founders)
	}
	if s.MinYear != 1962 || s.MaxYear != 1985 {
		t.Errorf("unexpected year range %d-%d", s.MinYear, s.MaxYear)
	}
	if s.ByType[lineage.Other] != 1 {
		t.Errorf("unknown types should count as Other, got %v", s.ByType)
	}
	if s.ByDecade[1960] != 2 || s.ByDecade[1970] != 1 || s.ByDecade[1980] != 1 {
		t.Errorf("unexpected decades %v", s.ByDecade)
	}
	if got := s.Decades(); len(got) != 3 || got[0] != 1960 || got[2] != 1980 {
		t.Errorf("decades should be sorted, got %v", got)
	}
	if len(s.Shared) != 1 || s.Shared[0].ID != "afghani" || s.Shared[0].Count != 2 {
		t.Errorf("afghani should be the only shared ancestor, got %+v", s.Shared)
	}
}

func TestSummarizeEmpty(t *testing.T) {
	g, err := layout.Build(lineage.NewRoot(nil), layout.DefaultParams())
	if err != nil {
		t.Fatal(err)
	}
	s := Summarize(g)
	if s.Strains != 0 || s.Connections != 0 || len(s.Shared) != 0 {
		t.Errorf("expected an empty summary, got %+v", s)
	}
}

func TestSummarizeUsage(t *testing.T) {
	now := time.Now()
	entries := []activity.Entry{
		{Timestamp: now, Session: "a", Action: "select", Strain: "skunk"},
		{Timestamp: now.Add(-time.Minute), Session: "a", Action: "clear"},
		{Timestamp: now.Add(-2 * time.Minute), Session: "b", Action: "select", Strain: "afghani"},
		{Timestamp: now.Add(-3 * time.Minute), Session: "b", Action: "select", Strain: "skunk"},
		{Timestamp: now.Add(-4 * time.Minute), Session: "c", Action: "select", Strain: "gone"},
		{Timestamp: now.Add(-5 * time.Minute), Action: "export"},
	}
	u := SummarizeUsage(entries, testGraph(t))

	if u.Sessions != 3 {
		t.Errorf("expected 3 sessions, got %d", u.Sessions)
	}
	if u.Selections != 4 || u.Exports != 1 {
		t.Errorf("unexpected counts: %+v", u)
	}
	if !u.LastUsed.Equal(now) {
		t.Errorf("LastUsed should be the newest entry")
	}
	if len(u.TopStrains) != 3 {
		t.Fatalf("expected 3 strains, got %+v", u.TopStrains)
	}
	if top := u.TopStrains[0]; top.ID != "skunk" || top.Name != "Skunk #1" || top.Count != 2 {
		t.Errorf("unexpected top strain %+v", top)
	}
	if u.TopStrains[2].Name != "gone" {
		t.Errorf("strains missing from the dataset keep their id as name, got %+v", u.TopStrains[2])
	}
}
