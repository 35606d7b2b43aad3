package activity

import (
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestLogAndRead(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	s := NewSession()
	if _, err := uuid.Parse(s.ID); err != nil {
		t.Fatalf("session id is not a uuid: %v", err)
	}

	base := time.Date(2024, 4, 20, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"skunk-1", "og-kush", "blue-dream"} {
		err := Append(Entry{Timestamp: base.Add(time.Duration(i) * time.Minute), Session: s.ID, Action: "select", Strain: id})
		if err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	entries, err := Read(0)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(entries))
	}
	if entries[0].Strain != "blue-dream" {
		t.Errorf("newest entry should come first, got %q", entries[0].Strain)
	}
	for _, e := range entries {
		if e.Session != s.ID {
			t.Errorf("entry lost its session: %+v", e)
		}
	}

	limited, _ := Read(2)
	if len(limited) != 2 {
		t.Errorf("expected 2 entries, got %d", len(limited))
	}
}

func TestSessionLog(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	s := NewSession()
	if err := s.Log("search", "", "Kush", 0); err != nil {
		t.Fatal(err)
	}
	entries, _ := Read(0)
	if len(entries) != 1 || entries[0].Query != "Kush" || entries[0].Timestamp.IsZero() {
		t.Errorf("unexpected entries %+v", entries)
	}
}

func TestSearch(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	Log("export", "dot,json")
	Append(Entry{Action: "select", Strain: "og-kush", Query: "OG Kush"})
	Append(Entry{Action: "search", Query: "haze"})

	got, err := Search("KUSH", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Strain != "og-kush" {
		t.Errorf("expected the og-kush entry, got %+v", got)
	}

	got, _ = Search("", 2)
	if len(got) != 2 {
		t.Errorf("empty query should match everything up to the limit, got %d", len(got))
	}
}

func TestReadSkipsBrokenLines(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	Log("export", "html")
	f, err := os.OpenFile(Path(), os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		t.Fatal(err)
	}
	f.WriteString("{not json\n\n")
	f.Close()

	entries, err := Read(0)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 entry, got %d", len(entries))
	}
}

func TestClear(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	if err := Clear(); err != nil {
		t.Errorf("clearing a missing log should succeed: %v", err)
	}
	Log("export", "tree")
	if err := Clear(); err != nil {
		t.Fatal(err)
	}
	entries, err := Read(0)
	if err != nil || len(entries) != 0 {
		t.Errorf("expected empty log, got %v, %v", entries, err)
	}
}
