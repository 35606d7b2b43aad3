package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/msalah0e/strainscope/internal/config"
	"github.com/msalah0e/strainscope/internal/lineage"
)

const testDataset = `strains:
  - id: skunk
    name: "Skunk #1"
    year: 1978
    type: hybrid
    parents:
      - &afghani
        id: afghani
        name: Afghani
        year: 1960
        type: indica
      - id: acapulco
        name: Acapulco Gold
        year: 1965
        type: sativa
  - id: northern-lights
    name: Northern Lights
    year: 1985
    type: indica
    parents:
      - *afghani
`

// run executes the command line in an isolated config and state directory.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	return runInEnv(t, args...)
}

func runInEnv(t *testing.T, args ...string) (string, error) {
	t.Helper()
	SetLineageFS(fstest.MapFS{
		"lineage/test.yaml": {Data: []byte(testDataset)},
	})

	root := newRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestList(t *testing.T) {
	out, err := run(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Afghani", "Acapulco Gold", "Skunk #1", "Northern Lights", "4 strains"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
	if strings.Index(out, "Afghani") > strings.Index(out, "Northern Lights") {
		t.Error("strains should be listed oldest first")
	}
}

func TestListType(t *testing.T) {
	out, err := run(t, "list", "--type", "INDICA")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Northern Lights") || strings.Contains(out, "Skunk #1") {
		t.Errorf("type filter not applied:\n%s", out)
	}
}

func TestSearch(t *testing.T) {
	out, err := run(t, "search", "AFG")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Afghani") || !strings.Contains(out, "1 results") {
		t.Errorf("unexpected search output:\n%s", out)
	}

	out, err = run(t, "search", "kush")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "No strains found") {
		t.Errorf("expected empty result message:\n%s", out)
	}
}

func TestShow(t *testing.T) {
	out, err := run(t, "show", "northern-lights")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{
		"Northern Lights (1985, Indica)",
		"└── Afghani (1960, Indica)",
		"Highlighted lineage (2)",
		"afghani, northern-lights",
		"Descendants (0)",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("show output missing %q:\n%s", want, out)
		}
	}

	out, err = run(t, "show", "afghani")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Descendants (2)") {
		t.Errorf("shared ancestor should list both descendants:\n%s", out)
	}
}

func TestShowUnknown(t *testing.T) {
	_, err := run(t, "show", "nope")
	if !errors.Is(err, lineage.ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestLayoutJSON(t *testing.T) {
	out, err := run(t, "layout", "--json")
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
		Connections []struct{} `json:"connections"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, out)
	}
	if len(doc.Nodes) != 4 {
		t.Errorf("expected 4 unique nodes, got %d", len(doc.Nodes))
	}
	if len(doc.Connections) != 3 {
		t.Errorf("expected 3 connections, got %d", len(doc.Connections))
	}
}

func TestExportAndHistory(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")
	dir := filepath.Join(t.TempDir(), "out")

	if _, err := runInEnv(t, "export", "--format", "dot,tree", "--out", dir); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"lineage.dot", "lineage.txt"} {
		if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
			t.Errorf("%s not written: %v", name, err)
		}
	}

	out, err := runInEnv(t, "history")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "export") {
		t.Errorf("export should be recorded in history:\n%s", out)
	}

	if _, err := runInEnv(t, "history", "--clear"); err != nil {
		t.Fatal(err)
	}
	out, _ = runInEnv(t, "history")
	if !strings.Contains(out, "No activity recorded yet") {
		t.Errorf("history should be empty after --clear:\n%s", out)
	}
}

func TestExportBadFormat(t *testing.T) {
	if _, err := run(t, "export", "--format", "png"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestDataFlag(t *testing.T) {
	file := filepath.Join(t.TempDir(), "mine.yaml")
	data := "strains:\n  - id: solo\n    name: Solo\n    year: 2001\n    type: mystery\n"
	if err := os.WriteFile(file, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := run(t, "--data", file, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "Solo") || strings.Contains(out, "Afghani") {
		t.Errorf("--data should replace the dataset:\n%s", out)
	}
	if !strings.Contains(out, "mystery") {
		t.Errorf("unknown types should be kept verbatim:\n%s", out)
	}
}

func TestDataFlagMissingFile(t *testing.T) {
	if _, err := run(t, "--data", filepath.Join(t.TempDir(), "nope.yaml"), "list"); err == nil {
		t.Error("a missing --data file should fail")
	}
}

func TestBrokenOverlayIsSkipped(t *testing.T) {
	cfgHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", cfgHome)
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv("NO_COLOR", "1")

	dir := config.LineageDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "broken.yaml"), []byte("strains: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := runInEnv(t, "list")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "skipped overlay") || !strings.Contains(out, "Afghani") {
		t.Errorf("broken overlay should be reported and skipped:\n%s", out)
	}
}

func TestConfigPathAndInit(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_STATE_HOME", t.TempDir())

	out, err := runInEnv(t, "config", "path")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(out) != config.Path() {
		t.Errorf("expected %s, got %q", config.Path(), out)
	}

	if _, err := runInEnv(t, "config", "init"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(config.Path()); err != nil {
		t.Errorf("config init did not write a file: %v", err)
	}

	out, err = runInEnv(t, "config", "show")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(out, "[layout]") || !strings.Contains(out, "base_year = 1960") {
		t.Errorf("unexpected config show output:\n%s", out)
	}
}

func TestStats(t *testing.T) {
	out, err := run(t, "stats")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Strains", "4", "1960s", "Shared ancestors", "Afghani"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Your exploring") {
		t.Error("usage section should be hidden without activity")
	}
}
