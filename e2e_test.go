//go:build e2e

package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

var strainscopeBin string

func TestMain(m *testing.M) {
	tmp, err := os.MkdirTemp("", "strainscope-e2e-*")
	if err != nil {
		panic("failed to create temp dir: " + err.Error())
	}
	defer os.RemoveAll(tmp)

	strainscopeBin = filepath.Join(tmp, "strainscope")
	build := exec.Command("go", "build", "-ldflags", "-X github.com/msalah0e/strainscope/cmd.version=9.9.0-test", "-o", strainscopeBin, ".")
	build.Stderr = os.Stderr
	if err := build.Run(); err != nil {
		panic("failed to build strainscope: " + err.Error())
	}

	os.Exit(m.Run())
}

// run executes the binary with an isolated HOME directory.
func run(t *testing.T, args ...string) (stdout, stderr string, exitCode int) {
	t.Helper()
	cmd := exec.Command(strainscopeBin, args...)
	home := t.TempDir()
	cmd.Env = append(os.Environ(),
		"HOME="+home,
		"XDG_CONFIG_HOME="+filepath.Join(home, ".config"),
		"XDG_STATE_HOME="+filepath.Join(home, ".local", "state"),
		"NO_COLOR=1",
	)

	var outBuf, errBuf strings.Builder
	cmd.Stdout = &outBuf
	cmd.Stderr = &errBuf

	err := cmd.Run()
	exitCode = 0
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			exitCode = exitErr.ExitCode()
		} else {
			t.Fatalf("failed to run strainscope %v: %v", args, err)
		}
	}
	return outBuf.String(), errBuf.String(), exitCode
}

func TestE2E_Version(t *testing.T) {
	out, _, code := run(t, "--version")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "9.9.0") {
		t.Errorf("expected version output to contain '9.9.0', got %q", out)
	}
}

func TestE2E_Help(t *testing.T) {
	out, _, code := run(t, "--help")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, want := range []string{"Available Commands", "explore", "export", "history"} {
		if !strings.Contains(out, want) {
			t.Errorf("help missing %q", want)
		}
	}
}

func TestE2E_ListEmbeddedDataset(t *testing.T) {
	out, _, code := run(t, "list")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, want := range []string{"OG Kush", "Northern Lights", "Skunk #1", "Ruderalis Landrace"} {
		if !strings.Contains(out, want) {
			t.Errorf("list missing %q", want)
		}
	}
	if strings.Count(out, " northern-lights ") != 1 {
		t.Error("a strain repeated in the dataset should be listed once")
	}
}

func TestE2E_ShowSharedAncestor(t *testing.T) {
	out, _, code := run(t, "show", "northern-lights")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	if !strings.Contains(out, "Afghani") {
		t.Errorf("ancestry should include Afghani:\n%s", out)
	}
	if !strings.Contains(out, "Northern Lights Auto") {
		t.Errorf("descendants should include Northern Lights Auto:\n%s", out)
	}
}

func TestE2E_ShowUnknownFails(t *testing.T) {
	_, errOut, code := run(t, "show", "does-not-exist")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "strain not found") {
		t.Errorf("expected not found message, got %q", errOut)
	}
}

func TestE2E_LayoutJSON(t *testing.T) {
	out, _, code := run(t, "layout", "--json")
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	var doc struct {
		Nodes []struct {
			ID string `json:"id"`
		} `json:"nodes"`
	}
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	seen := make(map[string]bool)
	for _, n := range doc.Nodes {
		if seen[n.ID] {
			t.Errorf("duplicate node %s", n.ID)
		}
		if n.ID == "root" {
			t.Error("the synthetic root must not be exported")
		}
		seen[n.ID] = true
	}
}

func TestE2E_ExportAll(t *testing.T) {
	dir := t.TempDir()
	_, _, code := run(t, "export", "--out", dir)
	if code != 0 {
		t.Fatalf("expected exit 0, got %d", code)
	}
	for _, name := range []string{"lineage.dot", "lineage.json", "lineage.html", "lineage.txt"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil || info.Size() == 0 {
			t.Errorf("%s not written: %v", name, err)
		}
	}
}

func TestE2E_ExploreWithoutTerminal(t *testing.T) {
	_, errOut, code := run(t, "explore")
	if code != 1 {
		t.Fatalf("expected exit 1, got %d", code)
	}
	if !strings.Contains(errOut, "terminal") {
		t.Errorf("expected terminal hint, got %q", errOut)
	}
}

func TestE2E_Completion(t *testing.T) {
	for _, shell := range []string{"bash", "zsh", "fish", "powershell"} {
		out, _, code := run(t, "completion", shell)
		if code != 0 || len(out) == 0 {
			t.Errorf("completion %s: exit %d, %d bytes", shell, code, len(out))
		}
	}
}
