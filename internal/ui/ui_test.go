package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"github.com/msalah0e/strainscope/internal/lineage"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prevOut, prevNoColor := Out, color.NoColor
	Out = &buf
	t.Cleanup(func() {
		Out = prevOut
		color.NoColor = prevNoColor
	})
	return &buf
}

func TestTableAlignsOnVisibleText(t *testing.T) {
	buf := capture(t)
	SetColor(true)

	Table([]string{"NAME", "TYPE"}, [][]string{
		{"Skunk #1", TypeLabel(lineage.Hybrid)},
		{"OG Kush", TypeLabel(lineage.Indica)},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 4 {
		t.Fatalf("expected header, separator and 2 rows, got %d lines:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[1], strings.Repeat("─", len("Skunk #1"))) {
		t.Errorf("separator should span the widest name: %q", lines[1])
	}
	if visibleLen(lines[2]) != visibleLen(lines[3])+len("Hybrid")-len("Indica") {
		t.Errorf("rows misaligned:\n%s\n%s", lines[2], lines[3])
	}
}

func TestTableEmpty(t *testing.T) {
	buf := capture(t)
	Table([]string{"A"}, nil)
	if buf.Len() != 0 {
		t.Errorf("expected no output, got %q", buf.String())
	}
}

func TestVisibleLen(t *testing.T) {
	if n := visibleLen("\x1b[31mred\x1b[0m"); n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
	if n := visibleLen("año"); n != 3 {
		t.Errorf("expected 3, got %d", n)
	}
}

func TestBanner(t *testing.T) {
	buf := capture(t)
	SetColor(false)

	SetEmoji(false)
	Banner("lineage explorer")
	if got := buf.String(); got != "strainscope — lineage explorer\n\n" {
		t.Errorf("unexpected banner %q", got)
	}

	buf.Reset()
	SetEmoji(true)
	Banner("x")
	if !strings.HasPrefix(buf.String(), Leaf) {
		t.Errorf("banner should start with the leaf glyph: %q", buf.String())
	}
}

func TestTypeColorFallback(t *testing.T) {
	if TypeColor(lineage.Other) != Subtle {
		t.Error("other types should use the subtle colour")
	}
	if TypeColor(lineage.Sativa) == Subtle {
		t.Error("sativa should have its own colour")
	}
}

func TestShouldUseColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	t.Setenv("CLICOLOR_FORCE", "1")
	if ShouldUseColor() {
		t.Error("NO_COLOR should win")
	}

	t.Setenv("NO_COLOR", "")
	if !ShouldUseColor() {
		t.Error("CLICOLOR_FORCE=1 should force colour")
	}

	t.Setenv("CLICOLOR_FORCE", "")
	t.Setenv("CLICOLOR", "0")
	if ShouldUseColor() {
		t.Error("CLICOLOR=0 should disable colour")
	}
}
