package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"

	"github.com/msalah0e/strainscope/internal/lineage"
)

// Brand colors
var (
	Brand  = color.New(color.FgHiGreen, color.Bold)
	Subtle = color.New(color.FgHiBlack)
	Warn   = color.New(color.FgYellow)
	Info   = color.New(color.FgCyan)
	Good   = color.New(color.FgGreen)
	Bad    = color.New(color.FgRed)
)

// Leaf is the banner glyph.
const Leaf = "\U0001F33F" // 🌿

// Out is where the helpers print. Tests swap it for a buffer.
var Out io.Writer = os.Stdout

var emoji = true

// SetEmoji toggles the banner glyph.
func SetEmoji(on bool) { emoji = on }

// SetColor forces colour on or off for every palette entry.
func SetColor(on bool) { color.NoColor = !on }

// Banner prints the strainscope banner.
func Banner(subtitle string) {
	prefix := ""
	if emoji {
		prefix = Leaf + " "
	}
	fmt.Fprintf(Out, "%s%s — %s\n\n", prefix, Brand.Sprint("strainscope"), subtitle)
}

// typeColors mirrors the scene palette with terminal colours.
var typeColors = map[lineage.Type]*color.Color{
	lineage.Sativa:    color.New(color.FgHiRed),
	lineage.Indica:    color.New(color.FgHiMagenta),
	lineage.Hybrid:    color.New(color.FgHiCyan),
	lineage.Ruderalis: color.New(color.FgHiYellow),
}

// TypeColor returns the CLI colour for a strain type.
func TypeColor(t lineage.Type) *color.Color {
	if c, ok := typeColors[t]; ok {
		return c
	}
	return Subtle
}

// TypeLabel renders t in its colour.
func TypeLabel(t lineage.Type) string {
	return TypeColor(t).Sprint(string(t))
}

// Table prints a simple aligned table. Cells may carry colour codes; widths
// are measured on the visible text.
func Table(headers []string, rows [][]string) {
	if len(rows) == 0 {
		return
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = visibleLen(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(widths) && visibleLen(cell) > widths[i] {
				widths[i] = visibleLen(cell)
			}
		}
	}

	headerLine := "  "
	sepLine := "  "
	for i, h := range headers {
		headerLine += pad(h, widths[i]) + "  "
		sepLine += strings.Repeat("─", widths[i]) + "  "
	}
	Subtle.Fprintln(Out, strings.TrimRight(headerLine, " "))
	Subtle.Fprintln(Out, strings.TrimRight(sepLine, " "))

	for _, row := range rows {
		line := "  "
		for i, cell := range row {
			if i < len(widths) {
				line += pad(cell, widths[i]) + "  "
			}
		}
		fmt.Fprintln(Out, strings.TrimRight(line, " "))
	}
}

func pad(s string, width int) string {
	if n := visibleLen(s); n < width {
		return s + strings.Repeat(" ", width-n)
	}
	return s
}

// visibleLen counts runes outside ANSI escape sequences.
func visibleLen(s string) int {
	n := 0
	inEsc := false
	for len(s) > 0 {
		r, size := utf8.DecodeRuneInString(s)
		s = s[size:]
		switch {
		case r == '\x1b':
			inEsc = true
		case inEsc:
			if r >= '@' && r <= '~' && r != '[' {
				inEsc = false
			}
		default:
			n++
		}
	}
	return n
}

// StatusIcon returns a status icon string.
func StatusIcon(ok bool) string {
	if ok {
		return Good.Sprint("✓")
	}
	return Bad.Sprint("✗")
}

// WarnIcon returns a warning icon.
func WarnIcon() string {
	return Warn.Sprint("⚠")
}
