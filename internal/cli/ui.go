package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/speedui/gridkit/pkg/snapshot"
)

// out receives all status output. Logs go to stderr separately.
var out io.Writer = os.Stdout

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("141") // Lavender - headings, highlights
	colorGreen  = lipgloss.Color("78")  // Mint - success, cache hits
	colorYellow = lipgloss.Color("221") // Amber - warnings
	colorRed    = lipgloss.Color("203") // Coral - errors
	colorBlue   = lipgloss.Color("75")  // Sky - links, commands, bands
	colorWhite  = lipgloss.Color("253") // Off-white - values
	colorGray   = lipgloss.Color("246") // Gray - labels
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleLink      = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)
	StyleNumber    = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorAccent)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(10)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

// statusIcons pairs each status line kind with its glyph.
var statusIcons = map[string]string{
	"ok":   lipgloss.NewStyle().Foreground(colorGreen).Render("✓"),
	"err":  lipgloss.NewStyle().Foreground(colorRed).Render("✗"),
	"warn": lipgloss.NewStyle().Foreground(colorYellow).Render("!"),
	"info": lipgloss.NewStyle().Foreground(colorGray).Render("›"),
}

// =============================================================================
// Status Lines
// =============================================================================

func printStatus(kind, format string, args ...any) {
	fmt.Fprintln(out, statusIcons[kind]+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printStatus("ok", format, args...) }

func printError(format string, args ...any) { printStatus("err", format, args...) }

func printWarning(format string, args ...any) {
	printStatus("warn", "%s", StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) { printStatus("info", format, args...) }

// printDetail prints a muted, indented line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(out, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints one written file.
func printFile(path string) {
	fmt.Fprintln(out, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(out, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// =============================================================================
// Layout Summary
// =============================================================================

// printStats prints a one-line summary of a layout, e.g.
// "2 sections · 14 items · 3 bands · cached".
func printStats(l *snapshot.Layout, cached bool) {
	parts := []string{
		plural(len(l.Sections), "section"),
		plural(l.Len(), "item"),
	}
	if n := len(l.Extras); n > 0 {
		parts = append(parts, plural(n, "band"))
	}
	for i, p := range parts {
		parts[i] = StyleDim.Render(p)
	}
	if cached {
		parts = append(parts, StyleSuccess.Render("cached"))
	} else {
		parts = append(parts, StyleDim.Render("fresh"))
	}
	fmt.Fprintln(out, "  "+strings.Join(parts, StyleDim.Render(" · ")))
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Fprintln(out)
	fmt.Fprintln(out, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}
