package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"listgrip/internal/domain"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("203"))

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))

	filterStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// kindColor picks a stable color per entry kind
func kindColor(kind string) string {
	switch kind {
	case domain.KindBookmark:
		return "39"
	case domain.KindNote:
		return "78"
	case domain.KindFeed:
		return "214"
	default:
		return "241"
	}
}

// renderEntryRow renders one result line, truncated to width
func renderEntryRow(e domain.Entry, selected, showBadge bool, width int) string {
	var b strings.Builder

	if showBadge {
		badge := lipgloss.NewStyle().
			Foreground(lipgloss.Color(kindColor(e.Kind))).
			Render(fmt.Sprintf("[%s]", e.Kind))
		b.WriteString(badge)
		b.WriteString(" ")
	}

	title := e.Title
	if selected {
		b.WriteString(selectedStyle.Render(title))
	} else {
		b.WriteString(title)
	}

	if len(e.Tags) > 0 {
		b.WriteString(" ")
		b.WriteString(dimStyle.Render("#" + strings.Join(e.Tags, " #")))
	}

	row := b.String()
	if width > 0 && lipgloss.Width(row) > width {
		row = truncateANSI(row, width)
	}
	return row
}

// truncateANSI cuts a styled string down to width printable cells
func truncateANSI(s string, width int) string {
	if lipgloss.Width(s) <= width {
		return s
	}
	var b strings.Builder
	cells := 0
	inEscape := false
	for _, r := range s {
		if inEscape {
			b.WriteRune(r)
			if r == 'm' {
				inEscape = false
			}
			continue
		}
		if r == '\x1b' {
			inEscape = true
			b.WriteRune(r)
			continue
		}
		if cells >= width-1 {
			break
		}
		b.WriteRune(r)
		cells++
	}
	b.WriteString("…")
	return b.String()
}

// statusLine summarizes the result window for the bottom bar
func statusLine(count, page int, exhausted bool, message string) string {
	parts := []string{fmt.Sprintf("%d items", count), fmt.Sprintf("page %d", page)}
	if exhausted {
		parts = append(parts, "end")
	}
	line := statusStyle.Render(strings.Join(parts, " · "))
	if message != "" {
		line += "  " + dimStyle.Render(message)
	}
	return line
}
