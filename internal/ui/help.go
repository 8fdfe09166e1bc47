package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/noborus/ov/oviewer"
)

// HelpPager shows the help screen in an embedded ov pager
type HelpPager struct {
	program *tea.Program
}

// NewHelpPager creates a new help pager
func NewHelpPager() *HelpPager {
	return &HelpPager{}
}

// SetProgram sets the program reference for terminal management
func (h *HelpPager) SetProgram(p *tea.Program) {
	h.program = p
}

// Show returns a command that takes over the terminal with the pager
func (h *HelpPager) Show() tea.Cmd {
	return func() tea.Msg {
		return helpClosedMsg{err: h.run(renderHelpContent())}
	}
}

func (h *HelpPager) run(content string) error {
	if h.program == nil {
		return fmt.Errorf("program not set")
	}

	// Release terminal control to run ov
	if err := h.program.ReleaseTerminal(); err != nil {
		return err
	}

	// Ensure terminal is restored even if ov fails
	defer func() {
		// Small delay so ov has fully exited before restoring
		time.Sleep(100 * time.Millisecond)
		_ = h.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(content))
	if err != nil {
		return err
	}

	// Don't write pager content back onto our screen on exit
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

// renderHelpContent generates the help text shown in the pager
func renderHelpContent() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("99")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("39")).
		MarginTop(1)

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("220"))

	descStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("252"))

	var help strings.Builder

	help.WriteString(titleStyle.Render("listgrip Help"))
	help.WriteString("\n")

	help.WriteString(sectionStyle.Render("Search"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("/"), descStyle.Render("Edit the search query (results update as you type)")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("esc"), descStyle.Render("Leave the query field")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("f"), descStyle.Render("Cycle the kind filter (all → bookmark → note → feed)")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("r"), descStyle.Render("Re-run the current search")))

	help.WriteString(sectionStyle.Render("Navigation"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("j/k"), descStyle.Render("Move down/up (moving past the end loads more)")))
	help.WriteString(fmt.Sprintf("  %s          %s\n", keyStyle.Render("g/G"), descStyle.Render("Jump to top/bottom")))

	help.WriteString(sectionStyle.Render("Other"))
	help.WriteString("\n")
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("?"), descStyle.Render("Toggle this help")))
	help.WriteString(fmt.Sprintf("  %s            %s\n", keyStyle.Render("q"), descStyle.Render("Quit")))

	return help.String()
}
