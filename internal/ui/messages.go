package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"listgrip/internal/controller"
	"listgrip/internal/domain"
)

// stateMsg delivers a controller state transition to the UI
type stateMsg struct {
	state controller.State[domain.Entry]
}

// NewStateMsg wraps a controller state for delivery via Program.Send
func NewStateMsg(st controller.State[domain.Entry]) tea.Msg {
	return stateMsg{state: st}
}

// clearStatusMsg clears a transient status message
type clearStatusMsg struct{}

// clearStatusAfter schedules the status line to be wiped
func clearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}

// helpClosedMsg is returned when the help pager exits
type helpClosedMsg struct {
	err error
}
