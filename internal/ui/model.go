package ui

import (
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"listgrip/internal/config"
	"listgrip/internal/controller"
	"listgrip/internal/domain"
	"listgrip/internal/eventbus"
)

// liveQuery holds the query string owned by the input surface. The
// controller reads it through BindQuery from timer goroutines, so access is
// synchronized.
type liveQuery struct {
	mu sync.Mutex
	s  string
}

func (q *liveQuery) Set(s string) {
	q.mu.Lock()
	q.s = s
	q.mu.Unlock()
}

func (q *liveQuery) Get() string {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.s
}

// Model represents the UI state
type Model struct {
	bus  eventbus.EventBus
	cfg  *config.Config
	ctrl *controller.Controller[domain.Entry, domain.KindFilter]

	input textinput.Model
	spin  spinner.Model
	query *liveQuery
	kind  domain.KindFilter

	state  controller.State[domain.Entry]
	cursor int
	width  int
	height int
	status string

	helpPager *HelpPager
	program   *tea.Program
}

// NewModel creates a new UI model and binds the controller to the query input
func NewModel(bus eventbus.EventBus, cfg *config.Config, ctrl *controller.Controller[domain.Entry, domain.KindFilter]) *Model {
	input := textinput.New()
	input.Placeholder = "search the catalog…"
	input.CharLimit = 120
	input.Prompt = ""
	input.Focus()

	spin := spinner.New()
	spin.Spinner = spinner.Dot
	spin.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("99"))

	m := &Model{
		bus:       bus,
		cfg:       cfg,
		ctrl:      ctrl,
		input:     input,
		spin:      spin,
		query:     &liveQuery{},
		kind:      domain.KindFilter(cfg.LastKind),
		state:     ctrl.State(),
		helpPager: NewHelpPager(),
	}

	// The controller reads the query through the synchronized box, never
	// from the textinput directly
	ctrl.BindQuery(m.query.Get)

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.helpPager.SetProgram(p)
}

// Init returns the initial commands
func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick)
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = msg.Width - 4

	case stateMsg:
		m.state = msg.state
		if m.cursor >= len(m.state.Items) {
			m.cursor = len(m.state.Items) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		if m.state.Phase == controller.PhaseFailed && m.state.Err != nil {
			m.status = fmt.Sprintf("fetch failed: %v", m.state.Err)
			return m, clearStatusAfter(5 * time.Second)
		}

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case clearStatusMsg:
		m.status = ""

	case helpClosedMsg:
		if msg.err != nil {
			log.Printf("Help pager error: %v", msg.err)
			m.status = fmt.Sprintf("help unavailable: %v", msg.err)
			return m, clearStatusAfter(5 * time.Second)
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	if m.input.Focused() {
		switch msg.String() {
		case "esc", "enter":
			m.input.Blur()
			return m, nil
		default:
			before := m.input.Value()
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			if after := m.input.Value(); after != before {
				m.query.Set(after)
				m.cursor = 0
				m.ctrl.Search()
			}
			return m, cmd
		}
	}

	switch msg.String() {
	case "q":
		return m, tea.Quit

	case "/":
		m.input.Focus()
		return m, textinput.Blink

	case "f":
		m.kind = nextKind(m.kind)
		m.cursor = 0
		m.ctrl.SetFilter(m.kind, true)
		if m.bus != nil {
			m.bus.Publish(eventbus.ConfigChangedEvent{LastKind: string(m.kind)})
		}
		if m.kind == "" {
			m.status = "filter: all kinds"
		} else {
			m.status = "filter: " + string(m.kind)
		}
		return m, clearStatusAfter(3 * time.Second)

	case "j", "down":
		if m.cursor < len(m.state.Items)-1 {
			m.cursor++
		} else if len(m.state.Items) > 0 && !m.ctrl.HasNoMoreItems() {
			// Reached the end of the loaded window; ask for the next batch.
			// The controller's cooldown absorbs repeated triggers.
			m.ctrl.FetchNextBatch()
		}

	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}

	case "g", "home":
		m.cursor = 0

	case "G", "end":
		if len(m.state.Items) > 0 {
			m.cursor = len(m.state.Items) - 1
		}
		if !m.ctrl.HasNoMoreItems() {
			m.ctrl.FetchNextBatch()
		}

	case "r":
		m.ctrl.Search()

	case "?":
		return m, m.helpPager.Show()
	}

	return m, nil
}

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("listgrip"))
	if m.kind != "" {
		b.WriteString("  ")
		b.WriteString(filterStyle.Render("[" + string(m.kind) + "]"))
	}
	b.WriteString("\n")

	b.WriteString(promptStyle.Render("/ "))
	b.WriteString(m.input.View())
	b.WriteString("\n\n")

	b.WriteString(m.renderBody())
	b.WriteString("\n")
	b.WriteString(statusLine(len(m.state.Items), m.ctrl.Page(), m.ctrl.HasNoMoreItems(), m.status))

	return b.String()
}

func (m *Model) renderBody() string {
	listHeight := m.listHeight()

	switch m.state.Phase {
	case controller.PhaseLoading:
		return m.spin.View() + dimStyle.Render(" searching…") + strings.Repeat("\n", listHeight-1)
	}

	if len(m.state.Items) == 0 {
		var hint string
		switch {
		case m.state.Phase == controller.PhaseFailed:
			hint = errorStyle.Render(fmt.Sprintf("fetch failed: %v", m.state.Err))
		case m.query.Get() == "":
			hint = dimStyle.Render("Type / then a query to search the catalog")
		default:
			hint = dimStyle.Render("No matches")
		}
		return hint + strings.Repeat("\n", listHeight-1)
	}

	start, end := viewportBounds(m.cursor, len(m.state.Items), listHeight)

	var b strings.Builder
	for i := start; i < end; i++ {
		b.WriteString(renderEntryRow(m.state.Items[i], i == m.cursor, m.cfg.UI.ShowKindBadges, m.width))
		b.WriteString("\n")
	}
	for i := end - start; i < listHeight; i++ {
		b.WriteString("\n")
	}

	if m.state.Phase == controller.PhaseLoadingMore {
		b.WriteString(m.spin.View())
		b.WriteString(dimStyle.Render(" loading more…"))
	}

	return strings.TrimRight(b.String(), "\n")
}

// listHeight is the number of rows available for results
func (m *Model) listHeight() int {
	// Title, query line, blank line, status bar and a loading-more footer
	reserved := 6
	h := m.height - reserved
	if h < 1 {
		h = 1
	}
	return h
}

// viewportBounds returns the half-open window [start, end) that keeps the
// cursor visible within a list of count items
func viewportBounds(cursor, count, height int) (int, int) {
	if count <= height {
		return 0, count
	}
	start := cursor - height/2
	if start < 0 {
		start = 0
	}
	if start+height > count {
		start = count - height
	}
	return start, start + height
}

// nextKind cycles through the kind filter values
func nextKind(current domain.KindFilter) domain.KindFilter {
	if current == "" {
		return domain.KindFilter(domain.Kinds[0])
	}
	for i, kind := range domain.Kinds {
		if string(current) == kind {
			if i+1 < len(domain.Kinds) {
				return domain.KindFilter(domain.Kinds[i+1])
			}
			return ""
		}
	}
	return ""
}
