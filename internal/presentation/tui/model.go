package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/aretw0/schat/pkg/domain"
	"github.com/aretw0/schat/pkg/session"
)

const accent = lipgloss.Color("#838ba7")

// Controller is the part of session.Controller the TUI drives.
type Controller interface {
	HandleKey(ctx context.Context, ev session.KeyEvent) (session.Action, *session.Ticket)
	Snapshot() session.Snapshot
}

// settledMsg is delivered when an in-flight exchange settles.
type settledMsg struct {
	exchange domain.Exchange
}

func waitForSettle(t *session.Ticket) tea.Cmd {
	return func() tea.Msg {
		<-t.Done()
		return settledMsg{exchange: t.Exchange()}
	}
}

// Model is the bubbletea model of the chat screen. All conversation state
// lives in the Controller; the model only keeps presentation state.
type Model struct {
	ctx        context.Context
	controller Controller
	spinner    spinner.Model

	width       int
	newRenderer func(width int) func(string) (string, error)
	render      func(string) (string, error)
	rendered    map[int]string // exchange id -> rendered response

	promptStyle lipgloss.Style
	inputStyle  lipgloss.Style
	mutedStyle  lipgloss.Style
	errorStyle  lipgloss.Style
}

// NewModel creates the chat model.
func NewModel(ctx context.Context, controller Controller) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(accent)

	return Model{
		ctx:         ctx,
		controller:  controller,
		spinner:     sp,
		newRenderer: NewRenderer,
		render:      NewRenderer(0),
		rendered:    make(map[int]string),
		promptStyle: lipgloss.NewStyle().
			Border(lipgloss.BlockBorder(), false, false, false, true).
			BorderForeground(accent).
			Padding(1),
		inputStyle: lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.NormalBorder()).
			BorderForeground(accent),
		mutedStyle: lipgloss.NewStyle().Foreground(accent),
		errorStyle: lipgloss.NewStyle().Foreground(lipgloss.Color("#e78284")),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = max(msg.Width-4, 10)
		m.render = m.newRenderer(m.width)
		m.rendered = make(map[int]string)
		return m, nil

	case settledMsg:
		m.renderExchange(msg.exchange)
		return m, nil

	case spinner.TickMsg:
		if !m.controller.Snapshot().Processing {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		ev, ok := KeyEvent(msg)
		if !ok {
			return m, nil
		}
		action, ticket := m.controller.HandleKey(m.ctx, ev)
		switch {
		case action == session.ActionExit:
			return m, tea.Quit
		case action == session.ActionReset:
			m.rendered = make(map[int]string)
		case ticket != nil:
			return m, tea.Batch(waitForSettle(ticket), m.spinner.Tick)
		}
	}
	return m, nil
}

// renderExchange caches the rendered response of a settled exchange.
// Failed responses are shown verbatim.
func (m Model) renderExchange(ex domain.Exchange) string {
	if out, ok := m.rendered[ex.ID]; ok {
		return out
	}

	var out string
	if ex.Status == domain.StatusFailed {
		out = m.errorStyle.Render(ex.Response)
	} else if md, err := m.render(ex.Response); err == nil {
		out = md
	} else {
		out = ex.Response
	}
	m.rendered[ex.ID] = out
	return out
}

func (m Model) View() string {
	if m.width == 0 {
		return "Loading ..."
	}
	snap := m.controller.Snapshot()
	promptStyle := m.promptStyle.Width(m.width + 2)

	var parts []string
	for _, ex := range snap.Exchanges {
		parts = append(parts,
			promptStyle.Render(ex.Prompt),
			"",
			m.renderExchange(ex),
			"",
		)
	}

	if snap.InFlight != nil {
		parts = append(parts,
			promptStyle.Render(snap.InFlight.Prompt),
			"",
			lipgloss.JoinHorizontal(lipgloss.Top,
				m.spinner.View(),
				m.mutedStyle.Render("Processing..."),
			),
			"",
		)
	}

	parts = append(parts,
		m.inputStyle.Width(m.width).Render(m.inputView(snap)),
		m.mutedStyle.Render(HelpText),
	)
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

// inputView renders the buffer with a block cursor at the end.
// The cursor is hidden while an exchange is in flight.
func (m Model) inputView(snap session.Snapshot) string {
	lines := strings.Split(snap.Input, "\n")
	if !snap.Processing {
		lines[len(lines)-1] += "█"
	}
	for len(lines) < 3 {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// Run starts the interactive chat and blocks until the user quits or ctx is done.
func Run(ctx context.Context, controller Controller, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, controller), opts...)
	_, err := p.Run()
	return err
}
