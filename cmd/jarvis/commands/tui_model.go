package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/events"
	"github.com/Danishh-7/Virtual-AI-assistent-jarvis/core/session"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

const maxHistory = 50

type tuiStyles struct {
	Title     lipgloss.Style
	Label     lipgloss.Style
	User      lipgloss.Style
	Assistant lipgloss.Style
	Border    lipgloss.Style
	Error     lipgloss.Style
	Help      lipgloss.Style
}

func newTUIStyles() tuiStyles {
	primary := lipgloss.Color("#00c2ff")
	dim := lipgloss.Color("#6e7681")
	return tuiStyles{
		Title:     lipgloss.NewStyle().Bold(true).Foreground(primary).Padding(0, 1),
		Label:     lipgloss.NewStyle().Bold(true).Foreground(primary),
		User:      lipgloss.NewStyle().Foreground(lipgloss.Color("#e6edf3")),
		Assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("#7ee787")),
		Border:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(dim).Padding(0, 1),
		Error:     lipgloss.NewStyle().Foreground(lipgloss.Color("#ff7b72")),
		Help:      lipgloss.NewStyle().Foreground(dim),
	}
}

// tuiModel shows what the assistant is doing: whether it listens, what the
// user said, what it answered, and the history of requests.
type tuiModel struct {
	ctx     context.Context
	session *session.Client

	// events carries orchestrator events; done is closed once the program
	// has stopped reading them.
	events chan events.Event
	done   chan struct{}

	assistantName string
	state         string
	listening     bool
	userText      string
	assistantText string
	lastError     string
	history       []string
	loggedOut     bool

	spinner  spinner.Model
	viewport viewport.Model
	styles   tuiStyles
	width    int
	height   int
}

type eventMsg struct{ event events.Event }

type loggedOutMsg struct{}

func newTUIModel(ctx context.Context, sessionClient *session.Client, assistantName string, history []string) tuiModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#00c2ff"))

	m := tuiModel{
		ctx:           ctx,
		session:       sessionClient,
		events:        make(chan events.Event, 64),
		done:          make(chan struct{}),
		assistantName: assistantName,
		state:         "starting",
		history:       append([]string(nil), history...),
		spinner:       sp,
		viewport:      viewport.New(0, 0),
		styles:        newTUIStyles(),
	}
	return m
}

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(m.listenEvents(), m.spinner.Tick)
}

func (m tuiModel) listenEvents() tea.Cmd {
	return func() tea.Msg {
		select {
		case event := <-m.events:
			return eventMsg{event: event}
		case <-m.done:
			return nil
		}
	}
}

func (m tuiModel) logout() tea.Cmd {
	return func() tea.Msg {
		m.session.Logout(m.ctx, nil)
		return loggedOutMsg{}
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			return m, tea.Quit
		case "o":
			if m.session != nil {
				return m, m.logout()
			}
		default:
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			cmds = append(cmds, cmd)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(0, msg.Width-4)
		m.viewport.Height = max(3, msg.Height-14)
		m.refreshHistory()

	case eventMsg:
		m.handleEvent(msg.event)
		cmds = append(cmds, m.listenEvents())

	case loggedOutMsg:
		m.loggedOut = true
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *tuiModel) handleEvent(event events.Event) {
	switch e := event.(type) {
	case events.StateChanged:
		m.state = e.To
	case events.ListeningChanged:
		m.listening = e.Listening
	case events.UserTextUpdated:
		m.userText = e.Text
		if e.Text != "" {
			m.lastError = ""
		}
	case events.AssistantTextUpdated:
		m.assistantText = e.Text
	case events.WakeMatched:
		m.history = append(m.history, e.Transcript)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		if m.session != nil {
			m.session.Store().AppendHistory(e.Transcript)
		}
		m.refreshHistory()
	case events.CommandFailed:
		m.lastError = e.Err.Error()
	}
}

func (m *tuiModel) refreshHistory() {
	width := m.viewport.Width
	lines := make([]string, 0, len(m.history))
	for _, entry := range m.history {
		if width > 2 {
			entry = wordwrap.String(entry, width-2)
		}
		lines = append(lines, "• "+entry)
	}
	m.viewport.SetContent(strings.Join(lines, "\n"))
	m.viewport.GotoBottom()
}

func (m tuiModel) View() string {
	if m.width == 0 {
		return "Loading..."
	}
	textWidth := max(10, m.width-8)

	var b strings.Builder
	b.WriteString(m.styles.Title.Render(fmt.Sprintf("I'm %s", m.assistantName)))
	b.WriteString("\n")

	status := m.styles.Help.Render("  " + m.state)
	if m.listening {
		status = m.spinner.View() + m.styles.Label.Render(" listening")
	}
	b.WriteString(status)
	b.WriteString("\n\n")

	if m.userText != "" {
		b.WriteString(m.styles.Border.Render(m.styles.User.Render(wordwrap.String(m.userText, textWidth))))
		b.WriteString("\n")
	}
	if m.assistantText != "" {
		b.WriteString(m.styles.Border.Render(m.styles.Assistant.Render(wordwrap.String(m.assistantText, textWidth))))
		b.WriteString("\n")
	}
	if m.lastError != "" {
		b.WriteString(m.styles.Error.Render(wordwrap.String(m.lastError, textWidth)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Label.Render("History"))
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render("q quit • o log out • ↑/↓ scroll history"))

	return b.String()
}
