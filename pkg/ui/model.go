// Package ui is a terminal host for the session stream manager. It renders
// the transcript and connectivity indicator and drives the two operations
// the manager exposes: send and force-reconnect.
package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/go-go-golems/sessionstream/pkg/session"
)

// Stream is the manager surface the UI consumes. It matches
// *session.Manager; tests substitute a scripted implementation.
type Stream interface {
	Transcript() []session.Entry
	Indicator() session.Indicator
	AwaitingReply() bool
	Send(text string) bool
	ForceReconnect()
	Updates() <-chan struct{}
}

var _ Stream = (*session.Manager)(nil)

type streamUpdateMsg struct{}

// streamClosedMsg signals that the manager was torn down; the updates
// channel is closed at teardown.
type streamClosedMsg struct{}

var (
	titleStyle        = lipgloss.NewStyle().Bold(true)
	connectedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	connectingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	disconnectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	localStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	remoteStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("213")).Bold(true)
	helpStyle         = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type Model struct {
	stream   Stream
	input    textinput.Model
	viewport viewport.Model
	spin     spinner.Model
	width    int
	height   int
	ready    bool
}

func New(stream Stream) Model {
	input := textinput.New()
	input.Placeholder = "Type a message"
	input.Focus()
	input.CharLimit = 512

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	return Model{
		stream: stream,
		input:  input,
		spin:   spin,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.waitForUpdate())
}

func (m Model) waitForUpdate() tea.Cmd {
	updates := m.stream.Updates()
	return func() tea.Msg {
		if _, ok := <-updates; !ok {
			return streamClosedMsg{}
		}
		return streamUpdateMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		chromeHeight := 4 // header, input, help, spacing
		if !m.ready {
			m.viewport = viewport.New(msg.Width, max(1, msg.Height-chromeHeight))
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = max(1, msg.Height-chromeHeight)
		}
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, nil

	case streamUpdateMsg:
		m.viewport.SetContent(m.renderTranscript())
		m.viewport.GotoBottom()
		return m, m.waitForUpdate()

	case streamClosedMsg:
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyCtrlR:
			m.stream.ForceReconnect()
			return m, nil
		case tea.KeyEnter:
			// the manager rejects blank text and non-open channels on
			// its own; only clear the input on an accepted send
			if m.stream.Send(m.input.Value()) {
				m.input.Reset()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("sessionstream"))
	b.WriteString("  ")
	b.WriteString(m.statusLine())
	b.WriteString("\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.renderTranscript())
	}
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: send • ctrl+r: reconnect • esc: quit"))
	return b.String()
}

func (m Model) statusLine() string {
	ind := m.stream.Indicator()
	switch ind.Status {
	case session.StatusConnected:
		if m.stream.AwaitingReply() {
			return connectedStyle.Render("● connected") + " " + m.spin.View() + helpStyle.Render("waiting for reply")
		}
		return connectedStyle.Render("● connected")
	case session.StatusDisconnected:
		return disconnectedStyle.Render("● disconnected (ctrl+r to reconnect)")
	default:
		return connectingStyle.Render(m.spin.View() + "connecting")
	}
}

func (m Model) renderTranscript() string {
	entries := m.stream.Transcript()
	if len(entries) == 0 {
		return helpStyle.Render("No messages yet.")
	}
	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsLocal() {
			lines = append(lines, localStyle.Render("You: ")+e.Content)
		} else {
			lines = append(lines, remoteStyle.Render("Agent: ")+e.Content)
		}
	}
	return strings.Join(lines, "\n")
}
