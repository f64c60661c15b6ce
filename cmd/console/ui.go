package main

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"

	"github.com/jwebster45206/ride-engine/internal/events"
)

const (
	PlaceHolderText = "Enter to continue, a number to choose, /help for commands"
	tickInterval    = 100 * time.Millisecond
)

// ConsoleUI is the BubbleTea model that runs the UI.
// https://github.com/charmbracelet/bubbletea
type ConsoleUI struct {
	sess         *session
	chatViewport viewport.Model
	metaViewport viewport.Model
	textarea     textarea.Model
	ready        bool
	width        int
	height       int
	status       string
	err          error
	lastTick     time.Time

	// Quit confirmation state
	showQuitModal bool
}

type tickMsg time.Time

var (
	chatPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(1).
			PaddingLeft(3).
			PaddingRight(0)

	metaPanelStyle = lipgloss.NewStyle().
			PaddingTop(2).
			PaddingBottom(0).
			PaddingLeft(0).
			PaddingRight(2)

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")). // pink
			Bold(true)

	speakerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("212")). // purple
			Bold(true)

	noticeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("86")). // green
			Italic(true)

	choiceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39")) // teal

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")) // red

	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")) // yellow

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")) // dark grey

	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(1, 2).
			Background(lipgloss.Color("235")).
			Foreground(lipgloss.Color("255"))

	modalTitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true).
			Align(lipgloss.Center)
)

var separatorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("240")) // dark grey

func NewConsoleUI(sess *session) ConsoleUI {
	ta := textarea.New()
	ta.Placeholder = PlaceHolderText
	ta.Focus()
	ta.Prompt = promptStyle.Render(":: ")
	ta.CharLimit = 200
	ta.SetWidth(50)
	ta.SetHeight(1)
	ta.ShowLineNumbers = false

	chatVp := viewport.New(50, 20)
	chatVp.MouseWheelEnabled = true

	metaVp := viewport.New(20, 20)

	return ConsoleUI{
		sess:         sess,
		textarea:     ta,
		chatViewport: chatVp,
		metaViewport: metaVp,
	}
}

func (m ConsoleUI) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, tick())
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m ConsoleUI) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.showQuitModal {
		return m.updateQuitModal(msg)
	}

	var (
		tiCmd tea.Cmd
		vpCmd tea.Cmd
	)

	switch msg := msg.(type) {
	case tea.MouseMsg:
		m.chatViewport, vpCmd = m.chatViewport.Update(msg)
		return m, vpCmd

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		chatWidth := int(float64(m.width)*0.7) - 4
		metaWidth := m.width - chatWidth - 6

		m.chatViewport.Width = chatWidth - 2
		m.chatViewport.Height = m.height - 7
		m.metaViewport.Width = metaWidth - 2
		m.metaViewport.Height = m.height - 4
		m.textarea.SetWidth(chatWidth - 4)
		m.ready = true
		m.refresh()

	case tickMsg:
		now := time.Time(msg)
		if !m.lastTick.IsZero() {
			m.sess.orch.Tick(now.Sub(m.lastTick))
		}
		m.lastTick = now
		m.refresh()
		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			m.showQuitModal = true
			return m, nil
		case tea.KeyEnter:
			input := m.textarea.Value()
			m.textarea.Reset()
			m.status, m.err = "", nil

			c, err := parseCommand(input)
			if err == nil {
				m.status, err = m.sess.exec(c)
			}
			m.err = err
			m.refresh()
			m.chatViewport.GotoBottom()
			return m, nil
		}
	}

	m.textarea, tiCmd = m.textarea.Update(msg)
	m.chatViewport, vpCmd = m.chatViewport.Update(msg)

	return m, tea.Batch(tiCmd, vpCmd)
}

func (m *ConsoleUI) refresh() {
	if !m.ready {
		return
	}
	m.chatViewport.SetContent(renderTranscript(m.sess.screen, m.chatViewport.Width-6, m.status, m.err))
	m.metaViewport.SetContent(renderMetadata(m.sess))
}

func renderTranscript(t *transcript, width int, status string, err error) string {
	if width < 20 {
		width = 20
	}
	var content strings.Builder
	content.WriteString(titleStyle.Render("NIGHT TAXI") + "\n\n")
	content.WriteString(separatorStyle.Render(strings.Repeat("─", width)) + "\n\n")

	for _, e := range t.entries {
		switch {
		case e.kind == entryNotice:
			content.WriteString(noticeStyle.Render(wordwrap.String(e.text, width)) + "\n\n")
		case e.speaker != "":
			text := wordwrap.String(e.text, width-len(e.speaker)-2)
			content.WriteString(speakerStyle.Render(e.speaker+":") + " " + text + "\n\n")
		default:
			content.WriteString(wordwrap.String(e.text, width) + "\n\n")
		}
	}

	for _, o := range t.options {
		content.WriteString(choiceStyle.Render(wordwrap.String(fmt.Sprintf("%d. %s", o.Index+1, o.Text), width)) + "\n")
	}
	if len(t.options) > 0 {
		content.WriteString("\n")
	}

	if status != "" {
		content.WriteString(statusStyle.Render(status) + "\n")
	}
	if err != nil {
		content.WriteString(errorStyle.Render("Error: "+err.Error()) + "\n")
	}
	return content.String()
}

func renderMetadata(s *session) string {
	var content strings.Builder
	content.WriteString(titleStyle.Render("TAXI") + "\n\n")

	content.WriteString("Session:\n")
	content.WriteString(s.id.String()[:8] + "...\n\n")

	content.WriteString("Clock:\n")
	content.WriteString(s.orch.Now().Truncate(100*time.Millisecond).String() + "\n\n")

	seats := s.orch.Seats()
	content.WriteString(fmt.Sprintf("Seats (%d/%d):\n", seats.Count(), seats.Capacity()))
	for i, p := range seats.Order() {
		content.WriteString(fmt.Sprintf("%d. %s (%s)\n", i+1, p.DisplayName, p.Kind))
	}
	content.WriteString("\n")

	if cur := s.orch.CurrentPassenger(); cur != nil {
		content.WriteString("Riding:\n" + cur.DisplayName)
		if s.orch.RideStartPending(cur) {
			content.WriteString(" (settling in)")
		}
		content.WriteString("\n\n")
		if rs, ok := s.orch.RunState(cur.ID); ok && len(rs.Vars) > 0 {
			content.WriteString("Variables:\n")
			keys := make([]string, 0, len(rs.Vars))
			for k := range rs.Vars {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				content.WriteString(fmt.Sprintf("• %s: %s\n", k, rs.Vars[k]))
			}
			content.WriteString("\n")
		}
	}

	if w := s.med.Waiting(); w != nil {
		content.WriteString("At pickup:\n" + w.DisplayName + "\n\n")
	}

	content.WriteString("Waiting:\n")
	for _, p := range s.spawner.Live() {
		if s.orch.Roster().Contains(p) {
			continue
		}
		content.WriteString(fmt.Sprintf("%d %s\n", p.ID, p.DisplayName))
	}
	content.WriteString("\n")

	recent := s.events.Events()
	if len(recent) > 5 {
		recent = recent[len(recent)-5:]
	}
	if len(recent) > 0 {
		content.WriteString("Events:\n")
		for _, e := range recent {
			content.WriteString(formatEvent(e) + "\n")
		}
	}
	return content.String()
}

func formatEvent(e events.Event) string {
	if e.Accepted != nil {
		return fmt.Sprintf("%s #%d %t", e.Type, e.PassengerID, *e.Accepted)
	}
	return fmt.Sprintf("%s #%d", e.Type, e.PassengerID)
}

func (m ConsoleUI) updateQuitModal(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tickMsg:
		// Time stops while the modal is up.
		m.lastTick = time.Time{}
		return m, tick()

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc, tea.KeyEnter:
			return m, tea.Quit
		default:
			switch msg.String() {
			case "y", "Y":
				return m, tea.Quit
			case "n", "N":
				m.showQuitModal = false
				m.textarea.Focus()
				return m, textarea.Blink
			}
		}
	}

	return m, nil
}

func (m ConsoleUI) renderQuitModal() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	var content strings.Builder
	content.WriteString(modalTitleStyle.Render("End Shift?"))
	content.WriteString("\n\n")
	content.WriteString("Are you sure you want to park the taxi?")
	content.WriteString("\n\n")
	content.WriteString(promptStyle.Render("Press Y to quit, N to continue, or Ctrl+C to force quit"))

	modal := modalStyle.Width(50).Render(content.String())

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, modal, lipgloss.WithWhitespaceChars(" "))
}

func (m ConsoleUI) View() string {
	if m.showQuitModal {
		return m.renderQuitModal()
	}

	if !m.ready {
		return "\n  Initializing..."
	}

	chatWidth := int(float64(m.width)*0.7) - 4
	metaWidth := m.width - chatWidth - 6

	chatPanel := chatPanelStyle.Width(chatWidth).Height(m.height - 3).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			m.chatViewport.View(),
			"",
			separatorStyle.Render(strings.Repeat("─", chatWidth-4)),
			m.textarea.View(),
		),
	)

	metaPanel := metaPanelStyle.Width(metaWidth).Height(m.height - 2).Render(
		m.metaViewport.View(),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, chatPanel, metaPanel)
}
