// Package tui is the terminal front end for CampusBot.
package tui

import (
	"context"
	"fmt"
	"strings"

	"campusbot/internal/assistant"
	"campusbot/internal/config"
	"campusbot/internal/knowledge"
	"campusbot/internal/session"
	"campusbot/internal/view"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
)

// Knowledge is the view of the knowledge store the terminal UI needs.
type Knowledge interface {
	Current() (*knowledge.Base, error)
	Path() string
}

// Options configures the terminal UI.
type Options struct {
	ModelName string
	// Style is a glamour standard style name such as "dark", "light" or "notty".
	Style string
}

// replyMsg carries the outcome of a chat turn back into Update.
type replyMsg struct {
	result assistant.Result
}

// uiState holds widget and layout state.
type uiState struct {
	viewport      viewport.Model
	textarea      textarea.Model
	spinner       spinner.Model
	width, height int
	waiting       bool
	notice        string
}

type model struct {
	ctx       context.Context
	exchange  *assistant.Exchange
	knowledge Knowledge
	session   *session.Session
	opts      Options
	renderer  *glamour.TermRenderer
	frame     view.Model
	ui        uiState
}

func newModel(ctx context.Context, ex *assistant.Exchange, kb Knowledge, sess *session.Session, opts Options) *model {
	if opts.Style == "" {
		opts.Style = "dark"
	}

	ta := textarea.New()
	ta.Placeholder = config.ChatPlaceholder
	ta.Focus()
	ta.SetWidth(80)
	ta.SetHeight(3)
	ta.ShowLineNumbers = false
	ta.KeyMap.InsertNewline.SetEnabled(false)

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	m := &model{
		ctx:       ctx,
		exchange:  ex,
		knowledge: kb,
		session:   sess,
		opts:      opts,
		ui: uiState{
			viewport: viewport.New(80, 20),
			textarea: ta,
			spinner:  s,
			width:    80,
			height:   24,
		},
	}
	m.setRenderer(80)
	m.refresh()
	return m
}

func (m *model) setRenderer(width int) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.opts.Style),
		glamour.WithWordWrap(max(width-8, 20)),
	)
	if err != nil {
		m.renderer = nil
		return
	}
	m.renderer = r
}

// refresh rebuilds the frame from the session and knowledge store, then
// re-renders the viewport.
func (m *model) refresh() {
	base, err := m.knowledge.Current()
	m.frame = view.Build(view.Input{
		Page:         m.session.Page(),
		Messages:     m.session.Messages(),
		Knowledge:    base,
		KnowledgeErr: err,
		DataFile:     m.knowledge.Path(),
		ModelName:    m.opts.ModelName,
		Notice:       m.ui.notice,
	})
	m.ui.viewport.SetContent(m.renderBody())
}

func (m *model) Init() tea.Cmd {
	return tea.Batch(textarea.Blink, m.ui.spinner.Tick)
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ui.width = msg.Width
		m.ui.height = msg.Height
		m.ui.viewport.Width = m.ui.width
		m.ui.viewport.Height = max(m.ui.height-m.ui.textarea.Height()-lipgloss.Height(m.statusBarView())-2, 3)
		m.ui.textarea.SetWidth(m.ui.width - 4)
		m.setRenderer(m.ui.width)
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyEsc:
			return m, tea.Quit
		case tea.KeyTab:
			m.session.SetPage(m.session.Page().Toggle())
			m.ui.notice = ""
			m.refresh()
			m.ui.viewport.GotoTop()
			return m, nil
		case tea.KeyEnter:
			return m, m.submit()
		}

	case replyMsg:
		m.ui.waiting = false
		m.ui.textarea.Focus()
		m.ui.notice = view.NoticeFor(msg.result.Outcome)
		m.refresh()
		m.ui.viewport.GotoBottom()
		return m, nil

	case error:
		m.ui.notice = msg.Error()
		m.refresh()
		return m, nil
	}

	var tiCmd, vpCmd, sCmd tea.Cmd
	if !m.ui.waiting {
		m.ui.textarea, tiCmd = m.ui.textarea.Update(msg)
	}
	m.ui.viewport, vpCmd = m.ui.viewport.Update(msg)
	m.ui.spinner, sCmd = m.ui.spinner.Update(msg)
	return m, tea.Batch(tiCmd, vpCmd, sCmd)
}

// submit starts a chat turn for the text in the input box.
func (m *model) submit() tea.Cmd {
	if m.ui.waiting || !m.frame.IsChat() || !m.frame.ChatEnabled {
		return nil
	}

	utterance := strings.TrimSpace(m.ui.textarea.Value())
	m.ui.textarea.Reset()
	if utterance == "" {
		m.ui.notice = view.NoticeFor(assistant.OutcomeRejected)
		m.refresh()
		return nil
	}

	m.ui.notice = ""
	m.ui.waiting = true
	m.ui.textarea.Blur()

	ctx, ex, sess := m.ctx, m.exchange, m.session
	return tea.Batch(m.ui.spinner.Tick, func() tea.Msg {
		return replyMsg{result: ex.Reply(ctx, sess, utterance)}
	})
}

func (m *model) View() string {
	if m.frame.Error != "" {
		return lipgloss.JoinVertical(lipgloss.Left, m.renderError(), m.statusBarView())
	}

	var input string
	switch {
	case !m.frame.IsChat():
		input = lipgloss.NewStyle().Foreground(textMuted).Render("Tab returns to the chat.")
	case m.ui.waiting:
		input = lipgloss.NewStyle().
			Width(m.ui.width).
			Height(m.ui.textarea.Height()).
			Align(lipgloss.Center, lipgloss.Center).
			Render(m.ui.spinner.View() + " CampusBot is thinking...")
	default:
		input = inputStyle.Render(m.ui.textarea.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.navView(),
		m.ui.viewport.View(),
		input,
		m.statusBarView(),
	)
}

// Start runs the terminal UI until the user quits or ctx is done.
func Start(ctx context.Context, ex *assistant.Exchange, kb Knowledge, sess *session.Session, opts Options) error {
	p := tea.NewProgram(newModel(ctx, ex, kb, sess, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return fmt.Errorf("failed to run terminal UI: %w", err)
	}
	return nil
}
