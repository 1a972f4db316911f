package tui

import (
	"fmt"
	"strings"

	"campusbot/internal/transcript"

	"github.com/charmbracelet/lipgloss"
)

// renderBody renders the scrollable part of the selected page.
func (m *model) renderBody() string {
	if m.frame.IsAbout() {
		return m.renderAbout()
	}
	return m.renderConversation()
}

// renderConversation renders the welcome header followed by the transcript.
func (m *model) renderConversation() string {
	blocks := []string{m.renderWelcomeHeader()}
	for _, msg := range m.frame.Messages {
		blocks = append(blocks, m.renderMessage(msg))
	}
	if m.frame.Notice != "" {
		blocks = append(blocks, noticeStyle.Render(m.frame.Notice))
	}
	return strings.Join(blocks, "\n")
}

func (m *model) renderWelcomeHeader() string {
	return titleStyle.Render(m.frame.WelcomeTitle) + "\n" +
		lipgloss.NewStyle().Foreground(textMuted).Render(m.frame.WelcomeMessage) + "\n"
}

func (m *model) renderMessage(msg transcript.Message) string {
	label, color := botIcon+" CampusBot", secondaryColor
	content := m.renderMarkdown(msg.Content)
	if msg.Role == transcript.RoleUser {
		label, color = userIcon+" You", primaryColor
		content = msg.Content
	}

	header := labelStyle.Foreground(color).Render(label)
	return cardStyle.
		BorderForeground(color).
		Width(max(m.ui.viewport.Width-4, 10)).
		Render(header + "\n" + content)
}

func (m *model) renderAbout() string {
	return titleStyle.Render(m.frame.AboutTitle) + "\n" + m.renderMarkdown(m.frame.About)
}

// renderMarkdown renders markdown content, falling back to the raw text.
func (m *model) renderMarkdown(content string) string {
	if m.renderer == nil {
		return content
	}
	rendered, err := m.renderer.Render(content)
	if err != nil {
		return content
	}
	return strings.Trim(rendered, "\n")
}

func (m *model) renderError() string {
	return errorStyle.
		Width(max(m.ui.width-4, 20)).
		Render(errorIcon + " " + m.frame.Error)
}

// navView renders the page switcher that stands in for the sidebar.
func (m *model) navView() string {
	chat, about := navItemStyle, navItemStyle
	if m.frame.IsAbout() {
		about = navActiveStyle
	} else {
		chat = navActiveStyle
	}
	return lipgloss.JoinHorizontal(lipgloss.Top,
		titleStyle.PaddingRight(2).Render(m.frame.Title),
		chat.Render("Chatbot"),
		about.Render("About"),
	)
}

func (m *model) statusBarView() string {
	var items []string
	if m.frame.ModelName != "" {
		items = append(items, "🔮 "+m.frame.ModelName)
	}
	if m.frame.ChatEnabled {
		items = append(items, fmt.Sprintf("📚 %d Q&A", m.frame.EntryCount))
	}
	items = append(items, fmt.Sprintf("💬 %d", len(m.frame.Messages)))

	left := strings.Join(items, " • ")
	help := "Tab Switch page • Enter Send • Esc Quit"

	spacer := max(m.ui.width-lipgloss.Width(left)-lipgloss.Width(help)-2, 1)
	return statusBarStyle.
		Width(m.ui.width).
		Render(left + strings.Repeat(" ", spacer) + help)
}
