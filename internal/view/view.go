// Package view builds the immutable snapshot that every front end renders.
// A new Model is built after each visitor action instead of re-running the
// whole page.
package view

import (
	"errors"
	"fmt"
	"path/filepath"

	"campusbot/internal/assistant"
	"campusbot/internal/config"
	"campusbot/internal/knowledge"
	"campusbot/internal/page"
	"campusbot/internal/transcript"
)

// Model is everything a renderer needs for one frame.
type Model struct {
	Title          string
	Page           page.State
	WelcomeTitle   string
	WelcomeMessage string
	Placeholder    string
	Messages       []transcript.Message
	AboutTitle     string
	About          string
	LogoURL        string
	// Error is a user-visible load failure. When set, chat is disabled.
	Error       string
	ChatEnabled bool
	EntryCount  int
	ModelName   string
	// Notice is a one-off status line, e.g. after a failed turn.
	Notice string
}

// Input is the state a Model is built from.
type Input struct {
	Page         page.State
	Messages     []transcript.Message
	Knowledge    *knowledge.Base
	KnowledgeErr error
	DataFile     string
	LogoURL      string
	ModelName    string
	Notice       string
}

// Build derives a Model from in. It does not retain in.Messages.
func Build(in Input) Model {
	m := Model{
		Title:          config.BotName,
		Page:           in.Page,
		WelcomeTitle:   config.WelcomeTitle,
		WelcomeMessage: config.WelcomeMessage,
		Placeholder:    config.ChatPlaceholder,
		Messages:       append([]transcript.Message(nil), in.Messages...),
		AboutTitle:     config.AboutTitle,
		About:          config.AboutMarkdown,
		LogoURL:        in.LogoURL,
		ModelName:      in.ModelName,
		Notice:         in.Notice,
	}

	switch {
	case in.KnowledgeErr != nil:
		m.Error = ErrorMessage(in.KnowledgeErr, in.DataFile)
	case in.Knowledge == nil:
		m.Error = ErrorMessage(knowledge.ErrNotLoaded, in.DataFile)
	default:
		m.ChatEnabled = true
		m.EntryCount = in.Knowledge.Len()
	}
	return m
}

// IsChat reports whether the chat view is selected.
func (m Model) IsChat() bool { return m.Page == page.Chat }

// IsAbout reports whether the about view is selected.
func (m Model) IsAbout() bool { return m.Page == page.About }

// ErrorMessage turns a knowledge load error into the text shown to visitors.
func ErrorMessage(err error, dataFile string) string {
	name := filepath.Base(dataFile)
	switch {
	case errors.Is(err, knowledge.ErrDataSourceNotFound):
		return fmt.Sprintf("Data file '%s' not found. Please make sure it's in the same directory.", name)
	case errors.Is(err, knowledge.ErrNotLoaded):
		return fmt.Sprintf("Data file '%s' has not been loaded yet.", name)
	default:
		return fmt.Sprintf("Data file '%s' could not be loaded: %v", name, err)
	}
}

// NoticeFor returns the status line shown after a turn that did not end in a
// normal answer, or "" when none is needed.
func NoticeFor(o assistant.Outcome) string {
	switch o {
	case assistant.OutcomeRejected:
		return "Please type a question first."
	case assistant.OutcomeUnavailable:
		return "Chat is unavailable until the Q&A data file is loaded."
	case assistant.OutcomeFailed, assistant.OutcomeEmpty:
		return "The assistant could not answer that question."
	case assistant.OutcomeCanceled:
		return "The request was canceled before the assistant answered."
	default:
		return ""
	}
}
