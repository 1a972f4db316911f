// Package knowledge loads the college's question/answer sheet and renders it
// into the Context block that is sent with every prompt.
package knowledge

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrDataSourceNotFound means the Q&A file does not exist. Chat is not
	// possible without it.
	ErrDataSourceNotFound = errors.New("data source not found")
	// ErrMissingColumn means the header row lacks Question or Answer.
	ErrMissingColumn = errors.New("missing column")
	// ErrMalformedRow means a row has one of its two cells empty.
	ErrMalformedRow = errors.New("malformed row")
	// ErrUnsupportedFormat means the file extension has no reader.
	ErrUnsupportedFormat = errors.New("unsupported data file format")
	// ErrNotLoaded is reported by a Store that has not been loaded yet.
	ErrNotLoaded = errors.New("knowledge not loaded")
)

// Column headers expected in the sheet.
const (
	QuestionColumn = "Question"
	AnswerColumn   = "Answer"
)

// Entry is one question/answer pair from the sheet.
type Entry struct {
	Question string
	Answer   string
}

// RowError reports a malformed row by its 1-based position in the sheet.
type RowError struct {
	Row     int
	Missing string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: empty %s cell", e.Row, e.Missing)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }

// Base is an immutable snapshot of a loaded sheet.
type Base struct {
	source   string
	entries  []Entry
	context  string
	loadedAt time.Time
}

// NewBase builds a base from entries already in memory.
func NewBase(source string, entries []Entry) *Base {
	return &Base{
		source:   source,
		entries:  entries,
		context:  BuildContext(entries),
		loadedAt: time.Now(),
	}
}

// Entries returns a copy of the pairs in file order.
func (b *Base) Entries() []Entry {
	out := make([]Entry, len(b.entries))
	copy(out, b.entries)
	return out
}

// Context returns the prompt-ready text block.
func (b *Base) Context() string { return b.context }

// Len returns the number of pairs.
func (b *Base) Len() int { return len(b.entries) }

// Source returns the path the base was loaded from.
func (b *Base) Source() string { return b.source }

// LoadedAt returns when the base was built.
func (b *Base) LoadedAt() time.Time { return b.loadedAt }

// BuildContext renders entries as "Q: ...\nA: ..." blocks joined by newlines.
func BuildContext(entries []Entry) string {
	pairs := make([]string, len(entries))
	for i, e := range entries {
		pairs[i] = "Q: " + e.Question + "\nA: " + e.Answer
	}
	return strings.Join(pairs, "\n")
}
