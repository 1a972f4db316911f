package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"campusbot/internal/config"
	"campusbot/internal/knowledge"
	"campusbot/internal/session"
	"campusbot/internal/transcript"

	"github.com/charmbracelet/log"
)

// Outcome classifies how a turn ended.
type Outcome string

const (
	// OutcomeAnswered: the model replied and the reply was recorded.
	OutcomeAnswered Outcome = "answered"
	// OutcomeRejected: the utterance was blank; nothing was recorded.
	OutcomeRejected Outcome = "rejected"
	// OutcomeUnavailable: no Q&A sheet is loaded; nothing was recorded.
	OutcomeUnavailable Outcome = "unavailable"
	// OutcomeFailed: the call failed; the fallback reply was recorded.
	OutcomeFailed Outcome = "failed"
	// OutcomeEmpty: the model returned no text; the fallback reply was recorded.
	OutcomeEmpty Outcome = "empty"
	// OutcomeCanceled: the caller went away mid-call; the fallback reply was recorded.
	OutcomeCanceled Outcome = "canceled"
)

// Result is what a turn produced.
type Result struct {
	Outcome Outcome
	// Reply is the assistant text recorded for this turn, if any.
	Reply string
	Err   error
}

// Answered reports whether the model's own reply was recorded.
func (r Result) Answered() bool { return r.Outcome == OutcomeAnswered }

// Recorded reports whether the turn added messages to the transcript.
func (r Result) Recorded() bool {
	return r.Outcome != OutcomeRejected && r.Outcome != OutcomeUnavailable
}

// KnowledgeSource yields the currently loaded sheet.
type KnowledgeSource interface {
	Current() (*knowledge.Base, error)
}

// Exchange runs chat turns against a Generator.
type Exchange struct {
	generator Generator
	knowledge KnowledgeSource
	timeout   time.Duration
	logger    *log.Logger
}

// NewExchange wires a generator to a knowledge source. A zero timeout leaves
// the call bounded only by ctx.
func NewExchange(generator Generator, kb KnowledgeSource, timeout time.Duration, logger *log.Logger) *Exchange {
	return &Exchange{
		generator: generator,
		knowledge: kb,
		timeout:   timeout,
		logger:    logger,
	}
}

// Reply records utterance in sess, asks the model, and records the answer or
// the fallback reply. Turns on one session run one at a time.
func (e *Exchange) Reply(ctx context.Context, sess *session.Session, utterance string) Result {
	if strings.TrimSpace(utterance) == "" {
		return Result{Outcome: OutcomeRejected}
	}

	base, err := e.knowledge.Current()
	if err != nil {
		return Result{Outcome: OutcomeUnavailable, Err: err}
	}

	var result Result
	sess.WithTurn(func() {
		sess.Append(transcript.NewMessage(transcript.RoleUser, utterance))
		result = e.generate(ctx, BuildPrompt(base.Context(), utterance))
		sess.Append(transcript.NewMessage(transcript.RoleAssistant, result.Reply))
	})

	if result.Err != nil {
		e.logger.Error("generation failed", "session", sess.ID, "outcome", result.Outcome, "err", result.Err)
	}
	return result
}

func (e *Exchange) generate(ctx context.Context, prompt string) Result {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	start := time.Now()
	text, err := e.generator.Generate(ctx, prompt)
	e.logger.Debug("generation finished", "elapsed", time.Since(start), "prompt_bytes", len(prompt))

	switch {
	case err == nil:
		answer := strings.TrimSpace(text)
		if answer == "" {
			return Result{Outcome: OutcomeEmpty, Reply: config.FallbackReply, Err: ErrEmptyCompletion}
		}
		return Result{Outcome: OutcomeAnswered, Reply: answer}
	case errors.Is(err, ErrEmptyCompletion):
		return Result{Outcome: OutcomeEmpty, Reply: config.FallbackReply, Err: err}
	case errors.Is(err, context.Canceled):
		return Result{Outcome: OutcomeCanceled, Reply: config.FallbackReply, Err: err}
	default:
		return Result{Outcome: OutcomeFailed, Reply: config.FallbackReply, Err: err}
	}
}
