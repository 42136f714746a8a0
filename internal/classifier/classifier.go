// Package classifier decides whether a customer message is a complaint, a
// question with a canned answer, or general chat for the generative model.
package classifier

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Generator is the generative-text API: one prompt in, one text out.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type Purpose int

const (
	PurposeGeneral Purpose = iota
	PurposeComplaintCheck
)

type Outcome string

const (
	OutcomeComplaint        Outcome = "complaint"
	OutcomeNotComplaint     Outcome = "not complaint"
	OutcomePromotionalQuery Outcome = "promotional query"
	OutcomeGeneral          Outcome = "general"
)

const (
	FallbackReply = "There seems to be an issue at the moment. Let me check on that for you."
	EmptyReply    = "I'm here to help! Could you provide more details?"

	personaPrompt   = "You are a friendly and helpful customer service assistant. Respond politely and professionally. "
	complaintPrompt = "You are triaging messages sent to a customer service chat. " +
		"Decide whether the following message is a customer complaint. " +
		"Answer with exactly \"complaint\" or \"not complaint\" and nothing else.\n\nMessage: %s"
)

// Result is what the handlers act on. Degraded is set when the generative
// API failed and the outcome is a fallback rather than a real answer.
type Result struct {
	Outcome  Outcome
	Reply    string
	Degraded bool
}

var complaintKeywords = []string{"complain", "complaint"}

// HasComplaintKeyword reports whether text names a complaint outright.
func HasComplaintKeyword(text string) bool {
	return containsAny(strings.ToLower(text), complaintKeywords)
}

// Classifier has no mutable state; it is safe for concurrent use.
type Classifier struct {
	gen     Generator
	timeout time.Duration
	log     *slog.Logger
}

func New(gen Generator, timeout time.Duration, log *slog.Logger) *Classifier {
	if log == nil {
		log = slog.Default()
	}
	return &Classifier{gen: gen, timeout: timeout, log: log}
}

func (c *Classifier) Classify(ctx context.Context, text string, purpose Purpose) Result {
	switch purpose {
	case PurposeComplaintCheck:
		return c.complaintCheck(ctx, text)
	default:
		return c.general(ctx, text)
	}
}

func (c *Classifier) complaintCheck(ctx context.Context, text string) Result {
	if HasComplaintKeyword(text) {
		return Result{Outcome: OutcomeComplaint}
	}

	answer, err := c.generate(ctx, fmt.Sprintf(complaintPrompt, text))
	if err != nil {
		c.log.Error("complaint check failed", "err", err)
		return Result{Outcome: OutcomeNotComplaint, Degraded: true}
	}
	switch normalize(answer) {
	case string(OutcomeComplaint):
		return Result{Outcome: OutcomeComplaint}
	case "":
		c.log.Warn("complaint check got an empty answer")
		return Result{Outcome: OutcomeNotComplaint, Degraded: true}
	}
	return Result{Outcome: OutcomeNotComplaint}
}

func (c *Classifier) general(ctx context.Context, text string) Result {
	if reply, ok := Canned(text); ok {
		return Result{Outcome: OutcomePromotionalQuery, Reply: reply}
	}

	answer, err := c.generate(ctx, personaPrompt+text)
	if err != nil {
		c.log.Error("error connecting to generative API", "err", err)
		return Result{Outcome: OutcomeGeneral, Reply: FallbackReply, Degraded: true}
	}
	answer = strings.TrimSpace(answer)
	if answer == "" {
		answer = EmptyReply
	}
	return Result{Outcome: OutcomeGeneral, Reply: answer}
}

func (c *Classifier) generate(ctx context.Context, prompt string) (string, error) {
	if c.gen == nil {
		return "", errors.New("generative API not configured")
	}
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}
	return c.gen.Generate(ctx, prompt)
}

// normalize lowercases the model's answer and strips wrapping quotes and punctuation.
func normalize(s string) string {
	return strings.Trim(strings.ToLower(strings.TrimSpace(s)), "\"'.!` \n")
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
