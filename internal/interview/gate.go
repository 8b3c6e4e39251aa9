package interview

import (
	"context"
	"errors"
	"strings"
)

// OptionOther is the implicit free-form choice appended to every question.
const OptionOther = "Other"

// ErrNoOptions is returned when a question offers an empty option list.
var ErrNoOptions = errors.New("interview: question offers no options")

// Question is one decision point presented before content production.
type Question struct {
	ID      string
	Prompt  string
	Options []string
}

// Answer records the resolution of a single question. Option holds one of
// the offered choices, or OptionOther with the free-form payload in Text.
// Answers are ephemeral; they live only for the duration of one stage run.
type Answer struct {
	QuestionID string
	Option     string
	Text       string
}

// IsOther reports whether the answer selected the free-form choice.
func (a Answer) IsOther() bool {
	return a.Option == OptionOther
}

// String renders the answer the way it is folded into produced documents.
func (a Answer) String() string {
	if a.IsOther() {
		text := strings.TrimSpace(a.Text)
		if text == "" {
			return OptionOther
		}
		return OptionOther + ": " + text
	}
	return a.Option
}

// Gate collects the answer to one question. Ask blocks until the answer
// source responds or ctx is done. Implementations append OptionOther to the
// presented choices and return malformed answers as-is; no retries.
type Gate interface {
	Ask(ctx context.Context, q Question) (Answer, error)
}
