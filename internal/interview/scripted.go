package interview

import (
	"context"
	"errors"
	"fmt"
)

// ErrScriptExhausted is returned when a scripted gate runs out of answers.
var ErrScriptExhausted = errors.New("interview: no scripted answer remaining")

// ScriptedGate replays a fixed answer sequence. Answers keyed by question ID
// take priority; remaining questions consume the ordered list. Used by
// non-interactive invocations (--answer flags) and tests.
type ScriptedGate struct {
	byID    map[string]Answer
	ordered []Answer
	next    int
}

// NewScriptedGate builds a gate that answers questions from the given list
// in order.
func NewScriptedGate(answers ...Answer) *ScriptedGate {
	return &ScriptedGate{ordered: answers}
}

// Provide registers an answer for a specific question ID.
func (g *ScriptedGate) Provide(questionID string, answer Answer) {
	if g.byID == nil {
		g.byID = make(map[string]Answer)
	}
	answer.QuestionID = questionID
	g.byID[questionID] = answer
}

// Ask resolves the question from the script without blocking.
func (g *ScriptedGate) Ask(ctx context.Context, q Question) (Answer, error) {
	if len(q.Options) == 0 {
		return Answer{}, ErrNoOptions
	}
	if err := ctx.Err(); err != nil {
		return Answer{}, err
	}
	if answer, ok := g.byID[q.ID]; ok {
		return answer, nil
	}
	if g.next >= len(g.ordered) {
		return Answer{}, fmt.Errorf("%w: question %q", ErrScriptExhausted, q.ID)
	}
	answer := g.ordered[g.next]
	g.next++
	if answer.QuestionID == "" {
		answer.QuestionID = q.ID
	}
	return answer, nil
}
