package interview

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// TerminalGate prompts on a writer and reads numbered selections from a
// reader, typically stdout/stdin of an interactive session.
type TerminalGate struct {
	in      *bufio.Reader
	out     io.Writer
	timeout time.Duration
}

// TerminalOption configures a TerminalGate.
type TerminalOption func(*TerminalGate)

// WithTimeout bounds how long Ask waits for each answer. Zero means wait
// indefinitely, which matches the historical behavior of the skills this
// pipeline grew out of.
func WithTimeout(d time.Duration) TerminalOption {
	return func(g *TerminalGate) {
		g.timeout = d
	}
}

// NewTerminalGate builds a gate reading answers from in and prompting on out.
func NewTerminalGate(in io.Reader, out io.Writer, opts ...TerminalOption) *TerminalGate {
	gate := &TerminalGate{
		in:  bufio.NewReader(in),
		out: out,
	}
	for _, opt := range opts {
		opt(gate)
	}
	return gate
}

// Ask presents the question as a numbered list ending in "Other (specify)"
// and blocks until a line arrives. A numeric reply selects the matching
// option; choosing the last entry triggers a follow-up prompt for the
// free-form payload. Anything else is returned verbatim as an Other answer
// so the caller can decide what to do with it.
func (g *TerminalGate) Ask(ctx context.Context, q Question) (Answer, error) {
	if len(q.Options) == 0 {
		return Answer{}, ErrNoOptions
	}

	if g.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.timeout)
		defer cancel()
	}

	fmt.Fprintln(g.out, strings.TrimSpace(q.Prompt))
	for i, option := range q.Options {
		fmt.Fprintf(g.out, "  %d. %s\n", i+1, option)
	}
	fmt.Fprintf(g.out, "  %d. %s (specify)\n", len(q.Options)+1, OptionOther)
	fmt.Fprint(g.out, "> ")

	line, err := g.readLine(ctx)
	if err != nil {
		return Answer{}, err
	}

	answer := Answer{QuestionID: q.ID}
	reply := strings.TrimSpace(line)

	if n, convErr := strconv.Atoi(reply); convErr == nil {
		switch {
		case n >= 1 && n <= len(q.Options):
			answer.Option = q.Options[n-1]
			return answer, nil
		case n == len(q.Options)+1:
			fmt.Fprint(g.out, "Specify: ")
			text, readErr := g.readLine(ctx)
			if readErr != nil {
				return Answer{}, readErr
			}
			answer.Option = OptionOther
			answer.Text = strings.TrimSpace(text)
			return answer, nil
		}
	}

	for _, option := range q.Options {
		if strings.EqualFold(reply, option) {
			answer.Option = option
			return answer, nil
		}
	}

	// Malformed or free-form input passes through untouched.
	answer.Option = OptionOther
	answer.Text = reply
	return answer, nil
}

func (g *TerminalGate) readLine(ctx context.Context) (string, error) {
	type result struct {
		line string
		err  error
	}
	ch := make(chan result, 1)
	go func() {
		line, err := g.in.ReadString('\n')
		if err != nil && line == "" {
			ch <- result{err: err}
			return
		}
		ch <- result{line: line}
	}()

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.err != nil {
			return "", fmt.Errorf("read answer: %w", res.err)
		}
		return strings.TrimRight(res.line, "\r\n"), nil
	}
}
