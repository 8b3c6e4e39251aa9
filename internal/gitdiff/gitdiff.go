// Package gitdiff collects read-only git diffs as the opaque review input
// for the code-review stage.
package gitdiff

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"

	"stagehand/internal/artifact"
	"stagehand/internal/interview"
	"stagehand/internal/workflow"
)

// Scope selects which diff the review covers.
type Scope string

const (
	// ScopeWorking diffs unstaged changes against the index.
	ScopeWorking Scope = "working"
	// ScopeStaged diffs the index against HEAD.
	ScopeStaged Scope = "staged"
	// ScopeBranch diffs the branch against its merge base with the
	// configured base branch.
	ScopeBranch Scope = "branch"
)

// commandContext is swapped out by tests to stub the git binary.
var commandContext = exec.CommandContext

// ParseScope validates raw CLI input.
func ParseScope(raw string) (Scope, error) {
	switch Scope(strings.ToLower(strings.TrimSpace(raw))) {
	case ScopeWorking:
		return ScopeWorking, nil
	case ScopeStaged:
		return ScopeStaged, nil
	case ScopeBranch:
		return ScopeBranch, nil
	default:
		return "", fmt.Errorf("diff scope must be working, staged, or branch, got %q", raw)
	}
}

// Collect runs the git diff for the given scope in repoDir and returns its
// output as an opaque blob. base is only consulted for ScopeBranch.
func Collect(ctx context.Context, repoDir string, scope Scope, base string) (string, error) {
	args := []string{"diff"}
	switch scope {
	case ScopeWorking:
	case ScopeStaged:
		args = append(args, "--staged")
	case ScopeBranch:
		base = strings.TrimSpace(base)
		if base == "" {
			base = "main"
		}
		args = append(args, base+"...HEAD")
	default:
		return "", fmt.Errorf("unsupported diff scope %q", scope)
	}

	cmd := commandContext(ctx, "git", args...)
	if repoDir != "" {
		cmd.Dir = repoDir
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("git %s: %w: %s", strings.Join(args, " "), err, detail)
		}
		return "", fmt.Errorf("git %s: %w", strings.Join(args, " "), err)
	}
	return stdout.String(), nil
}

// Producer adapts Collect to the workflow's content producer contract, so
// the code-review stage's "document body" is the diff under review.
func Producer(repoDir string, scope Scope, base string) workflow.ContentProducer {
	return func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
		return Collect(ctx, repoDir, scope, base)
	}
}
