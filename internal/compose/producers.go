package compose

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"stagehand/internal/artifact"
	"stagehand/internal/interview"
	"stagehand/internal/stage"
	"stagehand/internal/workflow"
)

// commandContext is swapped out by tests to avoid launching a real editor.
var commandContext = exec.CommandContext

// FromString returns a producer that supplies a fixed body.
func FromString(body string) workflow.ContentProducer {
	return func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
		return body, nil
	}
}

// FromFile returns a producer that reads the body from a file at run time.
func FromFile(path string) workflow.ContentProducer {
	return func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read body from %s: %w", path, err)
		}
		return string(data), nil
	}
}

// FromReader returns a producer that drains r, typically stdin.
func FromReader(r io.Reader) workflow.ContentProducer {
	return func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
		data, err := io.ReadAll(r)
		if err != nil {
			return "", fmt.Errorf("read body: %w", err)
		}
		return string(data), nil
	}
}

// Editor returns a producer that seeds a temp file with the stage scaffold,
// opens it in the configured editor, and reads the saved result back. The
// editor inherits the terminal; its exit status decides success.
func Editor(editorCmd string, st stage.Stage) workflow.ContentProducer {
	return func(ctx context.Context, feature artifact.FeatureID, answers []interview.Answer) (string, error) {
		editor := strings.TrimSpace(editorCmd)
		if editor == "" {
			return "", errors.New("no editor configured; set compose.editor or $EDITOR")
		}

		seed, err := RenderScaffold(st, feature, answers)
		if err != nil {
			return "", err
		}

		dir, err := os.MkdirTemp("", "stagehand-edit-")
		if err != nil {
			return "", fmt.Errorf("create edit workspace: %w", err)
		}
		defer os.RemoveAll(dir)

		suffix := st.ArtifactSuffix
		if suffix == "" {
			suffix = "draft"
		}
		path := filepath.Join(dir, feature.Ref()+"."+suffix+".md")
		if err := os.WriteFile(path, []byte(seed), 0o644); err != nil {
			return "", fmt.Errorf("seed edit file: %w", err)
		}

		parts := strings.Fields(editor)
		args := append(parts[1:], path)
		cmd := commandContext(ctx, parts[0], args...)
		cmd.Stdin = os.Stdin
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return "", fmt.Errorf("editor session: %w", err)
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("read edited body: %w", err)
		}
		return string(data), nil
	}
}
