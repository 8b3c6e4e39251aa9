package testsupport

import (
	"path/filepath"
	"testing"

	"stagehand/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.DocsDir = filepath.Join(base, "docs", "features")
	cfg.Paths.LogDir = filepath.Join(base, "logs")

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithInterviewTimeout bounds interview waits on the test config.
func WithInterviewTimeout(seconds int) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Interview.TimeoutSeconds = seconds
	}
}

// WithEditor sets the compose editor command on the test config.
func WithEditor(command string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Compose.Editor = command
	}
}
