package config

const (
	defaultDocsDir    = "docs/features"
	defaultLogDir     = "~/.local/share/stagehand/logs"
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
	defaultReviewBase = "main"

	// Zero means wait indefinitely for interview answers.
	defaultInterviewTimeout = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DocsDir: defaultDocsDir,
			LogDir:  defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		Interview: Interview{
			TimeoutSeconds: defaultInterviewTimeout,
		},
		Review: Review{
			Base: defaultReviewBase,
		},
	}
}
