// Package compose supplies the content producers the CLI plugs into the
// workflow runner: scaffolds rendered from embedded stage templates, file
// and stream passthrough, and interactive editor sessions.
package compose
