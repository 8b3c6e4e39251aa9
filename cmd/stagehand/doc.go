// Command stagehand is the CLI for the feature-document pipeline: one
// subcommand per stage plus status, next, and config utilities.
package main
