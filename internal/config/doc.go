// Package config loads, validates, and normalizes stagehand's TOML
// configuration.
package config
