// Package config loads the timeline service configuration.
//
// A configuration starts from Default, is overlaid by an optional YAML or
// TOML file chosen by extension, and finally by TIMELINE_* environment
// variables (optionally read from a .env file). The result converts into the
// per-package configs consumed by the logger, preference store, editor
// session and preview feed.
package config
