// Package logging constructs the slog loggers used across rankeval.
//
// Two output formats exist: a compact console format for interactive use and
// JSON for machine consumption. The "auto" format picks console when stderr
// is a terminal. Attr helpers re-export the slog constructors so call sites
// stay terse, and field-name constants keep structured keys consistent
// between components.
package logging
