// Package config loads and validates the rankeval configuration.
//
// Configuration comes from a TOML file (default ~/.config/rankeval/config.toml
// or ./rankeval.toml) merged over built-in defaults, with required run
// parameters also settable as command-line flags. The resulting Config is
// constructed once at startup and passed by pointer; nothing mutates it after
// Load returns and there is no package-level state.
package config
