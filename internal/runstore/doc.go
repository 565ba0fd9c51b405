// Package runstore persists run history in a SQLite database under the state
// directory. Every invocation of `rankeval run` records a row at start and
// finalizes it with counters and outcome on completion or failure. The store
// is purely observational: pipeline correctness never depends on it, and a
// run proceeds even if history recording fails.
package runstore
