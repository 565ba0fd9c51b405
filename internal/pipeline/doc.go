// Package pipeline owns the evaluation run lifecycle. The coordinator walks
// a fixed state machine — init, restoring, running, draining, stopped, with
// failed reachable from any non-terminal state — and guarantees that reader
// workers are joined and the output sink is flushed and closed exactly once,
// on success, failure, and cancellation alike.
//
// End-of-data is not an error: when every reader has exhausted its shards
// the staging channel closes, the joiner emits its final short batch, and
// the coordinator drains and stops.
package pipeline
