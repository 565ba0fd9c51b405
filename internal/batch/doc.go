// Package batch assembles decoded examples into fixed-size batches.
//
// A Pool runs the configured number of reader workers, each decoding its
// assigned shards sequentially and sending Examples into a bounded staging
// channel. The channel holds at most three batches worth of examples, which
// is what keeps readers from running unboundedly ahead of the scoring stage.
// The Joiner is the single consumer of that channel: it accumulates examples
// into full batches and emits one final short batch when the readers are
// drained. Example order is preserved within a worker's shards; interleaving
// across workers is unspecified.
package batch
