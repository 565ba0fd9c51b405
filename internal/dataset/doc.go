// Package dataset provides the input side of the evaluation pipeline: glob
// expansion of the shard pattern and decoding of shard files into Examples.
//
// Shards are JSON Lines files, one example per line, optionally compressed
// (gzip for .gz, zstd for .zst, chosen by extension). Video-level records
// carry a single feature vector; frame-level records carry one vector per
// frame. Malformed lines are skipped and counted rather than failing the
// run; the pipeline surfaces the skip total in its summary.
package dataset
