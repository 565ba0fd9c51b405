// Command rankeval scores evaluation shards against a restored model
// checkpoint and writes per-example top-k error rates. It also exposes
// small utilities for inspecting run history, registered models, and
// configuration.
package main
