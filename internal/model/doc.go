// Package model provides the scoring side of the pipeline: checkpoint
// restore, the model registry, and the built-in linear scorer family.
//
// A checkpoint is a JSON file holding a [num_classes][feature_dim] weight
// matrix plus a bias vector. It is restored exactly once before the first
// batch is scored and is read-only for the rest of the run. Models are
// selected by name through an explicit registry populated at startup;
// looking up an unregistered name fails with ErrUnknownModel rather than a
// generic lookup failure.
package model
