package dataset

// Example is one decoded input record. It is immutable once decoded and is
// owned by the reader worker that produced it until handed to the joiner.
type Example struct {
	// ID identifies the video the record was extracted from.
	ID string
	// Features holds the video-level feature vector. Empty for frame-level
	// examples.
	Features []float32
	// Frames holds per-frame feature vectors for frame-level examples.
	Frames [][]float32
	// Labels lists the ground-truth class indices, sorted ascending.
	Labels []int
	// FrameCount is len(Frames) for frame-level examples, zero otherwise.
	FrameCount int
}

// FrameLevel reports whether the example carries per-frame features.
func (e *Example) FrameLevel() bool {
	return len(e.Frames) > 0
}
