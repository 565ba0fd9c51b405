// Package metric converts scored batches into per-example ranking-quality
// records. The reported value is a top-k error rate: the fraction of an
// example's k highest-scored classes that are not among its true labels,
// where k is the example's true-label count (at least 1).
package metric

import (
	"sort"

	"rankeval/internal/batch"
)

// Record is one output row: the example's video ID and its error rate.
type Record struct {
	VideoID string
	Score   float64
}

// ErrorRate computes 1 - precision over the top-k predicted classes, with
// k = max(1, len(labels)). Ties are broken by descending score then
// ascending class index, which is deterministic for a fixed input.
func ErrorRate(predictions []float64, labels []int) float64 {
	k := len(labels)
	if k < 1 {
		k = 1
	}
	if k > len(predictions) {
		k = len(predictions)
	}
	if k == 0 {
		return 1
	}

	order := make([]int, len(predictions))
	for i := range order {
		order[i] = i
	}
	sort.Slice(order, func(i, j int) bool {
		a, b := order[i], order[j]
		if predictions[a] != predictions[b] {
			return predictions[a] > predictions[b]
		}
		return a < b
	})

	truth := make(map[int]struct{}, len(labels))
	for _, label := range labels {
		truth[label] = struct{}{}
	}

	positives := 0
	for _, class := range order[:k] {
		if _, ok := truth[class]; ok {
			positives++
		}
	}
	return 1 - float64(positives)/float64(k)
}

// Records derives one Record per row of the scored batch, preserving the
// batch's example order.
func Records(sb *batch.ScoredBatch) []Record {
	records := make([]Record, sb.Len())
	for row := 0; row < sb.Len(); row++ {
		records[row] = Record{
			VideoID: sb.IDs[row],
			Score:   ErrorRate(sb.Predictions[row], sb.Labels[row]),
		}
	}
	return records
}
