package intent

import "sort"

// DefaultThreshold is the minimum per-label score for a label to be
// selected into the intent set.
const DefaultThreshold = 0.30

// DefaultAmbiguityGap is the maximum difference between the two highest
// scores for a prediction to be considered ambiguous.
const DefaultAmbiguityGap = 0.3

// Resolution is the thresholded intent set plus the overall confidence.
type Resolution struct {
	// Intents holds every label scoring at or above the threshold, in
	// descending-score order. Never empty: if nothing qualifies, the
	// single highest-scoring label is used.
	Intents []string

	// OverallConfidence is the arithmetic mean of the scores of the
	// selected labels only. Because the divisor is the selected count,
	// confidence is not comparable across turns that selected different
	// numbers of intents; this is a known property of the design, not a
	// defect.
	OverallConfidence float64
}

// Resolve selects intents from raw per-label scores. A threshold <= 0
// uses DefaultThreshold.
func Resolve(scores map[string]float64, threshold float64) Resolution {
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	if len(scores) == 0 {
		return Resolution{}
	}

	ranked := rankedLabels(scores)

	var selected []string
	for _, label := range ranked {
		if scores[label] >= threshold {
			selected = append(selected, label)
		}
	}
	if len(selected) == 0 {
		selected = ranked[:1]
	}

	var sum float64
	for _, label := range selected {
		sum += scores[label]
	}

	return Resolution{
		Intents:           selected,
		OverallConfidence: sum / float64(len(selected)),
	}
}

// IsAmbiguous reports whether the two highest scores differ by less than
// gap. Diagnostic only; the response decision policy does not consult it.
func IsAmbiguous(scores map[string]float64, gap float64) bool {
	if gap <= 0 {
		gap = DefaultAmbiguityGap
	}
	if len(scores) < 2 {
		return false
	}

	ranked := rankedLabels(scores)
	return scores[ranked[0]]-scores[ranked[1]] < gap
}

// rankedLabels returns the labels in descending-score order, breaking
// ties alphabetically so resolution is deterministic.
func rankedLabels(scores map[string]float64) []string {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool {
		if scores[labels[i]] != scores[labels[j]] {
			return scores[labels[i]] > scores[labels[j]]
		}
		return labels[i] < labels[j]
	})
	return labels
}
