package metrics

import "math"

// CosineSimilarity scores how close two embedding vectors point, clamped to
// [-1, 1]. An unmeasurable pair (empty vectors, mismatched dimensions, or a
// zero-length vector) scores 0 rather than erroring; "no similarity" is a
// legitimate comparison outcome.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(b) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	return math.Max(-1, math.Min(1, sim))
}

// AverageScore is the arithmetic mean of retrieval scores, 0 when nothing
// was retrieved.
func AverageScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return sum / float64(len(scores))
}
