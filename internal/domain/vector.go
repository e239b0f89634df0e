package domain

import "math"

// CosineSimilarity returns the cosine of the angle between a and b in [-1, 1].
// A zero vector on either side yields 0, never NaN. Vectors of different
// lengths are compared over the shorter prefix.
func CosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))

	// Clamp accumulated float error to the defined range.
	if sim > 1 {
		return 1
	}
	if sim < -1 {
		return -1
	}
	return sim
}
