package sqlite

import (
	"math"

	"github.com/MordecaiM24/recall-sub000/internal/core/domain"
)

// distanceFunc computes the distance between two equal-length vectors.
// Smaller means more similar for every supported metric.
type distanceFunc func(a, b []float32) float64

// distanceFor returns the function for a metric. Unknown metrics fall
// back to squared Euclidean; Config.Validate rejects them earlier.
func distanceFor(metric domain.DistanceMetric) distanceFunc {
	if metric == domain.MetricCosine {
		return cosineDistance
	}
	return squaredEuclidean
}

// squaredEuclidean is the sum of squared component differences.
// The square root is omitted: it preserves ordering and saves work.
func squaredEuclidean(a, b []float32) float64 {
	var sum float64
	for i := range a {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return sum
}

// cosineDistance is 1 - cosine similarity. A zero vector on either side
// yields the maximum distance of 1.
func cosineDistance(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
