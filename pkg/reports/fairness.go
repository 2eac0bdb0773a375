package reports

import "math"

// FairnessScore rates how evenly hours are spread across workers. 100 means
// everyone worked the same hours; 0 means the standard deviation reaches the mean.
func FairnessScore(hours []float64) float64 {
	if len(hours) == 0 {
		return 100.0
	}

	var sum float64
	for _, h := range hours {
		sum += h
	}
	if sum == 0 {
		return 100.0
	}

	mean := sum / float64(len(hours))

	var varianceSum float64
	for _, h := range hours {
		diff := h - mean
		varianceSum += diff * diff
	}
	stdDev := math.Sqrt(varianceSum / float64(len(hours)))

	score := (1.0 - (stdDev / mean)) * 100.0
	if score < 0 {
		return 0.0
	}
	return math.Round(score*100) / 100
}
