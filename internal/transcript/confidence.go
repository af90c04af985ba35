package transcript

import "math"

// LowConfidenceThreshold is the percent score below which a segment's
// rendered text carries the trailing uncertainty marker.
const LowConfidenceThreshold = 80.0

// Confidence converts a segment's log-probability into a 0–100 percent
// score: exp(logProb) * 100. A missing log-probability scores 0. The result
// is clamped so malformed input (positive logProb, NaN) cannot escape the
// range.
func Confidence(logProb *float64) float64 {
	if logProb == nil {
		return 0
	}
	pct := math.Exp(*logProb) * 100
	if math.IsNaN(pct) || pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// LowConfidence reports whether a segment scores below the marker threshold.
func LowConfidence(logProb *float64) bool {
	return Confidence(logProb) < LowConfidenceThreshold
}

// ConfidenceSummary aggregates per-segment scores over a whole result.
type ConfidenceSummary struct {
	// AveragePercent is the mean confidence across all segments,
	// 0.0 when there are none.
	AveragePercent float64

	// LowCount is the number of segments below the marker threshold.
	LowCount int
}

// Summarize computes the confidence summary for a segment sequence.
func Summarize(segments []Segment) ConfidenceSummary {
	if len(segments) == 0 {
		return ConfidenceSummary{}
	}

	var sum float64
	var low int
	for _, s := range segments {
		pct := Confidence(s.LogProb)
		sum += pct
		if pct < LowConfidenceThreshold {
			low++
		}
	}

	return ConfidenceSummary{
		AveragePercent: sum / float64(len(segments)),
		LowCount:       low,
	}
}
