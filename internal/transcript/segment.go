// Package transcript converts raw speech-to-text engine output into the
// journal's markdown document: minute markers, pause-derived paragraph
// breaks, per-segment confidence scoring, and the metadata summary.
package transcript

// Segment is one timestamped span of transcribed text with the engine's
// confidence signal.
type Segment struct {
	// Start and End are offsets in seconds from the beginning of the recording.
	// Sequences are ordered by non-decreasing Start.
	Start float64
	End   float64

	// Text is the transcribed span.
	Text string

	// LogProb is the natural-log mean token probability reported by the
	// engine, a non-positive number for valid output. Nil when the engine
	// did not report one.
	LogProb *float64
}

// Result is the engine output for one recording.
type Result struct {
	// Language is the detected language tag (e.g. "en").
	Language string

	// LanguageProb is the detected-language probability, when reported.
	LanguageProb *float64

	// Segments is the ordered segment sequence. May be empty for a
	// silence-only recording.
	Segments []Segment
}
