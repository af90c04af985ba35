package whisper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nicolovejoy/audio-journal/internal/transcript"
)

// resultJSON mirrors the engine's JSON output file. Only the fields the
// pipeline consumes are decoded.
type resultJSON struct {
	Text                string        `json:"text"`
	Language            string        `json:"language"`
	LanguageProbability *float64      `json:"language_probability"`
	Segments            []segmentJSON `json:"segments"`
}

type segmentJSON struct {
	Start      float64  `json:"start"`
	End        float64  `json:"end"`
	Text       string   `json:"text"`
	AvgLogProb *float64 `json:"avg_logprob"`
}

// Decode parses engine JSON output into a transcript result. Missing
// segments or language decode to their zero values; the assembler renders
// those with best-effort defaults rather than failing the pipeline.
func Decode(data []byte) (transcript.Result, error) {
	var raw resultJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return transcript.Result{}, fmt.Errorf("engine output is not valid JSON: %w", err)
	}

	res := transcript.Result{
		Language:     raw.Language,
		LanguageProb: raw.LanguageProbability,
	}
	for _, s := range raw.Segments {
		res.Segments = append(res.Segments, transcript.Segment{
			Start:   s.Start,
			End:     s.End,
			Text:    s.Text,
			LogProb: s.AvgLogProb,
		})
	}
	return res, nil
}

// DecodePlainText wraps the engine's plain-text fallback output in a single
// untimed segment with no confidence signal.
func DecodePlainText(data []byte) transcript.Result {
	text := strings.TrimSpace(string(data))
	if text == "" {
		return transcript.Result{}
	}
	return transcript.Result{
		Segments: []transcript.Segment{{Text: text}},
	}
}
