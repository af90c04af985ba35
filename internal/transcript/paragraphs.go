package transcript

import (
	"fmt"
	"strings"
)

// ParagraphGapSec is the inter-segment silence, in seconds, beyond which a
// new paragraph begins.
const ParagraphGapSec = 2.0

// Body is the rendered transcript text and its derived paragraph count.
type Body struct {
	Text       string
	Paragraphs int
}

// AssembleBody renders a segment sequence into transcript text. Each segment
// becomes one line; a blank line precedes a segment whose gap from the
// previous segment's end exceeds ParagraphGapSec. Whole-minute boundaries
// crossed by segment start times emit inline [MM:00] markers before that
// segment's text, strictly increasing and contiguous. Low-confidence spans
// get a trailing * so a reader can locate uncertain text.
func AssembleBody(segments []Segment) Body {
	if len(segments) == 0 {
		return Body{Paragraphs: 1}
	}

	lines := make([]string, 0, len(segments))
	var prevEnd float64
	havePrev := false
	lastMinute := 0
	paragraphs := 1

	for _, seg := range segments {
		if havePrev && seg.Start-prevEnd > ParagraphGapSec {
			lines = append(lines, "")
			paragraphs++
		}

		var parts []string
		minute := int(seg.Start / 60)
		if minute > lastMinute {
			for m := lastMinute + 1; m <= minute; m++ {
				parts = append(parts, fmt.Sprintf("[%02d:00]", m))
			}
			lastMinute = minute
		}

		text := strings.TrimSpace(seg.Text)
		if LowConfidence(seg.LogProb) {
			text += "*"
		}
		parts = append(parts, text)

		lines = append(lines, strings.Join(parts, " "))
		prevEnd = seg.End
		havePrev = true
	}

	return Body{
		Text:       strings.Join(lines, "\n"),
		Paragraphs: paragraphs,
	}
}

// FormatDuration formats seconds as MM:SS, truncating fractions.
func FormatDuration(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	total := int(seconds)
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}
