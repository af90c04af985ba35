package transcript

import (
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/dustin/go-humanize"
)

// Date layouts used in rendered documents.
const (
	dateTimeLayout = "January 02, 2006 at 03:04 PM"
	dateLayout     = "January 02, 2006"
)

// degradedPlaceholder fills the Transcript section when the engine is
// unavailable.
const degradedPlaceholder = "*Transcription not available (whisper not installed).*"

// notesPlaceholder seeds the Notes section. Never auto-populated; the user
// edits it by hand.
const notesPlaceholder = "<!-- Add your thoughts, tags, or follow-up notes here -->"

// FileMeta carries the recording-level facts rendered into a document.
type FileMeta struct {
	// AudioBasename is the stored audio file name, e.g. "AUG_25_14.30.m4a".
	AudioBasename string

	// Duration is the recording length in seconds.
	Duration float64

	// SizeBytes is the stored audio file size.
	SizeBytes int64

	// Model is the transcription model size, e.g. "base".
	Model string

	// RecordedAt is when the audio was captured. For imports this is the
	// source file's date, not the processing date.
	RecordedAt time.Time

	// ProcessedAt is set for imported or reprocessed entries whose
	// processing happened later than the recording.
	ProcessedAt *time.Time

	// OriginalFile is the source basename for imported files.
	OriginalFile string
}

// Document is the fully derived journal entry document. Rendering is a pure
// function of the fields, so equal inputs produce byte-identical output.
type Document struct {
	Body         Body
	Summary      ConfidenceSummary
	WordCount    int
	Language     string
	LanguageProb *float64
	Meta         FileMeta
	Degraded     bool
}

// Assemble derives the document for a transcription result. The word count
// is taken over the assembled body, markers included. An empty segment
// sequence yields an empty body with one paragraph and zero words.
func Assemble(res Result, meta FileMeta) Document {
	body := AssembleBody(res.Segments)
	return Document{
		Body:         body,
		Summary:      Summarize(res.Segments),
		WordCount:    len(strings.Fields(body.Text)),
		Language:     res.Language,
		LanguageProb: res.LanguageProb,
		Meta:         meta,
	}
}

// AssembleDegraded produces the placeholder document used when the
// transcription engine is unavailable. Counts are zero and the language is
// unknown; the pipeline still persists the document so the entry exists.
func AssembleDegraded(meta FileMeta) Document {
	return Document{
		Body:     Body{Paragraphs: 1},
		Meta:     meta,
		Degraded: true,
	}
}

// Render returns the markdown text of the document, fixed section order:
// title, metadata line, Transcript, Metadata, Notes.
func (d Document) Render() string {
	var b strings.Builder

	fmt.Fprintf(&b, "# Audio Journal - %s\n\n", d.Meta.RecordedAt.Format(dateTimeLayout))

	fmt.Fprintf(&b, "**Audio:** `%s` | **Duration:** %s | **Size:** %s",
		d.Meta.AudioBasename,
		FormatDuration(d.Meta.Duration),
		humanize.Bytes(uint64(d.Meta.SizeBytes)))
	if d.Meta.ProcessedAt != nil {
		fmt.Fprintf(&b, " | **Processed:** %s", d.Meta.ProcessedAt.Format(dateLayout))
	}
	b.WriteString("\n\n---\n\n")

	b.WriteString("## Transcript\n\n")
	if d.Degraded {
		b.WriteString(degradedPlaceholder)
	} else {
		b.WriteString(d.Body.Text)
	}
	b.WriteString("\n\n---\n\n")

	b.WriteString("## Metadata\n\n")
	fmt.Fprintf(&b, "- **Words:** %d\n", d.WordCount)
	fmt.Fprintf(&b, "- **Duration:** %s\n", FormatDuration(d.Meta.Duration))
	fmt.Fprintf(&b, "- **Language:** %s\n", d.languageLine())
	fmt.Fprintf(&b, "- **Paragraphs:** %d\n", d.Body.Paragraphs)
	fmt.Fprintf(&b, "- **Average Confidence:** %.1f%%\n", d.Summary.AveragePercent)
	if d.Summary.LowCount > 0 {
		fmt.Fprintf(&b, "- **Low Confidence Segments:** %d (marked with *)\n", d.Summary.LowCount)
	} else {
		b.WriteString("- **Low Confidence Segments:** 0\n")
	}
	fmt.Fprintf(&b, "- **Model:** whisper-%s\n", d.Meta.Model)
	if d.Meta.OriginalFile != "" {
		fmt.Fprintf(&b, "- **Original File:** %s\n", d.Meta.OriginalFile)
	}
	if d.Meta.ProcessedAt != nil {
		fmt.Fprintf(&b, "- **Recording Date:** %s\n", d.Meta.RecordedAt.Format(dateTimeLayout))
		fmt.Fprintf(&b, "- **Processing Date:** %s\n", d.Meta.ProcessedAt.Format(dateTimeLayout))
	}
	b.WriteString("\n---\n\n")

	b.WriteString("## Notes\n\n")
	b.WriteString(notesPlaceholder)
	b.WriteString("\n\n")

	return b.String()
}

// languageLine renders the detected language, capitalized, with the
// detection confidence appended when known. Degraded or empty results read
// as Unknown.
func (d Document) languageLine() string {
	lang := d.Language
	if d.Degraded || lang == "" {
		lang = "unknown"
	}
	line := capitalize(lang)
	if d.LanguageProb != nil {
		line += fmt.Sprintf(" (%.1f%% confidence)", *d.LanguageProb*100)
	}
	return line
}

// capitalize upper-cases the first rune of s.
func capitalize(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}
