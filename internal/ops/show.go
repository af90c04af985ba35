package ops

import (
	"os"
	"strings"
	"time"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/journal"
	"github.com/nicolovejoy/audio-journal/internal/manifest"
)

// ShowInput contains parameters for the Show operation.
type ShowInput struct {
	Key string // bare key or "<year>/<key>"
}

// ShowOutput contains one entry's document and metadata.
type ShowOutput struct {
	Key            string           `json:"key"`
	Year           int              `json:"year"`
	Date           time.Time        `json:"date"`
	TranscriptPath string           `json:"transcript_path"`
	AudioPath      string           `json:"audio_path,omitempty"`
	Content        string           `json:"content"`
	Record         *manifest.Record `json:"manifest,omitempty"`
}

// Show retrieves a single entry. Bare keys are searched newest-first across
// years.
func Show(env *Env, input ShowInput) (*ShowOutput, error) {
	key := strings.TrimSpace(input.Key)
	if key == "" {
		return nil, errors.NewInvalidRequest("key is required")
	}

	e, ok, err := env.Repo.Find(key)
	if err != nil {
		return nil, errors.NewIOFailure("scan journal", err)
	}
	if !ok {
		return nil, errors.NewNotFound(key)
	}

	data, err := os.ReadFile(e.TranscriptPath)
	if err != nil {
		return nil, errors.NewIOFailure("read transcript", err)
	}

	out := &ShowOutput{
		Key:            e.Key,
		Year:           e.Year,
		TranscriptPath: e.TranscriptPath,
		Content:        string(data),
	}
	if parts, err := journal.ParseKey(e.Key); err == nil {
		out.Date = parts.Date(e.Year, time.Local)
	}
	if p, ok := env.Repo.AudioFor(e); ok {
		out.AudioPath = p
	}
	if rec, ok, err := env.Manifest.Get(e.ManifestKey()); err == nil && ok {
		out.Record = &rec
	}
	return out, nil
}
