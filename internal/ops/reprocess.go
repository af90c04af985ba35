package ops

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/journal"
	"github.com/nicolovejoy/audio-journal/internal/media"
	"github.com/nicolovejoy/audio-journal/internal/transcript"
	"github.com/nicolovejoy/audio-journal/internal/whisper"
)

// ReprocessInput contains parameters for the Reprocess operation. Exactly
// one of Key and Year selects the entries.
type ReprocessInput struct {
	Key   string // single entry, bare key or "<year>/<key>"
	Year  int    // batch: every entry in the year
	Force bool   // required to replace an existing transcript
}

// ReprocessOutput contains the result of the Reprocess operation.
type ReprocessOutput struct {
	Processed []ReprocessedEntry `json:"processed"`
	Skipped   int                `json:"skipped"`
	Errors    []ReprocessError   `json:"errors,omitempty"`
}

// ReprocessedEntry describes one rebuilt transcript.
type ReprocessedEntry struct {
	Key   string `json:"key"`
	Year  int    `json:"year"`
	Words int    `json:"words"`
}

// ReprocessError records why one entry was skipped.
type ReprocessError struct {
	Key     string `json:"key"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Reprocess re-runs transcription and assembly over stored audio, replacing
// the entry's document and updating its manifest record. Replacing discards
// any notes written into the old document, so an existing transcript is
// only replaced under Force. Unlike recording, transcription does not
// degrade here: rebuilding a transcript is the whole point, so a missing
// engine is fatal and a failed run leaves the old document in place.
func Reprocess(ctx context.Context, env *Env, input ReprocessInput) (*ReprocessOutput, error) {
	if input.Key == "" && input.Year == 0 {
		return nil, errors.NewInvalidRequest("a key or a year is required")
	}
	if input.Key != "" && input.Year != 0 {
		return nil, errors.NewInvalidRequest("specify a key or a year, not both")
	}
	if !env.Transcriber.Available() {
		return nil, errors.NewMissingDependency(whisper.Binary, "pip install openai-whisper")
	}
	if !env.Prober.Available() {
		return nil, errors.NewMissingDependency(media.FFprobeBinary, "brew install ffmpeg")
	}

	var entries []journal.Entry
	if input.Key != "" {
		e, ok, err := env.Repo.Find(input.Key)
		if err != nil {
			return nil, errors.NewIOFailure("scan journal", err)
		}
		if !ok {
			return nil, errors.NewNotFound(input.Key)
		}
		if !input.Force {
			return nil, errors.NewAlreadyProcessed(e.TranscriptPath)
		}
		entries = []journal.Entry{e}
	} else {
		var err error
		entries, err = env.Repo.EntriesForYear(input.Year)
		if err != nil {
			return nil, errors.NewIOFailure("scan journal", err)
		}
	}

	log := env.Log.With("run", newRunID())
	out := &ReprocessOutput{Processed: []ReprocessedEntry{}}
	for _, e := range entries {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if !input.Force {
			out.Skipped++
			out.Errors = append(out.Errors, ReprocessError{
				Key:     e.ManifestKey(),
				Code:    string(errors.ErrAlreadyProcessed),
				Message: "transcript exists, not replaced without force",
			})
			continue
		}
		words, err := reprocessOne(ctx, env, e, log)
		if err != nil {
			log.Warn("reprocess skipped", "key", e.ManifestKey(), "error", err)
			out.Skipped++
			out.Errors = append(out.Errors, ReprocessError{
				Key:     e.ManifestKey(),
				Code:    errCode(err),
				Message: err.Error(),
			})
			continue
		}
		out.Processed = append(out.Processed, ReprocessedEntry{Key: e.Key, Year: e.Year, Words: words})
	}
	return out, nil
}

func reprocessOne(ctx context.Context, env *Env, e journal.Entry, log *slog.Logger) (int, error) {
	audioPath, ok := env.Repo.AudioFor(e)
	if !ok {
		return 0, errors.NewMissingInput(filepath.Join(env.Repo.AudioDir(e.Year), e.Key+".*"))
	}

	info, err := env.Prober.Probe(ctx, audioPath)
	if err != nil {
		return 0, errors.NewIOFailure("probe audio", err)
	}

	// The recording date comes back out of the key so reprocessing keeps
	// the entry's original timestamp.
	parts, err := journal.ParseKey(e.Key)
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	recorded := parts.Date(e.Year, time.Local)

	now := env.Clock.Now()
	meta := transcript.FileMeta{
		AudioBasename: filepath.Base(audioPath),
		Duration:      info.Duration,
		SizeBytes:     info.Size,
		Model:         env.Cfg.WhisperModel,
		RecordedAt:    recorded,
		ProcessedAt:   &now,
	}
	log.Info("transcribing", "model", env.Cfg.WhisperModel, "key", e.ManifestKey())
	res, err := env.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		return 0, errors.NewIOFailure("transcribe audio", err)
	}
	doc := transcript.Assemble(res, meta)

	if err := os.WriteFile(e.TranscriptPath, []byte(doc.Render()), 0644); err != nil {
		return 0, errors.NewIOFailure("write transcript", err)
	}
	if _, err := env.Manifest.Upsert(e.ManifestKey(), audioPath, e.TranscriptPath, info.Duration, now); err != nil {
		return 0, errors.NewIOFailure("update manifest", err)
	}
	return doc.WordCount, nil
}
