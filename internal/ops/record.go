package ops

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/journal"
	"github.com/nicolovejoy/audio-journal/internal/media"
	"github.com/nicolovejoy/audio-journal/internal/transcript"
	"github.com/nicolovejoy/audio-journal/internal/whisper"
)

// RecordInput contains parameters for the Record operation.
type RecordInput struct {
	// Edit opens the saved transcript in $EDITOR once the pipeline is done.
	Edit bool
}

// RecordOutput describes the saved entry.
type RecordOutput struct {
	Key            string  `json:"key"`
	Year           int     `json:"year"`
	AudioPath      string  `json:"audio_path"`
	TranscriptPath string  `json:"transcript_path"`
	Duration       float64 `json:"duration"`
	Words          int     `json:"words"`
	Degraded       bool    `json:"degraded,omitempty"`
}

// Record runs the capture pipeline: sox records until the user interrupts
// or the silence limit trips, ffmpeg encodes the take, whisper transcribes
// it, and the document and manifest record are written. A missing
// transcription engine degrades to a placeholder document; the audio is
// always kept.
func Record(ctx context.Context, env *Env, input RecordInput) (*RecordOutput, error) {
	if !env.Recorder.Available() {
		return nil, errors.NewMissingDependency(media.SoxBinary, "brew install sox")
	}
	if !env.Encoder.Available() {
		return nil, errors.NewMissingDependency(media.FFmpegBinary, "brew install ffmpeg")
	}

	started := env.Clock.Now()
	year := started.Year()
	key := env.Repo.UniqueKey(started, env.Cfg.AudioFormat)
	log := env.Log.With("run", newRunID(), "key", key)

	if err := env.Repo.EnsureDirs(year); err != nil {
		return nil, errors.NewIOFailure("create journal directories", err)
	}

	scratch, err := os.MkdirTemp("", "journal-record-")
	if err != nil {
		return nil, errors.NewIOFailure("create scratch directory", err)
	}
	defer os.RemoveAll(scratch)

	// The first interrupt stops the capture and finalizes the take; the
	// rest of the pipeline runs with default signal handling restored.
	capCtx, stopSignals := signal.NotifyContext(ctx, os.Interrupt)
	rawPath := filepath.Join(scratch, "capture.wav")
	log.Info("recording started", "driver", env.Cfg.CaptureDriver)
	err = env.Recorder.Record(capCtx, rawPath)
	stopSignals()
	if err != nil {
		return nil, errors.NewIOFailure("capture audio", err)
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if _, err := os.Stat(rawPath); err != nil {
		return nil, errors.NewIOFailure("no audio captured", err)
	}

	audioPath := env.Repo.AudioPath(year, key, env.Cfg.AudioFormat)
	log.Info("encoding audio", "dest", audioPath)
	if err := env.Encoder.Encode(ctx, rawPath, audioPath); err != nil {
		return nil, errors.NewIOFailure("encode audio", err)
	}

	info := probeOrEstimate(ctx, env, audioPath, started, log)
	meta := transcript.FileMeta{
		AudioBasename: filepath.Base(audioPath),
		Duration:      info.Duration,
		SizeBytes:     info.Size,
		Model:         env.Cfg.WhisperModel,
		RecordedAt:    started,
	}
	doc, degraded := transcribeDocument(ctx, env, audioPath, meta, log)

	entry := journal.Entry{Year: year, Key: key, TranscriptPath: env.Repo.TranscriptPath(year, key)}
	if err := os.WriteFile(entry.TranscriptPath, []byte(doc.Render()), 0644); err != nil {
		return nil, errors.NewIOFailure("write transcript", err)
	}
	if _, err := env.Manifest.Upsert(entry.ManifestKey(), audioPath, entry.TranscriptPath, info.Duration, env.Clock.Now()); err != nil {
		return nil, errors.NewIOFailure("update manifest", err)
	}
	log.Info("entry saved", "transcript", entry.TranscriptPath, "words", doc.WordCount, "degraded", degraded)

	if input.Edit {
		if err := openEditor(entry.TranscriptPath); err != nil {
			log.Warn("could not open editor", "error", err)
		}
	}

	return &RecordOutput{
		Key:            key,
		Year:           year,
		AudioPath:      audioPath,
		TranscriptPath: entry.TranscriptPath,
		Duration:       info.Duration,
		Words:          doc.WordCount,
		Degraded:       degraded,
	}, nil
}

// probeOrEstimate reads duration and size from the stored audio, falling
// back to the file size and wall-clock elapsed time when ffprobe cannot
// read the container.
func probeOrEstimate(ctx context.Context, env *Env, path string, started time.Time, log *slog.Logger) media.Info {
	info, err := env.Prober.Probe(ctx, path)
	if err == nil {
		return info
	}
	log.Warn("probe failed, estimating duration from wall clock", "error", err)
	if st, statErr := os.Stat(path); statErr == nil {
		info.Size = st.Size()
	}
	info.Duration = env.Clock.Now().Sub(started).Seconds()
	return info
}

// transcribeDocument produces the document for stored audio. A missing
// engine yields the placeholder document; a failed engine run yields a
// best-effort document with an empty transcript. Both degrade rather than
// fail, so the entry always ends up with some transcript file.
func transcribeDocument(ctx context.Context, env *Env, audioPath string, meta transcript.FileMeta, log *slog.Logger) (transcript.Document, bool) {
	if !env.Transcriber.Available() {
		log.Warn("transcription engine not installed, writing placeholder", "tool", whisper.Binary)
		return transcript.AssembleDegraded(meta), true
	}

	log.Info("transcribing", "model", env.Cfg.WhisperModel)
	res, err := env.Transcriber.Transcribe(ctx, audioPath)
	if err != nil {
		log.Warn("transcription failed, writing best-effort document", "error", err)
		return transcript.Assemble(transcript.Result{}, meta), true
	}
	return transcript.Assemble(res, meta), false
}
