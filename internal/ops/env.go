package ops

import (
	"context"
	"crypto/rand"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/nicolovejoy/audio-journal/internal/clock"
	"github.com/nicolovejoy/audio-journal/internal/config"
	"github.com/nicolovejoy/audio-journal/internal/journal"
	"github.com/nicolovejoy/audio-journal/internal/manifest"
	"github.com/nicolovejoy/audio-journal/internal/media"
	"github.com/nicolovejoy/audio-journal/internal/transcript"
	"github.com/nicolovejoy/audio-journal/internal/whisper"
)

// Recorder captures audio from the system input device until the context is
// canceled or the silence limit trips.
type Recorder interface {
	Available() bool
	Record(ctx context.Context, dest string) error
}

// Encoder transcodes captured audio into the stored format.
type Encoder interface {
	Available() bool
	Encode(ctx context.Context, src, dest string) error
}

// Prober reads duration and size from an audio file.
type Prober interface {
	Available() bool
	Probe(ctx context.Context, path string) (media.Info, error)
}

// Transcriber runs speech-to-text over an audio file.
type Transcriber interface {
	Available() bool
	Transcribe(ctx context.Context, audioPath string) (transcript.Result, error)
}

// Env bundles the collaborators every operation draws on. The clock is
// injected so filenames and manifest timestamps are reproducible in tests.
type Env struct {
	Cfg      *config.Config
	Log      *slog.Logger
	Clock    clock.Clock
	Repo     *journal.Repository
	Manifest *manifest.Store

	Recorder    Recorder
	Encoder     Encoder
	Prober      Prober
	Transcriber Transcriber
}

// NewEnv wires an environment over the real external tools.
func NewEnv(cfg *config.Config, log *slog.Logger) *Env {
	return &Env{
		Cfg:         cfg,
		Log:         log,
		Clock:       clock.System(),
		Repo:        journal.NewRepository(cfg.JournalDir),
		Manifest:    manifest.NewStore(cfg.JournalDir),
		Recorder:    media.NewSoxRecorder(cfg.CaptureDriver, cfg.CaptureRate, cfg.SilenceStopSec, log),
		Encoder:     media.NewFFmpegEncoder(cfg.AudioBitrate, cfg.EncodeRate, log),
		Prober:      media.NewFFprober(),
		Transcriber: whisper.New(cfg.WhisperModel, log),
	}
}

// newRunID generates the ULID used to correlate one pipeline run's log
// lines and scratch files.
func newRunID() string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
