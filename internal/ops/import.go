package ops

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/journal"
	"github.com/nicolovejoy/audio-journal/internal/media"
	"github.com/nicolovejoy/audio-journal/internal/transcript"
)

// audioExts are the extensions eligible for directory batch import.
var audioExts = map[string]bool{
	".m4a":  true,
	".mp3":  true,
	".wav":  true,
	".aac":  true,
	".flac": true,
	".ogg":  true,
}

// dateOverrideLayouts accepted by the import date override.
var dateOverrideLayouts = []string{"2006-01-02 15:04", "2006-01-02"}

// ImportInput contains parameters for the Import operation.
type ImportInput struct {
	Paths []string // files or glob patterns
	Dir   string   // directory batch: every audio file directly in it
	Date  string   // timestamp override, "YYYY-MM-DD" or "YYYY-MM-DD HH:MM"
	Force bool     // overwrite existing transcripts
}

// ImportOutput contains the result of the Import operation.
type ImportOutput struct {
	Imported []ImportedFile `json:"imported"`
	Skipped  int            `json:"skipped"`
	Errors   []ImportError  `json:"errors,omitempty"`
	Degraded bool           `json:"degraded,omitempty"`
}

// ImportedFile describes one successfully imported source file.
type ImportedFile struct {
	Source         string  `json:"source"`
	Key            string  `json:"key"`
	Year           int     `json:"year"`
	TranscriptPath string  `json:"transcript_path"`
	Duration       float64 `json:"duration"`
	Words          int     `json:"words"`
}

// ImportError records why one source file was skipped.
type ImportError struct {
	Path    string `json:"path"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Import processes existing audio files into journal entries: each source is
// copied or transcoded into the store, transcribed, and assembled into a
// document, with a manifest record per entry. Files are processed one at a
// time; a failure on one file records an error and the batch continues.
func Import(ctx context.Context, env *Env, input ImportInput) (*ImportOutput, error) {
	if len(input.Paths) == 0 && input.Dir == "" {
		return nil, errors.NewInvalidRequest("no input files given")
	}
	if !env.Encoder.Available() {
		return nil, errors.NewMissingDependency(media.FFmpegBinary, "brew install ffmpeg")
	}

	var override time.Time
	if input.Date != "" {
		var err error
		override, err = parseDateOverride(input.Date)
		if err != nil {
			return nil, err
		}
	}

	sources, out, err := expandSources(input)
	if err != nil {
		return nil, err
	}

	log := env.Log.With("run", newRunID())
	for _, src := range sources {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		imported, degraded, err := importOne(ctx, env, src, override, input.Force, log)
		if err != nil {
			log.Warn("import skipped", "source", src, "error", err)
			out.Skipped++
			out.Errors = append(out.Errors, ImportError{
				Path:    src,
				Code:    errCode(err),
				Message: err.Error(),
			})
			continue
		}
		out.Degraded = out.Degraded || degraded
		out.Imported = append(out.Imported, *imported)
	}
	return out, nil
}

// expandSources resolves globs and the directory batch into a deduplicated
// source list. Unmatched patterns become per-file errors so the rest of the
// batch still runs.
func expandSources(input ImportInput) ([]string, *ImportOutput, error) {
	out := &ImportOutput{Imported: []ImportedFile{}}
	var sources []string
	seen := map[string]bool{}
	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			sources = append(sources, path)
		}
	}

	for _, p := range input.Paths {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, nil, errors.NewInvalidRequest(fmt.Sprintf("bad glob pattern %q", p))
		}
		if len(matches) == 0 {
			out.Skipped++
			out.Errors = append(out.Errors, ImportError{
				Path:    p,
				Code:    string(errors.ErrMissingInput),
				Message: fmt.Sprintf("no file matches %q", p),
			})
			continue
		}
		sort.Strings(matches)
		for _, m := range matches {
			add(m)
		}
	}

	if input.Dir != "" {
		dirents, err := os.ReadDir(input.Dir)
		if err != nil {
			return nil, nil, errors.NewMissingInput(input.Dir)
		}
		for _, d := range dirents {
			if d.IsDir() || !audioExts[strings.ToLower(filepath.Ext(d.Name()))] {
				continue
			}
			add(filepath.Join(input.Dir, d.Name()))
		}
	}
	return sources, out, nil
}

// importOne runs the pipeline for a single source file. The entry timestamp
// comes from the override when set, otherwise from the source's mtime.
func importOne(ctx context.Context, env *Env, src string, override time.Time, force bool, log *slog.Logger) (*ImportedFile, bool, error) {
	st, err := os.Stat(src)
	if err != nil {
		return nil, false, errors.NewMissingInput(src)
	}
	when := override
	if when.IsZero() {
		when = st.ModTime()
	}

	year := when.Year()
	key := journal.Key(when)
	transcriptPath := env.Repo.TranscriptPath(year, key)
	if _, err := os.Stat(transcriptPath); err == nil && !force {
		return nil, false, errors.NewAlreadyProcessed(transcriptPath)
	}
	if err := env.Repo.EnsureDirs(year); err != nil {
		return nil, false, errors.NewIOFailure("create journal directories", err)
	}

	// Sources already in the stored format are copied bit for bit; anything
	// else is transcoded.
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(src)), ".")
	var audioPath string
	if ext == env.Cfg.AudioFormat {
		audioPath = env.Repo.AudioPath(year, key, ext)
		if err := copyFile(src, audioPath); err != nil {
			return nil, false, errors.NewIOFailure("copy audio", err)
		}
	} else {
		audioPath = env.Repo.AudioPath(year, key, env.Cfg.AudioFormat)
		log.Info("encoding audio", "source", src, "dest", audioPath)
		if err := env.Encoder.Encode(ctx, src, audioPath); err != nil {
			return nil, false, errors.NewIOFailure("encode audio", err)
		}
	}

	info, err := env.Prober.Probe(ctx, audioPath)
	if err != nil {
		return nil, false, errors.NewIOFailure("probe audio", err)
	}

	now := env.Clock.Now()
	meta := transcript.FileMeta{
		AudioBasename: filepath.Base(audioPath),
		Duration:      info.Duration,
		SizeBytes:     info.Size,
		Model:         env.Cfg.WhisperModel,
		RecordedAt:    when,
		ProcessedAt:   &now,
		OriginalFile:  filepath.Base(src),
	}
	doc, degraded := transcribeDocument(ctx, env, audioPath, meta, log.With("key", key))

	if err := os.WriteFile(transcriptPath, []byte(doc.Render()), 0644); err != nil {
		return nil, false, errors.NewIOFailure("write transcript", err)
	}
	if _, err := env.Manifest.Upsert(fmt.Sprintf("%d/%s", year, key), audioPath, transcriptPath, info.Duration, now); err != nil {
		return nil, false, errors.NewIOFailure("update manifest", err)
	}

	return &ImportedFile{
		Source:         src,
		Key:            key,
		Year:           year,
		TranscriptPath: transcriptPath,
		Duration:       info.Duration,
		Words:          doc.WordCount,
	}, degraded, nil
}

func parseDateOverride(s string) (time.Time, error) {
	for _, layout := range dateOverrideLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.NewInvalidRequest(fmt.Sprintf("bad date %q, use YYYY-MM-DD or \"YYYY-MM-DD HH:MM\"", s))
}

func copyFile(src, dest string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	return out.Close()
}
