// Package whisper wraps the external whisper CLI: invocation, result-file
// pickup, and decoding of its JSON output into transcript segments.
package whisper

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/nicolovejoy/audio-journal/internal/transcript"
)

// Binary is the engine executable looked up on PATH.
const Binary = "whisper"

// Engine invokes the whisper CLI with a model size and reads the result
// file it drops in the output directory.
type Engine struct {
	model string
	log   *slog.Logger
}

// New creates an engine for the given model size.
func New(model string, log *slog.Logger) *Engine {
	return &Engine{model: model, log: log}
}

// Available reports whether the engine binary is on PATH.
func (e *Engine) Available() bool {
	_, err := exec.LookPath(Binary)
	return err == nil
}

// Transcribe runs the engine on audioPath and decodes its output. The
// engine writes result files named after the audio stem into a scratch
// directory; JSON is preferred, with the plain-text file as a degraded
// fallback when the JSON is missing or unreadable.
func (e *Engine) Transcribe(ctx context.Context, audioPath string) (transcript.Result, error) {
	outDir, err := os.MkdirTemp("", "journal-whisper-")
	if err != nil {
		return transcript.Result{}, err
	}
	defer os.RemoveAll(outDir)

	cmd := exec.CommandContext(ctx, Binary, audioPath,
		"--model", e.model,
		"--output_format", "json",
		"--output_dir", outDir,
		"--verbose", "False",
		"--fp16", "False")
	var stderr strings.Builder
	cmd.Stderr = &stderr

	e.log.Debug("running transcription engine", "model", e.model, "audio", filepath.Base(audioPath))
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return transcript.Result{}, ctx.Err()
		}
		return transcript.Result{}, fmt.Errorf("%s failed: %v: %s", Binary, err, strings.TrimSpace(stderr.String()))
	}

	stem := resultStem(audioPath)

	data, err := os.ReadFile(filepath.Join(outDir, stem+".json"))
	if err == nil {
		res, decodeErr := Decode(data)
		if decodeErr == nil {
			return res, nil
		}
		e.log.Warn("engine JSON unreadable, trying plain text", "error", decodeErr)
	} else if !errors.Is(err, os.ErrNotExist) {
		return transcript.Result{}, err
	}

	txt, err := os.ReadFile(filepath.Join(outDir, stem+".txt"))
	if err != nil {
		return transcript.Result{}, fmt.Errorf("%s produced no readable output for %s", Binary, filepath.Base(audioPath))
	}
	return DecodePlainText(txt), nil
}

// resultStem is the output file stem the engine derives from the audio
// file name.
func resultStem(audioPath string) string {
	base := filepath.Base(audioPath)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
