package media

import (
	"context"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"time"
)

// SoxRecorder captures audio from the default input device until the
// context is canceled or the silence limit trips.
type SoxRecorder struct {
	driver      string
	rate        int
	silenceStop float64
	log         *slog.Logger
}

// NewSoxRecorder creates a recorder for the given input driver, sample
// rate, and silence-stop threshold in seconds.
func NewSoxRecorder(driver string, rate int, silenceStop float64, log *slog.Logger) *SoxRecorder {
	return &SoxRecorder{driver: driver, rate: rate, silenceStop: silenceStop, log: log}
}

// Available reports whether sox is on PATH.
func (r *SoxRecorder) Available() bool {
	return Installed(SoxBinary)
}

// Record captures audio to dest, blocking until done. Context cancellation
// (the user's interrupt) stops the capture and finalizes the file as
// recorded; it is not an error.
func (r *SoxRecorder) Record(ctx context.Context, dest string) error {
	cmd := exec.CommandContext(ctx, SoxBinary, soxArgs(r.driver, r.rate, r.silenceStop, dest)...)
	cmd.Stdout = nil
	cmd.Stderr = nil
	// Ask sox to stop gracefully so it can finalize the file header.
	cmd.Cancel = func() error {
		return cmd.Process.Signal(os.Interrupt)
	}
	cmd.WaitDelay = 5 * time.Second

	r.log.Debug("capture started", "driver", r.driver, "rate", r.rate, "dest", dest)
	err := cmd.Run()
	if ctx.Err() != nil {
		return nil
	}
	return err
}

// soxArgs builds the capture invocation: default input device, mono
// pipeline rate, and a silence effect that trims leading quiet and stops
// after silenceStop seconds below 1%.
func soxArgs(driver string, rate int, silenceStop float64, dest string) []string {
	return []string{
		"-t", driver, "-d",
		"-r", strconv.Itoa(rate),
		dest,
		"silence", "1", "0.1", "1%", "1", strconv.FormatFloat(silenceStop, 'f', 1, 64), "1%",
	}
}
