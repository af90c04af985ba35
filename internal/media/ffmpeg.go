package media

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
)

// FFmpegEncoder transcodes captured WAV audio to the stored AAC format.
type FFmpegEncoder struct {
	bitrate string
	rate    int
	log     *slog.Logger
}

// NewFFmpegEncoder creates an encoder with the given AAC bitrate (e.g.
// "64k") and output sample rate.
func NewFFmpegEncoder(bitrate string, rate int, log *slog.Logger) *FFmpegEncoder {
	return &FFmpegEncoder{bitrate: bitrate, rate: rate, log: log}
}

// Available reports whether ffmpeg is on PATH.
func (e *FFmpegEncoder) Available() bool {
	return Installed(FFmpegBinary)
}

// Encode transcodes src to dest, overwriting dest if present.
func (e *FFmpegEncoder) Encode(ctx context.Context, src, dest string) error {
	cmd := exec.CommandContext(ctx, FFmpegBinary, encodeArgs(src, dest, e.bitrate, e.rate)...)
	var stderr strings.Builder
	cmd.Stderr = &stderr

	e.log.Debug("encoding audio", "src", src, "dest", dest, "bitrate", e.bitrate)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s failed: %v: %s", FFmpegBinary, err, strings.TrimSpace(stderr.String()))
	}
	return nil
}

func encodeArgs(src, dest, bitrate string, rate int) []string {
	return []string{
		"-y", "-loglevel", "error",
		"-i", src,
		"-c:a", "aac",
		"-b:a", bitrate,
		"-ar", strconv.Itoa(rate),
		dest,
	}
}
