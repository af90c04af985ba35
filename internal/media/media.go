// Package media wraps the external audio collaborators: sox for capture,
// ffmpeg for encoding, ffprobe for duration and size.
package media

import "os/exec"

// External binaries looked up on PATH.
const (
	SoxBinary     = "sox"
	FFmpegBinary  = "ffmpeg"
	FFprobeBinary = "ffprobe"
)

// Info is the probed metadata for an audio file.
type Info struct {
	// Duration is the playable length in seconds.
	Duration float64

	// Size is the file size in bytes.
	Size int64
}

// Installed reports whether binary is on PATH.
func Installed(binary string) bool {
	_, err := exec.LookPath(binary)
	return err == nil
}
