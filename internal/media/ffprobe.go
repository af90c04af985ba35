package media

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// FFprober reads duration and size from audio files via ffprobe.
type FFprober struct{}

// NewFFprober creates a prober.
func NewFFprober() *FFprober {
	return &FFprober{}
}

// Available reports whether ffprobe is on PATH.
func (p *FFprober) Available() bool {
	return Installed(FFprobeBinary)
}

// Probe extracts duration and size for the file at path.
func (p *FFprober) Probe(ctx context.Context, path string) (Info, error) {
	cmd := exec.CommandContext(ctx, FFprobeBinary,
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		path,
	)
	output, err := cmd.Output()
	if err != nil {
		return Info{}, fmt.Errorf("%s failed for %s: %w", FFprobeBinary, path, err)
	}

	info, err := parseProbeOutput(output)
	if err != nil {
		return Info{}, err
	}

	// Some containers report no size in the format section.
	if info.Size == 0 {
		if st, statErr := os.Stat(path); statErr == nil {
			info.Size = st.Size()
		}
	}
	return info, nil
}

// probeOutput mirrors the ffprobe JSON format section. Numeric values
// arrive as strings.
type probeOutput struct {
	Format struct {
		Duration string `json:"duration"`
		Size     string `json:"size"`
	} `json:"format"`
}

func parseProbeOutput(data []byte) (Info, error) {
	var out probeOutput
	if err := json.Unmarshal(data, &out); err != nil {
		return Info{}, fmt.Errorf("failed to parse %s output: %w", FFprobeBinary, err)
	}

	var info Info
	if out.Format.Duration != "" {
		dur, err := strconv.ParseFloat(out.Format.Duration, 64)
		if err != nil {
			return Info{}, fmt.Errorf("bad duration %q in %s output", out.Format.Duration, FFprobeBinary)
		}
		info.Duration = dur
	}
	if out.Format.Size != "" {
		size, err := strconv.ParseInt(out.Format.Size, 10, 64)
		if err == nil {
			info.Size = size
		}
	}
	return info, nil
}
