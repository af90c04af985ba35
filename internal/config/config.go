package config

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Environment variables honored at load time.
const (
	EnvJournalDir   = "JOURNAL_DIR"
	EnvWhisperModel = "WHISPER_MODEL"
	EnvLogLevel     = "JOURNAL_LOG"
)

// Config holds application configuration.
type Config struct {
	// JournalDir is the journal root. Resolved from the JOURNAL_DIR
	// environment variable or ~/journal, never from the config file
	// (the file lives inside the journal).
	JournalDir string `json:"-"`

	// WhisperModel is the transcription model size (tiny, base, small,
	// medium, large). WHISPER_MODEL overrides the file value.
	WhisperModel string `json:"whisper_model,omitempty"`

	// AudioFormat is the container extension for stored recordings.
	AudioFormat string `json:"audio_format,omitempty"`

	// AudioBitrate is the AAC encode bitrate passed to the transcoder.
	AudioBitrate string `json:"audio_bitrate,omitempty"`

	// CaptureRate is the capture sample rate in Hz.
	CaptureRate int `json:"capture_rate,omitempty"`

	// EncodeRate is the stored-audio sample rate in Hz.
	EncodeRate int `json:"encode_rate,omitempty"`

	// CaptureDriver is the sox input driver (e.g. "coreaudio", "alsa").
	CaptureDriver string `json:"capture_driver,omitempty"`

	// SilenceStopSec stops a recording after this many seconds of silence.
	SilenceStopSec float64 `json:"silence_stop_sec,omitempty"`

	// SearchContext is the number of context lines shown on either side
	// of a match in verbose search output.
	SearchContext int `json:"search_context,omitempty"`

	// WebHost and WebPort are the bind address for the local browse UI.
	WebHost string `json:"web_host,omitempty"`
	WebPort int    `json:"web_port,omitempty"`

	// LogLevel is the minimum log level (debug, info, warn, error).
	// JOURNAL_LOG overrides the file value.
	LogLevel string `json:"log_level,omitempty"`

	// DisabledTools is a list of MCP tool names to exclude from
	// registration. Unknown tool names are logged as warnings.
	DisabledTools []string `json:"disabled_tools,omitempty"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		WhisperModel:   "base",
		AudioFormat:    "m4a",
		AudioBitrate:   "64k",
		CaptureRate:    16000,
		EncodeRate:     22050,
		CaptureDriver:  defaultCaptureDriver,
		SilenceStopSec: 120.0,
		SearchContext:  3,
		WebHost:        "127.0.0.1",
		WebPort:        7333,
		LogLevel:       "info",
	}
}

// DefaultJournalDir resolves the journal root: JOURNAL_DIR if set,
// otherwise ~/journal.
func DefaultJournalDir() string {
	if dir := os.Getenv(EnvJournalDir); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "journal"
	}
	return filepath.Join(home, "journal")
}

// Load loads configuration from journalDir/.journal/config.json, merges it
// over defaults, and applies environment overrides. Returns defaults if the
// file doesn't exist. The journalDir parameter allows tests to use
// t.TempDir() instead of the real journal.
func Load(journalDir string) (*Config, error) {
	cfg, err := loadFileRaw(filepath.Join(journalDir, ".journal", "config.json"))
	if err != nil {
		return nil, err
	}

	merged := Merge(DefaultConfig(), cfg)
	merged.JournalDir = journalDir
	applyEnv(merged)
	return merged, nil
}

// applyEnv applies environment variable overrides to cfg.
func applyEnv(cfg *Config) {
	if model := os.Getenv(EnvWhisperModel); model != "" {
		cfg.WhisperModel = model
	}
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.LogLevel = level
	}
}

// loadFileRaw loads configuration from a specific file path.
// Returns zero-valued config if the file doesn't exist (not defaults).
func loadFileRaw(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}

	cfg := &Config{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Merge combines base and overlay configs.
// Overlay values take precedence for scalars; arrays are merged and deduplicated.
func Merge(base, overlay *Config) *Config {
	result := &Config{}

	result.WhisperModel = overlayString(base.WhisperModel, overlay.WhisperModel)
	result.AudioFormat = overlayString(base.AudioFormat, overlay.AudioFormat)
	result.AudioBitrate = overlayString(base.AudioBitrate, overlay.AudioBitrate)
	result.CaptureDriver = overlayString(base.CaptureDriver, overlay.CaptureDriver)
	result.WebHost = overlayString(base.WebHost, overlay.WebHost)
	result.LogLevel = overlayString(base.LogLevel, overlay.LogLevel)

	result.CaptureRate = overlayInt(base.CaptureRate, overlay.CaptureRate)
	result.EncodeRate = overlayInt(base.EncodeRate, overlay.EncodeRate)
	result.SearchContext = overlayInt(base.SearchContext, overlay.SearchContext)
	result.WebPort = overlayInt(base.WebPort, overlay.WebPort)

	result.SilenceStopSec = overlay.SilenceStopSec
	if result.SilenceStopSec == 0 {
		result.SilenceStopSec = base.SilenceStopSec
	}

	result.DisabledTools = mergeStringSlice(base.DisabledTools, overlay.DisabledTools)

	return result
}

func overlayString(base, overlay string) string {
	if overlay != "" {
		return overlay
	}
	return base
}

func overlayInt(base, overlay int) int {
	if overlay != 0 {
		return overlay
	}
	return base
}

// mergeStringSlice combines two slices, trims whitespace, and removes duplicates.
func mergeStringSlice(a, b []string) []string {
	seen := make(map[string]bool)
	result := make([]string, 0, len(a)+len(b))

	for _, s := range a {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}
	for _, s := range b {
		s = strings.TrimSpace(s)
		if s != "" && !seen[s] {
			seen[s] = true
			result = append(result, s)
		}
	}

	if len(result) == 0 {
		return nil
	}
	return result
}
