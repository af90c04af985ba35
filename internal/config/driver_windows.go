package config

// defaultCaptureDriver is the sox input driver used when none is configured.
const defaultCaptureDriver = "waveaudio"
