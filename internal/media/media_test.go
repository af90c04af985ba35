package media

import (
	"reflect"
	"testing"
)

func TestSoxArgs(t *testing.T) {
	got := soxArgs("coreaudio", 16000, 120.0, "/tmp/scratch/recording.wav")

	want := []string{
		"-t", "coreaudio", "-d",
		"-r", "16000",
		"/tmp/scratch/recording.wav",
		"silence", "1", "0.1", "1%", "1", "120.0", "1%",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("soxArgs() = %v, want %v", got, want)
	}
}

func TestEncodeArgs(t *testing.T) {
	got := encodeArgs("/tmp/recording.wav", "/journal/audio/2026/AUG_25_14.30.m4a", "64k", 22050)

	want := []string{
		"-y", "-loglevel", "error",
		"-i", "/tmp/recording.wav",
		"-c:a", "aac",
		"-b:a", "64k",
		"-ar", "22050",
		"/journal/audio/2026/AUG_25_14.30.m4a",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("encodeArgs() = %v, want %v", got, want)
	}
}

func TestParseProbeOutput(t *testing.T) {
	data := []byte(`{
		"format": {
			"filename": "AUG_25_14.30.m4a",
			"format_name": "mov,mp4,m4a,3gp,3g2,mj2",
			"duration": "754.312000",
			"size": "6041234",
			"bit_rate": "64083"
		}
	}`)

	info, err := parseProbeOutput(data)
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}
	if info.Duration != 754.312 {
		t.Errorf("Duration = %v, want 754.312", info.Duration)
	}
	if info.Size != 6041234 {
		t.Errorf("Size = %d, want 6041234", info.Size)
	}
}

func TestParseProbeOutputMissingFields(t *testing.T) {
	info, err := parseProbeOutput([]byte(`{"format": {}}`))
	if err != nil {
		t.Fatalf("parseProbeOutput() error = %v", err)
	}
	if info.Duration != 0 || info.Size != 0 {
		t.Errorf("info = %+v, want zero values", info)
	}
}

func TestParseProbeOutputBadDuration(t *testing.T) {
	if _, err := parseProbeOutput([]byte(`{"format": {"duration": "N/A"}}`)); err == nil {
		t.Fatal("parseProbeOutput() expected error for bad duration, got nil")
	}
}

func TestParseProbeOutputInvalidJSON(t *testing.T) {
	if _, err := parseProbeOutput([]byte("not json")); err == nil {
		t.Fatal("parseProbeOutput() expected error, got nil")
	}
}
