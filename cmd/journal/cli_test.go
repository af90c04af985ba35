package main

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/nicolovejoy/audio-journal/internal/clock"
	"github.com/nicolovejoy/audio-journal/internal/config"
	"github.com/nicolovejoy/audio-journal/internal/journal"
	"github.com/nicolovejoy/audio-journal/internal/logger"
	"github.com/nicolovejoy/audio-journal/internal/manifest"
	"github.com/nicolovejoy/audio-journal/internal/media"
	"github.com/nicolovejoy/audio-journal/internal/ops"
	"github.com/nicolovejoy/audio-journal/internal/transcript"
)

// Stubs for the external tools so commands run against a temp journal.

type stubRecorder struct{}

func (stubRecorder) Available() bool { return true }

func (stubRecorder) Record(_ context.Context, dest string) error {
	return os.WriteFile(dest, []byte("raw capture"), 0644)
}

type stubEncoder struct{}

func (stubEncoder) Available() bool { return true }

func (stubEncoder) Encode(_ context.Context, src, dest string) error {
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}
	return os.WriteFile(dest, data, 0644)
}

type stubProber struct{}

func (stubProber) Available() bool { return true }

func (stubProber) Probe(context.Context, string) (media.Info, error) {
	return media.Info{Duration: 30, Size: 500000}, nil
}

type stubTranscriber struct{ text string }

func (stubTranscriber) Available() bool { return true }

func (s stubTranscriber) Transcribe(context.Context, string) (transcript.Result, error) {
	return transcript.Result{
		Language: "en",
		Segments: []transcript.Segment{{Start: 0, End: 5, Text: s.text}},
	}, nil
}

// testCLIEnv builds an environment over a temp journal with stubbed tools
// and a fixed clock.
func testCLIEnv(t *testing.T) *ops.Env {
	t.Helper()
	root := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.JournalDir = root
	return &ops.Env{
		Cfg:         cfg,
		Log:         logger.New(logger.Config{Writer: io.Discard, Format: "json"}),
		Clock:       clock.Fixed(time.Date(2026, time.August, 25, 14, 30, 0, 0, time.UTC)),
		Repo:        journal.NewRepository(root),
		Manifest:    manifest.NewStore(root),
		Recorder:    stubRecorder{},
		Encoder:     stubEncoder{},
		Prober:      stubProber{},
		Transcriber: stubTranscriber{text: "Kayak trip on the lake"},
	}
}

// runCLI runs the app with args and returns captured stdout.
func runCLI(t *testing.T, env *ops.Env, args ...string) (string, error) {
	t.Helper()
	oldStdout := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	os.Stdout = w

	app := newCLIApp(env)
	runErr := app.Run(append([]string{"journal"}, args...))

	w.Close()
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)
	os.Stdout = oldStdout
	return buf.String(), runErr
}

// importFixture imports one source file dated 2025-03-05 12:30 and returns
// its key.
func importFixture(t *testing.T, env *ops.Env) string {
	t.Helper()
	src := filepath.Join(t.TempDir(), "memo.mp3")
	if err := os.WriteFile(src, []byte("audio bytes"), 0644); err != nil {
		t.Fatalf("write source: %v", err)
	}
	out, err := runCLI(t, env, "import", "--json", "--date=2025-03-05 12:30", src)
	if err != nil {
		t.Fatalf("import command failed: %v", err)
	}
	var report ops.ImportOutput
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
	}
	if len(report.Imported) != 1 {
		t.Fatalf("expected 1 imported file, got %d (%+v)", len(report.Imported), report.Errors)
	}
	return report.Imported[0].Key
}

// TestCLIRecord tests the record command.
func TestCLIRecord(t *testing.T) {
	env := testCLIEnv(t)

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, env, "record", "--json")
		if err != nil {
			t.Fatalf("record command failed: %v", err)
		}
		var output ops.RecordOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v\nOutput: %s", err, out)
		}
		if output.Key != "AUG_25_14.30" {
			t.Errorf("expected key=AUG_25_14.30, got %s", output.Key)
		}
		if output.Words != 5 {
			t.Errorf("expected words=5, got %d", output.Words)
		}
	})

	t.Run("human summary", func(t *testing.T) {
		out, err := runCLI(t, env, "record")
		if err != nil {
			t.Fatalf("record command failed: %v", err)
		}
		if !strings.Contains(out, "Journal entry saved!") {
			t.Errorf("expected saved banner, got:\n%s", out)
		}
		if !strings.Contains(out, "AUG_25_14.30") {
			t.Errorf("expected entry key in output, got:\n%s", out)
		}
	})
}

// TestCLIImport tests the import command.
func TestCLIImport(t *testing.T) {
	env := testCLIEnv(t)

	key := importFixture(t, env)
	if key != "MAR_05_12.30" {
		t.Errorf("expected key=MAR_05_12.30, got %s", key)
	}

	t.Run("human summary", func(t *testing.T) {
		src := filepath.Join(t.TempDir(), "second.mp3")
		if err := os.WriteFile(src, []byte("more audio"), 0644); err != nil {
			t.Fatalf("write source: %v", err)
		}
		out, err := runCLI(t, env, "import", "--date=2025-06-01", src)
		if err != nil {
			t.Fatalf("import command failed: %v", err)
		}
		if !strings.Contains(out, "Imported 1, skipped 0.") {
			t.Errorf("expected summary line, got:\n%s", out)
		}
	})

	t.Run("skip summary includes error code", func(t *testing.T) {
		out, err := runCLI(t, env, "import", filepath.Join(t.TempDir(), "missing.mp3"))
		if err != nil {
			t.Fatalf("import command failed: %v", err)
		}
		if !strings.Contains(out, "MISSING_INPUT") {
			t.Errorf("expected MISSING_INPUT in output, got:\n%s", out)
		}
		if !strings.Contains(out, "Imported 0, skipped 1.") {
			t.Errorf("expected summary line, got:\n%s", out)
		}
	})
}

// TestCLIList tests the list command.
func TestCLIList(t *testing.T) {
	env := testCLIEnv(t)
	importFixture(t, env)

	out, err := runCLI(t, env, "list", "--json")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	var output ops.ListOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(output.Items))
	}
	if output.Items[0].Key != "MAR_05_12.30" {
		t.Errorf("expected key=MAR_05_12.30, got %s", output.Items[0].Key)
	}
	if output.Items[0].Duration != 30 {
		t.Errorf("expected duration=30, got %v", output.Items[0].Duration)
	}
}

// TestCLISearch tests the search command.
func TestCLISearch(t *testing.T) {
	env := testCLIEnv(t)
	importFixture(t, env)

	t.Run("json", func(t *testing.T) {
		out, err := runCLI(t, env, "search", "--json", "kayak")
		if err != nil {
			t.Fatalf("search command failed: %v", err)
		}
		var output ops.SearchOutput
		if err := json.Unmarshal([]byte(out), &output); err != nil {
			t.Fatalf("failed to parse output: %v", err)
		}
		if output.Total != 1 {
			t.Fatalf("expected 1 match, got %d", output.Total)
		}
		if output.Matches[0].Key != "MAR_05_12.30" {
			t.Errorf("expected key=MAR_05_12.30, got %s", output.Matches[0].Key)
		}
	})

	t.Run("audio paths", func(t *testing.T) {
		out, err := runCLI(t, env, "search", "--audio", "kayak")
		if err != nil {
			t.Fatalf("search command failed: %v", err)
		}
		line := strings.TrimSpace(out)
		if !strings.HasSuffix(line, "MAR_05_12.30.m4a") {
			t.Errorf("expected audio path output, got:\n%s", out)
		}
	})
}

// TestCLIShow tests the show command.
func TestCLIShow(t *testing.T) {
	env := testCLIEnv(t)
	importFixture(t, env)

	out, err := runCLI(t, env, "show", "MAR_05_12.30")
	if err != nil {
		t.Fatalf("show command failed: %v", err)
	}
	if !strings.Contains(out, "# Audio Journal - March 05, 2025 at 12:30 PM") {
		t.Errorf("expected document title, got:\n%s", out)
	}
	if !strings.Contains(out, "Kayak trip on the lake") {
		t.Errorf("expected transcript text, got:\n%s", out)
	}
}

// TestCLIStatusAndMarkSynced tests the status and mark-synced commands.
func TestCLIStatusAndMarkSynced(t *testing.T) {
	env := testCLIEnv(t)
	importFixture(t, env)

	out, err := runCLI(t, env, "status", "--json")
	if err != nil {
		t.Fatalf("status command failed: %v", err)
	}
	var status ops.StatusOutput
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if status.Entries != 1 || status.Synced != 0 {
		t.Errorf("expected 1 entry 0 synced, got %d/%d", status.Entries, status.Synced)
	}

	out, err = runCLI(t, env, "mark-synced", "--all")
	if err != nil {
		t.Fatalf("mark-synced command failed: %v", err)
	}
	if !strings.Contains(out, "Marked 1 entry synced.") {
		t.Errorf("expected marked summary, got:\n%s", out)
	}

	out, err = runCLI(t, env, "status", "--json")
	if err != nil {
		t.Fatalf("status command failed: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &status); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if status.Synced != 1 {
		t.Errorf("expected 1 synced, got %d", status.Synced)
	}
}

// TestCLIReprocess tests the reprocess command.
func TestCLIReprocess(t *testing.T) {
	env := testCLIEnv(t)
	key := importFixture(t, env)

	out, err := runCLI(t, env, "reprocess", "--force", "--json", key)
	if err != nil {
		t.Fatalf("reprocess command failed: %v", err)
	}
	var output ops.ReprocessOutput
	if err := json.Unmarshal([]byte(out), &output); err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(output.Processed) != 1 {
		t.Fatalf("expected 1 processed, got %d (%+v)", len(output.Processed), output.Errors)
	}
	if output.Processed[0].Key != key {
		t.Errorf("expected key=%s, got %s", key, output.Processed[0].Key)
	}
}

// TestCLIErrorHandling tests error handling in CLI commands.
func TestCLIErrorHandling(t *testing.T) {
	env := testCLIEnv(t)

	t.Run("show not found returns error", func(t *testing.T) {
		_, err := runCLI(t, env, "show", "DEC_31_23.59")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("search without term returns error", func(t *testing.T) {
		_, err := runCLI(t, env, "search")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("reprocess without selector returns error", func(t *testing.T) {
		_, err := runCLI(t, env, "reprocess", "--force")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})

	t.Run("mark-synced without selection returns error", func(t *testing.T) {
		_, err := runCLI(t, env, "mark-synced")
		if err == nil {
			t.Error("expected error, got nil")
		}
	})
}

// TestIsCLIMode tests the isCLIMode function.
func TestIsCLIMode(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"journal"},
			expected: false,
		},
		{
			name:     "record command",
			args:     []string{"journal", "record"},
			expected: true,
		},
		{
			name:     "mark-synced command",
			args:     []string{"journal", "mark-synced"},
			expected: true,
		},
		{
			name:     "help flag",
			args:     []string{"journal", "--help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"journal", "--version"},
			expected: true,
		},
		{
			name:     "unknown arg defaults to MCP",
			args:     []string{"journal", "--unknown"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isCLIMode()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestIsHelpOrVersion tests the isHelpOrVersion function.
func TestIsHelpOrVersion(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		expected bool
	}{
		{
			name:     "no args",
			args:     []string{"journal"},
			expected: false,
		},
		{
			name:     "help flag",
			args:     []string{"journal", "--help"},
			expected: true,
		},
		{
			name:     "help subcommand",
			args:     []string{"journal", "help"},
			expected: true,
		},
		{
			name:     "version flag",
			args:     []string{"journal", "-v"},
			expected: true,
		},
		{
			name:     "record command is not help",
			args:     []string{"journal", "record"},
			expected: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			oldArgs := os.Args
			defer func() { os.Args = oldArgs }()

			os.Args = tt.args
			result := isHelpOrVersion()

			if result != tt.expected {
				t.Errorf("expected %v, got %v", tt.expected, result)
			}
		})
	}
}

// TestPlural tests the plural helper.
func TestPlural(t *testing.T) {
	if got := plural(1, "y", "ies"); got != "y" {
		t.Errorf("plural(1) = %q, want %q", got, "y")
	}
	if got := plural(2, "y", "ies"); got != "ies" {
		t.Errorf("plural(2) = %q, want %q", got, "ies")
	}
	if got := plural(0, "y", "ies"); got != "ies" {
		t.Errorf("plural(0) = %q, want %q", got, "ies")
	}
}
