package search

import (
	"os"
	"strings"
	"testing"

	"github.com/nicolovejoy/audio-journal/internal/journal"
)

func writeDoc(t *testing.T, repo *journal.Repository, year int, key, body string) {
	t.Helper()
	if err := os.MkdirAll(repo.TranscriptDir(year), 0755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	doc := "# Audio Journal\n\n## Transcript\n\n" + body + "\n"
	if err := os.WriteFile(repo.TranscriptPath(year, key), []byte(doc), 0644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestScanCaseInsensitive(t *testing.T) {
	repo := journal.NewRepository(t.TempDir())
	writeDoc(t, repo, 2026, "AUG_25_14.30", "Had a Meeting with the architecture group.")
	writeDoc(t, repo, 2026, "AUG_24_09.00", "Walked along the river this morning.")

	matches, err := NewScanner(repo).Scan("meeting", Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("Scan() returned %d matches, want 1", len(matches))
	}
	if matches[0].Entry.Key != "AUG_25_14.30" {
		t.Errorf("match key = %q, want AUG_25_14.30", matches[0].Entry.Key)
	}
	if !strings.Contains(matches[0].Snippet, "Meeting") {
		t.Errorf("snippet = %q, want the matching line", matches[0].Snippet)
	}
}

func TestScanEnumerationOrder(t *testing.T) {
	repo := journal.NewRepository(t.TempDir())
	writeDoc(t, repo, 2025, "SEP_01_08.00", "garden notes")
	writeDoc(t, repo, 2026, "AUG_25_14.30", "garden plans")
	writeDoc(t, repo, 2026, "JUL_02_19.45", "garden watering")

	matches, err := NewScanner(repo).Scan("garden", Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	want := []string{"2026/JUL_02_19.45", "2026/AUG_25_14.30", "2025/SEP_01_08.00"}
	if len(matches) != len(want) {
		t.Fatalf("Scan() returned %d matches, want %d", len(matches), len(want))
	}
	for i, m := range matches {
		if m.Entry.ManifestKey() != want[i] {
			t.Errorf("matches[%d] = %q, want %q", i, m.Entry.ManifestKey(), want[i])
		}
	}
}

func TestScanYearScope(t *testing.T) {
	repo := journal.NewRepository(t.TempDir())
	writeDoc(t, repo, 2025, "SEP_01_08.00", "project kickoff")
	writeDoc(t, repo, 2026, "AUG_25_14.30", "project retro")

	matches, err := NewScanner(repo).Scan("project", Options{Year: 2026})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}

	if len(matches) != 1 {
		t.Fatalf("Scan() returned %d matches, want 1", len(matches))
	}
	if matches[0].Entry.Year != 2026 {
		t.Errorf("match year = %d, want 2026", matches[0].Entry.Year)
	}
}

func TestScanLimit(t *testing.T) {
	repo := journal.NewRepository(t.TempDir())
	writeDoc(t, repo, 2026, "MAY_01_10.00", "walk")
	writeDoc(t, repo, 2026, "JUN_01_10.00", "walk")
	writeDoc(t, repo, 2026, "JUL_01_10.00", "walk")

	matches, err := NewScanner(repo).Scan("walk", Options{Limit: 2})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Scan() returned %d matches, want 2", len(matches))
	}
}

func TestScanNoMatches(t *testing.T) {
	repo := journal.NewRepository(t.TempDir())
	writeDoc(t, repo, 2026, "AUG_25_14.30", "quiet day")

	matches, err := NewScanner(repo).Scan("submarine", Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("Scan() returned %d matches, want 0", len(matches))
	}
}

func TestScanRegexTerm(t *testing.T) {
	repo := journal.NewRepository(t.TempDir())
	writeDoc(t, repo, 2026, "AUG_25_14.30", "thinking about kayaks")
	writeDoc(t, repo, 2026, "AUG_24_14.30", "thinking about canoes")

	matches, err := NewScanner(repo).Scan("kayak|canoe", Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("Scan() returned %d matches, want 2", len(matches))
	}
}

func TestScanInvalidRegexFallsBackToLiteral(t *testing.T) {
	repo := journal.NewRepository(t.TempDir())
	writeDoc(t, repo, 2026, "AUG_25_14.30", "refactored c++ (notes attached)")

	// "(" does not compile as a pattern, so it must match literally,
	// case-insensitively.
	matches, err := NewScanner(repo).Scan("C++ (Notes", Options{})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("Scan() returned %d matches, want 1 via literal fallback", len(matches))
	}
}

func TestExtractContextVerbose(t *testing.T) {
	lines := []string{"l1", "l2", "l3", "l4", "target here", "l6", "l7", "l8", "l9"}
	text := strings.Join(lines, "\n")
	m := newMatcher("target")

	snippet, line, ok := extractContext(text, m, 3, true)
	if !ok {
		t.Fatal("extractContext() found no match")
	}
	if line != 5 {
		t.Errorf("line = %d, want 5", line)
	}

	want := "l2\nl3\nl4\ntarget here\nl6\nl7\nl8"
	if snippet != want {
		t.Errorf("snippet = %q, want %q", snippet, want)
	}
}

func TestExtractContextAtDocumentStart(t *testing.T) {
	text := "target first\nl2\nl3\nl4\nl5"
	m := newMatcher("target")

	snippet, line, ok := extractContext(text, m, 3, true)
	if !ok {
		t.Fatal("extractContext() found no match")
	}
	if line != 1 {
		t.Errorf("line = %d, want 1", line)
	}
	if snippet != "target first\nl2\nl3\nl4" {
		t.Errorf("snippet = %q", snippet)
	}
}

func TestExtractContextCapped(t *testing.T) {
	var lines []string
	for i := 0; i < 40; i++ {
		lines = append(lines, "filler")
	}
	lines[20] = "target"
	m := newMatcher("target")

	snippet, _, ok := extractContext(strings.Join(lines, "\n"), m, 20, true)
	if !ok {
		t.Fatal("extractContext() found no match")
	}
	if got := len(strings.Split(snippet, "\n")); got > 10 {
		t.Errorf("verbose snippet has %d lines, want at most 10", got)
	}
	if !strings.Contains(snippet, "target") {
		t.Error("capped snippet lost the matching line")
	}
}

func TestExtractContextNonVerbose(t *testing.T) {
	text := "before\nthe target line\nafter"
	m := newMatcher("target")

	snippet, line, ok := extractContext(text, m, 3, false)
	if !ok {
		t.Fatal("extractContext() found no match")
	}
	if snippet != "the target line" {
		t.Errorf("snippet = %q, want just the matching line", snippet)
	}
	if line != 2 {
		t.Errorf("line = %d, want 2", line)
	}
}
