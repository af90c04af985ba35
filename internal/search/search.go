// Package search implements the keyword scan over stored transcript
// documents: newest-first enumeration, case-insensitive matching, and
// contextual snippet extraction. No index is persisted; every search
// re-scans the files, which is fine at personal-journal scale.
package search

import (
	"os"
	"regexp"
	"strings"

	"github.com/nicolovejoy/audio-journal/internal/journal"
)

// DefaultContextLines is the verbose-mode context on either side of the
// first match.
const DefaultContextLines = 3

// maxContextTotal caps a verbose snippet regardless of configured context.
const maxContextTotal = 10

// Match is one matching document.
type Match struct {
	Entry journal.Entry

	// Snippet is the first matching line, or the surrounding context block
	// in verbose mode.
	Snippet string

	// Line is the 1-based line number of the first matching line.
	Line int
}

// Options control a scan.
type Options struct {
	// Year scopes the scan to one year's transcripts. 0 scans all years.
	Year int

	// Verbose includes ContextLines lines either side of the first match
	// in the snippet instead of just the matching line.
	Verbose bool

	// ContextLines is the verbose context size. <=0 uses the default.
	ContextLines int

	// Limit stops after this many matches. 0 means unlimited.
	Limit int
}

// Scanner scans transcript documents under a repository.
type Scanner struct {
	repo *journal.Repository
}

// NewScanner creates a scanner over the repository.
func NewScanner(repo *journal.Repository) *Scanner {
	return &Scanner{repo: repo}
}

// Scan returns entries whose document matches term, in enumeration order
// (newest-first by path, not relevance-ranked). The term is tried as a
// case-insensitive regular expression; if it doesn't compile it is matched
// as a literal substring instead.
func (s *Scanner) Scan(term string, opts Options) ([]Match, error) {
	m := newMatcher(term)

	contextLines := opts.ContextLines
	if contextLines <= 0 {
		contextLines = DefaultContextLines
	}

	var entries []journal.Entry
	var err error
	if opts.Year != 0 {
		entries, err = s.repo.EntriesForYear(opts.Year)
	} else {
		entries, err = s.repo.Entries()
	}
	if err != nil {
		return nil, err
	}

	var matches []Match
	for _, e := range entries {
		data, err := os.ReadFile(e.TranscriptPath)
		if err != nil {
			return nil, err
		}

		snippet, line, ok := extractContext(string(data), m, contextLines, opts.Verbose)
		if !ok {
			continue
		}

		matches = append(matches, Match{Entry: e, Snippet: snippet, Line: line})
		if opts.Limit > 0 && len(matches) >= opts.Limit {
			break
		}
	}
	return matches, nil
}

// matcher matches lines either by compiled regexp or, when the term is not
// a valid pattern, by case-insensitive literal substring.
type matcher struct {
	re      *regexp.Regexp
	literal string
}

func newMatcher(term string) matcher {
	re, err := regexp.Compile("(?i)" + term)
	if err != nil {
		return matcher{literal: strings.ToLower(term)}
	}
	return matcher{re: re}
}

func (m matcher) matches(line string) bool {
	if m.re != nil {
		return m.re.MatchString(line)
	}
	return strings.Contains(strings.ToLower(line), m.literal)
}

// extractContext finds the first matching line in text and returns the
// snippet for it: the line itself, or in verbose mode up to contextLines
// lines either side, capped at maxContextTotal lines.
func extractContext(text string, m matcher, contextLines int, verbose bool) (string, int, bool) {
	lines := strings.Split(text, "\n")

	idx := -1
	for i, line := range lines {
		if m.matches(line) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return "", 0, false
	}

	if !verbose {
		return lines[idx], idx + 1, true
	}

	start := idx - contextLines
	if start < 0 {
		start = 0
	}
	end := idx + contextLines
	if end > len(lines)-1 {
		end = len(lines) - 1
	}

	window := lines[start : end+1]
	if len(window) > maxContextTotal {
		// Trim around the match so the matching line stays in the snippet.
		off := idx - start
		trim := off - maxContextTotal/2
		if trim < 0 {
			trim = 0
		}
		if trim+maxContextTotal > len(window) {
			trim = len(window) - maxContextTotal
		}
		window = window[trim : trim+maxContextTotal]
	}
	return strings.Join(window, "\n"), idx + 1, true
}
