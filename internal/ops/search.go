package ops

import (
	"strings"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/search"
)

// SearchInput contains parameters for the Search operation.
type SearchInput struct {
	Term      string // required
	Year      int    // 0 searches all years
	Limit     int    // default: 20, max: 100
	Verbose   bool   // include surrounding context in snippets
	Context   int    // verbose context lines either side, default from config
	WithAudio bool   // resolve each match's audio path
}

// SearchMatch is one matching entry.
type SearchMatch struct {
	Key       string `json:"key"`
	Year      int    `json:"year"`
	Line      int    `json:"line"`
	Snippet   string `json:"snippet"`
	AudioPath string `json:"audio_path,omitempty"`
}

// SearchOutput contains the result of the Search operation.
type SearchOutput struct {
	Term    string        `json:"term"`
	Total   int           `json:"total"`
	Matches []SearchMatch `json:"matches"`
}

// Search scans transcripts newest-first for the term. The term is treated
// as a case-insensitive regular expression, falling back to a literal match
// when it does not compile.
func Search(env *Env, input SearchInput) (*SearchOutput, error) {
	term := strings.TrimSpace(input.Term)
	if term == "" {
		return nil, errors.NewInvalidRequest("search term is required")
	}
	limit := clampLimit(input.Limit, DefaultSearchLimit, MaxSearchLimit)
	contextLines := input.Context
	if contextLines <= 0 {
		contextLines = env.Cfg.SearchContext
	}

	matches, err := search.NewScanner(env.Repo).Scan(term, search.Options{
		Year:         input.Year,
		Verbose:      input.Verbose,
		ContextLines: contextLines,
		Limit:        limit,
	})
	if err != nil {
		return nil, errors.NewIOFailure("scan transcripts", err)
	}

	out := &SearchOutput{Term: term, Matches: []SearchMatch{}}
	for _, m := range matches {
		sm := SearchMatch{
			Key:     m.Entry.Key,
			Year:    m.Entry.Year,
			Line:    m.Line,
			Snippet: m.Snippet,
		}
		if input.WithAudio {
			if p, ok := env.Repo.AudioFor(m.Entry); ok {
				sm.AudioPath = p
			}
		}
		out.Matches = append(out.Matches, sm)
	}
	out.Total = len(out.Matches)
	return out, nil
}
