package ops

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/nicolovejoy/audio-journal/internal/errors"
	"github.com/nicolovejoy/audio-journal/internal/journal"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Year  int // 0 lists all years
	Limit int // default: 20, max: 200
}

// ListItem is one entry summary.
type ListItem struct {
	Key         string    `json:"key"`
	Year        int       `json:"year"`
	Date        time.Time `json:"date"`
	Duration    float64   `json:"duration"`
	Size        int64     `json:"size"`
	Words       int       `json:"words"`
	Synced      bool      `json:"synced"`
	Reprocessed bool      `json:"reprocessed,omitempty"`
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items []ListItem `json:"items"`
	Total int        `json:"total"`
}

// List returns entry summaries newest-first. Duration, size, and sync state
// come from the manifest; entries the manifest does not know report zeros.
func List(env *Env, input ListInput) (*ListOutput, error) {
	limit := clampLimit(input.Limit, DefaultListLimit, MaxListLimit)

	var entries []journal.Entry
	var err error
	if input.Year != 0 {
		entries, err = env.Repo.EntriesForYear(input.Year)
	} else {
		entries, err = env.Repo.Entries()
	}
	if err != nil {
		return nil, errors.NewIOFailure("scan journal", err)
	}

	records, err := env.Manifest.Load()
	if err != nil {
		return nil, errors.NewIOFailure("read manifest", err)
	}

	items := []ListItem{}
	for _, e := range entries {
		if len(items) >= limit {
			break
		}
		item := ListItem{Key: e.Key, Year: e.Year, Words: documentWords(e.TranscriptPath)}
		if parts, err := journal.ParseKey(e.Key); err == nil {
			item.Date = parts.Date(e.Year, time.Local)
		}
		if rec, ok := records[e.ManifestKey()]; ok {
			item.Duration = rec.Duration
			item.Size = rec.AudioSize
			item.Synced = rec.Synced
			item.Reprocessed = rec.Reprocessed
		}
		items = append(items, item)
	}
	return &ListOutput{Items: items, Total: len(entries)}, nil
}

// documentWords reads the word count a document records about itself.
// Best effort: unreadable or oddly shaped documents count zero.
func documentWords(path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0
	}
	for _, line := range strings.Split(string(data), "\n") {
		if v, ok := strings.CutPrefix(line, "- **Words:** "); ok {
			words, err := strconv.Atoi(strings.TrimSpace(v))
			if err != nil {
				return 0
			}
			return words
		}
	}
	return 0
}
