package ops

import (
	"sort"

	"github.com/nicolovejoy/audio-journal/internal/errors"
)

// StatusOutput is the sync overview: what the manifest tracks versus what
// is on disk.
type StatusOutput struct {
	JournalDir  string   `json:"journal_dir"`
	Entries     int      `json:"entries"`
	Tracked     int      `json:"tracked"`
	Synced      int      `json:"synced"`
	Reprocessed int      `json:"reprocessed"`
	Unsynced    []string `json:"unsynced"`  // manifest keys, newest first
	Untracked   []string `json:"untracked"` // on disk but not in the manifest
	Orphaned    []string `json:"orphaned"`  // in the manifest but gone from disk
}

// Status reconciles the manifest against the entries on disk.
func Status(env *Env) (*StatusOutput, error) {
	entries, err := env.Repo.Entries()
	if err != nil {
		return nil, errors.NewIOFailure("scan journal", err)
	}
	records, err := env.Manifest.Load()
	if err != nil {
		return nil, errors.NewIOFailure("read manifest", err)
	}

	out := &StatusOutput{
		JournalDir: env.Repo.Root(),
		Entries:    len(entries),
		Tracked:    len(records),
		Unsynced:   []string{},
		Untracked:  []string{},
		Orphaned:   []string{},
	}

	onDisk := map[string]bool{}
	for _, e := range entries {
		key := e.ManifestKey()
		onDisk[key] = true

		rec, ok := records[key]
		if !ok {
			out.Untracked = append(out.Untracked, key)
			continue
		}
		if rec.Synced {
			out.Synced++
		} else {
			out.Unsynced = append(out.Unsynced, key)
		}
		if rec.Reprocessed {
			out.Reprocessed++
		}
	}

	for key := range records {
		if !onDisk[key] {
			out.Orphaned = append(out.Orphaned, key)
		}
	}
	sort.Strings(out.Orphaned)
	return out, nil
}
