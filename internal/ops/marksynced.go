package ops

import (
	"strings"

	"github.com/nicolovejoy/audio-journal/internal/errors"
)

// MarkSyncedInput contains parameters for the MarkSynced operation. Either
// All or a set of keys, not both.
type MarkSyncedInput struct {
	Keys []string // bare keys or "<year>/<key>"
	All  bool
}

// MarkSyncedOutput contains the result of the MarkSynced operation.
type MarkSyncedOutput struct {
	Marked int `json:"marked"`
}

// MarkSynced flips the manifest's synced flag after an external sync has
// copied the entries elsewhere. Unknown keys fail before anything is
// written.
func MarkSynced(env *Env, input MarkSyncedInput) (*MarkSyncedOutput, error) {
	if input.All {
		if len(input.Keys) > 0 {
			return nil, errors.NewInvalidRequest("specify keys or all, not both")
		}
		n, err := env.Manifest.MarkAllSynced()
		if err != nil {
			return nil, errors.NewIOFailure("update manifest", err)
		}
		return &MarkSyncedOutput{Marked: n}, nil
	}
	if len(input.Keys) == 0 {
		return nil, errors.NewInvalidRequest("at least one key is required")
	}

	records, err := env.Manifest.Load()
	if err != nil {
		return nil, errors.NewIOFailure("read manifest", err)
	}

	// Bare keys resolve through the repository to the manifest's
	// "<year>/<key>" form.
	keys := make([]string, 0, len(input.Keys))
	for _, k := range input.Keys {
		k = strings.TrimSpace(k)
		if k == "" {
			continue
		}
		if !strings.ContainsRune(k, '/') {
			e, ok, err := env.Repo.Find(k)
			if err != nil {
				return nil, errors.NewIOFailure("scan journal", err)
			}
			if !ok {
				return nil, errors.NewNotFound(k)
			}
			k = e.ManifestKey()
		}
		if _, ok := records[k]; !ok {
			return nil, errors.NewNotFound(k)
		}
		keys = append(keys, k)
	}
	if len(keys) == 0 {
		return nil, errors.NewInvalidRequest("at least one key is required")
	}

	n, err := env.Manifest.MarkSynced(keys...)
	if err != nil {
		return nil, errors.NewIOFailure("update manifest", err)
	}
	return &MarkSyncedOutput{Marked: n}, nil
}
