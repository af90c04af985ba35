// Package manifest maintains the sync manifest: a JSON side-record of
// content hashes, sizes, and sync state per journal entry, independent of
// any version control on the journal itself.
package manifest

import (
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"lukechampine.com/blake3"
)

const hashSize = 32

// Record is the manifest entry for one journal entry, keyed by
// "<year>/<timestampKey>".
type Record struct {
	AudioHash      string  `json:"audio_hash"`
	AudioSize      int64   `json:"audio_size"`
	TranscriptHash string  `json:"transcript_hash"`
	Duration       float64 `json:"duration"`
	Created        string  `json:"created"`
	Synced         bool    `json:"synced"`

	// Reprocessed is set once an upsert has replaced an existing record.
	Reprocessed bool `json:"reprocessed,omitempty"`
}

type manifestFile struct {
	Entries map[string]Record `json:"entries"`
}

// Store reads and writes the manifest at <root>/.sync/manifest.json.
// Writes are whole-file atomic (temp file + rename), so a failed upsert
// never leaves a partial record behind.
type Store struct {
	path string
}

// NewStore creates a store for the journal rooted at root.
func NewStore(root string) *Store {
	return &Store{path: filepath.Join(root, ".sync", "manifest.json")}
}

// Path returns the manifest file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads all records. A missing manifest is an empty one.
func (s *Store) Load() (map[string]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]Record{}, nil
		}
		return nil, err
	}

	var f manifestFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("manifest %s is corrupt: %w", s.path, err)
	}
	if f.Entries == nil {
		f.Entries = map[string]Record{}
	}
	return f.Entries, nil
}

// Get returns the record for key, if present.
func (s *Store) Get(key string) (Record, bool, error) {
	entries, err := s.Load()
	if err != nil {
		return Record{}, false, err
	}
	rec, ok := entries[key]
	return rec, ok, nil
}

// Upsert hashes the entry's audio and transcript files and inserts or
// replaces the record at key. Replacing resets the synced flag, marks the
// record reprocessed, and keeps the original created timestamp. Hashing or
// stat failures surface before anything is written, leaving the manifest
// untouched.
func (s *Store) Upsert(key, audioPath, transcriptPath string, duration float64, now time.Time) (Record, error) {
	audioHash, audioSize, err := hashFile(audioPath)
	if err != nil {
		return Record{}, fmt.Errorf("hash audio: %w", err)
	}
	transcriptHash, _, err := hashFile(transcriptPath)
	if err != nil {
		return Record{}, fmt.Errorf("hash transcript: %w", err)
	}

	entries, err := s.Load()
	if err != nil {
		return Record{}, err
	}

	rec := Record{
		AudioHash:      audioHash,
		AudioSize:      audioSize,
		TranscriptHash: transcriptHash,
		Duration:       duration,
		Created:        now.UTC().Format(time.RFC3339),
		Synced:         false,
	}
	if prev, ok := entries[key]; ok {
		rec.Created = prev.Created
		rec.Reprocessed = true
	}

	entries[key] = rec
	if err := s.save(entries); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// MarkSynced sets the synced flag on each key. Unknown keys are an error and
// nothing is written. Returns the number of records that changed.
func (s *Store) MarkSynced(keys ...string) (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}

	changed := 0
	for _, key := range keys {
		rec, ok := entries[key]
		if !ok {
			return 0, fmt.Errorf("no manifest record for %q", key)
		}
		if !rec.Synced {
			rec.Synced = true
			entries[key] = rec
			changed++
		}
	}

	if changed > 0 {
		if err := s.save(entries); err != nil {
			return 0, err
		}
	}
	return changed, nil
}

// MarkAllSynced sets the synced flag on every record. Returns the number of
// records that changed.
func (s *Store) MarkAllSynced() (int, error) {
	entries, err := s.Load()
	if err != nil {
		return 0, err
	}

	changed := 0
	for key, rec := range entries {
		if !rec.Synced {
			rec.Synced = true
			entries[key] = rec
			changed++
		}
	}

	if changed > 0 {
		if err := s.save(entries); err != nil {
			return 0, err
		}
	}
	return changed, nil
}

func (s *Store) save(entries map[string]Record) error {
	data, err := json.MarshalIndent(manifestFile{Entries: entries}, "", "  ")
	if err != nil {
		return err
	}
	data = append(data, '\n')

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, "manifest-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}

	return os.Rename(tmpName, s.path)
}

// hashFile returns the blake3 digest and size of the file at path.
func hashFile(path string) (string, int64, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", 0, err
	}
	defer f.Close()

	h := blake3.New(hashSize, nil)
	size, err := io.Copy(h, f)
	if err != nil {
		return "", 0, err
	}
	return hex.EncodeToString(h.Sum(nil)), size, nil
}
