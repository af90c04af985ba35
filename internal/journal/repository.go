package journal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Entry is one stored journal entry, identified by year and key stem.
type Entry struct {
	Year           int
	Key            string
	TranscriptPath string
}

// ManifestKey is the "<year>/<key>" form used by the sync manifest.
func (e Entry) ManifestKey() string {
	return fmt.Sprintf("%d/%s", e.Year, e.Key)
}

// Repository maps timestamp keys to canonical storage paths under the
// journal root:
//
//	<root>/audio/<year>/<key>.<ext>
//	<root>/transcripts/<year>/<key>.md
//
// Directories are created lazily on first write.
type Repository struct {
	root string
}

// NewRepository creates a repository rooted at the journal directory.
func NewRepository(root string) *Repository {
	return &Repository{root: root}
}

// Root returns the journal root directory.
func (r *Repository) Root() string {
	return r.root
}

// AudioDir returns the audio directory for a year.
func (r *Repository) AudioDir(year int) string {
	return filepath.Join(r.root, "audio", strconv.Itoa(year))
}

// TranscriptDir returns the transcript directory for a year.
func (r *Repository) TranscriptDir(year int) string {
	return filepath.Join(r.root, "transcripts", strconv.Itoa(year))
}

// AudioPath returns the canonical audio path for a key.
func (r *Repository) AudioPath(year int, key, ext string) string {
	return filepath.Join(r.AudioDir(year), key+"."+ext)
}

// TranscriptPath returns the canonical transcript path for a key.
func (r *Repository) TranscriptPath(year int, key string) string {
	return filepath.Join(r.TranscriptDir(year), key+".md")
}

// EnsureDirs creates the audio and transcript directories for a year.
func (r *Repository) EnsureDirs(year int) error {
	if err := os.MkdirAll(r.AudioDir(year), 0755); err != nil {
		return err
	}
	return os.MkdirAll(r.TranscriptDir(year), 0755)
}

// UniqueKey returns the timestamp key for t, appending a _2, _3… suffix
// while an audio or transcript file for the key already exists, so a second
// recording in the same minute never overwrites the first.
func (r *Repository) UniqueKey(t time.Time, ext string) string {
	base := Key(t)
	year := t.Year()

	stem := base
	for n := 2; r.keyTaken(year, stem, ext); n++ {
		stem = fmt.Sprintf("%s_%d", base, n)
	}
	return stem
}

func (r *Repository) keyTaken(year int, key, ext string) bool {
	if _, err := os.Stat(r.TranscriptPath(year, key)); err == nil {
		return true
	}
	if _, err := os.Stat(r.AudioPath(year, key, ext)); err == nil {
		return true
	}
	return false
}

// AudioFor locates the stored audio file for an entry, whatever its
// extension. Returns ok=false when the entry has no audio.
func (r *Repository) AudioFor(e Entry) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(r.AudioDir(e.Year), e.Key+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	sort.Strings(matches)
	return matches[0], true
}

// Years lists the years that have transcripts, newest first.
func (r *Repository) Years() ([]int, error) {
	dirents, err := os.ReadDir(filepath.Join(r.root, "transcripts"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var years []int
	for _, d := range dirents {
		if !d.IsDir() {
			continue
		}
		y, err := strconv.Atoi(d.Name())
		if err != nil {
			continue
		}
		years = append(years, y)
	}

	sort.Sort(sort.Reverse(sort.IntSlice(years)))
	return years, nil
}

// EntriesForYear lists one year's entries, newest-first by stem. Files that
// don't parse as timestamp keys are skipped.
func (r *Repository) EntriesForYear(year int) ([]Entry, error) {
	dirents, err := os.ReadDir(r.TranscriptDir(year))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var entries []Entry
	for _, d := range dirents {
		name := d.Name()
		if d.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		key := strings.TrimSuffix(name, ".md")
		if _, err := ParseKey(key); err != nil {
			continue
		}
		entries = append(entries, Entry{
			Year:           year,
			Key:            key,
			TranscriptPath: r.TranscriptPath(year, key),
		})
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key > entries[j].Key
	})
	return entries, nil
}

// Entries lists all entries newest-first: years descending, then stems
// descending within a year. Ordering follows the path sort, not parsed
// dates.
func (r *Repository) Entries() ([]Entry, error) {
	years, err := r.Years()
	if err != nil {
		return nil, err
	}

	var all []Entry
	for _, year := range years {
		entries, err := r.EntriesForYear(year)
		if err != nil {
			return nil, err
		}
		all = append(all, entries...)
	}
	return all, nil
}

// Find locates an entry by key. Accepts "<year>/<key>" or a bare key, which
// is searched newest-first across years.
func (r *Repository) Find(key string) (Entry, bool, error) {
	if year, stem, ok := splitYearKey(key); ok {
		if _, err := os.Stat(r.TranscriptPath(year, stem)); err == nil {
			return Entry{Year: year, Key: stem, TranscriptPath: r.TranscriptPath(year, stem)}, true, nil
		}
		return Entry{}, false, nil
	}

	years, err := r.Years()
	if err != nil {
		return Entry{}, false, err
	}
	for _, year := range years {
		if _, err := os.Stat(r.TranscriptPath(year, key)); err == nil {
			return Entry{Year: year, Key: key, TranscriptPath: r.TranscriptPath(year, key)}, true, nil
		}
	}
	return Entry{}, false, nil
}

// splitYearKey splits a "<year>/<key>" reference. Returns ok=false for bare
// keys.
func splitYearKey(key string) (int, string, bool) {
	idx := strings.IndexByte(key, '/')
	if idx < 0 {
		return 0, "", false
	}
	year, err := strconv.Atoi(key[:idx])
	if err != nil {
		return 0, "", false
	}
	return year, key[idx+1:], true
}
