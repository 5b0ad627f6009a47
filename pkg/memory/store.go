package memory

import (
	"fmt"
	"math"
	"time"

	"github.com/Sumatoshi-tech/fixhound/pkg/persist"
)

// CurrentVersion is the store document format version.
const CurrentVersion = 1

// Store owns a BugMemory instance and its durable file. Every mutating
// operation persists synchronously before returning. The store performs no
// internal locking; callers serialize access.
type Store struct {
	path  string
	codec persist.Codec
	ids   IDSource
	now   func() time.Time
	mem   BugMemory
}

// StoreOption customizes a Store.
type StoreOption func(*Store)

// WithIDSource overrides the pattern ID generator.
func WithIDSource(ids IDSource) StoreOption {
	return func(s *Store) { s.ids = ids }
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store backed by the JSON document at path. The store
// starts empty; call Load to read a previously persisted document.
func NewStore(path string, opts ...StoreOption) *Store {
	s := &Store{
		path:  path,
		codec: persist.NewJSONCodec(),
		ids:   UUIDSource{},
		now:   time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	s.mem = s.emptyMemory()

	return s
}

func (s *Store) emptyMemory() BugMemory {
	return BugMemory{
		Version:     CurrentVersion,
		GeneratedAt: s.now(),
		Patterns:    []*BugPattern{},
	}
}

// Path returns the store file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads the durable document. Any absence, read failure, or corruption
// degrades silently to an empty valid default store.
func (s *Store) Load() {
	var mem BugMemory

	err := persist.LoadFile(s.path, s.codec, &mem)
	if err != nil {
		s.mem = s.emptyMemory()

		return
	}

	if mem.Version == 0 {
		mem.Version = CurrentVersion
	}

	if mem.Patterns == nil {
		mem.Patterns = []*BugPattern{}
	}

	s.mem = mem
}

// Save writes the current state, updating the generation timestamp.
// I/O failure is surfaced; silent data loss is worse than a visible error.
func (s *Store) Save() error {
	s.mem.Version = CurrentVersion
	s.mem.GeneratedAt = s.now()

	err := persist.SaveFile(s.path, s.codec, &s.mem)
	if err != nil {
		return fmt.Errorf("save bug memory: %w", err)
	}

	return nil
}

// Patterns returns every stored pattern in insertion order.
func (s *Store) Patterns() []*BugPattern {
	return s.mem.Patterns
}

// LastScannedSHA returns the bookmark of the most recent commit considered,
// or the empty string when no bookmark is set.
func (s *Store) LastScannedSHA() string {
	return s.mem.LastScannedSHA
}

// GeneratedAt returns the timestamp of the last write.
func (s *Store) GeneratedAt() time.Time {
	return s.mem.GeneratedAt
}

// Query returns all patterns whose language equals language or the wildcard.
func (s *Store) Query(language string) []*BugPattern {
	var matched []*BugPattern

	for _, p := range s.mem.Patterns {
		if p.Language == language || p.Language == WildcardLanguage {
			matched = append(matched, p)
		}
	}

	return matched
}

// Merge folds incoming patterns into the store and persists. Patterns with
// an existing (regex, category) key are merged: occurrence counts sum,
// commits append without deduplication, and the risk base becomes the
// rounded plain mean of the existing and incoming values. The mean is
// deliberately not occurrence-weighted; downstream scoring depends on the
// exact numeric sequence it produces. New keys insert as-is.
func (s *Store) Merge(incoming []*BugPattern) error {
	index := make(map[Key]*BugPattern, len(s.mem.Patterns))
	for _, p := range s.mem.Patterns {
		index[p.Key()] = p
	}

	for _, in := range incoming {
		existing, ok := index[in.Key()]
		if !ok {
			added := *in
			if added.ID == "" {
				added.ID = s.ids.NewID()
			}

			s.mem.Patterns = append(s.mem.Patterns, &added)
			index[added.Key()] = &added

			continue
		}

		existing.OccurrenceCount += in.OccurrenceCount
		existing.Commits = append(existing.Commits, in.Commits...)
		existing.RiskBase = meanRiskBase(existing.RiskBase, in.RiskBase)
	}

	return s.Save()
}

func meanRiskBase(a, b int) int {
	return int(math.Round((float64(a) + float64(b)) / 2))
}

// Bookmark sets the last-scanned commit bookmark and persists.
func (s *Store) Bookmark(sha string) error {
	s.mem.LastScannedSHA = sha

	return s.Save()
}

// Clear empties the pattern collection and bookmark, and persists.
func (s *Store) Clear() error {
	s.mem.Patterns = []*BugPattern{}
	s.mem.LastScannedSHA = ""

	return s.Save()
}

// NewID mints a fresh pattern identifier from the store's ID source.
func (s *Store) NewID() string {
	return s.ids.NewID()
}
