package record

import (
	"cmp"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// Record is a single person entry.
//
// ID is assigned by storage on insert and never changes afterwards.
// A zero ID means the record has not been persisted.
type Record struct {
	ID        int64  `json:"id" yaml:"id"`
	FirstName string `json:"first_name" yaml:"first_name"`
	LastName  string `json:"last_name" yaml:"last_name"`
}

// New returns a Record with normalized names.
func New(id int64, firstName, lastName string) Record {
	return Record{
		ID:        id,
		FirstName: NormalizeName(firstName),
		LastName:  NormalizeName(lastName),
	}
}

// Persisted reports whether the record carries a storage-issued ID.
func (r Record) Persisted() bool {
	return r.ID > 0
}

// WithNames returns a copy of r with new names and the same ID.
func (r Record) WithNames(firstName, lastName string) Record {
	return New(r.ID, firstName, lastName)
}

// Normalized returns r with both names passed through NormalizeName.
func (r Record) Normalized() Record {
	return New(r.ID, r.FirstName, r.LastName)
}

func (r Record) String() string {
	return fmt.Sprintf("#%d %s %s", r.ID, r.FirstName, r.LastName)
}

// Compare orders records by ascending ID.
// It returns -1, 0 or +1 and ignores names entirely.
func Compare(a, b Record) int {
	return cmp.Compare(a.ID, b.ID)
}

// NormalizeName trims surrounding whitespace and applies Unicode NFC,
// so that a name written and read back compares byte-for-byte.
func NormalizeName(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// Snapshot is the full list of records at one point in time.
type Snapshot []Record

// Sorted returns an ID-ordered copy of s. The receiver is not modified.
// A nil snapshot yields an empty, non-nil one.
func (s Snapshot) Sorted() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	slices.SortStableFunc(out, Compare)
	return out
}

// Clone returns a copy of s that shares no backing array with it.
func (s Snapshot) Clone() Snapshot {
	out := make(Snapshot, len(s))
	copy(out, s)
	return out
}

// Dedup returns s without later entries whose ID already appeared.
// The first occurrence of each ID wins and order is preserved.
func (s Snapshot) Dedup() Snapshot {
	seen := make(map[int64]struct{}, len(s))
	out := make(Snapshot, 0, len(s))
	for _, r := range s {
		if _, ok := seen[r.ID]; ok {
			continue
		}
		seen[r.ID] = struct{}{}
		out = append(out, r)
	}
	return out
}

// Index returns the position of the record with the given ID, or -1.
func (s Snapshot) Index(id int64) int {
	return slices.IndexFunc(s, func(r Record) bool { return r.ID == id })
}

// Find returns the record with the given ID.
func (s Snapshot) Find(id int64) (Record, bool) {
	i := s.Index(id)
	if i < 0 {
		return Record{}, false
	}
	return s[i], true
}

// Replace returns a copy of s with the entry matching r.ID swapped for r.
// The second result is false if no entry matched.
func (s Snapshot) Replace(r Record) (Snapshot, bool) {
	i := s.Index(r.ID)
	if i < 0 {
		return s, false
	}
	out := s.Clone()
	out[i] = r
	return out, true
}

// Remove returns a copy of s without the entry with the given ID.
// The second result is false if no entry matched.
func (s Snapshot) Remove(id int64) (Snapshot, bool) {
	i := s.Index(id)
	if i < 0 {
		return s, false
	}
	out := make(Snapshot, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, true
}

// MaxID returns the largest ID in s, or 0 for an empty snapshot.
func (s Snapshot) MaxID() int64 {
	var highest int64
	for _, r := range s {
		if r.ID > highest {
			highest = r.ID
		}
	}
	return highest
}
