package domain

import "sort"

// Entry maps a relative archive path to the file that provides it
type Entry struct {
	RelativePath string `json:"relative_path" yaml:"relative_path"`
	Source       string `json:"source" yaml:"source"`
}

// Manifest is the resolved, sorted set of entries for one resolution pass.
// Values are never mutated after construction.
type Manifest struct {
	entries []Entry
	index   map[string]int
}

// NewManifest builds a manifest from entries, sorting them by relative path.
// Callers must ensure relative paths are unique.
func NewManifest(entries []Entry) *Manifest {
	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	SortEntries(sorted)

	index := make(map[string]int, len(sorted))
	for i, e := range sorted {
		index[e.RelativePath] = i
	}

	return &Manifest{
		entries: sorted,
		index:   index,
	}
}

// SortEntries sorts entries by byte-wise comparison of the full relative path
func SortEntries(entries []Entry) {
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})
}

// Entries returns a copy of the manifest entries in manifest order
func (m *Manifest) Entries() []Entry {
	if m == nil {
		return nil
	}
	out := make([]Entry, len(m.entries))
	copy(out, m.entries)
	return out
}

// Len returns the number of entries
func (m *Manifest) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// At returns the entry at position i
func (m *Manifest) At(i int) Entry {
	return m.entries[i]
}

// Lookup returns the entry for a relative path
func (m *Manifest) Lookup(relPath string) (Entry, bool) {
	if m == nil {
		return Entry{}, false
	}
	i, ok := m.index[relPath]
	if !ok {
		return Entry{}, false
	}
	return m.entries[i], true
}

// Equal reports whether two manifests hold the same entries in the same order
func (m *Manifest) Equal(other *Manifest) bool {
	if m.Len() != other.Len() {
		return false
	}
	for i := 0; i < m.Len(); i++ {
		if m.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}
