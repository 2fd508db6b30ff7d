package crop

import "sort"

// Table is a read-only per-crop lookup with a mandatory default entry.
// Get never fails: unknown ids resolve to the default.
type Table[T any] struct {
	entries map[string]T
	def     T
}

// NewTable builds a table from entries keyed by crop id. It returns
// ErrMissingDefault when entries has no DefaultID key.
func NewTable[T any](entries map[string]T) (*Table[T], error) {
	def, ok := entries[DefaultID]
	if !ok {
		return nil, ErrMissingDefault
	}

	copied := make(map[string]T, len(entries))
	for id, v := range entries {
		copied[NormalizeID(id)] = v
	}

	return &Table[T]{entries: copied, def: def}, nil
}

// MustTable is NewTable for package-level tables; it panics on a missing default.
func MustTable[T any](entries map[string]T) *Table[T] {
	t, err := NewTable(entries)
	if err != nil {
		panic(err)
	}
	return t
}

// Get returns the entry for id, or the default entry.
func (t *Table[T]) Get(id string) T {
	if v, ok := t.entries[NormalizeID(id)]; ok {
		return v
	}
	return t.def
}

// Has reports whether id has its own entry.
func (t *Table[T]) Has(id string) bool {
	_, ok := t.entries[NormalizeID(id)]
	return ok
}

// Default returns the fallback entry.
func (t *Table[T]) Default() T {
	return t.def
}

// IDs returns the sorted ids with their own entries, excluding the default.
func (t *Table[T]) IDs() []string {
	ids := make([]string, 0, len(t.entries))
	for id := range t.entries {
		if id != DefaultID {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}
