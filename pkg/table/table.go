// Package table is a small data-driven table engine: column descriptors,
// substring filters and stable multi-column sorting over an arbitrary row type.
package table

import (
	"sort"
	"strings"
)

// Direction is the sort state of a single column.
type Direction int

const (
	Unsorted Direction = iota
	Ascending
	Descending
)

func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return ""
}

// Arrow is the header indicator for d.
func (d Direction) Arrow() string {
	switch d {
	case Ascending:
		return "▲"
	case Descending:
		return "▼"
	}
	return ""
}

// Next returns the following state in the unsorted, asc, desc cycle.
func (d Direction) Next() Direction {
	return (d + 1) % 3
}

// Column describes how one column renders, sorts and filters a row.
type Column[R any] struct {
	Key    string
	Header string

	Render func(R) string
	// Title is the full value shown on hover, if any.
	Title func(R) string
	// Link is the navigation target of the cell, if any.
	Link func(R) string

	Sortable   bool
	Filterable bool

	// Compare orders two rows. Required when Sortable is set.
	Compare func(a, b R) int
	// FilterValue is matched against the filter text; defaults to Render.
	FilterValue func(R) string
}

// SortKey is one entry of a (possibly multi-column) sort.
type SortKey struct {
	Key  string
	Desc bool
}

func (k SortKey) Direction() Direction {
	if k.Desc {
		return Descending
	}
	return Ascending
}

// Table holds the row set and the user's sort and filter state.
type Table[R any] struct {
	columns []Column[R]
	rows    []R
	sorting []SortKey
	filters map[string]string
}

func New[R any](columns []Column[R]) *Table[R] {
	return &Table[R]{
		columns: columns,
		filters: make(map[string]string),
	}
}

func (t *Table[R]) Columns() []Column[R] { return t.columns }

func (t *Table[R]) Column(key string) (Column[R], bool) {
	for _, c := range t.columns {
		if c.Key == key {
			return c, true
		}
	}
	return Column[R]{}, false
}

// SetRows replaces the row set. Sort and filter state are kept.
func (t *Table[R]) SetRows(rows []R) {
	t.rows = rows
}

// Len is the number of rows before filtering.
func (t *Table[R]) Len() int { return len(t.rows) }

func (t *Table[R]) Sorting() []SortKey {
	out := make([]SortKey, len(t.sorting))
	copy(out, t.sorting)
	return out
}

// SetSorting replaces the sort state. Unknown or unsortable keys and
// duplicates are dropped.
func (t *Table[R]) SetSorting(keys []SortKey) {
	seen := make(map[string]bool)
	sorting := make([]SortKey, 0, len(keys))
	for _, k := range keys {
		c, ok := t.Column(k.Key)
		if !ok || !c.Sortable || c.Compare == nil || seen[k.Key] {
			continue
		}
		seen[k.Key] = true
		sorting = append(sorting, k)
	}
	t.sorting = sorting
}

func (t *Table[R]) SortDirection(key string) Direction {
	for _, k := range t.sorting {
		if k.Key == key {
			return k.Direction()
		}
	}
	return Unsorted
}

// SortIndex is the position of key in a multi-column sort, or -1.
func (t *Table[R]) SortIndex(key string) int {
	for i, k := range t.sorting {
		if k.Key == key {
			return i
		}
	}
	return -1
}

// NextSorting returns the sort state a header toggle on key would produce,
// without applying it.
func (t *Table[R]) NextSorting(key string, multi bool) []SortKey {
	c, ok := t.Column(key)
	if !ok || !c.Sortable {
		return t.Sorting()
	}
	next := t.SortDirection(key).Next()

	var out []SortKey
	if multi {
		for _, k := range t.sorting {
			if k.Key != key {
				out = append(out, k)
			}
		}
	}
	if next == Unsorted {
		return out
	}
	entry := SortKey{Key: key, Desc: next == Descending}
	if multi {
		if i := t.SortIndex(key); i >= 0 {
			// keep the column's priority when flipping direction
			out = append(out[:i], append([]SortKey{entry}, out[i:]...)...)
			return out
		}
	}
	return append(out, entry)
}

// ToggleSort advances key through unsorted, asc, desc. With multi unset the
// other sort keys are cleared.
func (t *Table[R]) ToggleSort(key string, multi bool) {
	t.SetSorting(t.NextSorting(key, multi))
}

// SetFilter sets a case-sensitive substring filter on a filterable column.
// An empty value clears it.
func (t *Table[R]) SetFilter(key, value string) {
	c, ok := t.Column(key)
	if !ok || !c.Filterable {
		return
	}
	if value == "" {
		delete(t.filters, key)
		return
	}
	t.filters[key] = value
}

func (t *Table[R]) Filter(key string) string { return t.filters[key] }

// Rows returns the filtered, sorted view. The underlying row set is not modified.
func (t *Table[R]) Rows() []R {
	out := make([]R, 0, len(t.rows))
	for _, r := range t.rows {
		if t.matches(r) {
			out = append(out, r)
		}
	}
	if len(t.sorting) == 0 {
		return out
	}

	cols := make([]Column[R], len(t.sorting))
	for i, k := range t.sorting {
		cols[i], _ = t.Column(k.Key)
	}
	sort.SliceStable(out, func(i, j int) bool {
		for n, k := range t.sorting {
			c := cols[n].Compare(out[i], out[j])
			if c == 0 {
				continue
			}
			if k.Desc {
				return c > 0
			}
			return c < 0
		}
		return false
	})
	return out
}

func (t *Table[R]) matches(r R) bool {
	for key, want := range t.filters {
		c, ok := t.Column(key)
		if !ok {
			continue
		}
		value := c.FilterValue
		if value == nil {
			value = c.Render
		}
		if value == nil || !strings.Contains(value(r), want) {
			return false
		}
	}
	return true
}
