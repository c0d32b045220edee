package table

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"
)

type row struct {
	id    string
	n     int
	group string
}

func testColumns() []Column[row] {
	return []Column[row]{
		{Key: "id", Header: "ID", Render: func(r row) string { return r.id }, Filterable: true},
		{Key: "n", Header: "N", Sortable: true, Compare: func(a, b row) int { return cmp.Compare(a.n, b.n) }},
		{Key: "group", Header: "Group", Sortable: true, Compare: func(a, b row) int { return cmp.Compare(a.group, b.group) }},
	}
}

func ids(rows []row) []string {
	var out []string
	for _, r := range rows {
		out = append(out, r.id)
	}
	return out
}

func newTable() *Table[row] {
	tb := New(testColumns())
	tb.SetRows([]row{
		{id: "0xAAA1", n: 3, group: "b"},
		{id: "0xbbb2", n: 1, group: "a"},
		{id: "0xaaa3", n: 2, group: "b"},
		{id: "0xccc4", n: 2, group: "a"},
	})
	return tb
}

func TestToggleSortCycle(t *testing.T) {
	tb := newTable()
	assert.Equal(t, Unsorted, tb.SortDirection("n"))

	tb.ToggleSort("n", false)
	assert.Equal(t, Ascending, tb.SortDirection("n"))
	assert.Equal(t, []string{"0xbbb2", "0xaaa3", "0xccc4", "0xAAA1"}, ids(tb.Rows()))

	tb.ToggleSort("n", false)
	assert.Equal(t, Descending, tb.SortDirection("n"))
	assert.Equal(t, []string{"0xAAA1", "0xaaa3", "0xccc4", "0xbbb2"}, ids(tb.Rows()))

	tb.ToggleSort("n", false)
	assert.Equal(t, Unsorted, tb.SortDirection("n"))
	assert.Empty(t, tb.Sorting())
	assert.Equal(t, []string{"0xAAA1", "0xbbb2", "0xaaa3", "0xccc4"}, ids(tb.Rows()))
}

func TestToggleSortUnsortable(t *testing.T) {
	tb := newTable()
	tb.ToggleSort("id", false)
	assert.Empty(t, tb.Sorting())
	tb.SetSorting([]SortKey{{Key: "id"}, {Key: "missing"}})
	assert.Empty(t, tb.Sorting())
}

func TestMultiSort(t *testing.T) {
	tb := newTable()
	tb.ToggleSort("group", false)
	tb.ToggleSort("n", true)
	tb.ToggleSort("n", true)

	assert.Equal(t, []SortKey{{Key: "group"}, {Key: "n", Desc: true}}, tb.Sorting())
	assert.Equal(t, []string{"0xccc4", "0xbbb2", "0xAAA1", "0xaaa3"}, ids(tb.Rows()))

	// flipping the primary key keeps its priority
	tb.ToggleSort("group", true)
	assert.Equal(t, []SortKey{{Key: "group", Desc: true}, {Key: "n", Desc: true}}, tb.Sorting())

	// a plain toggle drops the other keys
	tb.ToggleSort("n", false)
	assert.Empty(t, tb.Sorting())
	tb.ToggleSort("group", true)
	tb.ToggleSort("n", false)
	assert.Equal(t, []SortKey{{Key: "n"}}, tb.Sorting())
}

func TestNextSortingDoesNotApply(t *testing.T) {
	tb := newTable()
	next := tb.NextSorting("n", false)
	assert.Equal(t, []SortKey{{Key: "n"}}, next)
	assert.Empty(t, tb.Sorting())
}

func TestFilterCaseSensitive(t *testing.T) {
	tb := newTable()
	tb.SetFilter("id", "aaa")
	assert.Equal(t, []string{"0xaaa3"}, ids(tb.Rows()))

	tb.SetFilter("id", "AAA")
	assert.Equal(t, []string{"0xAAA1"}, ids(tb.Rows()))

	tb.SetFilter("id", "")
	assert.Len(t, tb.Rows(), 4)

	// unfilterable columns are ignored
	tb.SetFilter("n", "3")
	assert.Len(t, tb.Rows(), 4)
	assert.Equal(t, "", tb.Filter("n"))
}

func TestFilterThenSort(t *testing.T) {
	tb := newTable()
	tb.SetSorting([]SortKey{{Key: "n", Desc: true}})
	tb.SetFilter("id", "0x")
	tb.SetRows(append(tb.rows, row{id: "zz", n: 9}))
	assert.Equal(t, []string{"0xAAA1", "0xaaa3", "0xccc4", "0xbbb2"}, ids(tb.Rows()))
	assert.Equal(t, 5, tb.Len())
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "asc", Ascending.String())
	assert.Equal(t, "desc", Descending.String())
	assert.Equal(t, "", Unsorted.String())
	assert.Equal(t, Unsorted, Descending.Next())
}

func TestDirectionArrow(t *testing.T) {
	assert.Equal(t, "▲", Ascending.Arrow())
	assert.Equal(t, "▼", Descending.Arrow())
	assert.Empty(t, Unsorted.Arrow())
}
