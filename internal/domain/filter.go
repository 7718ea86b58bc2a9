package domain

import (
	"fmt"

	"github.com/samber/lo"
)

// Filter narrows a table to an inclusive year range and the selected
// intent classes. Both intent booleans true keeps every row in range;
// both false keeps nothing. The whole filter is one predicate, so
// applying the year range and the intent selection in either order gives
// the same rows.
type Filter struct {
	FromYear      int
	ToYear        int
	Intentional   bool
	Unintentional bool
}

func (f Filter) matches(r Record) bool {
	if r.Year < f.FromYear || r.Year > f.ToYear {
		return false
	}
	if r.Intentional {
		return f.Intentional
	}
	return f.Unintentional
}

// String renders the filter in a stable form, used as a cache key part.
func (f Filter) String() string {
	return fmt.Sprintf("%d-%d/i=%t/u=%t", f.FromYear, f.ToYear, f.Intentional, f.Unintentional)
}

// Filter returns the rows matching f. Column presence is unchanged:
// filtering selects rows, never columns.
func (t Table) Filter(f Filter) Table {
	records := lo.Filter(t.Records, func(r Record, _ int) bool { return f.matches(r) })
	return Table{Columns: t.Columns.Clone(), Records: records}
}
