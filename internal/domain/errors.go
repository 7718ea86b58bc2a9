package domain

import (
	"fmt"
	"strings"
)

// MissingColumnsError aborts an aggregation whose required columns are
// absent from the table. Columns lists every missing name in the order
// the operation required them; the computation returns no partial result.
type MissingColumnsError struct {
	Columns []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Columns, ", "))
}

func requireColumns(t Table, names ...string) error {
	if missing := t.Columns.Missing(names...); len(missing) > 0 {
		return &MissingColumnsError{Columns: missing}
	}
	return nil
}
