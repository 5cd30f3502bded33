// Package table renders entity collections as text tables from a
// declarative column set. It is a pure formatter: no network, no storage.
package table

import (
	"fmt"
	"io"
	"text/tabwriter"
)

// DefaultEmptyMessage is shown in place of a zero-row table.
const DefaultEmptyMessage = "No data available"

// Column describes one table column for records of type T. Render must
// tolerate records with absent optional fields and fall back to a display
// placeholder instead of failing the row.
type Column[T any] struct {
	Key    string
	Header string
	Render func(record T) string
}

// Table binds a column set to an output format.
type Table[T any] struct {
	Columns []Column[T]

	// EmptyMessage replaces the table when there are no rows. Defaults to
	// DefaultEmptyMessage.
	EmptyMessage string
}

// Render writes data as an aligned table. Empty data emits the empty
// message, never a header-only table.
func (t Table[T]) Render(w io.Writer, data []T) error {
	if len(data) == 0 {
		msg := t.EmptyMessage
		if msg == "" {
			msg = DefaultEmptyMessage
		}
		_, err := fmt.Fprintln(w, msg)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)

	for i, col := range t.Columns {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, col.Header)
	}
	fmt.Fprintln(tw)

	for _, record := range data {
		for i, col := range t.Columns {
			if i > 0 {
				fmt.Fprint(tw, "\t")
			}
			fmt.Fprint(tw, col.Render(record))
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
