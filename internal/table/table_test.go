package table_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kidwatch/kidwatch/internal/table"
)

type row struct {
	Name  string
	Phone string
}

func testColumns() []table.Column[row] {
	return []table.Column[row]{
		{Key: "name", Header: "Name", Render: func(r row) string { return table.Unknown(r.Name) }},
		{Key: "phone", Header: "Phone", Render: func(r row) string { return table.Unknown(r.Phone) }},
	}
}

func TestTable_RenderRows(t *testing.T) {
	var buf bytes.Buffer
	tbl := table.Table[row]{Columns: testColumns()}

	err := tbl.Render(&buf, []row{
		{Name: "Mom", Phone: "+15551230001"},
		{Name: "Dad"},
	})
	require.NoError(t, err)

	out := buf.String()
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3, "header plus one line per row")

	assert.Contains(t, lines[0], "Name")
	assert.Contains(t, lines[0], "Phone")
	assert.Contains(t, lines[1], "Mom")
	assert.Contains(t, lines[1], "+15551230001")
	assert.Contains(t, lines[2], "Dad")
	assert.Contains(t, lines[2], "Unknown", "absent field renders the fallback")
}

func TestTable_EmptyShowsPlaceholderOnly(t *testing.T) {
	var buf bytes.Buffer
	tbl := table.Table[row]{Columns: testColumns(), EmptyMessage: "No contacts found"}

	require.NoError(t, tbl.Render(&buf, nil))

	out := buf.String()
	assert.Equal(t, "No contacts found\n", out)
	assert.NotContains(t, out, "Name", "empty data must not render a header-only table")
}

func TestTable_EmptyDefaultMessage(t *testing.T) {
	var buf bytes.Buffer
	tbl := table.Table[row]{Columns: testColumns()}

	require.NoError(t, tbl.Render(&buf, []row{}))
	assert.Equal(t, table.DefaultEmptyMessage+"\n", buf.String())
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "0:00", table.FormatDuration(0))
	assert.Equal(t, "0:45", table.FormatDuration(45))
	assert.Equal(t, "3:05", table.FormatDuration(185))
	assert.Equal(t, "0:00", table.FormatDuration(-4))
}

func TestFormatTimestamp(t *testing.T) {
	assert.Equal(t, table.UnknownValue, table.FormatTimestamp(time.Time{}))

	ts := time.Date(2025, 8, 1, 10, 30, 0, 0, time.Local)
	assert.Equal(t, "2025-08-01 10:30:00", table.FormatTimestamp(ts))
}

func TestYesNo(t *testing.T) {
	assert.Equal(t, "Yes", table.YesNo(true))
	assert.Equal(t, "No", table.YesNo(false))
}
