package record

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSVRoundTrip(t *testing.T) {
	rec := newRec("S100", "Jane Roe")
	out := ExportCSV([]Record{rec})

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "ID,Name,Department,Gender,Age,DOB,Email,Status,Timestamp", lines[0])

	fields := strings.Split(lines[1], ",")
	require.Len(t, fields, 9)
	assert.Equal(t, "S100", fields[0])
	assert.Equal(t, "Jane Roe", fields[1])
	assert.Equal(t, StatusPresent, fields[7])
}

func TestExportCSVQuotesCommaFields(t *testing.T) {
	rec := newRec("S1", "x")
	rec.Name = "Doe, John"
	out := ExportCSV([]Record{rec})

	line := strings.Split(out, "\n")[1]
	assert.Contains(t, line, `"Doe, John"`)

	// A naive quote-aware split still sees nine columns.
	cols := splitCSVLine(line)
	assert.Len(t, cols, 9)
	assert.Equal(t, "Doe, John", cols[1])
}

func splitCSVLine(line string) []string {
	var cols []string
	var cur strings.Builder
	inQuote := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuote = !inQuote
		case r == ',' && !inQuote:
			cols = append(cols, cur.String())
			cur.Reset()
		default:
			cur.WriteRune(r)
		}
	}
	return append(cols, cur.String())
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 8, 28, 10, 0, 0, 0, time.UTC)
	assert.Equal(t, "attendance_export_2026-08-28.csv", ExportFilename(now))
}

func TestExportXLSXRows(t *testing.T) {
	recs := []Record{newRec("S2", "two"), newRec("S1", "one")}
	f, err := ExportXLSX(recs)
	require.NoError(t, err)

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "S2", rows[1][0])
	assert.Equal(t, "one", rows[2][1])
}
