package record

import (
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

var exportHeader = []string{"ID", "Name", "Department", "Gender", "Age", "DOB", "Email", "Status", "Timestamp"}

// ExportCSV renders the record table as CSV. Fields containing commas are
// wrapped in double quotes; embedded quotes are not escaped, a known
// limitation of the export format.
func ExportCSV(recs []Record) string {
	var b strings.Builder
	b.WriteString(strings.Join(exportHeader, ","))
	b.WriteByte('\n')
	for _, rec := range recs {
		row := exportRow(rec)
		for i, field := range row {
			if i > 0 {
				b.WriteByte(',')
			}
			if strings.Contains(field, ",") {
				b.WriteByte('"')
				b.WriteString(field)
				b.WriteByte('"')
			} else {
				b.WriteString(field)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// ExportFilename returns the dated attachment name for a CSV download.
func ExportFilename(now time.Time) string {
	return "attendance_export_" + now.Format("2006-01-02") + ".csv"
}

// ExportXLSX renders the record table as a spreadsheet with one sheet.
func ExportXLSX(recs []Record) (*excelize.File, error) {
	f := excelize.NewFile()
	const sheet = "Attendance"
	idx, err := f.NewSheet(sheet)
	if err != nil {
		return nil, err
	}
	f.SetActiveSheet(idx)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, err
	}

	header := make([]interface{}, len(exportHeader))
	for i, h := range exportHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, err
	}
	for i, rec := range recs {
		row := exportRow(rec)
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = v
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		if err := f.SetSheetRow(sheet, cell, &cells); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func exportRow(rec Record) []string {
	return []string{rec.ID, rec.Name, rec.Department, rec.Gender, rec.Age, rec.DOB, rec.Email, rec.AttendanceStatus, rec.Timestamp}
}
