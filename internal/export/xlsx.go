// Package export writes staff reports as Excel workbooks.
package export

import (
	"bytes"   // Workbook buffer
	"fmt"     // Error wrapping
	"strconv" // Cell values

	"dorm_booking/internal/domain" // Importing domain models

	"github.com/xuri/excelize/v2" // XLSX writer
)

// SheetName is the worksheet holding the applications
const SheetName = "Applications"

// ApplicationHeader lists the exported columns in order
var ApplicationHeader = []string{
	"Application ID",
	"Student ID",
	"Name",
	"Email",
	"Telephone",
	"Building",
	"Floor",
	"Room Type",
	"Status",
	"Submitted",
}

var columnWidths = []float64{15, 12, 28, 30, 15, 10, 8, 20, 22, 20}

// Applications renders apps as an .xlsx workbook
func Applications(apps []domain.Application) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(SheetName)
	if err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("drop default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E6F3FF"}, Pattern: 1},
		Border: []excelize.Border{
			{Type: "left", Color: "000000", Style: 1},
			{Type: "top", Color: "000000", Style: 1},
			{Type: "bottom", Color: "000000", Style: 1},
			{Type: "right", Color: "000000", Style: 1},
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create header style: %w", err)
	}

	header := make([]any, len(ApplicationHeader))
	for i, h := range ApplicationHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return nil, fmt.Errorf("write header: %w", err)
	}
	last, _ := excelize.CoordinatesToCellName(len(ApplicationHeader), 1)
	if err := f.SetCellStyle(SheetName, "A1", last, headerStyle); err != nil {
		return nil, fmt.Errorf("style header: %w", err)
	}
	for i, w := range columnWidths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(SheetName, col, col, w); err != nil {
			return nil, fmt.Errorf("set width of %s: %w", col, err)
		}
	}

	for i, app := range apps {
		row := []any{
			app.ID,
			strconv.FormatInt(app.StudentID, 10),
			app.ApplicantName(),
			app.Email,
			app.Telephone,
			"", "", "",
			string(app.Status),
			app.CreatedAt.Format("2006-01-02 15:04"),
		}
		if app.Room != nil {
			row[5], row[6], row[7] = app.Room.Building, app.Room.FloorNumber, app.Room.RoomType
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
