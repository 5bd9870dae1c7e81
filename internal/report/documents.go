package report

import (
	"bytes"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/xuri/excelize/v2"
)

const sheetName = "maintenance"

// BuildXLSX renders the report as a single-sheet workbook
func BuildXLSX(rows []Row) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	for i, h := range Header {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, err
		}
		_ = f.SetCellValue(sheetName, cell, h)
	}

	for i, row := range rows {
		line := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", line), row.Aircraft)
		_ = f.SetCellFloat(sheetName, fmt.Sprintf("B%d", line), row.CurrentHealth, 1, 64)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", line), row.Projection.MonthsUntilMaintenance)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", line), row.Projection.MaintenanceDate.Format(DateLayout))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", line), row.Projection.UrgencyNote)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// BuildPDF renders the report as a landscape A4 table
func BuildPDF(rows []Row, generatedAt time.Time) ([]byte, error) {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 14)
	pdf.Cell(0, 8, "Fleet Maintenance Report")
	pdf.Ln(9)
	pdf.SetFont("Arial", "", 10)
	pdf.Cell(0, 6, fmt.Sprintf("Generated: %s", generatedAt.Format(time.RFC3339)))
	pdf.Ln(10)

	widths := []float64{70, 45, 55, 35, 70}
	pdf.SetFont("Arial", "B", 9)
	for i, h := range Header {
		pdf.CellFormat(widths[i], 7, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 9)
	for _, row := range rows {
		for i, field := range row.Fields() {
			align := "L"
			if i > 0 && i < 4 {
				align = "R"
			}
			pdf.CellFormat(widths[i], 6, tr(field), "1", 0, align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
