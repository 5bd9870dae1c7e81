// Package report renders the fleet maintenance report.
package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"aircare/internal/maintenance"
	"aircare/internal/models"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
	FormatPDF  Format = "pdf"
)

// ParseFormat resolves a format name, defaulting to CSV when empty
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	case FormatPDF:
		return FormatPDF, nil
	}
	return "", fmt.Errorf("unsupported report format: %q", s)
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case FormatPDF:
		return "application/pdf"
	default:
		return "text/csv; charset=utf-8"
	}
}

// FileName returns the attachment name for a report generated at now
func FileName(f Format, now time.Time) string {
	return fmt.Sprintf("maintenance-report-%s.%s", now.Format("2006-01-02"), f)
}

// Header is the column row shared by every format
var Header = []string{
	"Aircraft",
	"Current Engine Health (%)",
	"Months Until Maintenance Required",
	"Maintenance Date",
	"Notes",
}

// DateLayout formats maintenance dates as DD-MM-YYYY
const DateLayout = "02-01-2006"

// Row is one aircraft line of the report
type Row struct {
	Aircraft      string
	CurrentHealth float64
	Projection    models.MaintenanceProjection
}

// Fields renders the row as text cells
func (r Row) Fields() []string {
	return []string{
		r.Aircraft,
		fmt.Sprintf("%.1f", r.CurrentHealth),
		fmt.Sprintf("%d", r.Projection.MonthsUntilMaintenance),
		r.Projection.MaintenanceDate.Format(DateLayout),
		r.Projection.UrgencyNote,
	}
}

// BuildRows projects every aircraft of the fleet for the month containing now
func BuildRows(fleet []*models.Aircraft, now time.Time) []Row {
	rows := make([]Row, 0, len(fleet))
	for _, ac := range fleet {
		rows = append(rows, Row{
			Aircraft:      ac.Name,
			CurrentHealth: maintenance.CurrentHealthAt(ac.EngineHealth, now),
			Projection:    maintenance.ProjectAt(ac.EngineHealth, now),
		})
	}
	return rows
}

// WriteCSV writes the header and one line per row. Fields containing a comma
// are wrapped in double quotes; other fields are written as is.
func WriteCSV(w io.Writer, rows []Row) error {
	if err := writeCSVLine(w, Header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writeCSVLine(w, row.Fields()); err != nil {
			return err
		}
	}
	return nil
}

func writeCSVLine(w io.Writer, fields []string) error {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = quoteField(f)
	}
	if _, err := io.WriteString(w, strings.Join(quoted, ",")+"\n"); err != nil {
		return fmt.Errorf("failed to write report line: %w", err)
	}
	return nil
}

func quoteField(f string) string {
	if !strings.Contains(f, ",") {
		return f
	}
	return `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
}

// Render writes the report in the requested format
func Render(w io.Writer, f Format, rows []Row, generatedAt time.Time) error {
	switch f {
	case FormatCSV:
		return WriteCSV(w, rows)
	case FormatXLSX:
		data, err := BuildXLSX(rows)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case FormatPDF:
		data, err := BuildPDF(rows, generatedAt)
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	}
	return fmt.Errorf("unsupported report format: %q", f)
}
