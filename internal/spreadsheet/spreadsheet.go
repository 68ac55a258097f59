// Package spreadsheet handles the .xlsx surface of the application: reading
// uploaded workbooks into loosely-typed rows for the bulk import mapper, and
// writing terminal reports for download. It wraps excelize and keeps all
// workbook mechanics (sheets, headers, column widths) out of the service
// layer.
//
// The import contract matches the operator-facing template: the first sheet
// carries a header row with the columns name, terminal_id, serial_number,
// line_serial_number, type, branch, dispatch_date, fedex_tracking_number
// (header matching is case-insensitive; the last two columns are optional).
package spreadsheet

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/tbourn/go-terminal-backend/internal/domain"
)

// ErrNoRows is returned when the first sheet has no data rows below the
// header.
var ErrNoRows = errors.New("spreadsheet contains no data rows")

// Row is one loosely-typed line of an uploaded workbook, keyed by the import
// template's column names. Values are raw cell text; the import mapper owns
// validation, truncation, and date parsing.
type Row struct {
	Name                string
	TerminalID          string
	SerialNumber        string
	LineSerialNumber    string
	Type                string
	Branch              string
	DispatchDate        string
	FedexTrackingNumber string
}

// Read parses the first sheet of an .xlsx workbook into ordered rows.
// Unknown columns are ignored; rows that are entirely blank are skipped.
func Read(r io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, ErrNoRows
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	// Column index by normalized header name.
	col := map[string]int{}
	for i, h := range rows[0] {
		col[strings.ToLower(strings.TrimSpace(h))] = i
	}
	cell := func(row []string, name string) string {
		i, ok := col[name]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := make([]Row, 0, len(rows)-1)
	for _, raw := range rows[1:] {
		row := Row{
			Name:                cell(raw, "name"),
			TerminalID:          cell(raw, "terminal_id"),
			SerialNumber:        cell(raw, "serial_number"),
			LineSerialNumber:    cell(raw, "line_serial_number"),
			Type:                cell(raw, "type"),
			Branch:              cell(raw, "branch"),
			DispatchDate:        cell(raw, "dispatch_date"),
			FedexTrackingNumber: cell(raw, "fedex_tracking_number"),
		}
		if (Row{}) == row {
			continue
		}
		out = append(out, row)
	}
	if len(out) == 0 {
		return nil, ErrNoRows
	}
	return out, nil
}

// reportColumns is the fixed report layout: header label and column width,
// in order.
var reportColumns = []struct {
	header string
	width  float64
}{
	{"Merchant Name", 20},
	{"Terminal ID", 10},
	{"Serial Number", 15},
	{"Line Serial Number", 20},
	{"Type", 10},
	{"Branch", 20},
	{"Dispatch Date", 12},
	{"Status", 8},
	{"Return Date", 12},
	{"Return Reason", 30},
	{"FedEx Tracking", 20},
}

// reportDateLayout renders dates the way the dashboard does.
const reportDateLayout = "Jan 2, 2006"

// WriteReport builds a one-sheet workbook listing the given terminals in
// order, with the fixed report column layout, and writes it to w.
func WriteReport(w io.Writer, terminals []domain.Terminal) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Terminals"
	f.SetSheetName(f.GetSheetName(0), sheet)

	for i, c := range reportColumns {
		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, name+"1", c.header); err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, name, name, c.width); err != nil {
			return err
		}
	}

	for i, t := range terminals {
		returnDate, returnReason := "", ""
		if t.ReturnDate != nil {
			returnDate = t.ReturnDate.Format(reportDateLayout)
		}
		if t.ReturnReason != nil {
			returnReason = *t.ReturnReason
		}
		row := []any{
			t.Name,
			t.TerminalID,
			t.SerialNumber,
			t.LineSerialNumber,
			string(t.Type),
			string(t.Branch),
			t.DispatchDate.Format(reportDateLayout),
			t.Status(),
			returnDate,
			returnReason,
			t.FedexTrackingNumber,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return f.Write(w)
}

// ReportFilename builds the dated download name for a report, e.g.
// "Active_Terminals_Report_2025-03-12.xlsx". reportType is one of total,
// active, returned.
func ReportFilename(reportType string, now time.Time) string {
	rt := strings.ToLower(strings.TrimSpace(reportType))
	if rt == "" {
		rt = "total"
	}
	capitalized := strings.ToUpper(rt[:1]) + rt[1:]
	return fmt.Sprintf("%s_Terminals_Report_%s.xlsx", capitalized, now.Format("2006-01-02"))
}
