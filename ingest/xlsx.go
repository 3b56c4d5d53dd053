/*
Package ingest parses uploaded attendance workbooks into reconciliation rows.

PURPOSE:
  The upload is an Excel workbook with one attendance row per line. Parsing
  is forgiving: a malformed cell never rejects the file, it marks the row
  with a per-row error so the review session can surface it. Only a file
  that cannot be opened at all, or that has no data rows, is an error.

EXPECTED COLUMNS (header row, case-insensitive, order-independent):
  person_id, name, department, date, day, check_in, check_out, status

  Aliases accepted for operator-produced sheets: "employee id"/"emp id"
  for person_id, "check in"/"in" and "check out"/"out" for the clock
  columns.

DATE FORMATS:
  2006-01-02, 02/01/2006, 1/2/2006 and Excel serial-backed cells already
  rendered by the sheet's number format. Anything else is a per-row error.
*/
package ingest

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/warp/attendance-reconciler/reconcile"
)

// ErrNoRows is returned when the workbook has a header but no data rows.
var ErrNoRows = errors.New("workbook contains no data rows")

// Batch is one parsed upload.
type Batch struct {
	ID       string
	FileName string
	Rows     []reconcile.IngestedRow
}

// dateLayouts tried in order when parsing the date column.
var dateLayouts = []string{
	"2006-01-02",
	"02/01/2006",
	"2/1/2006",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"02-01-2006",
}

// columnAliases maps accepted header spellings to canonical column names.
var columnAliases = map[string]string{
	"person_id":   "person_id",
	"personid":    "person_id",
	"person id":   "person_id",
	"employee id": "person_id",
	"emp id":      "person_id",
	"name":        "name",
	"department":  "department",
	"dept":        "department",
	"date":        "date",
	"day":         "day",
	"day_of_week": "day",
	"check_in":    "check_in",
	"check in":    "check_in",
	"checkin":     "check_in",
	"in":          "check_in",
	"check_out":   "check_out",
	"check out":   "check_out",
	"checkout":    "check_out",
	"out":         "check_out",
	"status":      "status",
}

// ParseWorkbook reads an attendance workbook from r. The first sheet is used;
// the first row must be the header.
func ParseWorkbook(r io.Reader, fileName string) (*Batch, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, ErrNoRows
	}

	columns, err := mapHeader(rows[0])
	if err != nil {
		return nil, err
	}

	batch := &Batch{
		ID:       uuid.NewString(),
		FileName: fileName,
	}

	for _, raw := range rows[1:] {
		if blankRow(raw) {
			continue
		}
		batch.Rows = append(batch.Rows, parseRow(raw, columns))
	}
	if len(batch.Rows) == 0 {
		return nil, ErrNoRows
	}
	return batch, nil
}

// mapHeader resolves each canonical column to its index. person_id and date
// are required; everything else is optional.
func mapHeader(header []string) (map[string]int, error) {
	columns := make(map[string]int)
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if canonical, ok := columnAliases[key]; ok {
			if _, exists := columns[canonical]; !exists {
				columns[canonical] = i
			}
		}
	}
	for _, required := range []string{"person_id", "date"} {
		if _, ok := columns[required]; !ok {
			return nil, fmt.Errorf("workbook header is missing required column %q", required)
		}
	}
	return columns, nil
}

func parseRow(raw []string, columns map[string]int) reconcile.IngestedRow {
	cell := func(name string) string {
		idx, ok := columns[name]
		if !ok || idx >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[idx])
	}

	row := reconcile.IngestedRow{
		PersonID:   reconcile.PersonID(cell("person_id")),
		Name:       cell("name"),
		Department: cell("department"),
		DayOfWeek:  cell("day"),
		CheckIn:    normalizeClock(cell("check_in")),
		CheckOut:   normalizeClock(cell("check_out")),
	}

	var problems []string

	if row.PersonID == "" {
		problems = append(problems, "missing person id")
	}

	dateStr := cell("date")
	if dateStr == "" {
		problems = append(problems, "missing date")
	} else if date, ok := parseDate(dateStr); ok {
		row.Date = date
	} else {
		problems = append(problems, fmt.Sprintf("malformed date %q", dateStr))
	}

	statusStr := strings.ToLower(cell("status"))
	if statusStr == "" {
		// Infer a status from the clock events so a bare time sheet is usable.
		if row.CheckIn == "" && row.CheckOut == "" {
			row.Status = reconcile.StatusAbsent
		} else {
			row.Status = reconcile.StatusPresent
		}
	} else {
		status := reconcile.RowStatus(strings.ReplaceAll(statusStr, " ", "_"))
		if reconcile.KnownStatus(status) {
			row.Status = status
		} else {
			row.Status = reconcile.StatusAbsent
			problems = append(problems, fmt.Sprintf("unknown status %q", statusStr))
		}
	}

	if row.CheckIn != "" && !reconcile.ValidClockTime(row.CheckIn) {
		problems = append(problems, fmt.Sprintf("malformed check-in %q", row.CheckIn))
		row.CheckIn = ""
	}
	if row.CheckOut != "" && !reconcile.ValidClockTime(row.CheckOut) {
		problems = append(problems, fmt.Sprintf("malformed check-out %q", row.CheckOut))
		row.CheckOut = ""
	}

	row.Error = strings.Join(problems, "; ")
	return row
}

func parseDate(s string) (reconcile.Date, bool) {
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return reconcile.DateOf(t), true
		}
	}
	return reconcile.Date{}, false
}

// normalizeClock strips seconds ("08:30:00" -> "08:30") and pads single-digit
// hours, both common in exported sheets.
func normalizeClock(s string) string {
	if s == "" {
		return ""
	}
	parts := strings.Split(s, ":")
	if len(parts) == 3 {
		s = parts[0] + ":" + parts[1]
		parts = parts[:2]
	}
	if len(parts) == 2 && len(parts[0]) == 1 {
		s = "0" + s
	}
	return s
}

func blankRow(cells []string) bool {
	for _, c := range cells {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
