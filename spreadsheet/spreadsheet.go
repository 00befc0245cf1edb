// Package spreadsheet converts weeks and assignments to and from xlsx workbooks.
// Rows are read from the first sheet with the header row skipped; column order
// matches what the Write functions produce.
package spreadsheet

import (
	"errors"
	"fmt"
	"html"
	"io"
	"log"
	"strings"

	"github.com/xuri/excelize/v2"

	"coursehub-server-go/models"
)

var (
	// WeekHeader is the header row of a weeks workbook.
	WeekHeader = []string{"ID", "Title", "Start Date", "Description", "Links"}
	// AssignmentHeader is the header row of an assignments workbook.
	AssignmentHeader = []string{"Title", "Description", "Due Date", "Files"}
)

const (
	weeksSheet       = "Weeks"
	assignmentsSheet = "Assignments"
)

// Row is one data row as found in the sheet, numbered from 1 like Excel.
type Row struct {
	Number int
	Cells  []string
}

func (r Row) cell(i int) string {
	if i < len(r.Cells) {
		return strings.TrimSpace(r.Cells[i])
	}
	return ""
}

// ReadRows returns every non-empty row of the first sheet after the header.
func ReadRows(file io.Reader) ([]Row, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, fmt.Errorf("failed to open excel file: %w", err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	sheetName := f.GetSheetName(0)
	if sheetName == "" {
		return nil, errors.New("excel file does not contain any sheets")
	}
	rows, err := f.GetRows(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to get rows from sheet %s: %w", sheetName, err)
	}

	out := []Row{}
	for i, cells := range rows {
		if i == 0 {
			continue // header
		}
		if strings.TrimSpace(strings.Join(cells, "")) == "" {
			continue
		}
		out = append(out, Row{Number: i + 1, Cells: cells})
	}
	return out, nil
}

// WeekFromRow maps a row onto a week. Links may be separated by commas or newlines.
func WeekFromRow(r Row) models.Week {
	return models.Week{
		ID:          r.cell(0),
		Title:       r.cell(1),
		StartDate:   r.cell(2),
		Description: r.cell(3),
		Links:       splitList(r.cell(4)),
	}
}

// AssignmentFromRow maps a row onto an assignment.
func AssignmentFromRow(r Row) models.Assignment {
	return models.Assignment{
		Title:       r.cell(0),
		Description: r.cell(1),
		DueDate:     r.cell(2),
		Files:       splitList(r.cell(3)),
	}
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == '\n' }) {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// plain undoes the entity escaping applied to stored text, so a workbook
// read back through import is sanitized exactly once.
func plain(s string) string { return html.UnescapeString(s) }

func plainList(items []string) string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = plain(item)
	}
	return strings.Join(out, "\n")
}

// WriteWeeks writes weeks as a single-sheet workbook to w.
func WriteWeeks(w io.Writer, weeks []models.Week) error {
	rows := make([][]any, len(weeks))
	for i, wk := range weeks {
		rows[i] = []any{wk.ID, plain(wk.Title), wk.StartDate, plain(wk.Description), strings.Join(wk.Links, "\n")}
	}
	return write(w, weeksSheet, WeekHeader, rows)
}

// WriteAssignments writes assignments as a single-sheet workbook to w.
func WriteAssignments(w io.Writer, assignments []models.Assignment) error {
	rows := make([][]any, len(assignments))
	for i, a := range assignments {
		rows[i] = []any{plain(a.Title), plain(a.Description), a.DueDate, plainList(a.Files)}
	}
	return write(w, assignmentsSheet, AssignmentHeader, rows)
}

func write(w io.Writer, sheet string, header []string, rows [][]any) error {
	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("Error closing excel file: %v", err)
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerRow := make([]any, len(header))
	for i, h := range header {
		headerRow[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &headerRow); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
