// Package report turns student records into shareable output: an xlsx
// workbook for search results and a markdown card for a single profile.
package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/jeanpaul/roster/internal/record"
)

const (
	StudentsSheet = "Students"
	CommentsSheet = "Comments"
)

var studentHeader = []any{
	"Name", "Academic Status", "Employed", "Job Details", "Programming Languages",
	"Databases", "Preferred Role", "Whitelisted", "Blacklisted", "Comments",
}

var commentHeader = []any{"Name", "Date", "Comment"}

// WriteWorkbook saves students to an xlsx file at path, one row per
// student, with every comment listed on a second sheet.
func WriteWorkbook(path string, students []record.Student) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", StudentsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if _, err := f.NewSheet(CommentsSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeRow(f, StudentsSheet, 1, studentHeader); err != nil {
		return err
	}
	if err := writeRow(f, CommentsSheet, 1, commentHeader); err != nil {
		return err
	}
	for _, sheet := range []string{StudentsSheet, CommentsSheet} {
		if err := f.SetRowStyle(sheet, 1, 1, bold); err != nil {
			return fmt.Errorf("failed to style header: %w", err)
		}
	}

	commentRow := 2
	for i, s := range students {
		row := []any{
			s.Name, s.AcademicStatus, yesNo(s.Employed), s.Job(),
			strings.Join(s.Languages, ", "), strings.Join(s.Databases, ", "),
			s.PreferredRole, yesNo(s.Whitelisted), yesNo(s.Blacklisted), len(s.Comments),
		}
		if err := writeRow(f, StudentsSheet, i+2, row); err != nil {
			return err
		}
		for _, c := range s.Comments {
			if err := writeRow(f, CommentsSheet, commentRow, []any{s.Name, c.Date(), c.Text}); err != nil {
				return err
			}
			commentRow++
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
