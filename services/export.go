package services

import (
	"bytes"
	"fmt"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/xuri/excelize/v2"
)

// Workbook layout shared by ExportXLSX and ParserService.ParseXLSX.
const (
	planSheet  = "Plan"
	notesSheet = "Notes"

	strategyLabel = "Strategy"
	tipLabel      = "Tip"
	doneMark      = "yes"
)

var (
	fullDayHeader  = []interface{}{"Time", "Activity", "Category", "Icon", "Done"}
	multiDayHeader = []interface{}{"Day", "Date", "Time", "Activity", "Category", "Icon", "Done"}
)

// ExportXLSX renders a plan as a two-sheet workbook: the checklist and its notes.
func ExportXLSX(plan *models.SchedulePlan) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), planSheet); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	header := multiDayHeader
	if plan.Variant == models.VariantFullDay {
		header = fullDayHeader
	}
	if err := f.SetSheetRow(planSheet, "A1", &header); err != nil {
		return nil, err
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, err
	}
	lastHeader, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return nil, err
	}
	if err := f.SetCellStyle(planSheet, "A1", lastHeader, bold); err != nil {
		return nil, err
	}

	row := 2
	writeRow := func(values []interface{}) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		row++
		return f.SetSheetRow(planSheet, cell, &values)
	}

	switch plan.Variant {
	case models.VariantFullDay:
		for _, b := range plan.Blocks {
			if err := writeRow([]interface{}{b.Time, b.Activity, string(b.Category), b.Icon, doneCell(b.Completed)}); err != nil {
				return nil, err
			}
		}
	default:
		for _, d := range plan.Days {
			for _, b := range d.Blocks {
				if err := writeRow([]interface{}{d.Day, d.Date, b.Activity, string(b.Category), doneCell(b.Completed)}); err != nil {
					return nil, err
				}
			}
		}
	}
	activityCol := "D"
	if plan.Variant == models.VariantFullDay {
		activityCol = "B"
	}
	if err := f.SetColWidth(planSheet, "A", "C", 20); err != nil {
		return nil, err
	}
	if err := f.SetColWidth(planSheet, activityCol, activityCol, 60); err != nil {
		return nil, err
	}

	if _, err := f.NewSheet(notesSheet); err != nil {
		return nil, fmt.Errorf("failed to create notes sheet: %w", err)
	}
	notes := make([][]interface{}, 0, len(plan.Tips)+1)
	if plan.Strategy != "" {
		notes = append(notes, []interface{}{strategyLabel, plan.Strategy})
	}
	for _, tip := range plan.Tips {
		notes = append(notes, []interface{}{tipLabel, tip})
	}
	for i, values := range notes {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(notesSheet, cell, &values); err != nil {
			return nil, err
		}
	}
	if err := f.SetColWidth(notesSheet, "B", "B", 80); err != nil {
		return nil, err
	}

	f.SetActiveSheet(0)
	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write workbook: %w", err)
	}
	return buf, nil
}

func doneCell(completed bool) string {
	if completed {
		return doneMark
	}
	return ""
}
