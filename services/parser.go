package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/xuri/excelize/v2"
)

// ParserService reads back checklists produced by ExportXLSX.
type ParserService struct{}

func NewParserService() *ParserService {
	return &ParserService{}
}

// ParseXLSX rebuilds a plan from an exported workbook. The variant is taken from the header row.
// Completion marks are kept so a printed-and-ticked checklist can be imported again.
func (s *ParserService) ParseXLSX(file io.Reader) (*models.SchedulePlan, error) {
	f, err := excelize.OpenReader(file)
	if err != nil {
		return nil, &models.FieldError{Field: "file", Reason: fmt.Sprintf("invalid xlsx file: %v", err)}
	}
	defer f.Close()

	rows, err := f.GetRows(planSheet)
	if err != nil {
		return nil, &models.FieldError{Field: "file", Reason: fmt.Sprintf("sheet %q not found", planSheet)}
	}
	if len(rows) == 0 {
		return nil, &models.FieldError{Field: "file", Reason: "plan sheet is empty"}
	}

	cols := s.columns(rows[0])
	if _, ok := cols["activity"]; !ok {
		return nil, &models.FieldError{Field: "file", Reason: "activity column not found"}
	}
	var plan *models.SchedulePlan
	switch strings.ToLower(s.cell(rows[0], 0)) {
	case "time":
		plan = s.parseFullDay(rows[1:], cols)
	case "day":
		plan = s.parseMultiDay(rows[1:], cols)
	default:
		return nil, &models.FieldError{Field: "file", Reason: "unrecognised header row"}
	}

	plan.Tips = []string{}
	// the notes sheet is optional
	if notes, err := f.GetRows(notesSheet); err == nil {
		for _, row := range notes {
			switch s.cell(row, 0) {
			case strategyLabel:
				plan.Strategy = s.cell(row, 1)
			case tipLabel:
				if tip := s.cell(row, 1); tip != "" {
					plan.Tips = append(plan.Tips, tip)
				}
			}
		}
	}
	return plan, nil
}

// columnIndex maps lower-cased header names to their position.
type columnIndex map[string]int

func (s *ParserService) columns(header []string) columnIndex {
	cols := make(columnIndex, len(header))
	for i := range header {
		cols[strings.ToLower(s.cell(header, i))] = i
	}
	return cols
}

// get returns the named cell, or "" when the workbook has no such column.
func (s *ParserService) get(row []string, cols columnIndex, name string) string {
	i, ok := cols[name]
	if !ok {
		return ""
	}
	return s.cell(row, i)
}

func (s *ParserService) block(row []string, cols columnIndex) models.ScheduleBlock {
	return models.ScheduleBlock{
		Time:      s.get(row, cols, "time"),
		Activity:  s.get(row, cols, "activity"),
		Category:  models.Category(strings.ToLower(s.get(row, cols, "category"))),
		Icon:      s.get(row, cols, "icon"),
		Completed: s.isDone(s.get(row, cols, "done")),
	}
}

func (s *ParserService) parseFullDay(rows [][]string, cols columnIndex) *models.SchedulePlan {
	plan := &models.SchedulePlan{Variant: models.VariantFullDay, Blocks: []models.ScheduleBlock{}}
	for _, row := range rows {
		block := s.block(row, cols)
		if block.Activity == "" {
			continue
		}
		plan.Blocks = append(plan.Blocks, block)
	}
	return plan
}

// parseMultiDay groups consecutive rows sharing day and date. Workbooks exported
// before the time and icon columns existed still parse.
func (s *ParserService) parseMultiDay(rows [][]string, cols columnIndex) *models.SchedulePlan {
	plan := &models.SchedulePlan{Variant: models.VariantMultiDay, Days: []models.DayPlan{}}
	for _, row := range rows {
		block := s.block(row, cols)
		if block.Activity == "" {
			continue
		}
		day, date := s.get(row, cols, "day"), s.get(row, cols, "date")
		n := len(plan.Days)
		if n == 0 || plan.Days[n-1].Day != day || plan.Days[n-1].Date != date {
			plan.Days = append(plan.Days, models.DayPlan{Day: day, Date: date, Blocks: []models.ScheduleBlock{}})
			n++
		}
		plan.Days[n-1].Blocks = append(plan.Days[n-1].Blocks, block)
	}
	return plan
}

// cell returns a trimmed value; GetRows drops trailing empty cells.
func (s *ParserService) cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return s.cleanValue(row[i])
}

// cleanValue unwraps text typed as a formula literal, ="text". Any other leading = is content.
func (s *ParserService) cleanValue(value string) string {
	value = strings.TrimSpace(value)

	if len(value) >= 3 && strings.HasPrefix(value, "=\"") && strings.HasSuffix(value, "\"") {
		value = value[2 : len(value)-1]
	}

	return strings.TrimSpace(value)
}

func (s *ParserService) isDone(value string) bool {
	switch strings.ToLower(value) {
	case doneMark, "y", "x", "✓", "true", "1":
		return true
	}
	return false
}
