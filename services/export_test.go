package services

import (
	"bytes"
	"testing"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestExportXLSXFullDay(t *testing.T) {
	plan, err := Normalize(fullDayJSON, models.VariantFullDay)
	require.NoError(t, err)

	buf, err := ExportXLSX(plan)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Plan", "Notes"}, f.GetSheetList())
	rows, err := f.GetRows("Plan")
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Time", "Activity", "Category", "Icon", "Done"}, rows[0])
	assert.Equal(t, "Study: Limits", rows[2][1])

	notes, err := f.GetRows("Notes")
	require.NoError(t, err)
	assert.Equal(t, []string{"Strategy", "Start with the hardest topic."}, notes[0])
	assert.Equal(t, []string{"Tip", "Keep going"}, notes[1])
}

func TestExportAndParseMultiDay(t *testing.T) {
	plan, err := Normalize(multiDayJSON, models.VariantMultiDay)
	require.NoError(t, err)
	plan.Days[1].Blocks[0].Completed = true

	buf, err := ExportXLSX(plan)
	require.NoError(t, err)

	parsed, err := NewParserService().ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, plan, parsed)
}

func TestExportAndParseKeepsTimeAndIcon(t *testing.T) {
	plan := &models.SchedulePlan{
		Variant: models.VariantMultiDay,
		Days: []models.DayPlan{{Day: "Day 1", Date: "2026-11-01", Blocks: []models.ScheduleBlock{
			{Time: "09:00 AM - 10:00 AM", Activity: "=Newton's laws", Category: models.CategoryTopic, Icon: "📘"},
			{Activity: "Review", Category: models.CategoryRevision, Completed: true},
		}}},
		Tips: []string{},
	}

	buf, err := ExportXLSX(plan)
	require.NoError(t, err)

	parsed, err := NewParserService().ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, plan, parsed)
}

func TestParseXLSXOlderMultiDayLayout(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName("Sheet1", planSheet))
	require.NoError(t, f.SetSheetRow(planSheet, "A1", &[]interface{}{"Day", "Date", "Activity", "Category", "Done"}))
	require.NoError(t, f.SetSheetRow(planSheet, "A2", &[]interface{}{"Day 1", "2026-11-01", `="Chapter 1"`, "topic", "yes"}))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	parsed, err := NewParserService().ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, parsed.Days, 1)
	assert.Equal(t, models.ScheduleBlock{Activity: "Chapter 1", Category: models.CategoryTopic, Completed: true}, parsed.Days[0].Blocks[0])
}

func TestExportEmptyPlan(t *testing.T) {
	plan := &models.SchedulePlan{Variant: models.VariantFullDay, Blocks: []models.ScheduleBlock{}, Tips: []string{}}
	buf, err := ExportXLSX(plan)
	require.NoError(t, err)

	parsed, err := NewParserService().ParseXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, plan, parsed)
}

func TestParseXLSXRejectsGarbage(t *testing.T) {
	_, err := NewParserService().ParseXLSX(bytes.NewReader([]byte("not a workbook")))
	assert.ErrorIs(t, err, models.ErrMissingField)

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetCellValue("Sheet1", "A1", "hello"))
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	_, err = NewParserService().ParseXLSX(bytes.NewReader(buf.Bytes()))
	assert.ErrorIs(t, err, models.ErrMissingField)
}
