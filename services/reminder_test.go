package services

import (
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	tests := []struct {
		in   string
		want int
		ok   bool
	}{
		{"12:30 AM", 30, true},
		{"12:30 PM", 750, true},
		{"07:15 AM", 435, true},
		{"07:15 PM", 1155, true},
		{"7:15 pm", 1155, true},
		{"12:00 AM", 0, true},
		{"23:59", 1439, true},
		{"00:00", 0, true},
		{"13:00 PM", 0, false},
		{"24:00", 0, false},
		{"9 AM", 0, false},
		{"09:5 AM", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		got, ok := ParseClock(tt.in)
		assert.Equal(t, tt.ok, ok, tt.in)
		if tt.ok {
			assert.Equal(t, tt.want, got, tt.in)
		}
	}
}

func TestParseTimeRange(t *testing.T) {
	start, end, ok := ParseTimeRange("09:00 AM - 10:00 AM")
	require.True(t, ok)
	assert.Equal(t, 540, start)
	assert.Equal(t, 600, end)

	start, end, ok = ParseTimeRange("11:00 PM – 12:30 AM")
	require.True(t, ok)
	assert.Equal(t, 1380, start)
	assert.Equal(t, 30, end)

	_, _, ok = ParseTimeRange("morning")
	assert.False(t, ok)
	_, _, ok = ParseTimeRange("09:00 AM - 10:00 AM - 11:00 AM")
	assert.False(t, ok)
}

func reminderPlan() *models.SchedulePlan {
	return &models.SchedulePlan{
		Variant: models.VariantFullDay,
		Blocks: []models.ScheduleBlock{
			{Time: "08:00 AM - 09:00 AM", Activity: "Breakfast", Category: models.CategoryFood},
			{Time: "09:00 AM - 10:00 AM", Activity: "Study: Limits", Category: models.CategoryStudy},
			{Time: "10:00 AM - 10:10 AM", Activity: "Short Break", Category: models.CategoryBreak},
			{Time: "sometime", Activity: "Study: Vectors", Category: models.CategoryStudy},
		},
		Tips: []string{},
	}
}

func at(hour, min, sec int) time.Time {
	return time.Date(2026, 11, 1, hour, min, sec, 0, time.Local)
}

func TestDueRemindersFreshStudyBlock(t *testing.T) {
	due := DueReminders(reminderPlan(), at(10, 0, 30), nil, time.Minute)
	assert.Equal(t, []models.BlockRef{{Index: 1}}, due)
}

func TestDueRemindersStale(t *testing.T) {
	assert.Empty(t, DueReminders(reminderPlan(), at(10, 5, 0), nil, time.Minute))
}

func TestDueRemindersExactlyAtEnd(t *testing.T) {
	assert.Empty(t, DueReminders(reminderPlan(), at(10, 0, 0), nil, time.Minute))
}

func TestDueRemindersSkipsNotifiedAndCompleted(t *testing.T) {
	plan := reminderPlan()
	notified := map[models.BlockRef]bool{{Index: 1}: true}
	assert.Empty(t, DueReminders(plan, at(10, 0, 30), notified, time.Minute))

	plan.Blocks[1].Completed = true
	assert.Empty(t, DueReminders(plan, at(10, 0, 30), nil, time.Minute))
}

func TestDueRemindersIgnoresBreaks(t *testing.T) {
	// the break ends at 10:10
	assert.Empty(t, DueReminders(reminderPlan(), at(10, 10, 30), nil, time.Minute))
}

func TestDueRemindersMultiDayNeverFires(t *testing.T) {
	plan := &models.SchedulePlan{
		Variant: models.VariantMultiDay,
		Days: []models.DayPlan{{Day: "Day 1", Blocks: []models.ScheduleBlock{
			{Time: "09:00 AM - 10:00 AM", Activity: "Limits", Category: models.CategoryStudy},
		}}},
	}
	assert.Empty(t, DueReminders(plan, at(10, 0, 30), nil, time.Minute))
	assert.Empty(t, DueReminders(nil, at(10, 0, 30), nil, time.Minute))
}

func TestDueRemindersAcrossDSTChange(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	// clocks jump from 02:00 to 03:00 on 2026-03-08; the study block still ends at 10:00 local
	now := time.Date(2026, 3, 8, 10, 0, 30, 0, loc)
	assert.Equal(t, []models.BlockRef{{Index: 1}}, DueReminders(reminderPlan(), now, nil, time.Minute))
	assert.Empty(t, DueReminders(reminderPlan(), now.Add(time.Hour), nil, time.Minute))

	// and on the fall-back day
	now = time.Date(2026, 11, 1, 10, 0, 30, 0, loc)
	assert.Equal(t, []models.BlockRef{{Index: 1}}, DueReminders(reminderPlan(), now, nil, time.Minute))
}

func TestDueRemindersDefaultWindow(t *testing.T) {
	assert.Len(t, DueReminders(reminderPlan(), at(10, 0, 59), nil, 0), 1)
}

func TestReminderFor(t *testing.T) {
	r, err := ReminderFor(reminderPlan(), models.BlockRef{Index: 1})
	require.NoError(t, err)
	assert.Equal(t, "⏰ Study Reminder", r.Title)
	assert.Equal(t, "You should have finished: Study: Limits. Mark it as done!", r.Body)

	_, err = ReminderFor(reminderPlan(), models.BlockRef{Index: 9})
	assert.ErrorIs(t, err, models.ErrNotFound)
}
