package tui

import (
	"errors"
	"testing"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDayPlan() *models.SchedulePlan {
	return &models.SchedulePlan{
		Variant: models.VariantFullDay,
		Blocks: []models.ScheduleBlock{
			{Time: "09:00 AM - 10:00 AM", Activity: "Study: Limits", Category: models.CategoryStudy, Icon: "📚"},
			{Time: "10:00 AM - 10:10 AM", Activity: "Short Break", Category: models.CategoryBreak},
			{Time: "10:10 AM - 11:00 AM", Activity: "Study: Derivatives", Category: models.CategoryStudy},
			{Time: "11:00 AM - 11:30 AM", Activity: "Stretch", Category: "yoga"},
		},
		Strategy: "Hardest topics first.",
		Tips:     []string{"Sleep well"},
	}
}

func update(t *testing.T, m ChecklistModel, msg tea.Msg) (ChecklistModel, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	out, ok := next.(ChecklistModel)
	require.True(t, ok)
	return out, cmd
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestCursorMovement(t *testing.T) {
	m := NewChecklistModel(fullDayPlan(), time.Minute, time.Minute, nil)

	m, _ = update(t, m, runes("k"))
	assert.Equal(t, 0, m.Cursor())

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 2, m.Cursor())

	for i := 0; i < 5; i++ {
		m, _ = update(t, m, runes("j"))
	}
	assert.Equal(t, 3, m.Cursor())

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 2, m.Cursor())
}

func TestToggleSaves(t *testing.T) {
	var saved []*models.SchedulePlan
	m := NewChecklistModel(fullDayPlan(), time.Minute, time.Minute, func(p *models.SchedulePlan) error {
		saved = append(saved, p)
		return nil
	})

	m, _ = update(t, m, runes("j"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.Plan().Blocks[1].Completed)
	assert.False(t, m.Plan().Blocks[0].Completed)
	require.Len(t, saved, 1)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.Plan().Blocks[1].Completed)
	assert.Len(t, saved, 2)

	done, total := m.Plan().Progress()
	assert.Equal(t, 0, done)
	assert.Equal(t, 4, total)
}

func TestToggleSaveErrorIsShown(t *testing.T) {
	m := NewChecklistModel(fullDayPlan(), time.Minute, time.Minute, func(*models.SchedulePlan) error {
		return errors.New("disk full")
	})

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.Plan().Blocks[0].Completed)
	assert.Contains(t, m.View(), "failed to save plan: disk full")
}

func TestReminderTick(t *testing.T) {
	now := time.Date(2026, 11, 1, 10, 0, 30, 0, time.Local)
	m := NewChecklistModel(fullDayPlan(), time.Minute, time.Minute, nil).
		WithClock(func() time.Time { return now })

	m, cmd := update(t, m, reminderTickMsg(now))
	assert.NotNil(t, cmd)
	require.Len(t, m.Reminders(), 1)
	assert.Equal(t, models.BlockRef{Index: 0}, m.Reminders()[0].Ref)
	assert.True(t, m.Notified(models.BlockRef{Index: 0}))
	assert.Contains(t, m.View(), "You should have finished: Study: Limits. Mark it as done!")

	// a block is announced once
	m, _ = update(t, m, reminderTickMsg(now))
	assert.Len(t, m.Reminders(), 1)

	now = time.Date(2026, 11, 1, 11, 0, 10, 0, time.Local)
	m, _ = update(t, m, reminderTickMsg(now))
	assert.Len(t, m.Reminders(), 2)
	assert.Equal(t, models.BlockRef{Index: 2}, m.Reminders()[1].Ref)
}

func TestReminderBoxIsBounded(t *testing.T) {
	plan := &models.SchedulePlan{Variant: models.VariantFullDay}
	for i := 0; i < 5; i++ {
		plan.Blocks = append(plan.Blocks, models.ScheduleBlock{
			Time:     "08:00 - 09:00",
			Activity: "Chapter",
			Category: models.CategoryStudy,
		})
	}
	now := time.Date(2026, 11, 1, 9, 0, 5, 0, time.Local)
	m := NewChecklistModel(plan, time.Minute, time.Minute, nil).WithClock(func() time.Time { return now })

	m, _ = update(t, m, reminderTickMsg(now))
	assert.Len(t, m.Reminders(), maxShownReminders)
	assert.Equal(t, 4, m.Reminders()[maxShownReminders-1].Ref.Index)
}

func TestQuitStopsTicking(t *testing.T) {
	m := NewChecklistModel(fullDayPlan(), time.Minute, time.Minute, nil)
	require.NotNil(t, m.Init())

	m, cmd := update(t, m, runes("q"))
	assert.True(t, m.Quitting())
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	_, cmd = update(t, m, reminderTickMsg(time.Now()))
	assert.Nil(t, cmd)
}

func TestViewFullDay(t *testing.T) {
	m := NewChecklistModel(fullDayPlan(), time.Minute, time.Minute, nil)
	view := m.View()

	assert.Contains(t, view, "Study plan  0/4 done")
	assert.Contains(t, view, "09:00 AM - 10:00 AM  📚 Study: Limits")
	assert.Contains(t, view, "Stretch")
	assert.Contains(t, view, "Strategy: Hardest topics first.")
	assert.Contains(t, view, "• Sleep well")
}

func TestViewMultiDay(t *testing.T) {
	plan := &models.SchedulePlan{
		Variant: models.VariantMultiDay,
		Days: []models.DayPlan{
			{Day: "Day 1", Date: "2026-11-01", Blocks: []models.ScheduleBlock{
				{Activity: "Limits", Category: models.CategoryTopic},
				{Activity: "Review", Category: models.CategoryRevision, Completed: true},
			}},
			{Day: "Day 2", Date: "2026-11-02", Blocks: []models.ScheduleBlock{
				{Activity: "Derivatives", Category: models.CategoryTopic},
			}},
		},
		Tips: []string{},
	}
	m := NewChecklistModel(plan, time.Minute, time.Minute, nil)
	view := m.View()

	assert.Contains(t, view, "Study plan  1/3 done")
	assert.Contains(t, view, "Day 1 2026-11-01")
	assert.Contains(t, view, "Day 2 2026-11-02")
	assert.Contains(t, view, "[x]")

	// multi-day plans never produce reminders
	m, _ = update(t, m, reminderTickMsg(time.Now()))
	assert.Empty(t, m.Reminders())
}

func TestViewEmptyPlan(t *testing.T) {
	m := NewChecklistModel(&models.SchedulePlan{Variant: models.VariantFullDay, Tips: []string{}}, 0, 0, nil)
	view := m.View()
	assert.Contains(t, view, "Study plan  0/0 done")
	assert.Contains(t, view, "This plan has no activities.")

	// toggling with nothing under the cursor is a no-op
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.NotContains(t, m.View(), "not found")
}
