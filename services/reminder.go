package services

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Nahnamehran/study-planner/models"
)

const (
	ReminderTitle         = "⏰ Study Reminder"
	DefaultReminderWindow = time.Minute
)

var rangeSeparators = []string{" to ", "–", "—", "-"}

// ParseClock converts "H:MM AM/PM" (or 24-hour "HH:MM") into minutes after midnight.
func ParseClock(s string) (int, bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}

	modifier := ""
	for _, m := range []string{"AM", "PM"} {
		if strings.HasSuffix(s, m) {
			modifier = m
			s = strings.TrimSpace(strings.TrimSuffix(s, m))
			break
		}
	}

	parts := strings.Split(s, ":")
	if len(parts) != 2 || len(parts[1]) != 2 {
		return 0, false
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil || minutes < 0 || minutes > 59 {
		return 0, false
	}

	switch modifier {
	case "":
		if hours < 0 || hours > 23 {
			return 0, false
		}
	case "AM":
		if hours < 1 || hours > 12 {
			return 0, false
		}
		if hours == 12 {
			hours = 0
		}
	case "PM":
		if hours < 1 || hours > 12 {
			return 0, false
		}
		if hours != 12 {
			hours += 12
		}
	}
	return hours*60 + minutes, true
}

// ParseTimeRange splits "09:00 AM - 10:00 AM" into start and end minutes.
// A range may cross midnight, so end can be less than start.
func ParseTimeRange(s string) (start, end int, ok bool) {
	for _, sep := range rangeSeparators {
		if !strings.Contains(s, sep) {
			continue
		}
		parts := strings.Split(s, sep)
		if len(parts) != 2 {
			return 0, 0, false
		}
		var okStart, okEnd bool
		start, okStart = ParseClock(parts[0])
		end, okEnd = ParseClock(parts[1])
		if !okStart || !okEnd {
			return 0, 0, false
		}
		return start, end, true
	}
	return 0, 0, false
}

// DueReminders lists the study blocks whose end time passed less than window ago.
// Blocks in notified, completed blocks and blocks with unparseable times are skipped.
// End times are anchored to the calendar day of now.
func DueReminders(plan *models.SchedulePlan, now time.Time, notified map[models.BlockRef]bool, window time.Duration) []models.BlockRef {
	if plan == nil || plan.Variant != models.VariantFullDay {
		return nil
	}
	if window <= 0 {
		window = DefaultReminderWindow
	}

	var due []models.BlockRef
	for i, b := range plan.Blocks {
		ref := models.BlockRef{Index: i}
		if b.Category != models.CategoryStudy || b.Completed || notified[ref] {
			continue
		}
		_, end, ok := ParseTimeRange(b.Time)
		if !ok {
			continue
		}
		// wall clock on now's date; adding minutes to midnight drifts an hour on DST days
		endAt := time.Date(now.Year(), now.Month(), now.Day(), end/60, end%60, 0, 0, now.Location())
		elapsed := now.Sub(endAt)
		if elapsed > 0 && elapsed < window {
			due = append(due, ref)
		}
	}
	return due
}

// ReminderFor builds the notification text for one block.
func ReminderFor(plan *models.SchedulePlan, ref models.BlockRef) (models.Reminder, error) {
	b, err := plan.Block(ref)
	if err != nil {
		return models.Reminder{}, err
	}
	return models.Reminder{
		Ref:   ref,
		Title: ReminderTitle,
		Body:  fmt.Sprintf("You should have finished: %s. Mark it as done!", b.Activity),
	}, nil
}
