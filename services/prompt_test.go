package services

import (
	"errors"
	"strings"
	"testing"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fullDayRequest() models.PlanRequest {
	return models.PlanRequest{
		Syllabus:      "Calculus: limits, derivatives",
		ExamDate:      "2026-11-20",
		AvailableTime: "6 hours",
		WakeTime:      "07:00",
		BedTime:       "23:00",
		ReferenceDate: "2026-11-01",
	}
}

func TestBuildPromptMultiDay(t *testing.T) {
	prompt, err := BuildPrompt(models.PlanRequest{
		Syllabus:      "Organic chemistry",
		ExamDate:      "2026-12-01",
		AvailableTime: "3 hours",
		ReferenceDate: "2026-11-01",
	}, models.VariantMultiDay)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Organic chemistry")
	assert.Contains(t, prompt, "2026-12-01")
	assert.Contains(t, prompt, "3 hours")
	assert.Contains(t, prompt, "Today's Date: 2026-11-01")
	assert.Contains(t, prompt, `"plan"`)
	assert.Contains(t, prompt, `"motivational_tips"`)
	assert.Contains(t, prompt, "'topic', 'revision', 'break'")
	assert.NotContains(t, prompt, `"schedule"`)
}

func TestBuildPromptFullDay(t *testing.T) {
	prompt, err := BuildPrompt(fullDayRequest(), models.VariantFullDay)
	require.NoError(t, err)

	assert.Contains(t, prompt, "Calculus: limits, derivatives")
	assert.Contains(t, prompt, "Wake Up Time: 07:00")
	assert.Contains(t, prompt, "Bedtime: 23:00")
	assert.Contains(t, prompt, `"schedule"`)
	assert.Contains(t, prompt, `"study_strategy"`)
	assert.Contains(t, prompt, "'study', 'break', 'revision', 'food', 'sleep', 'lifestyle'")
}

func TestBuildPromptIsDeterministic(t *testing.T) {
	a, err := BuildPrompt(fullDayRequest(), models.VariantFullDay)
	require.NoError(t, err)
	b, err := BuildPrompt(fullDayRequest(), models.VariantFullDay)
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestBuildPromptOmitsTodayWhenUnset(t *testing.T) {
	req := fullDayRequest()
	req.ReferenceDate = ""
	prompt, err := BuildPrompt(req, models.VariantFullDay)
	require.NoError(t, err)
	assert.NotContains(t, prompt, "Today's Date")
}

func TestBuildPromptMissingFields(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*models.PlanRequest)
		variant models.Variant
		field   string
	}{
		{"empty syllabus", func(r *models.PlanRequest) { r.Syllabus = "" }, models.VariantMultiDay, "syllabus"},
		{"blank syllabus", func(r *models.PlanRequest) { r.Syllabus = "   " }, models.VariantFullDay, "syllabus"},
		{"no exam date", func(r *models.PlanRequest) { r.ExamDate = "" }, models.VariantMultiDay, "examDate"},
		{"no wake time", func(r *models.PlanRequest) { r.WakeTime = "" }, models.VariantFullDay, "wakeTime"},
		{"no bed time", func(r *models.PlanRequest) { r.BedTime = "" }, models.VariantFullDay, "bedTime"},
		{"no available time", func(r *models.PlanRequest) { r.AvailableTime = "" }, models.VariantFullDay, "availableTime"},
		{"bad exam date", func(r *models.PlanRequest) { r.ExamDate = "20/11/2026" }, models.VariantMultiDay, "examDate"},
		{"bad wake time", func(r *models.PlanRequest) { r.WakeTime = "7am" }, models.VariantFullDay, "wakeTime"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := fullDayRequest()
			tt.mutate(&req)

			prompt, err := BuildPrompt(req, tt.variant)
			assert.Empty(t, prompt)
			require.Error(t, err)
			assert.True(t, errors.Is(err, models.ErrMissingField))

			var fe *models.FieldError
			require.ErrorAs(t, err, &fe)
			assert.Equal(t, tt.field, fe.Field)
		})
	}
}

func TestBuildPromptMultiDayDoesNotNeedClockTimes(t *testing.T) {
	req := fullDayRequest()
	req.WakeTime, req.BedTime, req.AvailableTime = "", "", ""
	prompt, err := BuildPrompt(req, models.VariantMultiDay)
	require.NoError(t, err)
	assert.False(t, strings.Contains(prompt, "Available Time Daily"))
}
