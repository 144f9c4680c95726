package services

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/Nahnamehran/study-planner/models"
)

var reHHMM = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

type requiredField struct {
	name  string
	value string
}

// ValidateRequest checks the fields the given variant needs. It runs before any AI call.
func ValidateRequest(req models.PlanRequest, variant models.Variant) error {
	required := []requiredField{
		{"syllabus", req.Syllabus},
		{"examDate", req.ExamDate},
	}
	if variant == models.VariantFullDay {
		required = append(required,
			requiredField{"availableTime", req.AvailableTime},
			requiredField{"wakeTime", req.WakeTime},
			requiredField{"bedTime", req.BedTime},
		)
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return &models.FieldError{Field: f.name}
		}
	}

	if !isDate(req.ExamDate) {
		return &models.FieldError{Field: "examDate", Reason: "must be YYYY-MM-DD"}
	}
	if req.ReferenceDate != "" && !isDate(req.ReferenceDate) {
		return &models.FieldError{Field: "referenceDate", Reason: "must be YYYY-MM-DD"}
	}
	if req.WakeTime != "" && !reHHMM.MatchString(req.WakeTime) {
		return &models.FieldError{Field: "wakeTime", Reason: "must be HH:MM"}
	}
	if req.BedTime != "" && !reHHMM.MatchString(req.BedTime) {
		return &models.FieldError{Field: "bedTime", Reason: "must be HH:MM"}
	}
	return nil
}

func isDate(s string) bool {
	_, err := time.Parse(models.DateLayout, strings.TrimSpace(s))
	return err == nil
}

// BuildPrompt renders the instruction sent to the model. The output is a pure function of its input.
func BuildPrompt(req models.PlanRequest, variant models.Variant) (string, error) {
	if err := ValidateRequest(req, variant); err != nil {
		return "", err
	}
	switch variant {
	case models.VariantMultiDay:
		return multiDayPrompt(req), nil
	case models.VariantFullDay:
		return fullDayPrompt(req), nil
	default:
		return "", &models.FieldError{Field: "variant", Reason: fmt.Sprintf("unknown plan variant %q", variant)}
	}
}

func categoryList(v models.Variant) string {
	cats := models.Categories(v)
	quoted := make([]string, len(cats))
	for i, c := range cats {
		quoted[i] = "'" + string(c) + "'"
	}
	return strings.Join(quoted, ", ")
}

func multiDayPrompt(req models.PlanRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert study planner. Build a detailed day-by-day study schedule for a student.\n\n")
	b.WriteString("Inputs:\n")
	fmt.Fprintf(&b, "- Syllabus: %s\n", strings.TrimSpace(req.Syllabus))
	fmt.Fprintf(&b, "- Exam Date: %s\n", req.ExamDate)
	if req.AvailableTime != "" {
		fmt.Fprintf(&b, "- Available Time Daily: %s\n", req.AvailableTime)
	}
	if req.ReferenceDate != "" {
		fmt.Fprintf(&b, "- Today's Date: %s\n", req.ReferenceDate)
	}
	b.WriteString(`
Requirements:
1. Spread every syllabus topic evenly over the days left before the exam.
2. Give each day manageable study sessions with a suggested duration per topic.
3. Add short breaks and periodic revision sessions.
4. Schedule difficult topics early and keep the daily load balanced.
5. Include a "motivational_tips" array with 3-5 short, punchy tips.

Output format:
Return ONLY a raw JSON object (no markdown, no backticks, no explanatory text) with this structure:
{
  "plan": [
    {
      "day": "Day 1",
      "date": "YYYY-MM-DD",
      "activities": [
        { "type": "Topic", "text": "Topic Name - X hours" },
        { "type": "Revision", "text": "Topic Name - Y hours" },
        { "type": "Break", "text": "Short Break - 15 mins" }
      ]
    }
  ],
  "motivational_tips": ["Tip 1", "Tip 2"]
}
`)
	fmt.Fprintf(&b, "Allowed \"type\" values: %s.\n", categoryList(models.VariantMultiDay))
	return b.String()
}

func fullDayPrompt(req models.PlanRequest) string {
	var b strings.Builder
	b.WriteString("You are an expert academic planner. Create a focused, effective full-day study schedule for a student.\n\n")
	b.WriteString("User profile:\n")
	fmt.Fprintf(&b, "- Exam Date: %s\n", req.ExamDate)
	fmt.Fprintf(&b, "- Syllabus: %s\n", strings.TrimSpace(req.Syllabus))
	fmt.Fprintf(&b, "- Available Study Hours: %s\n", req.AvailableTime)
	fmt.Fprintf(&b, "- Wake Up Time: %s\n", req.WakeTime)
	fmt.Fprintf(&b, "- Bedtime: %s\n", req.BedTime)
	if req.ReferenceDate != "" {
		fmt.Fprintf(&b, "- Today's Date: %s\n", req.ReferenceDate)
	}
	b.WriteString(`
Requirements:
1. Plan the entire day from wake up to bedtime.
2. Include meals (breakfast, lunch, dinner, 30-45 mins each), sleep at the start and end of the day,
   and short personal or relaxation blocks.
`)
	fmt.Fprintf(&b, "3. Insert focused study sessions of 45-60 mins to reach the target of %s (or as much as fits),\n", req.AvailableTime)
	b.WriteString(`   each assigned a specific syllabus topic, with 10 minute breaks between them.
4. Use the last study session of the day for revision.
5. Every "time" value must be a range like "09:00 AM - 10:00 AM".

Output format:
Return ONLY a raw JSON object (no markdown, no backticks, no explanatory text) with this structure:
{
  "schedule": [
    { "time": "08:00 AM - 08:30 AM", "activity": "Breakfast", "category": "food", "icon": "🥐" },
    { "time": "09:00 AM - 10:00 AM", "activity": "Study: [Specific Topic]", "category": "study", "icon": "📚" },
    { "time": "10:00 AM - 10:10 AM", "activity": "Short Break", "category": "break", "icon": "☕" }
  ],
  "study_strategy": "Brief, professional advice on how to tackle this syllabus",
  "motivational_tips": ["Tip 1", "Tip 2"]
}
`)
	fmt.Fprintf(&b, "Allowed \"category\" values: %s.\n", categoryList(models.VariantFullDay))
	return b.String()
}
