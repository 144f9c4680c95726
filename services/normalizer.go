package services

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/Nahnamehran/study-planner/models"
)

const fence = "```"

// StripCodeFence removes one leading fence (optionally tagged json) and one trailing fence.
// Backticks inside the document are left alone.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, fence) {
		s = s[len(fence):]
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	if strings.HasSuffix(s, fence) {
		s = s[:len(s)-len(fence)]
	}
	return strings.TrimSpace(s)
}

type object map[string]json.RawMessage

// Normalize turns raw model output into a SchedulePlan of the requested variant.
// Completion flags from the model are ignored.
func Normalize(raw string, variant models.Variant) (*models.SchedulePlan, error) {
	malformed := func(err error) error {
		return &models.MalformedResponseError{Raw: raw, Err: err}
	}

	body := StripCodeFence(raw)
	if body == "" {
		return nil, malformed(errors.New("empty response"))
	}

	var root any
	dec := json.NewDecoder(strings.NewReader(body))
	dec.UseNumber()
	if err := dec.Decode(&root); err != nil {
		return nil, malformed(fmt.Errorf("invalid json: %w", err))
	}
	if dec.More() {
		return nil, malformed(errors.New("trailing data after json document"))
	}
	if _, ok := root.(map[string]any); !ok {
		return nil, malformed(errors.New("top-level value must be an object"))
	}

	var top object
	if err := json.Unmarshal([]byte(body), &top); err != nil {
		return nil, malformed(err)
	}

	plan := &models.SchedulePlan{Variant: variant, Tips: []string{}}
	tips, err := stringList(top, "motivational_tips")
	if err != nil {
		return nil, malformed(err)
	}
	if tips != nil {
		plan.Tips = tips
	}

	switch variant {
	case models.VariantMultiDay:
		days, err := objectList(top, "plan", true)
		if err != nil {
			return nil, malformed(err)
		}
		plan.Days = make([]models.DayPlan, 0, len(days))
		for i, d := range days {
			day, err := normalizeDay(d)
			if err != nil {
				return nil, malformed(fmt.Errorf("plan[%d]: %w", i, err))
			}
			plan.Days = append(plan.Days, day)
		}
	case models.VariantFullDay:
		items, err := objectList(top, "schedule", true)
		if err != nil {
			return nil, malformed(err)
		}
		plan.Blocks = make([]models.ScheduleBlock, 0, len(items))
		for i, item := range items {
			block, err := normalizeBlock(item, "activity", "category")
			if err != nil {
				return nil, malformed(fmt.Errorf("schedule[%d]: %w", i, err))
			}
			plan.Blocks = append(plan.Blocks, block)
		}
		if plan.Strategy, err = stringField(top, "study_strategy"); err != nil {
			return nil, malformed(err)
		}
	default:
		return nil, fmt.Errorf("unknown plan variant %q", variant)
	}

	return plan, nil
}

func normalizeDay(d object) (models.DayPlan, error) {
	var day models.DayPlan
	var err error
	if day.Day, err = stringField(d, "day"); err != nil {
		return day, err
	}
	if day.Date, err = stringField(d, "date"); err != nil {
		return day, err
	}
	activities, err := objectList(d, "activities", true)
	if err != nil {
		return day, err
	}
	day.Blocks = make([]models.ScheduleBlock, 0, len(activities))
	for i, a := range activities {
		block, err := normalizeBlock(a, "text", "type")
		if err != nil {
			return day, fmt.Errorf("activities[%d]: %w", i, err)
		}
		day.Blocks = append(day.Blocks, block)
	}
	return day, nil
}

// normalizeBlock reads a block using the variant's label/category keys, falling back to the other schema's names.
func normalizeBlock(o object, labelKey, categoryKey string) (models.ScheduleBlock, error) {
	var b models.ScheduleBlock
	var err error
	if b.Time, err = stringField(o, "time"); err != nil {
		return b, err
	}
	if b.Activity, err = firstString(o, labelKey, "activity", "text"); err != nil {
		return b, err
	}
	category, err := firstString(o, categoryKey, "category", "type")
	if err != nil {
		return b, err
	}
	b.Category = models.Category(strings.ToLower(strings.TrimSpace(category)))
	if b.Icon, err = stringField(o, "icon"); err != nil {
		return b, err
	}
	b.Time = strings.TrimSpace(b.Time)
	b.Completed = false
	return b, nil
}

func firstString(o object, keys ...string) (string, error) {
	for _, k := range keys {
		if _, ok := o[k]; !ok {
			continue
		}
		return stringField(o, k)
	}
	return "", nil
}

// stringField returns "" for absent or null keys and an error for non-string values.
func stringField(o object, key string) (string, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return "", nil
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", fmt.Errorf("%q must be a string", key)
	}
	return s, nil
}

func stringList(o object, key string) ([]string, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		return nil, nil
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("%q must be an array of strings", key)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

func objectList(o object, key string, required bool) ([]object, error) {
	raw, ok := o[key]
	if !ok || isNull(raw) {
		if required {
			return nil, fmt.Errorf("missing %q array", key)
		}
		return nil, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%q must be an array", key)
	}
	out := make([]object, 0, len(items))
	for i, item := range items {
		var obj object
		if err := json.Unmarshal(item, &obj); err != nil || obj == nil {
			return nil, fmt.Errorf("%s[%d] must be an object", key, i)
		}
		out = append(out, obj)
	}
	return out, nil
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

type rawActivity struct {
	Time string `json:"time,omitempty"`
	Type string `json:"type"`
	Text string `json:"text"`
	Icon string `json:"icon,omitempty"`
}

type rawDay struct {
	Day        string        `json:"day"`
	Date       string        `json:"date"`
	Activities []rawActivity `json:"activities"`
}

type rawBlock struct {
	Time     string `json:"time,omitempty"`
	Activity string `json:"activity"`
	Category string `json:"category"`
	Icon     string `json:"icon,omitempty"`
}

type rawMultiDay struct {
	Plan []rawDay `json:"plan"`
	Tips []string `json:"motivational_tips"`
}

type rawFullDay struct {
	Schedule []rawBlock `json:"schedule"`
	Strategy string     `json:"study_strategy,omitempty"`
	Tips     []string   `json:"motivational_tips"`
}

// EncodeRaw writes a plan back into the shape the model is asked to produce.
func EncodeRaw(plan *models.SchedulePlan) ([]byte, error) {
	switch plan.Variant {
	case models.VariantMultiDay:
		out := rawMultiDay{Plan: make([]rawDay, 0, len(plan.Days)), Tips: plan.Tips}
		for _, d := range plan.Days {
			day := rawDay{Day: d.Day, Date: d.Date, Activities: make([]rawActivity, 0, len(d.Blocks))}
			for _, b := range d.Blocks {
				day.Activities = append(day.Activities, rawActivity{Time: b.Time, Type: string(b.Category), Text: b.Activity, Icon: b.Icon})
			}
			out.Plan = append(out.Plan, day)
		}
		return json.Marshal(out)
	case models.VariantFullDay:
		out := rawFullDay{Schedule: make([]rawBlock, 0, len(plan.Blocks)), Strategy: plan.Strategy, Tips: plan.Tips}
		for _, b := range plan.Blocks {
			out.Schedule = append(out.Schedule, rawBlock{Time: b.Time, Activity: b.Activity, Category: string(b.Category), Icon: b.Icon})
		}
		return json.Marshal(out)
	default:
		return nil, fmt.Errorf("unknown plan variant %q", plan.Variant)
	}
}
