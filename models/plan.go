package models

import (
	"fmt"
	"strings"
	"time"
)

// Variant selects which of the two response schemas a plan uses.
type Variant string

const (
	VariantMultiDay Variant = "multi-day"
	VariantFullDay  Variant = "full-day"
)

// ParseVariant accepts the canonical names plus the spellings the web form used.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multi-day", "multiday", "days":
		return VariantMultiDay, nil
	case "full-day", "fullday", "day", "single-day":
		return VariantFullDay, nil
	default:
		return "", &FieldError{Field: "variant", Reason: fmt.Sprintf("unknown plan variant %q", s)}
	}
}

type Category string

const (
	CategoryStudy     Category = "study"
	CategoryBreak     Category = "break"
	CategoryRevision  Category = "revision"
	CategoryFood      Category = "food"
	CategorySleep     Category = "sleep"
	CategoryLifestyle Category = "lifestyle"
	CategoryTopic     Category = "topic"
)

// Categories lists the enumeration the prompt asks for in each variant.
func Categories(v Variant) []Category {
	if v == VariantFullDay {
		return []Category{CategoryStudy, CategoryBreak, CategoryRevision, CategoryFood, CategorySleep, CategoryLifestyle}
	}
	return []Category{CategoryTopic, CategoryRevision, CategoryBreak}
}

// Known reports whether c belongs to the enumeration of variant v.
func (c Category) Known(v Variant) bool {
	for _, known := range Categories(v) {
		if c == known {
			return true
		}
	}
	return false
}

// RenderAs returns the category used for styling: unknown values look like lifestyle.
func (c Category) RenderAs(v Variant) Category {
	if c.Known(v) {
		return c
	}
	return CategoryLifestyle
}

// PlanRequest holds the fields a user submits for generation.
type PlanRequest struct {
	Syllabus      string `json:"syllabus" bson:"syllabus"`
	ExamDate      string `json:"examDate" bson:"examDate"`
	AvailableTime string `json:"availableTime" bson:"availableTime"`
	WakeTime      string `json:"wakeTime,omitempty" bson:"wakeTime,omitempty"`
	BedTime       string `json:"bedTime,omitempty" bson:"bedTime,omitempty"`
	ReferenceDate string `json:"referenceDate,omitempty" bson:"referenceDate,omitempty"`
}

// WithDefaults fills ReferenceDate from now when the caller left it empty.
func (r PlanRequest) WithDefaults(now time.Time) PlanRequest {
	if strings.TrimSpace(r.ReferenceDate) == "" {
		r.ReferenceDate = now.Format(DateLayout)
	}
	return r
}

const DateLayout = "2006-01-02"

type ScheduleBlock struct {
	Time      string   `json:"time,omitempty" bson:"time,omitempty"`
	Activity  string   `json:"activity" bson:"activity"`
	Category  Category `json:"category" bson:"category"`
	Icon      string   `json:"icon,omitempty" bson:"icon,omitempty"`
	Completed bool     `json:"completed" bson:"completed"`
}

type DayPlan struct {
	Day    string          `json:"day" bson:"day"`
	Date   string          `json:"date" bson:"date"`
	Blocks []ScheduleBlock `json:"blocks" bson:"blocks"`
}

// SchedulePlan is either a multi-day plan (Days) or a single full-day timeline (Blocks).
type SchedulePlan struct {
	Variant  Variant         `json:"variant" bson:"variant"`
	Days     []DayPlan       `json:"days,omitempty" bson:"days,omitempty"`
	Blocks   []ScheduleBlock `json:"blocks,omitempty" bson:"blocks,omitempty"`
	Strategy string          `json:"strategy,omitempty" bson:"strategy,omitempty"`
	Tips     []string        `json:"tips" bson:"tips"`
}

// BlockRef identifies a block by position. Day is always 0 for full-day plans.
type BlockRef struct {
	Day   int `json:"day"`
	Index int `json:"index"`
}

func (r BlockRef) String() string {
	return fmt.Sprintf("%d:%d", r.Day, r.Index)
}

// ParseBlockRef parses the "day:index" form produced by BlockRef.String.
func ParseBlockRef(s string) (BlockRef, error) {
	var ref BlockRef
	if _, err := fmt.Sscanf(strings.TrimSpace(s), "%d:%d", &ref.Day, &ref.Index); err != nil {
		return BlockRef{}, fmt.Errorf("invalid block reference %q: %w", s, err)
	}
	return ref, nil
}

// Block returns a pointer to the referenced block so callers can mutate it in place.
func (p *SchedulePlan) Block(ref BlockRef) (*ScheduleBlock, error) {
	if ref.Day < 0 || ref.Index < 0 {
		return nil, fmt.Errorf("block %s: %w", ref, ErrNotFound)
	}
	if p.Variant == VariantFullDay {
		if ref.Day != 0 || ref.Index >= len(p.Blocks) {
			return nil, fmt.Errorf("block %s: %w", ref, ErrNotFound)
		}
		return &p.Blocks[ref.Index], nil
	}
	if ref.Day >= len(p.Days) || ref.Index >= len(p.Days[ref.Day].Blocks) {
		return nil, fmt.Errorf("block %s: %w", ref, ErrNotFound)
	}
	return &p.Days[ref.Day].Blocks[ref.Index], nil
}

// Toggle flips the completion flag of exactly one block.
func (p *SchedulePlan) Toggle(ref BlockRef) error {
	block, err := p.Block(ref)
	if err != nil {
		return err
	}
	block.Completed = !block.Completed
	return nil
}

// Refs lists every block reference in plan order.
func (p *SchedulePlan) Refs() []BlockRef {
	var refs []BlockRef
	if p.Variant == VariantFullDay {
		for i := range p.Blocks {
			refs = append(refs, BlockRef{Index: i})
		}
		return refs
	}
	for d, day := range p.Days {
		for i := range day.Blocks {
			refs = append(refs, BlockRef{Day: d, Index: i})
		}
	}
	return refs
}

// Progress returns completed and total block counts.
func (p *SchedulePlan) Progress() (done, total int) {
	for _, ref := range p.Refs() {
		b, _ := p.Block(ref)
		total++
		if b.Completed {
			done++
		}
	}
	return done, total
}

// PlanRecord is the persisted form of a generated plan.
type PlanRecord struct {
	ID        string       `json:"id" bson:"_id"`
	OwnerID   string       `json:"ownerId,omitempty" bson:"ownerId,omitempty"`
	Request   PlanRequest  `json:"request" bson:"request"`
	Plan      SchedulePlan `json:"plan" bson:"plan"`
	CreatedAt time.Time    `json:"createdAt" bson:"createdAt"`
}

// Clone returns a deep copy so callers can mutate blocks without touching shared state.
func (r PlanRecord) Clone() PlanRecord {
	out := r
	out.Plan.Tips = cloneSlice(r.Plan.Tips)
	out.Plan.Blocks = cloneSlice(r.Plan.Blocks)
	out.Plan.Days = cloneSlice(r.Plan.Days)
	for i := range out.Plan.Days {
		out.Plan.Days[i].Blocks = cloneSlice(r.Plan.Days[i].Blocks)
	}
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
