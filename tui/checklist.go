// Package tui renders a study plan as an interactive terminal checklist.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/Nahnamehran/study-planner/services"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// maxShownReminders bounds the notification box.
const maxShownReminders = 3

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Toggle key.Binding
	Quit   key.Binding
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Toggle, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}

var defaultKeys = keyMap{
	Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Toggle: key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle")),
	Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
}

// reminderTickMsg drives the reminder check.
type reminderTickMsg time.Time

// SaveFunc persists the plan after each toggle.
type SaveFunc func(*models.SchedulePlan) error

// ChecklistModel is the bubbletea model for one plan.
type ChecklistModel struct {
	plan     *models.SchedulePlan
	refs     []models.BlockRef
	cursor   int
	notified map[models.BlockRef]bool
	shown    []models.Reminder

	interval time.Duration
	window   time.Duration
	now      func() time.Time
	save     SaveFunc

	keys     keyMap
	help     help.Model
	err      error
	quitting bool
}

// NewChecklistModel takes ownership of plan. save may be nil.
func NewChecklistModel(plan *models.SchedulePlan, interval, window time.Duration, save SaveFunc) ChecklistModel {
	if interval <= 0 {
		interval = time.Minute
	}
	return ChecklistModel{
		plan:     plan,
		refs:     plan.Refs(),
		notified: make(map[models.BlockRef]bool),
		interval: interval,
		window:   window,
		now:      time.Now,
		save:     save,
		keys:     defaultKeys,
		help:     help.New(),
	}
}

// WithClock replaces the wall clock used for reminders.
func (m ChecklistModel) WithClock(now func() time.Time) ChecklistModel {
	m.now = now
	return m
}

func (m ChecklistModel) Plan() *models.SchedulePlan { return m.plan }
func (m ChecklistModel) Cursor() int { return m.cursor }
func (m ChecklistModel) Reminders() []models.Reminder { return m.shown }
func (m ChecklistModel) Quitting() bool { return m.quitting }
func (m ChecklistModel) Notified(ref models.BlockRef) bool { return m.notified[ref] }

func (m ChecklistModel) tick() tea.Cmd {
	return tea.Tick(m.interval, func(t time.Time) tea.Msg { return reminderTickMsg(t) })
}

// Init implements tea.Model.
func (m ChecklistModel) Init() tea.Cmd {
	return m.tick()
}

// Update implements tea.Model.
func (m ChecklistModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case reminderTickMsg:
		if m.quitting {
			return m, nil
		}
		m = m.checkReminders()
		return m, m.tick()

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Up):
			if m.cursor > 0 {
				m.cursor--
			}
		case key.Matches(msg, m.keys.Down):
			if m.cursor < len(m.refs)-1 {
				m.cursor++
			}
		case key.Matches(msg, m.keys.Toggle):
			if m.cursor < len(m.refs) {
				m = m.toggle(m.refs[m.cursor])
			}
		}
	}
	return m, nil
}

func (m ChecklistModel) toggle(ref models.BlockRef) ChecklistModel {
	if err := m.plan.Toggle(ref); err != nil {
		m.err = err
		return m
	}
	m.err = nil
	if m.save != nil {
		if err := m.save(m.plan); err != nil {
			m.err = fmt.Errorf("failed to save plan: %w", err)
		}
	}
	return m
}

func (m ChecklistModel) checkReminders() ChecklistModel {
	for _, ref := range services.DueReminders(m.plan, m.now(), m.notified, m.window) {
		m.notified[ref] = true
		r, err := services.ReminderFor(m.plan, ref)
		if err != nil {
			continue
		}
		m.shown = append(m.shown, r)
	}
	if len(m.shown) > maxShownReminders {
		m.shown = m.shown[len(m.shown)-maxShownReminders:]
	}
	return m
}

// View implements tea.Model.
func (m ChecklistModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	done, total := m.plan.Progress()
	b.WriteString(TitleStyle.Render(fmt.Sprintf("Study plan  %d/%d done", done, total)))
	b.WriteString("\n")

	if total == 0 {
		b.WriteString(SubtleStyle.Render("This plan has no activities."))
		b.WriteString("\n")
	}

	lastDay := -1
	for i, ref := range m.refs {
		block, err := m.plan.Block(ref)
		if err != nil {
			continue
		}
		if m.plan.Variant == models.VariantMultiDay && ref.Day != lastDay {
			day := m.plan.Days[ref.Day]
			b.WriteString("\n" + DayStyle.Render(strings.TrimSpace(day.Day+" "+day.Date)) + "\n")
			lastDay = ref.Day
		}
		b.WriteString(m.renderBlock(i == m.cursor, block))
		b.WriteString("\n")
	}

	if m.plan.Strategy != "" {
		b.WriteString("\n" + SubtleStyle.Render("Strategy: "+m.plan.Strategy) + "\n")
	}
	for _, tip := range m.plan.Tips {
		b.WriteString(SubtleStyle.Render("• "+tip) + "\n")
	}

	if len(m.shown) > 0 {
		lines := make([]string, 0, len(m.shown))
		for _, r := range m.shown {
			lines = append(lines, r.Title+"\n"+r.Body)
		}
		b.WriteString("\n" + ReminderStyle.Render(strings.Join(lines, "\n\n")) + "\n")
	}
	if m.err != nil {
		b.WriteString("\n" + ErrorStyle.Render(m.err.Error()) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m ChecklistModel) renderBlock(selected bool, block *models.ScheduleBlock) string {
	pointer := "  "
	if selected {
		pointer = CursorStyle.Render("> ")
	}
	box := "[ ]"
	if block.Completed {
		box = "[x]"
	}

	label := block.Activity
	if block.Icon != "" {
		label = block.Icon + " " + label
	}
	if block.Time != "" {
		label = block.Time + "  " + label
	}

	style := CategoryStyle(block.Category, m.plan.Variant)
	if block.Completed {
		style = DoneStyle
	}
	return pointer + box + " " + style.Render(label) + SubtleStyle.Render("  "+string(block.Category))
}
