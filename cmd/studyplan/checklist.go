package main

import (
	"fmt"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/Nahnamehran/study-planner/tui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var checklistCmd = &cobra.Command{
	Use:   "checklist <plan.json>",
	Short: "Tick off a plan interactively; changes are saved back to the file",
	Args:  cobra.ExactArgs(1),
	RunE:  runChecklist,
}

func runChecklist(cmd *cobra.Command, args []string) error {
	path := args[0]
	record, err := loadRecord(path)
	if err != nil {
		return err
	}

	save := func(plan *models.SchedulePlan) error {
		record.Plan = *plan
		return saveRecord(path, record)
	}
	model := tui.NewChecklistModel(&record.Plan, cfg.ReminderInterval, cfg.ReminderWindow, save)

	p := tea.NewProgram(model, tea.WithContext(cmd.Context()))
	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("checklist failed: %w", err)
	}
	if m, ok := final.(tui.ChecklistModel); ok {
		done, total := m.Plan().Progress()
		fmt.Fprintf(cmd.OutOrStdout(), "%d/%d activities done\n", done, total)
	}
	return nil
}
