package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/Nahnamehran/study-planner/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var watchCmd = &cobra.Command{
	Use:   "watch <plan.json>",
	Short: "Print a reminder whenever a study block ends unchecked",
	Args:  cobra.ExactArgs(1),
	RunE:  runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	record, err := loadRecord(args[0])
	if err != nil {
		return err
	}
	if record.Plan.Variant != models.VariantFullDay {
		fmt.Fprintln(cmd.ErrOrStderr(), "note: reminders only fire for full-day plans")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	out := cmd.OutOrStdout()
	poller := services.NewReminderPoller(&record.Plan, cfg.ReminderInterval, cfg.ReminderWindow, func(r models.Reminder) {
		fmt.Fprintf(out, "%s\n%s\n\n", r.Title, r.Body)
	}, logger)
	poller.Start(ctx)
	defer poller.Stop()

	logger.Info("watching plan", zap.String("file", args[0]), zap.Duration("interval", cfg.ReminderInterval))
	<-ctx.Done()
	return nil
}
