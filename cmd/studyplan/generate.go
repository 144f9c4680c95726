package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Nahnamehran/study-planner/models"
	"github.com/Nahnamehran/study-planner/services"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	genVariant       string
	genSyllabus      string
	genSyllabusFile  string
	genExamDate      string
	genAvailableTime string
	genWakeTime      string
	genBedTime       string
	genToday         string
	genOwner         string
	genOutput        string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a study plan and write it as JSON",
	Args:  cobra.NoArgs,
	RunE:  runGenerate,
}

func init() {
	generateCmd.Flags().StringVar(&genVariant, "variant", "multi-day", "Plan shape: multi-day or full-day")
	generateCmd.Flags().StringVar(&genSyllabus, "syllabus", "", "Syllabus text")
	generateCmd.Flags().StringVar(&genSyllabusFile, "syllabus-file", "", "Read the syllabus from a file (- for stdin)")
	generateCmd.Flags().StringVar(&genExamDate, "exam-date", "", "Exam date, YYYY-MM-DD")
	generateCmd.Flags().StringVar(&genAvailableTime, "available-time", "", "Study time available per day, free text")
	generateCmd.Flags().StringVar(&genWakeTime, "wake", "", "Wake time HH:MM (full-day)")
	generateCmd.Flags().StringVar(&genBedTime, "bed", "", "Bed time HH:MM (full-day)")
	generateCmd.Flags().StringVar(&genToday, "today", "", "Date the plan starts from, YYYY-MM-DD (default today)")
	generateCmd.Flags().StringVar(&genOwner, "user", "", "Owner id stored with the plan")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Output file (default stdout)")
}

func runGenerate(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(cmd.Context(), cfg.AITimeout)
	defer cancel()

	variant, err := models.ParseVariant(genVariant)
	if err != nil {
		return err
	}
	syllabus, err := readSyllabus()
	if err != nil {
		return err
	}

	completer, err := services.NewCompleter(ctx, cfg, logger)
	if err != nil {
		// Generate reports this as a configuration error
		logger.Debug("no ai provider", zap.Error(err))
	}
	store, closeStore, err := services.OpenStore(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	planner := services.NewPlannerService(completer, store, nil, services.GenerationParamsFrom(cfg), logger)
	record, err := planner.Generate(ctx, genOwner, "", models.PlanRequest{
		Syllabus:      syllabus,
		ExamDate:      genExamDate,
		AvailableTime: genAvailableTime,
		WakeTime:      genWakeTime,
		BedTime:       genBedTime,
		ReferenceDate: genToday,
	}, variant)
	if err != nil {
		if record == nil || !errors.Is(err, models.ErrPersistence) {
			if hint := models.Hint(err); hint != "" {
				return fmt.Errorf("%w\n%s", err, hint)
			}
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
	}

	if genOutput == "" {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	}
	if err := saveRecord(genOutput, record); err != nil {
		return err
	}
	done, total := record.Plan.Progress()
	fmt.Fprintf(cmd.ErrOrStderr(), "wrote %s (%d/%d activities done)\n", genOutput, done, total)
	return nil
}

func readSyllabus() (string, error) {
	if genSyllabusFile == "" {
		return genSyllabus, nil
	}
	var (
		data []byte
		err  error
	)
	if genSyllabusFile == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(genSyllabusFile)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read syllabus: %w", err)
	}
	return strings.TrimSpace(string(data)), nil
}
