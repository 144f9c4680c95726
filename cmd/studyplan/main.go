package main

import (
	"fmt"
	"os"

	"github.com/Nahnamehran/study-planner/config"
	"github.com/Nahnamehran/study-planner/logging"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "studyplan",
	Short: "Generate AI study plans and work through them in the terminal",
	Long: `studyplan asks an AI provider (Groq or Gemini) for an exam study plan and
lets you tick it off as you go, with a reminder when a study block ends unchecked.

  studyplan generate --syllabus-file notes.txt --exam-date 2026-12-01 --available-time "3 hours" -o plan.json
  studyplan checklist plan.json
  studyplan watch plan.json`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		_ = godotenv.Load()

		var err error
		cfg, err = config.LoadFile(configPath)
		if err != nil {
			return err
		}

		level := "warn"
		if verbose {
			level = "debug"
		}
		logger, err = logging.New(cfg.Environment, level)
		if err != nil {
			return err
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", os.Getenv("STUDYPLAN_CONFIG"), "YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")

	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(checklistCmd)
	rootCmd.AddCommand(watchCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
