package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tempo/internal/di"
	"tempo/internal/infrastructure/config"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"

	// Global flags
	apiURL string
	quiet  bool

	// Shared instances
	cfg       *config.Config
	container *di.Container
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tempo",
	Short: "Terminal task board with drag-and-drop scheduling",
	Long: `tempo is a terminal task board where tasks are scheduled by dragging
them between the task list and a multi-day calendar.

Features:
  - Mouse-driven drag and drop between list and calendar
  - Time-precision drops with configurable snapping
  - Subtask nesting with drag-to-reparent and drag-to-promote
  - Optimistic updates with automatic rollback and undo
  - Recurring task instances

Examples:
  # Launch interactive TUI
  tempo
  tempo tui

  # List tasks
  tempo task list

  # Schedule a task from the command line
  tempo task schedule 42 2026-09-01 14:30

  # Unschedule a task
  tempo task unschedule 42`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if apiURL != "" {
			os.Setenv("TEMPO_API_URL", apiURL)
		}

		var err error
		container, err = di.InitializeContainer()
		if err != nil {
			return fmt.Errorf("failed to initialize container: %w", err)
		}
		cfg = container.Config

		return nil
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiURL, "api-url", "a", "", "Backend API base URL (default: from config or TEMPO_API_URL)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")

	rootCmd.Flags().BoolP("version", "v", false, "Show version information")

	rootCmd.Run = func(cmd *cobra.Command, args []string) {
		showVersion, _ := cmd.Flags().GetBool("version")
		if showVersion {
			printVersion()
			return
		}

		// Default behavior: launch the TUI
		if len(args) == 0 {
			if err := tuiCmd.RunE(cmd, args); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		} else {
			cmd.Help()
		}
	}
}

// printVersion prints version information
func printVersion() {
	fmt.Printf("tempo version %s\n", Version)
	fmt.Printf("  Git commit: %s\n", GitCommit)
	fmt.Printf("  Built:      %s\n", BuildDate)
}

// getContext returns a context for command execution
func getContext() context.Context {
	return context.Background()
}
