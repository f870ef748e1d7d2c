package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/gwview/dataviewer/dataviewer"
	"github.com/gwview/dataviewer/utils/logging"
	"github.com/gwview/dataviewer/utils/mainctx"
)

var (
	nonInteractiveFlag bool
	logLevelFlag       = "info"
)

var rootCmd = &cobra.Command{
	Use:   "dataviewer <config file>",
	Short: "Run a monitor defined in an INI configuration file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return run(args[0])
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the registered monitor types and data sources",
	RunE: func(cmd *cobra.Command, args []string) error {
		dataviewer.List(os.Stdout)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate <config file>",
	Short: "Validate a configuration file without running it",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		result := dataviewer.ValidateConfigFile(args[0])
		for _, warning := range result.Warnings {
			fmt.Printf("warning: %s\n", warning)
		}
		for _, errMsg := range result.Errors {
			fmt.Printf("error: %s\n", errMsg)
		}
		if !result.IsValid() {
			return fmt.Errorf("configuration is not valid")
		}
		fmt.Println("configuration is valid")
		return nil
	},
}

var exportDirFlag string

var exportCmd = &cobra.Command{
	Use:   "export <session> <destination>",
	Short: "Copy a recorded session directory to another location",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return dataviewer.ExportSession(exportDirFlag, args[0], args[1])
	},
}

func init() {
	rootCmd.Flags().BoolVarP(&nonInteractiveFlag, "non-interactive", "n", false, "run without the terminal display")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "info", "log level (debug, info, warn, error)")
	exportCmd.Flags().StringVar(&exportDirFlag, "dir", "sessions", "directory holding recorded sessions")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// buildMonitor is swapped out in tests.
var buildMonitor = dataviewer.FromConfigFile

func run(configPath string) error {
	logging.ConfigureSlog(logLevelFlag)

	monitor, err := buildMonitor(configPath)
	if err != nil {
		return err
	}

	ctx := mainctx.Get()

	var outcome dataviewer.RunOutcome
	if nonInteractiveFlag {
		outcome = monitor.RunNonInteractive(ctx)
	} else {
		outcome = monitor.RunInteractive(ctx)
	}

	switch outcome.Kind {
	case dataviewer.OutcomeInterrupted:
		monitor.Logger().Debug("Keyboard interrupt, exiting")
		return nil
	case dataviewer.OutcomeFailed:
		return outcome.Err
	default:
		return nil
	}
}
