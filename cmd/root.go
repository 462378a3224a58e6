package cmd

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tavernkeep/internal/config"
)

var (
	verbose     bool
	baseURLFlag string

	// settings is loaded before any subcommand runs
	settings *config.Config
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "tavernkeep",
	Short: "Browse and download character cards",
	Long: `Tavernkeep is a command-line client for a character card directory.
It lists and searches cards and categories, and downloads a card's portrait
together with the character definition embedded in it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		if baseURLFlag != "" {
			cfg.BaseURL = baseURLFlag
		}

		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("invalid log_level %q: %w", cfg.LogLevel, err)
		}
		if verbose {
			level = logrus.DebugLevel
		}
		logrus.SetLevel(level)

		settings = cfg
		return nil
	},
}

func init() {
	logrus.SetOutput(os.Stderr)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})

	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	RootCmd.PersistentFlags().StringVar(&baseURLFlag, "base-url", "", "Override the directory service root")

	RootCmd.AddCommand(validateCmd)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}
