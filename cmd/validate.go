package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/arcanaland/tavernkeep/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate a character library directory",
	Long: `Validate checks that every character in a library directory has a
complete character file and a readable portrait, and points out downloads
that did not finish. Without a path the configured library is checked.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		libraryPath := settings.LibraryDir
		if len(args) == 1 {
			libraryPath = args[0]
		}

		// Check if path exists
		if _, err := os.Stat(libraryPath); os.IsNotExist(err) {
			return fmt.Errorf("library directory not found: %s", libraryPath)
		}

		// Create validator and run validation
		v := validator.NewValidator(libraryPath)
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("✅ Library '%s' is valid.\n", libraryPath)
		} else {
			fmt.Printf("❌ Library '%s' has %d validation errors:\n", libraryPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
			return fmt.Errorf("validation failed")
		}

		if len(results.Warnings) > 0 {
			fmt.Println("\nWarnings:")
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		return nil
	},
}
