package cmd

import (
	"fmt"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tavernkeep/internal/config"
	"github.com/arcanaland/tavernkeep/internal/library"
)

// libraryCmd represents the library command group
var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage downloaded characters",
	Long:  `Commands for managing the local library of downloaded characters.`,
}

// libraryListCmd represents the library ls command
var libraryListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List characters in your library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := libraryDir(cmd)

		if _, err := os.Stat(dir); os.IsNotExist(err) {
			fmt.Printf("Library at %s does not exist.\n", dir)
			fmt.Println("Run 'tavernkeep library init' to create it.")
			return nil
		}

		entries, err := library.ListEntries(dir)
		if err != nil {
			return fmt.Errorf("error reading library: %w", err)
		}

		if len(entries) == 0 {
			fmt.Println("No characters found in your library.")
			fmt.Println("Download one with 'tavernkeep download <query>'.")
			return nil
		}

		rows := make([][]string, 0, len(entries))
		for _, e := range entries {
			rows = append(rows, []string{e.Stem, e.Name, truncate(e.ShortDescription, 100)})
		}
		fmt.Println(renderTable(entryColumns, rows))
		return nil
	},
}

// libraryInitCmd represents the library init command
var libraryInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize the library",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := libraryDir(cmd)

		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("error creating library: %w", err)
		}

		fmt.Println("Library initialized at:", dir)
		fmt.Println("Config file:", config.GetConfigFilePath())
		return nil
	},
}

// librarySetDirCmd represents the library set-dir command
var librarySetDirCmd = &cobra.Command{
	Use:   "set-dir [path]",
	Short: "Set the default library directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.SetLibraryDir(args[0]); err != nil {
			return fmt.Errorf("error setting library directory: %w", err)
		}

		cfg, err := config.LoadConfig()
		if err != nil {
			return err
		}
		fmt.Println(colorize.CyanString("Library directory set to: ") + cfg.LibraryDir)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(libraryCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(libraryInitCmd)
	libraryCmd.AddCommand(librarySetDirCmd)

	for _, c := range []*cobra.Command{libraryListCmd, libraryInitCmd} {
		c.Flags().StringP("dir", "d", "", "Library directory (defaults to the configured one)")
	}
}
