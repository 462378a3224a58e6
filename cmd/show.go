package cmd

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/arcanaland/tavernkeep/internal/library"
	"github.com/arcanaland/tavernkeep/internal/render"
)

const portraitWidth = 32

var showCmd = &cobra.Command{
	Use:   "show [name]",
	Short: "Display a downloaded character with its portrait",
	Long: `Show displays a character from your library next to an ANSI rendering
of its portrait. The name is the file name without extension, as listed by
'tavernkeep library ls'.

Examples:
  tavernkeep show Seraphina
  tavernkeep show --dir ./characters Seraphina`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := libraryDir(cmd)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return fmt.Errorf("library directory not found: %s", dir)
		}

		entry, err := library.LoadEntry(dir, args[0])
		if err != nil {
			return err
		}
		return displayEntry(entry)
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().StringP("dir", "d", "", "Library directory to read from")
}

func displayEntry(entry *library.Entry) error {
	file, err := os.Open(entry.PNGPath())
	if err != nil {
		return fmt.Errorf("failed to open portrait: %w", err)
	}
	defer file.Close()

	img, _, err := image.Decode(file)
	if err != nil {
		return fmt.Errorf("failed to decode portrait: %w", err)
	}

	trueColor := term.IsTerminal(int(os.Stdout.Fd())) && !colorize.NoColor
	art := render.ImageToANSI(img, portraitWidth, render.FitHeight(img, portraitWidth), trueColor)
	displayCharacter(entry, art)
	return nil
}

// displayCharacter prints the portrait on the left and the character on the right
func displayCharacter(entry *library.Entry, ansiArt string) {
	ansiLines := strings.Split(strings.TrimSuffix(ansiArt, "\n"), "\n")
	maxAnsiWidth := 0
	for _, line := range ansiLines {
		if w := render.VisibleWidth(line); w > maxAnsiWidth {
			maxAnsiWidth = w
		}
	}

	width, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || width <= 0 {
		width = 80
	}

	spacing := 4
	infoStartCol := maxAnsiWidth + spacing
	infoWidth := width - infoStartCol - 2
	if infoWidth < 20 {
		infoWidth = 20
	}

	var infoLines []string
	infoLines = append(infoLines, colorize.CyanString("Name: ")+colorize.HiWhiteString("%s", entry.Name))
	infoLines = append(infoLines, colorize.CyanString("File: ")+colorize.HiWhiteString("%s", entry.Stem))

	sections := []struct {
		title string
		body  string
	}{
		{"Summary:", entry.ShortDescription},
		{"Persona:", entry.Persona},
		{"Scenario:", entry.Scenario},
		{"Greeting:", entry.Greeting},
	}
	for _, s := range sections {
		if strings.TrimSpace(s.body) == "" {
			continue
		}
		infoLines = append(infoLines, "", colorize.CyanString(s.title))
		infoLines = append(infoLines, render.WrapText(s.body, infoWidth)...)
	}

	fmt.Println()
	maxLines := max(len(ansiLines), len(infoLines))
	for i := 0; i < maxLines; i++ {
		fmt.Print("  ")
		if i < len(ansiLines) {
			fmt.Print(ansiLines[i])
			visibleWidth := render.VisibleWidth(ansiLines[i])
			fmt.Print(strings.Repeat(" ", infoStartCol-visibleWidth))
		} else {
			fmt.Print(strings.Repeat(" ", infoStartCol))
		}

		if i < len(infoLines) {
			fmt.Print(infoLines[i])
		}
		fmt.Println()
	}
	fmt.Println()
}
