package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tavernkeep/internal/card"
)

// downloadCmd represents the download command
var downloadCmd = &cobra.Command{
	Use:   "download [query]",
	Short: "Download a character card into the library",
	Long: `Download searches the directory for the query, selects one result and
writes its character definition (<name>.json) and portrait (<name>.png)
into the library directory.

Select the result with --index (1-based position in 'cards search' output)
or --id (the card's short public ID).

Examples:
  tavernkeep download seraphina
  tavernkeep download knight --index 3
  tavernkeep download knight --id 7f3a2c --dir ./characters --preview`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		index, _ := cmd.Flags().GetInt("index")
		id, _ := cmd.Flags().GetString("id")
		preview, _ := cmd.Flags().GetBool("preview")

		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		cards, err := client.FetchQuery(cmd.Context(), args[0], nsfwFilter(cmd))
		if err != nil {
			return err
		}

		selected, err := selectCard(cards, index, id)
		if err != nil {
			return err
		}

		dir := libraryDir(cmd)
		entry, err := newMaterializer().Download(cmd.Context(), selected, dir)
		if err != nil {
			return fmt.Errorf("error downloading %s: %w", selected.Name, err)
		}

		fmt.Printf("✅ Downloaded '%s' by %s\n", entry.Name, selected.UserNameView)
		fmt.Println(colorize.CyanString("Character: ") + entry.JSONPath())
		fmt.Println(colorize.CyanString("Portrait:  ") + entry.PNGPath())

		if preview {
			return displayEntry(entry)
		}
		return nil
	},
}

// selectCard picks a search result by short ID or by 1-based position
func selectCard(cards []card.Card, index int, id string) (card.Card, error) {
	if len(cards) == 0 {
		return card.Card{}, fmt.Errorf("no cards matched the query")
	}

	if id != "" {
		for _, c := range cards {
			if c.PublicIDShort == id || c.PublicID == id {
				return c, nil
			}
		}
		return card.Card{}, fmt.Errorf("no result with id %s", id)
	}

	if index < 1 || index > len(cards) {
		return card.Card{}, fmt.Errorf("%w: index %d out of range (1-%d)", card.ErrInvalidArgument, index, len(cards))
	}
	return cards[index-1], nil
}

func init() {
	RootCmd.AddCommand(downloadCmd)

	downloadCmd.Flags().IntP("index", "i", 1, "Position of the card in the search results")
	downloadCmd.Flags().String("id", "", "Short public ID of the card to download")
	downloadCmd.Flags().StringP("dir", "d", "", "Destination directory (defaults to the library)")
	addNSFWFlags(downloadCmd, "Exclude cards flagged as NSFW from the search")
	downloadCmd.Flags().Bool("preview", false, "Show the downloaded character")
}
