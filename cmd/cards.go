package cmd

import (
	"fmt"
	"strconv"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tavernkeep/internal/card"
	"github.com/arcanaland/tavernkeep/internal/catalog"
)

// cardsCmd represents the cards command group
var cardsCmd = &cobra.Command{
	Use:   "cards",
	Short: "List and search character cards",
}

var cardsRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "List the most recently published cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		cards, err := client.FetchRecent(cmd.Context(), amountFlag(cmd), nsfwFilter(cmd))
		if err != nil {
			return err
		}
		printCards(cards)
		return nil
	},
}

var cardsRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "List a random selection of cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		cards, err := client.FetchRandom(cmd.Context(), amountFlag(cmd), nsfwFilter(cmd))
		if err != nil {
			return err
		}
		printCards(cards)
		return nil
	},
}

var cardsCategoryCmd = &cobra.Command{
	Use:   "category [name]",
	Short: "List cards in a category",
	Long: `List one page of cards from a category. Use 'tavernkeep categories ls'
to see the available category names.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		page, _ := cmd.Flags().GetInt("page")

		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		cards, err := client.FetchByCategory(cmd.Context(), args[0], amountFlag(cmd), nsfwFilter(cmd), page)
		if err != nil {
			return err
		}
		printCards(cards)
		return nil
	},
}

var cardsSearchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Search cards by text",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		cards, err := client.FetchQuery(cmd.Context(), args[0], nsfwFilter(cmd))
		if err != nil {
			return err
		}
		printCards(cards)
		return nil
	},
}

func printCards(cards []card.Card) {
	if len(cards) == 0 {
		fmt.Println("No cards found.")
		return
	}

	rows := make([][]string, 0, len(cards))
	for i, c := range cards {
		nsfw := ""
		if c.NSFW {
			nsfw = colorize.RedString("nsfw")
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			c.PublicIDShort,
			c.Name,
			c.UserNameView,
			nsfw,
			truncate(c.ShortDescription, 120),
		})
	}
	fmt.Println(renderTable(cardColumns, rows))
}

// truncate shortens s to at most n runes on a single line
func truncate(s string, n int) string {
	s = strings.Join(strings.Fields(s), " ")
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-1]) + "…"
}

func init() {
	RootCmd.AddCommand(cardsCmd)
	cardsCmd.AddCommand(cardsRecentCmd, cardsRandomCmd, cardsCategoryCmd, cardsSearchCmd)

	for _, c := range []*cobra.Command{cardsRecentCmd, cardsRandomCmd, cardsCategoryCmd} {
		c.Flags().IntP("amount", "n", catalog.DefaultAmount, "Maximum number of cards to list")
	}
	for _, c := range []*cobra.Command{cardsRecentCmd, cardsRandomCmd, cardsCategoryCmd, cardsSearchCmd} {
		addNSFWFlags(c, "Exclude cards flagged as NSFW")
	}
	cardsCategoryCmd.Flags().IntP("page", "p", 1, "Page of the category listing")
}
