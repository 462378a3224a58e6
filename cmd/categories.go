package cmd

import (
	"fmt"
	"strconv"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tavernkeep/internal/card"
	"github.com/arcanaland/tavernkeep/internal/catalog"
)

// categoriesCmd represents the categories command group
var categoriesCmd = &cobra.Command{
	Use:   "categories",
	Short: "Browse card categories",
}

var categoriesListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List every category",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		categories, err := client.FetchAllCategories(cmd.Context())
		if err != nil {
			return err
		}
		printCategories(categories)
		return nil
	},
}

var categoriesFindCmd = &cobra.Command{
	Use:   "find [name]",
	Short: "Look up a category by its exact name",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		category, err := client.FetchCategoryByName(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if category == nil {
			return fmt.Errorf("category not found: %s", args[0])
		}

		fmt.Println(colorize.CyanString("Name:    ") + colorize.HiWhiteString("%s", category.Name))
		fmt.Println(colorize.CyanString("Display: ") + colorize.HiWhiteString("%s", category.NameView))
		fmt.Println(colorize.CyanString("Cards:   ") + colorize.HiWhiteString("%d", category.Count))
		fmt.Println(colorize.CyanString("Listing: ") + category.ListingURL(client.BaseURL(), nsfwFilter(cmd)))
		return nil
	},
}

var categoriesRandomCmd = &cobra.Command{
	Use:   "random",
	Short: "Pick random categories with more than four cards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		amount, _ := cmd.Flags().GetInt("amount")

		client, err := newCatalogClient()
		if err != nil {
			return err
		}
		categories, err := client.FetchRandomCategories(cmd.Context(), amount)
		if err != nil {
			return err
		}
		printCategories(categories)
		return nil
	},
}

func printCategories(categories []card.Category) {
	if len(categories) == 0 {
		fmt.Println("No categories found.")
		return
	}

	rows := make([][]string, 0, len(categories))
	for _, c := range categories {
		rows = append(rows, []string{c.Name, c.NameView, strconv.Itoa(c.Count)})
	}
	fmt.Println(renderTable(categoryColumns, rows))
}

func init() {
	RootCmd.AddCommand(categoriesCmd)
	categoriesCmd.AddCommand(categoriesListCmd, categoriesFindCmd, categoriesRandomCmd)

	addNSFWFlags(categoriesFindCmd, "Show the listing URL without NSFW cards")
	categoriesRandomCmd.Flags().IntP("amount", "n", catalog.DefaultCategoryAmount, "Number of categories to pick")
}
