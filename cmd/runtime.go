package cmd

import (
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/arcanaland/tavernkeep/internal/catalog"
	"github.com/arcanaland/tavernkeep/internal/library"
)

func httpClient() *http.Client {
	return &http.Client{Timeout: settings.Timeout()}
}

func newCatalogClient() (*catalog.Client, error) {
	return catalog.New(catalog.Config{
		BaseURL:    settings.BaseURL,
		HTTPClient: httpClient(),
		Logger:     logrus.StandardLogger(),
	})
}

func newMaterializer() *library.Materializer {
	return library.NewMaterializer(library.Config{
		BaseURL:    settings.BaseURL,
		HTTPClient: httpClient(),
		Logger:     logrus.StandardLogger(),
	})
}

// addNSFWFlags registers the mutually exclusive --sfw and --nsfw overrides
func addNSFWFlags(cmd *cobra.Command, sfwUsage string) {
	cmd.Flags().Bool("sfw", false, sfwUsage)
	cmd.Flags().Bool("nsfw", false, "Include cards flagged as NSFW regardless of the config")
	cmd.MarkFlagsMutuallyExclusive("sfw", "nsfw")
}

// nsfwFilter resolves --sfw and --nsfw against the configured default
func nsfwFilter(cmd *cobra.Command) bool {
	flags := cmd.Flags()
	if flags.Changed("sfw") {
		sfw, _ := flags.GetBool("sfw")
		return !sfw
	}
	if flags.Changed("nsfw") {
		nsfw, _ := flags.GetBool("nsfw")
		return nsfw
	}
	return settings.NSFW
}

// amountFlag returns --amount, falling back to the configured default
func amountFlag(cmd *cobra.Command) int {
	if cmd.Flags().Changed("amount") {
		amount, _ := cmd.Flags().GetInt("amount")
		return amount
	}
	return settings.Amount
}

// libraryDir returns --dir, falling back to the configured library
func libraryDir(cmd *cobra.Command) string {
	if dir, _ := cmd.Flags().GetString("dir"); dir != "" {
		return dir
	}
	return settings.LibraryDir
}
