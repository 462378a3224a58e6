package card

import (
	"fmt"

	"github.com/arcanaland/tavernkeep/internal/urlenc"
)

// Category is a named grouping of cards
type Category struct {
	ID       int    `json:"id"`
	Name     string `json:"name"` // URL path segment
	NameView string `json:"name_view"`
	Count    int    `json:"count"` // Number of member cards
}

// ListingURL returns the listing endpoint for the category's cards.
func (c Category) ListingURL(root string, includeNSFW bool) string {
	return fmt.Sprintf("%s/api/categories/%s/characters?nsfw=%s",
		normalizeRoot(root), urlenc.Component(c.Name), urlenc.Toggle(includeNSFW))
}
