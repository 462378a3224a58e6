package catalog

import (
	"strconv"
	"strings"

	"github.com/arcanaland/tavernkeep/internal/urlenc"
)

// Params holds the optional query parameters understood by the service.
// Unset fields are omitted. Encode writes them in declaration order.
type Params struct {
	NSFW  *bool
	Page  int
	Query *string
}

// Encode serializes the parameters as a query string including the leading
// '?'. It returns an empty string when no parameter is set.
func (p Params) Encode() string {
	parts := make([]string, 0, 3)
	if p.NSFW != nil {
		parts = append(parts, "nsfw="+urlenc.Toggle(*p.NSFW))
	}
	if p.Page > 0 {
		parts = append(parts, "page="+strconv.Itoa(p.Page))
	}
	if p.Query != nil {
		parts = append(parts, "q="+urlenc.Component(*p.Query))
	}
	if len(parts) == 0 {
		return ""
	}
	return "?" + strings.Join(parts, "&")
}

func boolPtr(v bool) *bool { return &v }

func stringPtr(v string) *string { return &v }
