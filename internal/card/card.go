package card

import (
	"encoding/json"
	"fmt"
	"strings"
)

// DefaultRoot is the service root used when no override is configured.
const DefaultRoot = "https://tavernai.net"

// Card represents one character card listed by the directory service
type Card struct {
	ID               int
	PublicID         string
	PublicIDShort    string // Prefix of PublicID, used for the portrait URL
	UserID           int
	UserName         string // URL-safe author handle
	UserNameView     string // Author handle for display
	Name             string
	ShortDescription string
	CreateDate       string
	Status           int
	NSFW             bool
}

// wireCard mirrors the JSON object served by the API.
type wireCard struct {
	ID               int    `json:"id"`
	PublicID         string `json:"public_id"`
	PublicIDShort    string `json:"public_id_short"`
	UserID           int    `json:"user_id"`
	UserName         string `json:"user_name"`
	UserNameView     string `json:"user_name_view"`
	Name             string `json:"name"`
	ShortDescription string `json:"short_description"`
	CreateDate       string `json:"create_date"`
	Status           int    `json:"status"`
	NSFW             any    `json:"nsfw"`
}

// UnmarshalJSON builds a Card from its wire form. Missing keys leave zero
// values. The nsfw flag is true only when the upstream value equals 1.
func (c *Card) UnmarshalJSON(data []byte) error {
	var w wireCard
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Card{
		ID:               w.ID,
		PublicID:         w.PublicID,
		PublicIDShort:    w.PublicIDShort,
		UserID:           w.UserID,
		UserName:         w.UserName,
		UserNameView:     w.UserNameView,
		Name:             w.Name,
		ShortDescription: w.ShortDescription,
		CreateDate:       w.CreateDate,
		Status:           w.Status,
		NSFW:             isOne(w.NSFW),
	}
	return nil
}

// MarshalJSON writes the wire form, with nsfw as 1 or 0.
func (c Card) MarshalJSON() ([]byte, error) {
	nsfw := 0
	if c.NSFW {
		nsfw = 1
	}
	return json.Marshal(wireCard{
		ID:               c.ID,
		PublicID:         c.PublicID,
		PublicIDShort:    c.PublicIDShort,
		UserID:           c.UserID,
		UserName:         c.UserName,
		UserNameView:     c.UserNameView,
		Name:             c.Name,
		ShortDescription: c.ShortDescription,
		CreateDate:       c.CreateDate,
		Status:           c.Status,
		NSFW:             nsfw,
	})
}

// ImageURL returns the location of the card's portrait under root.
// An empty root selects DefaultRoot.
func (c Card) ImageURL(root string) string {
	return fmt.Sprintf("%s/%s/%s.webp", normalizeRoot(root), c.UserName, c.PublicIDShort)
}

func isOne(v any) bool {
	switch n := v.(type) {
	case float64:
		return n == 1
	case bool:
		return n
	default:
		return false
	}
}

func normalizeRoot(root string) string {
	root = strings.TrimSpace(root)
	if root == "" {
		root = DefaultRoot
	}
	return strings.TrimRight(root, "/")
}
