package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryWireEcho(t *testing.T) {
	raw := `{"id":3,"name":"fantasy","name_view":"Fantasy","count":12}`

	var c Category
	require.NoError(t, json.Unmarshal([]byte(raw), &c))
	assert.Equal(t, Category{ID: 3, Name: "fantasy", NameView: "Fantasy", Count: 12}, c)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestCategoryListingURL(t *testing.T) {
	c := Category{Name: "sci fi/space"}

	assert.Equal(t,
		"https://tavernai.net/api/categories/sci%20fi%2Fspace/characters?nsfw=on",
		c.ListingURL("", true))
	assert.Equal(t,
		"http://localhost/api/categories/sci%20fi%2Fspace/characters?nsfw=off",
		c.ListingURL("http://localhost", false))
}
