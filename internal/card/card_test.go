package card

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardNSFWRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		wire string
		want int
	}{
		{"one", `{"id":1,"nsfw":1}`, 1},
		{"zero", `{"id":1,"nsfw":0}`, 0},
		{"missing", `{"id":1}`, 0},
		{"two", `{"id":1,"nsfw":2}`, 0},
		{"null", `{"id":1,"nsfw":null}`, 0},
		{"string", `{"id":1,"nsfw":"1"}`, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c Card
			require.NoError(t, json.Unmarshal([]byte(tt.wire), &c))

			out, err := json.Marshal(c)
			require.NoError(t, err)

			var wire map[string]any
			require.NoError(t, json.Unmarshal(out, &wire))
			assert.EqualValues(t, tt.want, wire["nsfw"])
		})
	}
}

func TestCardFromWireMapsEveryField(t *testing.T) {
	raw := `{
		"id": 42,
		"public_id": "abc123def456",
		"public_id_short": "abc123",
		"user_id": 7,
		"user_name": "alice",
		"user_name_view": "Alice",
		"name": "Seraphina",
		"short_description": "A guardian",
		"create_date": "2023-04-01 10:00:00",
		"status": 3,
		"nsfw": 1
	}`
	var c Card
	require.NoError(t, json.Unmarshal([]byte(raw), &c))

	assert.Equal(t, Card{
		ID:               42,
		PublicID:         "abc123def456",
		PublicIDShort:    "abc123",
		UserID:           7,
		UserName:         "alice",
		UserNameView:     "Alice",
		Name:             "Seraphina",
		ShortDescription: "A guardian",
		CreateDate:       "2023-04-01 10:00:00",
		Status:           3,
		NSFW:             true,
	}, c)

	out, err := json.Marshal(c)
	require.NoError(t, err)
	assert.JSONEq(t, raw, string(out))
}

func TestCardMissingKeysYieldZeroValues(t *testing.T) {
	var c Card
	require.NoError(t, json.Unmarshal([]byte(`{}`), &c))
	assert.Equal(t, Card{}, c)
}

func TestCardImageURL(t *testing.T) {
	c := Card{UserName: "alice", PublicIDShort: "abc123"}

	assert.Equal(t, "https://tavernai.net/alice/abc123.webp", c.ImageURL(""))
	assert.Equal(t, "http://127.0.0.1:8080/alice/abc123.webp", c.ImageURL("http://127.0.0.1:8080/"))
}
