package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParamsEncode(t *testing.T) {
	tests := []struct {
		name   string
		params Params
		want   string
	}{
		{"empty", Params{}, ""},
		{"nsfw on", Params{NSFW: boolPtr(true)}, "?nsfw=on"},
		{"nsfw off with page", Params{NSFW: boolPtr(false), Page: 3}, "?nsfw=off&page=3"},
		{"query only", Params{Query: stringPtr("a/b c")}, "?q=a%2Fb%20c"},
		{"empty query kept", Params{Query: stringPtr("")}, "?q="},
		{"all", Params{NSFW: boolPtr(true), Page: 1, Query: stringPtr("x?y")}, "?nsfw=on&page=1&q=x%3Fy"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.params.Encode())
		})
	}
}
