package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arcanaland/tavernkeep/internal/card"
)

type roundTripFunc func(*http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(r *http.Request) (*http.Response, error) { return f(r) }

func newTestClient(t *testing.T, handler http.HandlerFunc) (*Client, *atomic.Int32) {
	t.Helper()
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		handler(w, r)
	}))
	t.Cleanup(server.Close)

	logger, _ := logtest.NewNullLogger()
	client, err := New(Config{BaseURL: server.URL, Logger: logger})
	require.NoError(t, err)
	return client, &calls
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func wireCards(n int) []map[string]any {
	cards := make([]map[string]any, n)
	for i := range cards {
		cards[i] = map[string]any{
			"id":              i + 1,
			"public_id":       fmt.Sprintf("public-%02d", i+1),
			"public_id_short": fmt.Sprintf("p%02d", i+1),
			"user_name":       "alice",
			"name":            fmt.Sprintf("Card %02d", i+1),
			"nsfw":            i % 2,
		}
	}
	return cards
}

func TestFetchRecentTruncatesInOrder(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/$recent/characters", r.URL.Path)
		assert.Equal(t, "nsfw=on", r.URL.RawQuery)
		writeJSON(w, wireCards(50))
	})

	cards, err := client.FetchRecent(context.Background(), 30, true)
	require.NoError(t, err)
	require.Len(t, cards, 30)
	for i, c := range cards {
		assert.Equal(t, i+1, c.ID)
	}
	assert.False(t, cards[0].NSFW)
	assert.True(t, cards[1].NSFW)
}

func TestFetchRandomUsesRandomPseudoCategory(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/$random/characters", r.URL.Path)
		assert.Equal(t, "nsfw=off", r.URL.RawQuery)
		writeJSON(w, wireCards(3))
	})

	cards, err := client.FetchRandom(context.Background(), 30, false)
	require.NoError(t, err)
	assert.Len(t, cards, 3)
}

func TestFetchByCategoryRejectsEmptyNameBeforeNetwork(t *testing.T) {
	var calls atomic.Int32
	logger, _ := logtest.NewNullLogger()
	client, err := New(Config{
		BaseURL: "http://catalog.invalid",
		Logger:  logger,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			calls.Add(1)
			return nil, errors.New("unexpected request")
		})},
	})
	require.NoError(t, err)

	_, err = client.FetchByCategory(context.Background(), "", DefaultAmount, true, 1)
	require.ErrorIs(t, err, card.ErrInvalidArgument)

	_, err = client.FetchByCategory(context.Background(), "fantasy", DefaultAmount, true, 0)
	require.ErrorIs(t, err, card.ErrInvalidArgument)

	assert.Zero(t, calls.Load())
}

func TestFetchByCategoryReadsResults(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/sci%20fi%2Fspace/characters", r.URL.EscapedPath())
		assert.Equal(t, "nsfw=on&page=2", r.URL.RawQuery)
		writeJSON(w, map[string]any{"results": wireCards(10)})
	})

	cards, err := client.FetchByCategory(context.Background(), "sci fi/space", 4, true, 2)
	require.NoError(t, err)
	require.Len(t, cards, 4)
	assert.Equal(t, "Card 04", cards[3].Name)
}

func TestFetchByCategoryPassesBlankNameThrough(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories/%20/characters", r.URL.EscapedPath())
		writeJSON(w, map[string]any{"results": wireCards(1)})
	})

	cards, err := client.FetchByCategory(context.Background(), " ", DefaultAmount, true, 1)
	require.NoError(t, err)
	assert.Len(t, cards, 1)
}

func TestFetchByCategoryMissingResultsIsProtocolError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"items": wireCards(2)})
	})

	_, err := client.FetchByCategory(context.Background(), "fantasy", DefaultAmount, true, 1)
	require.ErrorIs(t, err, card.ErrProtocol)
}

func TestFetchAllCategoriesSortsByName(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/categories", r.URL.Path)
		writeJSON(w, []map[string]any{
			{"id": 1, "name": "western", "name_view": "Western", "count": 3},
			{"id": 2, "name": "anime", "name_view": "Anime", "count": 40},
			{"id": 3, "name": "horror", "name_view": "Horror", "count": 9},
			{"id": 4, "name": "Zombies", "name_view": "Zombies", "count": 1},
		})
	})

	categories, err := client.FetchAllCategories(context.Background())
	require.NoError(t, err)

	names := make([]string, 0, len(categories))
	for _, c := range categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Zombies", "anime", "horror", "western"}, names)
}

func TestFetchCategoryByNameRequiresExactMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/characters", r.URL.Path)
		assert.Equal(t, "q=Fantasy", r.URL.RawQuery)
		writeJSON(w, map[string]any{
			"categories": []map[string]any{
				{"id": 1, "name": "fantasy", "name_view": "fantasy", "count": 3},
				{"id": 2, "name": "Fantasy", "name_view": "Fantasy", "count": 8},
				{"id": 3, "name": "Fantasy", "name_view": "Fantasy duplicate", "count": 1},
			},
		})
	})

	cat, err := client.FetchCategoryByName(context.Background(), "Fantasy")
	require.NoError(t, err)
	require.NotNil(t, cat)
	assert.Equal(t, 2, cat.ID)
}

func TestFetchCategoryByNameNoMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{
			"categories": []map[string]any{{"id": 1, "name": "fantasy", "count": 3}},
		})
	})

	cat, err := client.FetchCategoryByName(context.Background(), "fant")
	require.NoError(t, err)
	assert.Nil(t, cat)
}

func TestFetchQueryReturnsEveryMatch(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "nsfw=off&q=knight%20%26%20squire", r.URL.RawQuery)
		writeJSON(w, map[string]any{"characters": wireCards(75)})
	})

	cards, err := client.FetchQuery(context.Background(), "knight & squire", false)
	require.NoError(t, err)
	assert.Len(t, cards, 75)
}

func TestFetchQueryEmptyResultIsEmptySlice(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]any{"characters": []any{}, "categories": []any{}})
	})

	cards, err := client.FetchQuery(context.Background(), "nobody", true)
	require.NoError(t, err)
	require.NotNil(t, cards)
	assert.Empty(t, cards)
}

func TestNonJSONResponseIsProtocolError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	})

	_, err := client.FetchRecent(context.Background(), DefaultAmount, true)
	require.ErrorIs(t, err, card.ErrProtocol)
}

func TestErrorStatusIsTransportError(t *testing.T) {
	client, calls := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusBadGateway)
	})

	_, err := client.FetchAllCategories(context.Background())
	require.ErrorIs(t, err, card.ErrTransport)
	assert.Contains(t, err.Error(), "502")
	assert.EqualValues(t, 1, calls.Load(), "failures must not be retried")
}

func TestNetworkFailureIsTransportError(t *testing.T) {
	logger, _ := logtest.NewNullLogger()
	client, err := New(Config{
		BaseURL: "http://catalog.invalid",
		Logger:  logger,
		HTTPClient: &http.Client{Transport: roundTripFunc(func(*http.Request) (*http.Response, error) {
			return nil, errors.New("connection refused")
		})},
	})
	require.NoError(t, err)

	_, err = client.FetchQuery(context.Background(), "x", true)
	require.ErrorIs(t, err, card.ErrTransport)
}

func categoryCatalog(counts ...int) []map[string]any {
	out := make([]map[string]any, len(counts))
	for i, n := range counts {
		out[i] = map[string]any{"id": i + 1, "name": fmt.Sprintf("cat-%02d", i+1), "count": n}
	}
	return out
}

func TestFetchRandomCategoriesSamplesQualifyingCategories(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, categoryCatalog(10, 1, 7, 5, 0, 20))
	}))
	defer server.Close()

	draws := []int{1, 0, 4, 2, 0, 5}
	next := 0
	logger, _ := logtest.NewNullLogger()
	client, err := New(Config{
		BaseURL: server.URL,
		Logger:  logger,
		Intn: func(n int) int {
			require.Equal(t, 6, n)
			v := draws[next]
			next++
			return v
		},
	})
	require.NoError(t, err)

	picked, err := client.FetchRandomCategories(context.Background(), 4)
	require.NoError(t, err)

	names := make([]string, 0, len(picked))
	for _, c := range picked {
		assert.Greater(t, c.Count, 4)
		names = append(names, c.Name)
	}
	// Draws land on the sorted catalog; repeats are kept.
	assert.Equal(t, []string{"cat-01", "cat-03", "cat-01", "cat-06"}, names)
	assert.Equal(t, len(draws), next)
}

func TestFetchRandomCategoriesExhaustedPool(t *testing.T) {
	var draws atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, categoryCatalog(9, 1, 12, 2, 30, 0))
	}))
	defer server.Close()

	logger, _ := logtest.NewNullLogger()
	client, err := New(Config{
		BaseURL: server.URL,
		Logger:  logger,
		Intn: func(n int) int {
			draws.Add(1)
			return 0
		},
	})
	require.NoError(t, err)

	_, err = client.FetchRandomCategories(context.Background(), 5)
	require.ErrorIs(t, err, card.ErrExhaustedPool)
	assert.Zero(t, draws.Load())
}

func TestFetchRandomCategoriesBoundsDraws(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, categoryCatalog(9, 1))
	}))
	defer server.Close()

	var draws int
	logger, _ := logtest.NewNullLogger()
	client, err := New(Config{
		BaseURL:           server.URL,
		Logger:            logger,
		MaxSampleAttempts: 25,
		Intn: func(n int) int {
			draws++
			return 1 // always the unqualified category
		},
	})
	require.NoError(t, err)

	_, err = client.FetchRandomCategories(context.Background(), 1)
	require.ErrorIs(t, err, card.ErrExhaustedPool)
	assert.Equal(t, 25, draws)
}

func TestRequestsAreLoggedAtDebug(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, []any{})
	}))
	defer server.Close()

	logger, hook := logtest.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	client, err := New(Config{BaseURL: server.URL, Logger: logger})
	require.NoError(t, err)

	_, err = client.FetchRecent(context.Background(), DefaultAmount, true)
	require.NoError(t, err)

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.DebugLevel, entry.Level)
	assert.Equal(t, "catalog", entry.Data["component"])
	assert.Equal(t, http.StatusOK, entry.Data["status"])
}

func TestNewRejectsRelativeBaseURL(t *testing.T) {
	_, err := New(Config{BaseURL: "tavernai.net"})
	require.ErrorIs(t, err, card.ErrInvalidArgument)
}
