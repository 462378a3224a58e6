// Package catalog talks to the character directory service: listings,
// searches, categories and random sampling.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/rand/v2"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arcanaland/tavernkeep/internal/card"
	"github.com/arcanaland/tavernkeep/internal/urlenc"
)

const (
	// DefaultAmount is the listing cap used when callers have no preference.
	DefaultAmount = 30
	// DefaultCategoryAmount is the default sample size for random categories.
	DefaultCategoryAmount = 5

	defaultHTTPTimeout     = 30 * time.Second
	defaultAttemptsPerDraw = 1000

	// minSampleCount is the member count a category must exceed to be sampled.
	minSampleCount = 4

	unbounded = -1
)

// Config describes the catalog client configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
	// Intn returns a uniform integer in [0, n). Defaults to math/rand/v2.
	Intn func(n int) int
	// MaxSampleAttempts bounds the draws FetchRandomCategories may make.
	// Zero selects 1000 draws per requested category.
	MaxSampleAttempts int
}

// Client wraps the directory service REST API.
type Client struct {
	baseURL     string
	http        *http.Client
	log         logrus.FieldLogger
	intn        func(n int) int
	maxAttempts int
}

// New creates a Client from the supplied configuration.
func New(cfg Config) (*Client, error) {
	base := strings.TrimSpace(cfg.BaseURL)
	if base == "" {
		base = card.DefaultRoot
	}
	parsed, err := url.Parse(base)
	if err != nil {
		return nil, fmt.Errorf("catalog: parse base url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("%w: catalog: base url %q must be absolute", card.ErrInvalidArgument, base)
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	intn := cfg.Intn
	if intn == nil {
		intn = rand.IntN
	}
	return &Client{
		baseURL:     strings.TrimRight(base, "/"),
		http:        client,
		log:         logger.WithField("component", "catalog"),
		intn:        intn,
		maxAttempts: cfg.MaxSampleAttempts,
	}, nil
}

// BaseURL reports the service root the client talks to.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// FetchRecent lists the most recent cards, capped at amount.
func (c *Client) FetchRecent(ctx context.Context, amount int, nsfw bool) ([]card.Card, error) {
	return c.fetchPseudoCategory(ctx, "$recent", amount, nsfw)
}

// FetchRandom lists a server-chosen random selection of cards, capped at amount.
func (c *Client) FetchRandom(ctx context.Context, amount int, nsfw bool) ([]card.Card, error) {
	return c.fetchPseudoCategory(ctx, "$random", amount, nsfw)
}

func (c *Client) fetchPseudoCategory(ctx context.Context, name string, amount int, nsfw bool) ([]card.Card, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative, got %d", card.ErrInvalidArgument, amount)
	}
	// The pseudo-category marker is part of the route, not user input.
	endpoint := c.baseURL + "/api/categories/" + name + "/characters" + Params{NSFW: boolPtr(nsfw)}.Encode()

	var entries []json.RawMessage
	if err := c.getJSON(ctx, endpoint, &entries); err != nil {
		return nil, err
	}
	return limit(entries, amount)
}

// FetchByCategory lists one page of cards from the named category, capped at amount.
func (c *Client) FetchByCategory(ctx context.Context, category string, amount int, nsfw bool, page int) ([]card.Card, error) {
	if category == "" {
		return nil, fmt.Errorf("%w: category is required", card.ErrInvalidArgument)
	}
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative, got %d", card.ErrInvalidArgument, amount)
	}
	if page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1, got %d", card.ErrInvalidArgument, page)
	}
	endpoint := c.baseURL + "/api/categories/" + urlenc.Component(category) + "/characters" +
		Params{NSFW: boolPtr(nsfw), Page: page}.Encode()

	var payload struct {
		Results *[]json.RawMessage `json:"results"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Results == nil {
		return nil, fmt.Errorf("%w: category listing has no results field", card.ErrProtocol)
	}
	return limit(*payload.Results, amount)
}

// FetchAllCategories lists every category, sorted ascending by name.
func (c *Client) FetchAllCategories(ctx context.Context) ([]card.Category, error) {
	var categories []card.Category
	if err := c.getJSON(ctx, c.baseURL+"/api/categories", &categories); err != nil {
		return nil, err
	}
	if categories == nil {
		categories = []card.Category{}
	}
	slices.SortStableFunc(categories, func(a, b card.Category) int {
		return strings.Compare(a.Name, b.Name)
	})
	return categories, nil
}

// FetchCategoryByName searches for a category and returns the one whose name
// matches exactly. It returns nil when the search yields no exact match.
func (c *Client) FetchCategoryByName(ctx context.Context, name string) (*card.Category, error) {
	endpoint := c.baseURL + "/api/characters" + Params{Query: stringPtr(name)}.Encode()

	var payload struct {
		Categories *[]card.Category `json:"categories"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Categories == nil {
		return nil, fmt.Errorf("%w: search response has no categories field", card.ErrProtocol)
	}
	// The search is fuzzy; only an exact match counts.
	for _, cat := range *payload.Categories {
		if cat.Name == name {
			found := cat
			return &found, nil
		}
	}
	return nil, nil
}

// FetchQuery runs a full-text search and returns every matching card.
func (c *Client) FetchQuery(ctx context.Context, query string, nsfw bool) ([]card.Card, error) {
	endpoint := c.baseURL + "/api/characters" + Params{NSFW: boolPtr(nsfw), Query: stringPtr(query)}.Encode()

	var payload struct {
		Characters *[]json.RawMessage `json:"characters"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	if payload.Characters == nil {
		return nil, fmt.Errorf("%w: search response has no characters field", card.ErrProtocol)
	}
	return limit(*payload.Characters, unbounded)
}

// FetchRandomCategories draws categories uniformly at random, with
// replacement, keeping those with more than four member cards until amount
// have been collected. It fails with card.ErrExhaustedPool when the catalog
// cannot satisfy the request or the draw budget runs out.
func (c *Client) FetchRandomCategories(ctx context.Context, amount int) ([]card.Category, error) {
	if amount < 0 {
		return nil, fmt.Errorf("%w: amount must not be negative, got %d", card.ErrInvalidArgument, amount)
	}
	all, err := c.FetchAllCategories(ctx)
	if err != nil {
		return nil, err
	}

	eligible := 0
	for _, cat := range all {
		if cat.Count > minSampleCount {
			eligible++
		}
	}
	if eligible < amount {
		return nil, fmt.Errorf("%w: %d of %d categories have more than %d cards, %d requested",
			card.ErrExhaustedPool, eligible, len(all), minSampleCount, amount)
	}

	maxAttempts := c.maxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultAttemptsPerDraw * amount
	}

	picked := make([]card.Category, 0, amount)
	for attempt := 0; len(picked) < amount; attempt++ {
		if attempt >= maxAttempts {
			return nil, fmt.Errorf("%w: collected %d of %d categories after %d draws",
				card.ErrExhaustedPool, len(picked), amount, attempt)
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cat := all[c.intn(len(all))]
		if cat.Count > minSampleCount {
			picked = append(picked, cat)
		}
	}
	c.log.WithField("amount", amount).Debug("sampled random categories")
	return picked, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("%w: build request: %w", card.ErrInvalidArgument, err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: GET %s: %w", card.ErrTransport, endpoint, err)
	}
	defer resp.Body.Close()

	entry := c.log.WithFields(logrus.Fields{
		"url":      endpoint,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	})
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		entry.Debug("request failed")
		return fmt.Errorf("%w: GET %s failed (%s): %s",
			card.ErrTransport, endpoint, resp.Status, strings.TrimSpace(string(body)))
	}
	entry.Debug("request complete")

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read %s: %w", card.ErrTransport, endpoint, err)
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: decode %s: %w", card.ErrProtocol, endpoint, err)
	}
	return nil
}

// limit decodes entries in order until amount cards are collected. The
// unbounded sentinel decodes every entry.
func limit(entries []json.RawMessage, amount int) ([]card.Card, error) {
	n := len(entries)
	if amount != unbounded && amount < n {
		n = amount
	}
	cards := make([]card.Card, 0, n)
	for _, raw := range entries[:n] {
		var c card.Card
		if err := json.Unmarshal(raw, &c); err != nil {
			return nil, fmt.Errorf("%w: decode card: %w", card.ErrProtocol, err)
		}
		cards = append(cards, c)
	}
	return cards, nil
}
