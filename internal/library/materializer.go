package library

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/arcanaland/tavernkeep/internal/card"
	"github.com/arcanaland/tavernkeep/internal/portrait"
)

const defaultHTTPTimeout = 60 * time.Second

// Config describes the materializer configuration.
type Config struct {
	BaseURL    string
	HTTPClient *http.Client
	Logger     logrus.FieldLogger
}

// Materializer downloads cards and writes them into a library directory.
type Materializer struct {
	baseURL string
	http    *http.Client
	log     logrus.FieldLogger
	remove  func(string) error
}

// NewMaterializer creates a Materializer from the supplied configuration.
func NewMaterializer(cfg Config) *Materializer {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Materializer{
		baseURL: strings.TrimSpace(cfg.BaseURL),
		http:    client,
		log:     logger.WithField("component", "materializer"),
		remove:  os.Remove,
	}
}

// Download fetches the card's portrait, extracts its embedded character
// payload and writes <stem>.json and <stem>.png into destDir. The fetched
// <stem>.webp is removed once both files are written.
//
// Writes are not transactional: on error, files already written stay in
// destDir for the caller to clean up.
func (m *Materializer) Download(ctx context.Context, c card.Card, destDir string) (*Entry, error) {
	if strings.TrimSpace(destDir) == "" {
		return nil, fmt.Errorf("%w: destination directory is required", card.ErrInvalidArgument)
	}
	entry := &Entry{Stem: Stem(c), Dir: destDir}
	log := m.log.WithFields(logrus.Fields{"card": c.PublicIDShort, "path": destDir, "stem": entry.Stem})

	data, err := m.fetch(ctx, c.ImageURL(m.baseURL))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(destDir, 0755); err != nil {
		return nil, fmt.Errorf("error creating %s: %w", destDir, err)
	}
	webpPath := filepath.Join(destDir, entry.Stem+".webp")
	if err := os.WriteFile(webpPath, data, 0644); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", webpPath, err)
	}

	tags, err := portrait.ReadTags(data)
	if err != nil {
		return nil, err
	}
	tag, value, err := portrait.Lookup(tags)
	if err != nil {
		return nil, err
	}
	payload, err := portrait.DecodePayload(value)
	if err != nil {
		return nil, fmt.Errorf("tag %s: %w", tag, err)
	}
	if err := portrait.Remap(payload); err != nil {
		return nil, fmt.Errorf("tag %s: %w", tag, err)
	}

	encoded, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("error encoding %s.json: %w", entry.Stem, err)
	}
	if err := os.WriteFile(entry.JSONPath(), encoded, 0644); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", entry.JSONPath(), err)
	}
	entry.fill(payload)

	var converted bytes.Buffer
	if err := portrait.ConvertPNG(data, &converted); err != nil {
		return nil, err
	}
	if err := os.WriteFile(entry.PNGPath(), converted.Bytes(), 0644); err != nil {
		return nil, fmt.Errorf("error writing %s: %w", entry.PNGPath(), err)
	}

	if err := m.remove(webpPath); err != nil {
		log.WithError(err).Warn("could not remove downloaded webp")
	}
	log.WithField("tag", tag).Info("character materialized")
	return entry, nil
}

func (m *Materializer) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: build request: %w", card.ErrInvalidArgument, err)
	}

	start := time.Now()
	resp, err := m.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", card.ErrTransport, url, err)
	}
	defer resp.Body.Close()

	m.log.WithFields(logrus.Fields{
		"url":      url,
		"status":   resp.StatusCode,
		"duration": time.Since(start).Round(time.Millisecond),
	}).Debug("portrait request complete")

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: GET %s failed (%s)", card.ErrTransport, url, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", card.ErrTransport, url, err)
	}
	return data, nil
}
