// Package library manages the local directory of materialized characters:
// downloading a card into it and reading entries back.
package library

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/arcanaland/tavernkeep/internal/card"
	"github.com/arcanaland/tavernkeep/internal/portrait"
)

// Entry represents one materialized character in a library directory
type Entry struct {
	Stem string // File name without extension
	Dir  string

	Name             string
	Persona          string
	ShortDescription string
	Scenario         string
	Greeting         string
	ExampleDialogue  string
}

// fill copies the schema fields of a character object into the entry.
// Non-string values are kept as their JSON text.
func (e *Entry) fill(obj map[string]json.RawMessage) {
	text := func(key string) string {
		raw, ok := obj[key]
		if !ok {
			return ""
		}
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return string(raw)
		}
		return s
	}
	e.Name = text(portrait.KeyCharName)
	e.Persona = text(portrait.KeyCharPersona)
	e.ShortDescription = text(portrait.KeyShortDescription)
	e.Scenario = text(portrait.KeyWorldScenario)
	e.Greeting = text(portrait.KeyCharGreeting)
	e.ExampleDialogue = text(portrait.KeyExampleDialogue)
}

// JSONPath returns the path of the character metadata file.
func (e Entry) JSONPath() string {
	return filepath.Join(e.Dir, e.Stem+".json")
}

// PNGPath returns the path of the converted portrait.
func (e Entry) PNGPath() string {
	return filepath.Join(e.Dir, e.Stem+".png")
}

// LoadEntry loads a materialized character from dir
func LoadEntry(dir, stem string) (*Entry, error) {
	entry := &Entry{Stem: stem, Dir: dir}

	data, err := os.ReadFile(entry.JSONPath())
	if err != nil {
		return nil, fmt.Errorf("error reading character %s: %w", stem, err)
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, fmt.Errorf("error parsing %s.json: %w", stem, err)
	}
	entry.fill(obj)

	if _, err := os.Stat(entry.PNGPath()); err != nil {
		return nil, fmt.Errorf("portrait not found for %s: %w", stem, err)
	}

	return entry, nil
}

// ListEntries returns every loadable character in dir, sorted by stem.
// Files that do not form a complete entry are skipped.
func ListEntries(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var entries []Entry
	for _, f := range files {
		if f.IsDir() || filepath.Ext(f.Name()) != ".json" {
			continue
		}
		e, err := LoadEntry(dir, strings.TrimSuffix(f.Name(), ".json"))
		if err != nil {
			// Incomplete materialization, reported by the validator
			continue
		}
		entries = append(entries, *e)
	}

	sort.Slice(entries, func(i, j int) bool { return entries[i].Stem < entries[j].Stem })
	return entries, nil
}

// Stem returns a filesystem-safe file name for the card.
func Stem(c card.Card) string {
	if s := sanitize(c.Name); s != "" {
		return s
	}
	if s := sanitize(c.PublicIDShort); s != "" {
		return s
	}
	return "card-" + strconv.Itoa(c.ID)
}

func sanitize(name string) string {
	name = norm.NFC.String(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20 || r == 0x7f:
			b.WriteRune('_')
		case strings.ContainsRune(`/\<>:"|?*`, r):
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), ". ")
}

// MissingSchemaKeys parses a character file and lists the schema keys it lacks.
func MissingSchemaKeys(data []byte) ([]string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil, err
	}
	if obj == nil {
		return nil, errors.New("character file is not a JSON object")
	}
	var missing []string
	for _, key := range portrait.SchemaKeys {
		if _, ok := obj[key]; !ok {
			missing = append(missing, key)
		}
	}
	return missing, nil
}
