package validator

import (
	"fmt"
	"image"
	_ "image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arcanaland/tavernkeep/internal/library"
)

type ValidationResults struct {
	Errors   []string
	Warnings []string
}

type Validator struct {
	LibraryPath string
	Results     ValidationResults
}

func NewValidator(libraryPath string) *Validator {
	return &Validator{
		LibraryPath: libraryPath,
		Results:     ValidationResults{},
	}
}

func (v *Validator) Validate() (ValidationResults, error) {
	stems, err := v.collectStems()
	if err != nil {
		return v.Results, err
	}

	if len(stems) == 0 {
		v.Results.Warnings = append(v.Results.Warnings, "no characters found in library")
		return v.Results, nil
	}

	names := make([]string, 0, len(stems))
	for stem := range stems {
		names = append(names, stem)
	}
	sort.Strings(names)

	for _, stem := range names {
		exts := stems[stem]
		v.validateCharacter(stem, exts)
		v.validatePortrait(stem, exts)
		v.validateLeftovers(stem, exts)
	}

	return v.Results, nil
}

// collectStems groups library files by name, recording which extensions exist
func (v *Validator) collectStems() (map[string]map[string]bool, error) {
	entries, err := os.ReadDir(v.LibraryPath)
	if err != nil {
		return nil, fmt.Errorf("error reading library: %w", err)
	}

	stems := make(map[string]map[string]bool)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		switch ext {
		case ".json", ".png", ".webp":
		default:
			continue
		}
		stem := strings.TrimSuffix(entry.Name(), ext)
		if stems[stem] == nil {
			stems[stem] = make(map[string]bool)
		}
		stems[stem][ext] = true
	}
	return stems, nil
}

// validateCharacter checks the character file carries the full schema
func (v *Validator) validateCharacter(stem string, exts map[string]bool) {
	if !exts[".json"] {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("%s: character file %s.json not found", stem, stem))
		return
	}

	data, err := os.ReadFile(filepath.Join(v.LibraryPath, stem+".json"))
	if err != nil {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("%s: error reading %s.json: %v", stem, stem, err))
		return
	}

	missing, err := library.MissingSchemaKeys(data)
	if err != nil {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("%s: error parsing %s.json: %v", stem, stem, err))
		return
	}
	if len(missing) > 0 {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("%s: missing keys in %s.json: %s", stem, stem, strings.Join(missing, ", ")))
	}
}

// validatePortrait checks the converted portrait exists and decodes
func (v *Validator) validatePortrait(stem string, exts map[string]bool) {
	if !exts[".png"] {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("%s: portrait %s.png not found", stem, stem))
		return
	}

	file, err := os.Open(filepath.Join(v.LibraryPath, stem+".png"))
	if err != nil {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("%s: error opening %s.png: %v", stem, stem, err))
		return
	}
	defer file.Close()

	if _, format, err := image.DecodeConfig(file); err != nil || format != "png" {
		v.Results.Errors = append(v.Results.Errors,
			fmt.Sprintf("%s: %s.png is not a valid PNG image", stem, stem))
	}
}

// validateLeftovers warns about downloads that never finished
func (v *Validator) validateLeftovers(stem string, exts map[string]bool) {
	if exts[".webp"] {
		v.Results.Warnings = append(v.Results.Warnings,
			fmt.Sprintf("%s: leftover %s.webp, download may not have completed", stem, stem))
	}
}
