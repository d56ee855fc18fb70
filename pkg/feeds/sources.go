package feeds

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Source is one configured content source.
type Source struct {
	Name     string `yaml:"name"`
	URL      string `yaml:"url"`
	Category string `yaml:"category"`
}

type sourcesFile struct {
	Sources []Source `yaml:"sources"`
}

// LoadSources reads the YAML source list. Each source gets a
// normalized category; sources without a URL are rejected.
func LoadSources(path string) ([]Source, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read sources file: %w", err)
	}

	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse sources file: %w", err)
	}

	for i, src := range file.Sources {
		if strings.TrimSpace(src.URL) == "" {
			return nil, fmt.Errorf("source %q has no url", src.Name)
		}
		file.Sources[i].Category = NormalizeCategory(src.Category)
		if strings.TrimSpace(src.Name) == "" {
			file.Sources[i].Name = src.URL
		}
	}
	return file.Sources, nil
}

// NormalizeCategory trims and title-cases a category label; empty
// labels fall back to "General".
func NormalizeCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return "General"
	}
	runes := []rune(category)
	return strings.ToUpper(string(runes[0])) + string(runes[1:])
}
