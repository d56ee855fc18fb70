package archive

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Frontmatter is the YAML header of an archived digest file.
type Frontmatter struct {
	Date       string   `yaml:"date"`
	Title      string   `yaml:"title"`
	Categories []string `yaml:"categories,omitempty"`
	PageURL    string   `yaml:"page_url,omitempty"`
}

// Entry is one digest to archive.
type Entry struct {
	Date       time.Time
	Title      string
	Categories []string
	PageURL    string
	Content    string
}

// Archive writes digests as markdown files under a local directory,
// one file per day, grouped by year.
type Archive struct {
	Dir string
}

// New creates an Archive rooted at dir.
func New(dir string) *Archive {
	return &Archive{Dir: dir}
}

// Write stores the entry and returns the file path. An existing file
// for the same day is overwritten.
func (a *Archive) Write(e Entry) (string, error) {
	fm := Frontmatter{
		Date:       e.Date.Format("2006-01-02"),
		Title:      e.Title,
		Categories: e.Categories,
		PageURL:    e.PageURL,
	}
	fmData, err := yaml.Marshal(fm)
	if err != nil {
		return "", fmt.Errorf("failed to marshal frontmatter: %w", err)
	}

	content := fmt.Sprintf("---\n%s---\n\n%s", string(fmData), e.Content)

	path := filepath.Join(a.Dir, e.Date.Format("2006"), e.Date.Format("2006-01-02")+".md")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create archive directory: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write archive file: %w", err)
	}
	return path, nil
}

// Read loads an archived digest file back into an Entry.
func (a *Archive) Read(path string) (*Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read archive file: %w", err)
	}

	text := string(data)
	if !strings.HasPrefix(text, "---\n") {
		return nil, fmt.Errorf("archive file %s has no frontmatter", path)
	}
	rest := text[len("---\n"):]
	fmEnd := strings.Index(rest, "---\n")
	if fmEnd < 0 {
		return nil, fmt.Errorf("archive file %s has unterminated frontmatter", path)
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(rest[:fmEnd]), &fm); err != nil {
		return nil, fmt.Errorf("failed to parse frontmatter: %w", err)
	}

	date, err := time.Parse("2006-01-02", fm.Date)
	if err != nil {
		return nil, fmt.Errorf("invalid date in frontmatter: %w", err)
	}

	return &Entry{
		Date:       date,
		Title:      fm.Title,
		Categories: fm.Categories,
		PageURL:    fm.PageURL,
		Content:    strings.TrimPrefix(rest[fmEnd+len("---\n"):], "\n"),
	}, nil
}
