// Package seed converts a markdown manuscript into ordered essay sections and
// loads them into the content store.
package seed

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/hyperjump/seidoku/internal/models"
	"github.com/hyperjump/seidoku/internal/storage"
)

var (
	slugStrip        = regexp.MustCompile(`[^a-z0-9]+`)
	enumeratorPrefix = regexp.MustCompile(`^[IVXLC]+\.\s+`)
)

// Slugify derives a URL slug from a section title. A leading roman-numeral
// enumerator ("IV. ") is dropped so slugs stay readable.
func Slugify(title string) string {
	s := enumeratorPrefix.ReplaceAllString(title, "")
	s = strings.ToLower(s)
	s = slugStrip.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}

// Parse splits a markdown manuscript into ordered sections at "## " headings.
// Prose before the first "## " heading becomes an intro section titled after
// the manuscript's "# " title when present. Heading lines themselves are not
// repeated inside section content. All sections are published.
func Parse(markdown string) []*models.Section {
	markdown = strings.ReplaceAll(markdown, "\r\n", "\n")
	lines := strings.Split(markdown, "\n")

	var sections []*models.Section
	var current *models.Section
	var body []string
	introTitle := "Introduction"

	flush := func() {
		if current == nil {
			content := strings.TrimSpace(strings.Join(body, "\n"))
			if content != "" {
				sections = append(sections, &models.Section{
					Slug:      "intro",
					Title:     introTitle,
					Content:   content,
					Published: true,
				})
			}
		} else {
			current.Content = strings.TrimSpace(strings.Join(body, "\n"))
			sections = append(sections, current)
		}
		body = nil
	}

	for _, line := range lines {
		if strings.HasPrefix(line, "## ") {
			flush()
			title := strings.TrimSpace(strings.TrimPrefix(line, "## "))
			current = &models.Section{Slug: Slugify(title), Title: title, Published: true}
			continue
		}
		if current == nil && strings.HasPrefix(line, "# ") && introTitle == "Introduction" {
			introTitle = strings.TrimSpace(strings.TrimPrefix(line, "# "))
		}
		body = append(body, line)
	}
	flush()

	for i, sec := range sections {
		sec.Order = i + 1
	}
	return sections
}

// Seeder parses manuscripts and replaces the stored sections.
type Seeder struct {
	store  storage.Storage
	logger *zap.Logger
}

// NewSeeder creates a seeder.
func NewSeeder(store storage.Storage, logger *zap.Logger) *Seeder {
	return &Seeder{store: store, logger: logger}
}

// SeedFile parses the manuscript at path and replaces all stored sections.
// Returns the number of sections written.
func (s *Seeder) SeedFile(ctx context.Context, path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("failed to read manuscript: %w", err)
	}
	sections := Parse(string(data))
	if len(sections) == 0 {
		return 0, fmt.Errorf("manuscript %s produced no sections", path)
	}
	if err := s.store.ReplaceSections(ctx, sections); err != nil {
		return 0, fmt.Errorf("failed to store sections: %w", err)
	}
	for _, sec := range sections {
		s.logger.Debug("seeded section",
			zap.Int("order", sec.Order),
			zap.String("slug", sec.Slug),
			zap.Int("chars", len(sec.Content)),
		)
	}
	return len(sections), nil
}
