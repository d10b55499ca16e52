// Package search provides in-memory full-text search over essay sections.
package search

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/standard"

	"github.com/hyperjump/seidoku/internal/models"
)

// Index is a Bleve index over section titles and content. It is built once at
// server start from the seeded sections and kept entirely in memory; the
// essay is read-only, so there is no incremental update path.
type Index struct {
	index bleve.Index
}

// Result is one search hit.
type Result struct {
	Slug  string  `json:"slug"`
	Title string  `json:"title"`
	Score float64 `json:"score"`
}

type sectionDoc struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// NewIndex creates an empty in-memory index.
// Standard analyzer (lowercase + tokenize, no stemming) so exact words match.
func NewIndex() (*Index, error) {
	im := bleve.NewIndexMapping()
	docMapping := bleve.NewDocumentMapping()
	textFieldMapping := bleve.NewTextFieldMapping()
	textFieldMapping.Analyzer = standard.Name
	docMapping.AddFieldMappingsAt("title", textFieldMapping)
	docMapping.AddFieldMappingsAt("content", textFieldMapping)
	im.DefaultMapping = docMapping

	index, err := bleve.NewMemOnly(im)
	if err != nil {
		return nil, fmt.Errorf("failed to create search index: %w", err)
	}
	return &Index{index: index}, nil
}

// IndexSections indexes all sections, keyed by slug.
func (i *Index) IndexSections(sections []*models.Section) error {
	batch := i.index.NewBatch()
	for _, sec := range sections {
		if err := batch.Index(sec.Slug, sectionDoc{Title: sec.Title, Content: sec.Content}); err != nil {
			return fmt.Errorf("failed to index section %q: %w", sec.Slug, err)
		}
	}
	return i.index.Batch(batch)
}

// Search runs a match query over title and content and returns up to limit hits.
func (i *Index) Search(query string, limit int) ([]Result, error) {
	req := bleve.NewSearchRequest(bleve.NewMatchQuery(query))
	req.Size = limit
	req.Fields = []string{"title"}
	res, err := i.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("search failed: %w", err)
	}
	out := make([]Result, 0, len(res.Hits))
	for _, hit := range res.Hits {
		title, _ := hit.Fields["title"].(string)
		out = append(out, Result{Slug: hit.ID, Title: title, Score: hit.Score})
	}
	return out, nil
}

// Close releases the index.
func (i *Index) Close() error {
	return i.index.Close()
}
