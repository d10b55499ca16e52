package search

import (
	"testing"

	"github.com/hyperjump/seidoku/internal/models"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	idx, err := NewIndex()
	if err != nil {
		t.Fatalf("NewIndex: %v", err)
	}
	t.Cleanup(func() { _ = idx.Close() })

	sections := []*models.Section{
		{Slug: "skills", Title: "The Skills You Need", Content: "PIAAC shows literacy and numeracy declining."},
		{Slug: "belief-ledger", Title: "Who Controls the Belief Ledger", Content: "The Council of Nicaea enforced orthodoxy."},
	}
	if err := idx.IndexSections(sections); err != nil {
		t.Fatalf("IndexSections: %v", err)
	}
	return idx
}

func TestSearch_MatchesContent(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search("literacy", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Slug != "skills" || results[0].Title != "The Skills You Need" {
		t.Errorf("got %+v", results[0])
	}
	if results[0].Score <= 0 {
		t.Errorf("score=%f", results[0].Score)
	}
}

func TestSearch_MatchesTitle(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search("ledger", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 1 || results[0].Slug != "belief-ledger" {
		t.Errorf("got %v", results)
	}
}

func TestSearch_NoMatch(t *testing.T) {
	idx := newTestIndex(t)
	results, err := idx.Search("quantum", 10)
	if err != nil {
		t.Fatalf("Search: %v", err)
	}
	if len(results) != 0 {
		t.Errorf("got %v, want none", results)
	}
}
