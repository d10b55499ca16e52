package glossary

import (
	"strings"
	"testing"

	"github.com/hyperjump/seidoku/internal/models"
)

func TestLoad(t *testing.T) {
	entries, claims, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(entries) == 0 {
		t.Fatal("no glossary entries")
	}
	if len(claims) == 0 {
		t.Fatal("no claims")
	}

	validCategories := map[models.GlossaryCategory]bool{
		models.GlossaryCategoryTechnical: true,
		models.GlossaryCategoryConcept:   true,
		models.GlossaryCategoryFramework: true,
		models.GlossaryCategoryData:      true,
	}
	for _, e := range entries {
		if e.Definition == "" {
			t.Errorf("term %q has no definition", e.Term)
		}
		if !validCategories[e.Category] {
			t.Errorf("term %q has unknown category %q", e.Term, e.Category)
		}
	}

	validClaimCategories := map[models.ClaimCategory]bool{
		models.ClaimCategoryStatistic:  true,
		models.ClaimCategoryHistorical: true,
		models.ClaimCategoryTechnical:  true,
		models.ClaimCategoryResearch:   true,
	}
	for _, c := range claims {
		if c.SearchQuery == "" {
			t.Errorf("claim %q has no search query", c.ID)
		}
		if !validClaimCategories[c.Category] {
			t.Errorf("claim %q has unknown category %q", c.ID, c.Category)
		}
	}
}

func TestLoad_TermsUniqueCaseInsensitive(t *testing.T) {
	entries, _, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	seen := make(map[string]bool)
	for _, e := range entries {
		key := strings.ToLower(e.Term)
		if seen[key] {
			t.Errorf("duplicate term %q", e.Term)
		}
		seen[key] = true
	}
}
