// Package glossary holds the essay's static annotation data: glossary entries
// and pre-registered verifiable claims. Both are embedded and parsed once at
// startup; the data is read-only afterwards.
package glossary

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/hyperjump/seidoku/internal/models"
)

//go:embed data/glossary.yaml
var glossaryData []byte

//go:embed data/claims.yaml
var claimsData []byte

// Load parses the embedded glossary and claims lists. Terms must be unique
// case-insensitively and claim ids must be unique; duplicates are an error so
// a bad data edit fails at startup, not at render time.
func Load() ([]models.GlossaryEntry, []models.VerifiableClaim, error) {
	var entries []models.GlossaryEntry
	if err := yaml.Unmarshal(glossaryData, &entries); err != nil {
		return nil, nil, fmt.Errorf("failed to parse glossary data: %w", err)
	}
	seenTerms := make(map[string]bool, len(entries))
	for _, e := range entries {
		key := strings.ToLower(e.Term)
		if e.Term == "" {
			return nil, nil, fmt.Errorf("glossary entry with empty term")
		}
		if seenTerms[key] {
			return nil, nil, fmt.Errorf("duplicate glossary term %q", e.Term)
		}
		seenTerms[key] = true
	}

	var claims []models.VerifiableClaim
	if err := yaml.Unmarshal(claimsData, &claims); err != nil {
		return nil, nil, fmt.Errorf("failed to parse claims data: %w", err)
	}
	seenIDs := make(map[string]bool, len(claims))
	for _, c := range claims {
		if c.ID == "" || c.TextMatch == "" {
			return nil, nil, fmt.Errorf("claim with empty id or text match")
		}
		if seenIDs[c.ID] {
			return nil, nil, fmt.Errorf("duplicate claim id %q", c.ID)
		}
		seenIDs[c.ID] = true
	}

	return entries, claims, nil
}
