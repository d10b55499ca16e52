package models

// GlossaryCategory classifies a glossary entry for rendering.
type GlossaryCategory string

const (
	GlossaryCategoryTechnical GlossaryCategory = "technical"
	GlossaryCategoryConcept   GlossaryCategory = "concept"
	GlossaryCategoryFramework GlossaryCategory = "framework"
	GlossaryCategoryData      GlossaryCategory = "data"
)

// GlossaryEntry is a term with its inline definition.
type GlossaryEntry struct {
	Term       string           `yaml:"term" json:"term"`
	Definition string           `yaml:"definition" json:"definition"`
	Category   GlossaryCategory `yaml:"category" json:"category"`
}

// ClaimCategory classifies a verifiable claim.
type ClaimCategory string

const (
	ClaimCategoryStatistic  ClaimCategory = "statistic"
	ClaimCategoryResearch   ClaimCategory = "research"
	ClaimCategoryHistorical ClaimCategory = "historical"
	ClaimCategoryTechnical  ClaimCategory = "technical"
)

// VerifiableClaim is a factual statement in the essay that readers can ask for
// evidence on. TextMatch locates it in the prose; SearchQuery is sent to the
// evidence backend.
type VerifiableClaim struct {
	ID          string        `yaml:"id" json:"id"`
	TextMatch   string        `yaml:"text_match" json:"textMatch"`
	SearchQuery string        `yaml:"search_query" json:"searchQuery"`
	Category    ClaimCategory `yaml:"category" json:"category"`
	Section     string        `yaml:"section" json:"section"`
}

// SegmentKind tags a segment of annotated prose.
type SegmentKind string

const (
	SegmentText  SegmentKind = "text"
	SegmentTerm  SegmentKind = "term"
	SegmentClaim SegmentKind = "claim"
)

// Segment is one piece of annotated prose. Value always carries the exact
// source text, so concatenating segments reproduces the original. Start and
// End are byte offsets into the source.
type Segment struct {
	Kind  SegmentKind      `json:"kind"`
	Value string           `json:"value"`
	Term  string           `json:"term,omitempty"`
	Claim *VerifiableClaim `json:"claim,omitempty"`
	Start int              `json:"start"`
	End   int              `json:"end"`
}
