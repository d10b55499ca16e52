package annotate

import (
	"strings"
	"testing"

	"github.com/hyperjump/seidoku/internal/models"
)

func term(t string) models.GlossaryEntry {
	return models.GlossaryEntry{Term: t, Definition: "def", Category: models.GlossaryCategoryConcept}
}

func claim(id, match string) models.VerifiableClaim {
	return models.VerifiableClaim{ID: id, TextMatch: match, SearchQuery: "q", Category: models.ClaimCategoryStatistic}
}

func reassemble(segments []models.Segment) string {
	var b strings.Builder
	for _, s := range segments {
		b.WriteString(s.Value)
	}
	return b.String()
}

func checkPartition(t *testing.T, text string, segments []models.Segment) {
	t.Helper()
	if got := reassemble(segments); got != text {
		t.Errorf("round-trip: got %q, want %q", got, text)
	}
	cursor := 0
	for i, s := range segments {
		if s.Start != cursor {
			t.Errorf("segment %d: start=%d, want %d (no gaps)", i, s.Start, cursor)
		}
		if s.End-s.Start != len(s.Value) {
			t.Errorf("segment %d: range [%d,%d) does not match value length %d", i, s.Start, s.End, len(s.Value))
		}
		cursor = s.End
	}
	if cursor != len(text) {
		t.Errorf("segments end at %d, want %d", cursor, len(text))
	}
}

func TestAnnotate_Scenario(t *testing.T) {
	text := "The PIAAC 2023 results show literacy dropped 12 points."
	glossary := []models.GlossaryEntry{term("PIAAC")}
	claims := []models.VerifiableClaim{claim("c1", "literacy dropped 12 points")}

	segments := Annotate(text, glossary, claims)
	checkPartition(t, text, segments)

	want := []struct {
		kind  models.SegmentKind
		value string
	}{
		{models.SegmentText, "The "},
		{models.SegmentTerm, "PIAAC"},
		{models.SegmentText, " 2023 results show "},
		{models.SegmentClaim, "literacy dropped 12 points"},
		{models.SegmentText, "."},
	}
	if len(segments) != len(want) {
		t.Fatalf("got %d segments, want %d: %+v", len(segments), len(want), segments)
	}
	for i, w := range want {
		if segments[i].Kind != w.kind || segments[i].Value != w.value {
			t.Errorf("segment %d: got (%s, %q), want (%s, %q)", i, segments[i].Kind, segments[i].Value, w.kind, w.value)
		}
	}
	if segments[3].Claim == nil || segments[3].Claim.ID != "c1" {
		t.Errorf("claim segment carries %+v, want claim c1", segments[3].Claim)
	}
}

func TestAnnotate_ClaimPriorityOverTerm(t *testing.T) {
	text := "Anthropic's Constitutional AI framework"
	glossary := []models.GlossaryEntry{term("Constitutional AI")}
	claims := []models.VerifiableClaim{claim("constitutional-ai", "Anthropic's Constitutional AI")}

	segments := Annotate(text, glossary, claims)
	checkPartition(t, text, segments)

	claimCount, termCount := 0, 0
	for _, s := range segments {
		switch s.Kind {
		case models.SegmentClaim:
			claimCount++
			if s.Value != "Anthropic's Constitutional AI" {
				t.Errorf("claim value: got %q", s.Value)
			}
		case models.SegmentTerm:
			termCount++
		}
	}
	if claimCount != 1 {
		t.Errorf("claim segments: got %d, want 1", claimCount)
	}
	if termCount != 0 {
		t.Errorf("term inside claim span must be suppressed, got %d term segments", termCount)
	}
}

func TestAnnotate_TermAnnotatedOncePerBlock(t *testing.T) {
	text := "numeracy first, then numeracy again, and numeracy a third time"
	segments := Annotate(text, []models.GlossaryEntry{term("numeracy")}, nil)
	checkPartition(t, text, segments)

	termCount := 0
	for _, s := range segments {
		if s.Kind == models.SegmentTerm {
			termCount++
			if s.Start != 0 {
				t.Errorf("annotated occurrence starts at %d, want first occurrence at 0", s.Start)
			}
		}
	}
	if termCount != 1 {
		t.Errorf("term segments: got %d, want 1", termCount)
	}
}

func TestAnnotate_LongestTermWins(t *testing.T) {
	text := "AI is in Phase 2 right now."
	glossary := []models.GlossaryEntry{term("Phase"), term("Phase 2")}

	segments := Annotate(text, glossary, nil)
	checkPartition(t, text, segments)

	var termValues []string
	for _, s := range segments {
		if s.Kind == models.SegmentTerm {
			termValues = append(termValues, s.Value)
		}
	}
	if len(termValues) != 1 || termValues[0] != "Phase 2" {
		t.Errorf("term matches: got %v, want [Phase 2]", termValues)
	}
}

func TestAnnotate_CaseInsensitive(t *testing.T) {
	for _, text := range []string{"the piaac survey", "the Piaac survey", "the PIAAC survey"} {
		segments := Annotate(text, []models.GlossaryEntry{term("PIAAC")}, nil)
		checkPartition(t, text, segments)
		found := false
		for _, s := range segments {
			if s.Kind == models.SegmentTerm && s.Term == "PIAAC" {
				found = true
			}
		}
		if !found {
			t.Errorf("PIAAC not matched in %q", text)
		}
	}
}

func TestAnnotate_WholeWordOnly(t *testing.T) {
	segments := Annotate("literacy and illiteracy differ", []models.GlossaryEntry{term("literacy")}, nil)
	for _, s := range segments {
		if s.Kind == models.SegmentTerm && s.Start != 0 {
			t.Errorf("matched inside a larger word at %d", s.Start)
		}
	}
}

func TestAnnotate_RegexMetacharactersEscaped(t *testing.T) {
	text := "see C++ (the language) here"
	segments := Annotate(text, []models.GlossaryEntry{term("(the language)")}, nil)
	checkPartition(t, text, segments)
}

func TestAnnotate_ClaimMatchedOnce(t *testing.T) {
	text := "Kahneman wrote it. Kahneman said so."
	segments := Annotate(text, nil, []models.VerifiableClaim{claim("kahneman", "Kahneman")})
	checkPartition(t, text, segments)

	count := 0
	for _, s := range segments {
		if s.Kind == models.SegmentClaim {
			count++
		}
	}
	if count != 1 {
		t.Errorf("claim segments: got %d, want 1", count)
	}
}

func TestAnnotate_NoMatches(t *testing.T) {
	text := "nothing to see here"
	segments := Annotate(text, []models.GlossaryEntry{term("PIAAC")}, []models.VerifiableClaim{claim("c", "absent")})
	if len(segments) != 1 || segments[0].Kind != models.SegmentText || segments[0].Value != text {
		t.Errorf("got %+v, want one text segment", segments)
	}
}

func TestAnnotate_EmptyText(t *testing.T) {
	segments := Annotate("", []models.GlossaryEntry{term("PIAAC")}, nil)
	if len(segments) != 1 || segments[0].Kind != models.SegmentText || segments[0].Value != "" {
		t.Errorf("got %+v, want single empty text segment", segments)
	}
}

func TestAnnotate_DoesNotMutateInputs(t *testing.T) {
	glossary := []models.GlossaryEntry{term("a"), term("abc"), term("ab")}
	claims := []models.VerifiableClaim{claim("1", "x"), claim("2", "xyz")}
	Annotate("abc xyz", glossary, claims)

	if glossary[0].Term != "a" || glossary[1].Term != "abc" || glossary[2].Term != "ab" {
		t.Error("glossary order mutated")
	}
	if claims[0].ID != "1" || claims[1].ID != "2" {
		t.Error("claims order mutated")
	}
}

func TestAnnotate_MultipleDistinctTerms(t *testing.T) {
	text := "alpha beta"
	glossary := []models.GlossaryEntry{term("alpha"), term("beta")}
	segments := Annotate(text, glossary, nil)
	checkPartition(t, text, segments)

	termCount := 0
	for _, s := range segments {
		if s.Kind == models.SegmentTerm {
			termCount++
		}
	}
	if termCount != 2 {
		t.Errorf("term segments: got %d, want 2", termCount)
	}
}

func TestAnnotate_LowercaseLengthensRune(t *testing.T) {
	// Ⱥ (2 bytes) lowercases to ⱥ (3 bytes), so offsets found in the lowered
	// text do not map back onto the input byte-for-byte.
	text := "Ⱥ abc"
	segments := Annotate(text, nil, []models.VerifiableClaim{claim("c1", "abc")})
	checkPartition(t, text, segments)
	found := false
	for _, s := range segments {
		if s.Kind == models.SegmentClaim {
			found = true
			if s.Value != "abc" {
				t.Errorf("claim value=%q, want %q", s.Value, "abc")
			}
		}
	}
	if !found {
		t.Error("claim not matched after a byte-lengthening rune")
	}
}

func TestAnnotate_LowercaseShortensRune(t *testing.T) {
	// İ (2 bytes) lowercases to i (1 byte); a claim following it must still
	// carry the exact source substring.
	text := "İstanbul is large"
	segments := Annotate(text, nil, []models.VerifiableClaim{claim("c1", "is large")})
	checkPartition(t, text, segments)
	for _, s := range segments {
		if s.Kind == models.SegmentClaim && s.Value != "is large" {
			t.Errorf("claim value=%q, want %q", s.Value, "is large")
		}
	}
}
