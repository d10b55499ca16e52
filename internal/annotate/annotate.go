// Package annotate scans prose for glossary terms and verifiable claims and
// splits it into tagged segments for interactive rendering.
package annotate

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/hyperjump/seidoku/internal/models"
)

// Annotate splits text into plain-text, term, and claim segments.
//
// Claims are matched first (longest TextMatch first, first case-insensitive
// occurrence only) and reserve their ranges, so a claim always wins over a
// term competing for the same span. Terms are then matched longest-first as
// case-insensitive whole words, with regex metacharacters in the term treated
// literally; each distinct term is annotated at most once, at its first
// occurrence that overlaps nothing already accepted.
//
// The output partitions the input: segments are sorted by start offset,
// ranges never overlap, and concatenating Value fields reproduces text
// exactly. Empty input yields a single empty text segment. Inputs are never
// mutated, so concurrent calls are safe.
func Annotate(text string, glossary []models.GlossaryEntry, claims []models.VerifiableClaim) []models.Segment {
	if text == "" {
		return []models.Segment{{Kind: models.SegmentText, Value: "", Start: 0, End: 0}}
	}

	sortedClaims := make([]models.VerifiableClaim, len(claims))
	copy(sortedClaims, claims)
	sort.SliceStable(sortedClaims, func(i, j int) bool {
		return len(sortedClaims[i].TextMatch) > len(sortedClaims[j].TextMatch)
	})

	sortedTerms := make([]models.GlossaryEntry, len(glossary))
	copy(sortedTerms, glossary)
	sort.SliceStable(sortedTerms, func(i, j int) bool {
		return len(sortedTerms[i].Term) > len(sortedTerms[j].Term)
	})

	var matches []models.Segment
	var used [][2]int

	overlaps := func(start, end int) bool {
		for _, r := range used {
			if start < r[1] && end > r[0] {
				return true
			}
		}
		return false
	}

	lower := strings.ToLower(text)
	for i := range sortedClaims {
		claim := sortedClaims[i]
		if claim.TextMatch == "" {
			continue
		}
		start, end := claimRange(text, lower, claim.TextMatch)
		if start < 0 {
			continue
		}
		if overlaps(start, end) {
			continue
		}
		matches = append(matches, models.Segment{
			Kind:  models.SegmentClaim,
			Value: text[start:end],
			Claim: &claim,
			Start: start,
			End:   end,
		})
		used = append(used, [2]int{start, end})
	}

	for _, entry := range sortedTerms {
		if entry.Term == "" {
			continue
		}
		pattern := regexp.MustCompile(`(?i)\b` + regexp.QuoteMeta(entry.Term) + `\b`)
		for _, loc := range pattern.FindAllStringIndex(text, -1) {
			start, end := loc[0], loc[1]
			if overlaps(start, end) {
				continue
			}
			matches = append(matches, models.Segment{
				Kind:  models.SegmentTerm,
				Value: text[start:end],
				Term:  entry.Term,
				Start: start,
				End:   end,
			})
			used = append(used, [2]int{start, end})
			break
		}
	}

	sort.Slice(matches, func(i, j int) bool { return matches[i].Start < matches[j].Start })

	if len(matches) == 0 {
		return []models.Segment{{Kind: models.SegmentText, Value: text, Start: 0, End: len(text)}}
	}

	segments := make([]models.Segment, 0, 2*len(matches)+1)
	cursor := 0
	for _, m := range matches {
		if m.Start > cursor {
			segments = append(segments, models.Segment{
				Kind:  models.SegmentText,
				Value: text[cursor:m.Start],
				Start: cursor,
				End:   m.Start,
			})
		}
		segments = append(segments, m)
		cursor = m.End
	}
	if cursor < len(text) {
		segments = append(segments, models.Segment{
			Kind:  models.SegmentText,
			Value: text[cursor:],
			Start: cursor,
			End:   len(text),
		})
	}
	return segments
}

// claimRange returns the byte range in text of the first case-insensitive
// occurrence of match, or (-1, -1). Offsets found in strings.ToLower(text) are
// only valid in text when lowercasing changed no rune's byte length, so when
// the lengths differ the text is scanned rune by rune instead.
func claimRange(text, lower, match string) (int, int) {
	if len(lower) == len(text) {
		needle := strings.ToLower(match)
		start := strings.Index(lower, needle)
		if start < 0 {
			return -1, -1
		}
		return start, start + len(needle)
	}

	matchRunes := []rune(match)
	for start := 0; start < len(text); {
		end := start
		found := true
		for _, mr := range matchRunes {
			tr, size := utf8.DecodeRuneInString(text[end:])
			if size == 0 || unicode.ToLower(tr) != unicode.ToLower(mr) {
				found = false
				break
			}
			end += size
		}
		if found {
			return start, end
		}
		_, size := utf8.DecodeRuneInString(text[start:])
		start += size
	}
	return -1, -1
}
