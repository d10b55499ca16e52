package speech

import (
	"regexp"
	"strings"
)

// Markdown syntax is stripped textually rather than parsed: the TTS input is
// prose, and the rules below decide what a listener hears. Link text is kept
// (targets dropped), images are dropped entirely, and structural markers
// (headings, emphasis, quotes, lists, fences, rules) are removed.
var (
	fenceLine       = regexp.MustCompile("(?m)^(```|~~~).*$")
	imagePattern    = regexp.MustCompile(`!\[[^\]]*\]\([^)]*\)`)
	linkPattern     = regexp.MustCompile(`\[([^\]]*)\]\([^)]*\)`)
	horizontalRule  = regexp.MustCompile(`(?m)^[ \t]*(-{3,}|\*{3,}|_{3,})[ \t]*$`)
	headingMarker   = regexp.MustCompile(`(?m)^#{1,6}[ \t]*`)
	blockquoteMark  = regexp.MustCompile(`(?m)^>[ \t]?`)
	bulletMarker    = regexp.MustCompile(`(?m)^[ \t]*[-*+][ \t]+`)
	numberedMarker  = regexp.MustCompile(`(?m)^[ \t]*\d+\.[ \t]+`)
	boldPattern     = regexp.MustCompile(`\*\*([^*]+)\*\*|__([^_]+)__`)
	italicPattern   = regexp.MustCompile(`\*([^*\n]+)\*|\b_([^_\n]+)_\b`)
	inlineCode      = regexp.MustCompile("`([^`]*)`")
	excessNewlines  = regexp.MustCompile(`\n{3,}`)
)

// StripMarkdown reduces a section's markdown content to plain prose for
// speech synthesis. Runs of three or more newlines collapse to exactly two.
func StripMarkdown(text string) string {
	out := fenceLine.ReplaceAllString(text, "")
	out = imagePattern.ReplaceAllString(out, "")
	out = linkPattern.ReplaceAllString(out, "$1")
	out = horizontalRule.ReplaceAllString(out, "")
	out = headingMarker.ReplaceAllString(out, "")
	out = blockquoteMark.ReplaceAllString(out, "")
	out = bulletMarker.ReplaceAllString(out, "")
	out = numberedMarker.ReplaceAllString(out, "")
	out = boldPattern.ReplaceAllString(out, "$1$2")
	out = italicPattern.ReplaceAllString(out, "$1$2")
	out = inlineCode.ReplaceAllString(out, "$1")
	out = excessNewlines.ReplaceAllString(out, "\n\n")
	return strings.TrimSpace(out)
}
