package speech

import (
	"strings"
	"unicode/utf8"
)

// ChunkText splits plain text into pieces of at most limit characters for the
// per-request size cap of the TTS backend. Each cut prefers the last sentence
// boundary (". ") inside the window when it falls past half the window,
// otherwise the last space, otherwise a hard cut at the limit. A hard cut is
// moved back to the previous rune boundary so no chunk carries invalid UTF-8.
func ChunkText(text string, limit int) []string {
	if limit <= 0 || text == "" {
		if text == "" {
			return nil
		}
		return []string{text}
	}

	var chunks []string
	remaining := text
	for len(remaining) > limit {
		window := remaining[:limit]
		cut := limit
		if idx := strings.LastIndex(window, ". "); idx > limit/2 {
			cut = idx + 2
		} else if idx := strings.LastIndex(window, " "); idx > 0 {
			cut = idx + 1
		} else {
			for cut > 0 && !utf8.RuneStart(remaining[cut]) {
				cut--
			}
			if cut == 0 {
				_, size := utf8.DecodeRuneInString(remaining)
				cut = size
			}
		}
		chunks = append(chunks, remaining[:cut])
		remaining = remaining[cut:]
	}
	if len(remaining) > 0 {
		chunks = append(chunks, remaining)
	}
	return chunks
}
