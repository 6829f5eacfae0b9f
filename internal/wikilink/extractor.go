package wikilink

import "regexp"

// tokenPattern matches one wikilink occurrence: optional embed marker, `[[`, a
// name segment with no `|` and no newline, an optional `|title` segment with no
// newline, `]]`. Non-greedy so adjacent tokens do not merge.
var tokenPattern = regexp.MustCompile(`!?\[\[[^|\n]+?(\|[^\n]+?)?\]\]`)

// Occurrence is one raw wikilink token located in a body of text.
type Occurrence struct {
	Raw   string
	Start int
	End   int
}

// ExtractOccurrences scans text left-to-right and returns every non-overlapping
// wikilink occurrence in document order, duplicates preserved. The extractor is
// content-agnostic: callers that must not match inside code or pre regions
// filter occurrences against those regions themselves.
func ExtractOccurrences(text string) []Occurrence {
	idxs := tokenPattern.FindAllStringIndex(text, -1)
	if len(idxs) == 0 {
		return nil
	}

	occs := make([]Occurrence, 0, len(idxs))
	for _, m := range idxs {
		start, end := m[0], m[1]
		if text[start] == '!' && start > 0 && text[start-1] == '!' {
			// A doubled embed marker is not an embed; the token starts at
			// the brackets. RE2 has no lookbehind, so the check lives here.
			start++
		}
		occs = append(occs, Occurrence{Raw: text[start:end], Start: start, End: end})
	}
	return occs
}

// Extract returns the ordered raw tokens found in text.
func Extract(text string) []string {
	occs := ExtractOccurrences(text)
	if len(occs) == 0 {
		return nil
	}
	tokens := make([]string, len(occs))
	for i, occ := range occs {
		tokens[i] = occ.Raw
	}
	return tokens
}
