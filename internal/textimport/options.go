package textimport

import (
	"regexp"
	"strings"
)

var (
	firstOptionRe  = regexp.MustCompile(`(?m)(?:^|\s)(A\))`)
	optionMarkerRe = regexp.MustCompile(`(?m)(?:^|\s)([A-E])\)`)
)

// SplitOptions separates the question body from its lettered option list.
// The list begins at the first "A)" preceded by a line start or whitespace;
// option pieces are split at every subsequent letter marker, line breaks
// collapsed and empty pieces dropped. No contiguity or count is enforced
// here beyond what the assembler requires.
func SplitOptions(block string) (preBody string, options []string) {
	loc := firstOptionRe.FindStringSubmatchIndex(block)
	if loc == nil {
		return strings.TrimSpace(block), nil
	}

	optStart := loc[2]
	preBody = strings.TrimSpace(block[:optStart])
	raw := block[optStart:]

	marks := optionMarkerRe.FindAllStringSubmatchIndex(raw, -1)
	for i, m := range marks {
		end := len(raw)
		if i+1 < len(marks) {
			end = marks[i+1][2]
		}
		piece := collapseLineBreaks(raw[m[1]:end])
		if piece != "" {
			options = append(options, piece)
		}
	}
	return preBody, options
}
