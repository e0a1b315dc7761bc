package textimport

import (
	"regexp"
	"strings"
)

// pageMarkerRe matches page-marker fragments such as "Sayfa 12"; any line
// containing one is dropped whole.
var pageMarkerRe = regexp.MustCompile(`(?i)sayfa\s*[-:]?\s*\d+`)

var spaceRunRe = regexp.MustCompile(`\s+`)

// Normalize unifies line endings and removes page-marker lines. It always
// succeeds, possibly returning the input unchanged.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if pageMarkerRe.MatchString(line) {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

func collapseWhitespace(s string) string {
	return strings.TrimSpace(spaceRunRe.ReplaceAllString(s, " "))
}

func collapseLineBreaks(s string) string {
	return collapseWhitespace(strings.ReplaceAll(s, "\n", " "))
}
