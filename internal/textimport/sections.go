package textimport

import (
	"regexp"
	"strconv"
	"strings"
)

// SolutionEntry is the answer letter and explanation mined from the
// answer-key section for one question number.
type SolutionEntry struct {
	Number      int
	Answer      string
	Explanation string
}

var (
	firstSolutionRe  = regexp.MustCompile(`(?im)^1\.\s*çözüm`)
	solutionHeaderRe = regexp.MustCompile(`(?im)^[ \t]*çözüm(?:ler)?[ \t]*$`)
	solutionMarkerRe = regexp.MustCompile(`(?i)(\d+)\.?\s*çözüm\s*:`)
	solutionBodyRe   = regexp.MustCompile(`(?is)\A\s*(.*?)\s*cevap\s*:\s*([a-e])`)
)

// SplitSections locates the boundary between the question section and the
// solution section. The first explicitly numbered solution line wins over a
// bare section header. When neither is present the whole text is treated as
// questions and the solution section is empty.
func SplitSections(text string) (questionSection, solutionSection string) {
	if loc := firstSolutionRe.FindStringIndex(text); loc != nil {
		return text[:loc[0]], text[loc[0]:]
	}
	if loc := solutionHeaderRe.FindStringIndex(text); loc != nil {
		return text[:loc[0]], text[loc[0]:]
	}
	return text, ""
}

// IndexSolutions extracts every "<N>. ÇÖZÜM: ... CEVAP: <A-E>" entry from
// the solution section. The section is cut at each numbered ÇÖZÜM marker so
// an entry's explanation can never run into the next entry; a chunk without
// a valid CEVAP letter is skipped on its own. A repeated question number
// overwrites the earlier entry.
func IndexSolutions(section string) map[int]SolutionEntry {
	entries := make(map[int]SolutionEntry)
	marks := solutionMarkerRe.FindAllStringSubmatchIndex(section, -1)
	for i, mark := range marks {
		n, err := strconv.Atoi(section[mark[2]:mark[3]])
		if err != nil || n < 1 {
			continue
		}
		end := len(section)
		if i+1 < len(marks) {
			end = marks[i+1][0]
		}
		body := solutionBodyRe.FindStringSubmatch(section[mark[1]:end])
		if body == nil {
			continue
		}
		entries[n] = SolutionEntry{
			Number:      n,
			Answer:      strings.ToUpper(body[2]),
			Explanation: collapseWhitespace(body[1]),
		}
	}
	return entries
}
