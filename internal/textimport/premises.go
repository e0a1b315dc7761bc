package textimport

import (
	"regexp"
	"strings"
)

// ParsedBody is the question body after premise extraction: optional
// introductory context, the enumerated premise items (possibly none) and
// the question stem.
type ParsedBody struct {
	ContextText  string
	PremiseItems []string
	QuestionStem string
}

// Longer numerals must come first so the alternation matches them whole.
const romanAlternatives = `VIII|VII|VI|IX|IV|III|II|X|V|I`

var (
	romanAnyRe  = regexp.MustCompile(`\b(?:` + romanAlternatives + `)\.\s`)
	romanLineRe = regexp.MustCompile(`(?m)^(?:` + romanAlternatives + `)\.\s`)
)

// premiseLayout parameterizes the extraction per layout: where item markers
// may appear and which keyword table locates the fused question stem.
type premiseLayout struct {
	markerRe     *regexp.Regexp
	stemKeywords []string
	trimComma    bool
}

var (
	multilineLayout = premiseLayout{markerRe: romanLineRe, stemKeywords: multilineStemKeywords}
	inlineLayout    = premiseLayout{markerRe: romanAnyRe, stemKeywords: inlineStemKeywords, trimComma: true}
)

// ExtractPremises detects an optional Roman-numeral premise list in the
// pre-option body and splits the body into context, items and stem. Bodies
// without any numeral marker pass through as a bare stem. A marker at the
// start of the trimmed body or right after a line break selects the
// multiline layout, anything else the inline one.
func ExtractPremises(body string) ParsedBody {
	trimmed := strings.TrimSpace(body)
	if !romanAnyRe.MatchString(trimmed) {
		return ParsedBody{QuestionStem: trimmed}
	}
	if romanLineRe.MatchString(trimmed) {
		return extractPremiseList(trimmed, multilineLayout)
	}
	return extractPremiseList(trimmed, inlineLayout)
}

func extractPremiseList(body string, layout premiseLayout) ParsedBody {
	locs := layout.markerRe.FindAllStringIndex(body, -1)
	contextText := strings.TrimSpace(body[:locs[0][0]])

	items := make([]string, 0, len(locs))
	for i, loc := range locs {
		end := len(body)
		if i+1 < len(locs) {
			end = locs[i+1][0]
		}
		item := collapseLineBreaks(body[loc[1]:end])
		if layout.trimComma {
			item = strings.TrimSpace(strings.TrimRight(item, ","))
		}
		items = append(items, item)
	}

	stem := ""
	last := items[len(items)-1]
	if strings.Contains(last, "?") {
		if head, tail, ok := splitAtStemKeyword(last, layout.stemKeywords); ok {
			stem = tail
			// The portion before the keyword stays as the last premise
			// item; the item is dropped only when the keyword opens it.
			if head == "" {
				items = items[:len(items)-1]
			} else {
				items[len(items)-1] = head
			}
		}
	}

	// Fallback chain: a stem is always produced, and a stem recovered from
	// the context (or the raw last item) suppresses the context field.
	if stem == "" {
		switch {
		case contextText != "":
			stem = contextText
		case last != "":
			stem = last
		default:
			stem = strings.TrimSpace(body)
		}
		contextText = ""
	}

	if len(items) == 0 {
		items = nil
	}
	return ParsedBody{ContextText: contextText, PremiseItems: items, QuestionStem: stem}
}

// splitAtStemKeyword cuts the fused question stem off the last premise item
// at the last occurrence of the first keyword table entry present.
func splitAtStemKeyword(item string, keywords []string) (head, tail string, ok bool) {
	for _, kw := range keywords {
		idx := strings.LastIndex(item, kw)
		if idx < 0 {
			continue
		}
		return strings.TrimSpace(item[:idx]), strings.TrimSpace(item[idx:]), true
	}
	return "", "", false
}
