package textimport

import (
	"fmt"
	"strings"
)

const answerLetters = "ABCDE"

// Question is one structured record assembled from the raw document.
// CorrectOptionIndex is 0-based (A=0) and stays 0 with an empty Explanation
// when the answer key had no entry for the question; callers treat that
// combination as "answer unknown".
type Question struct {
	ID                 string   `json:"id"`
	ContextText        string   `json:"context_text,omitempty"`
	PremiseItems       []string `json:"premise_items,omitempty"`
	QuestionStem       string   `json:"question_stem"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation"`
}

// Report counts what happened to each detected block during one parse.
type Report struct {
	TotalBlocks   int `json:"total_blocks"`
	Parsed        int `json:"parsed"`
	SkippedBlocks int `json:"skipped_blocks"`
}

// Parse converts a pasted exam document into structured question records.
// It never fails: malformed pieces degrade per the fallback rules and the
// result may be empty. Each call is independent; record IDs are unique
// within the returned batch only.
func Parse(text string) []Question {
	questions, _ := ParseWithReport(text)
	return questions
}

// ParseWithReport is Parse plus block accounting for import reports.
func ParseWithReport(text string) ([]Question, Report) {
	normalized := Normalize(text)
	questionSection, solutionSection := SplitSections(normalized)
	solutions := IndexSolutions(solutionSection)
	blocks, skipped := SegmentBlocks(questionSection)

	report := Report{TotalBlocks: len(blocks) + skipped, SkippedBlocks: skipped}
	questions := make([]Question, 0, len(blocks))
	for _, block := range blocks {
		preBody, options := SplitOptions(block.RawBody)
		if len(options) < 2 {
			report.SkippedBlocks++
			continue
		}
		body := ExtractPremises(preBody)

		q := Question{
			ID:           fmt.Sprintf("q-%d", len(questions)+1),
			ContextText:  body.ContextText,
			PremiseItems: body.PremiseItems,
			QuestionStem: body.QuestionStem,
			Options:      options,
		}
		if entry, ok := solutions[block.Number]; ok {
			if idx := strings.Index(answerLetters, entry.Answer); idx >= 0 {
				q.CorrectOptionIndex = idx
			}
			q.Explanation = entry.Explanation
		}
		questions = append(questions, q)
	}
	report.Parsed = len(questions)
	return questions, report
}
