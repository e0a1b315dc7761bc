package quiz

// Attempt lifecycle statuses. An attempt leaves in_progress exactly once.
const (
	StatusInProgress = "in_progress"
	StatusSubmitted  = "submitted"
	StatusExpired    = "expired"
)

type evalQuestion struct {
	ID           int64
	CorrectIndex int
}

type evalOutcome struct {
	QuestionID    int64
	SelectedIndex *int
	IsCorrect     *bool
}

type tally struct {
	Answered   int
	Correct    int
	Wrong      int
	Unanswered int
	Score      float64
}

// evaluateAttempt grades the selections against the question set.
// Unanswered questions get a nil IsCorrect so clients can tell
// "wrong" from "skipped".
func evaluateAttempt(questions []evalQuestion, selections map[int64]int) ([]evalOutcome, tally) {
	outcomes := make([]evalOutcome, 0, len(questions))
	var t tally

	for _, q := range questions {
		out := evalOutcome{QuestionID: q.ID}
		if sel, ok := selections[q.ID]; ok {
			selCopy := sel
			correct := sel == q.CorrectIndex
			out.SelectedIndex = &selCopy
			out.IsCorrect = &correct
			t.Answered++
			if correct {
				t.Correct++
			} else {
				t.Wrong++
			}
		}
		outcomes = append(outcomes, out)
	}

	t.Unanswered = len(questions) - t.Answered
	t.Score = scoreFromCounts(t.Correct, len(questions))
	return outcomes, t
}

// scoreFromCounts maps correct/total onto a 0..100 scale.
func scoreFromCounts(correct, total int) float64 {
	if total <= 0 {
		return 0
	}
	return 100.0 * float64(correct) / float64(total)
}

func remainingSeconds(status string, deadlineAt, now int64) int64 {
	if status != StatusInProgress {
		return 0
	}
	remaining := deadlineAt - now
	if remaining <= 0 {
		return 0
	}
	return remaining
}
