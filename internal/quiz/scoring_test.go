package quiz

import "testing"

func TestEvaluateAttempt(t *testing.T) {
	questions := []evalQuestion{
		{ID: 1, CorrectIndex: 0},
		{ID: 2, CorrectIndex: 2},
		{ID: 3, CorrectIndex: 1},
		{ID: 4, CorrectIndex: 3},
	}
	selections := map[int64]int{
		1: 0,
		2: 1,
		3: 1,
	}

	outcomes, got := evaluateAttempt(questions, selections)

	if len(outcomes) != 4 {
		t.Fatalf("expected 4 outcomes, got %d", len(outcomes))
	}
	if got.Answered != 3 || got.Correct != 2 || got.Wrong != 1 || got.Unanswered != 1 {
		t.Fatalf("unexpected tally: %+v", got)
	}
	if got.Score != 50.0 {
		t.Fatalf("expected score 50, got %v", got.Score)
	}

	if outcomes[3].SelectedIndex != nil || outcomes[3].IsCorrect != nil {
		t.Fatalf("unanswered question should have nil selection and nil correctness")
	}
	if outcomes[1].IsCorrect == nil || *outcomes[1].IsCorrect {
		t.Fatalf("question 2 should be graded wrong")
	}
}

func TestEvaluateAttemptEmptyTopic(t *testing.T) {
	outcomes, got := evaluateAttempt(nil, map[int64]int{9: 1})
	if len(outcomes) != 0 {
		t.Fatalf("expected no outcomes, got %d", len(outcomes))
	}
	if got.Score != 0 {
		t.Fatalf("expected score 0 for empty question set, got %v", got.Score)
	}
}

func TestScoreFromCounts(t *testing.T) {
	cases := []struct {
		name    string
		correct int
		total   int
		want    float64
	}{
		{"all correct", 10, 10, 100},
		{"none correct", 0, 10, 0},
		{"partial", 3, 4, 75},
		{"zero total", 5, 0, 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := scoreFromCounts(tc.correct, tc.total); got != tc.want {
				t.Fatalf("scoreFromCounts(%d, %d) = %v, want %v", tc.correct, tc.total, got, tc.want)
			}
		})
	}
}

func TestRemainingSeconds(t *testing.T) {
	if got := remainingSeconds(StatusInProgress, 100, 40); got != 60 {
		t.Fatalf("expected 60, got %d", got)
	}
	if got := remainingSeconds(StatusInProgress, 100, 150); got != 0 {
		t.Fatalf("expected 0 past deadline, got %d", got)
	}
	if got := remainingSeconds(StatusSubmitted, 100, 40); got != 0 {
		t.Fatalf("expected 0 for final status, got %d", got)
	}
}
