package quiz

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

var (
	ErrTopicNotFound        = errors.New("topic not found")
	ErrTopicEmpty           = errors.New("topic has no active questions")
	ErrAttemptNotFound      = errors.New("attempt not found")
	ErrAttemptNotEditable   = errors.New("attempt is not editable")
	ErrQuestionNotInAttempt = errors.New("question not in attempt")
	ErrInvalidAnswer        = errors.New("invalid answer")
	ErrAttemptForbidden     = errors.New("attempt forbidden")
	ErrAttemptNotFinal      = errors.New("attempt not final")
)

type Service struct {
	db                 *sql.DB
	defaultQuizMinutes int
}

type Attempt struct {
	ID            int64  `json:"id"`
	TopicID       int64  `json:"topic_id"`
	UserID        int64  `json:"user_id"`
	Status        string `json:"status"`
	QuestionCount int    `json:"question_count"`
	StartedAt     int64  `json:"started_at"`
	DeadlineAt    int64  `json:"deadline_at"`
}

type AttemptSummary struct {
	ID            int64   `json:"id"`
	TopicID       int64   `json:"topic_id"`
	UserID        int64   `json:"user_id"`
	Status        string  `json:"status"`
	StartedAt     int64   `json:"started_at"`
	DeadlineAt    int64   `json:"deadline_at"`
	FinishedAt    *int64  `json:"finished_at,omitempty"`
	RemainingSecs int64   `json:"remaining_secs"`
	QuestionCount int     `json:"question_count"`
	Answered      int     `json:"answered"`
	Correct       int     `json:"correct"`
	Wrong         int     `json:"wrong"`
	Unanswered    int     `json:"unanswered"`
	Score         float64 `json:"score"`
}

// AttemptQuestion is the runner view of a question. It never carries the
// correct index or the explanation.
type AttemptQuestion struct {
	ID            int64    `json:"id"`
	ContextText   string   `json:"context_text,omitempty"`
	PremiseItems  []string `json:"premise_items,omitempty"`
	QuestionStem  string   `json:"question_stem"`
	Options       []string `json:"options"`
	SelectedIndex *int     `json:"selected_index,omitempty"`
}

type ResultItem struct {
	QuestionID    int64  `json:"question_id"`
	QuestionStem  string `json:"question_stem"`
	SelectedIndex *int   `json:"selected_index,omitempty"`
	CorrectIndex  int    `json:"correct_index"`
	IsCorrect     *bool  `json:"is_correct,omitempty"`
	Explanation   string `json:"explanation,omitempty"`
}

type AttemptResult struct {
	Summary AttemptSummary `json:"summary"`
	Items   []ResultItem   `json:"items"`
}

type SaveAnswerInput struct {
	AttemptID     int64
	QuestionID    int64
	SelectedIndex int
}

type attemptRow struct {
	ID            int64
	TopicID       int64
	UserID        int64
	Status        string
	QuestionCount int
	Correct       sql.NullInt64
	Wrong         sql.NullInt64
	Unanswered    sql.NullInt64
	Score         sql.NullFloat64
	StartedAt     int64
	DeadlineAt    int64
	FinishedAt    sql.NullInt64
}

func NewService(db *sql.DB, defaultQuizMinutes int) *Service {
	if defaultQuizMinutes <= 0 {
		defaultQuizMinutes = 20
	}
	return &Service{db: db, defaultQuizMinutes: defaultQuizMinutes}
}

// Start reuses a running attempt for the same topic and user. An expired
// running attempt is finalized first and a fresh one is created.
func (s *Service) Start(ctx context.Context, topicID, userID int64) (*Attempt, error) {
	var exists int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT id FROM topics WHERE id = $1 AND is_active = TRUE
	`, topicID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("check topic: %w", err)
	}

	var questionCount int
	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM questions WHERE topic_id = $1 AND is_active = TRUE
	`, topicID).Scan(&questionCount); err != nil {
		return nil, fmt.Errorf("count topic questions: %w", err)
	}
	if questionCount == 0 {
		return nil, ErrTopicEmpty
	}

	now := time.Now().Unix()

	var existing Attempt
	err := s.db.QueryRowContext(ctx, `
		SELECT id, topic_id, user_id, status, question_count, started_at, deadline_at
		FROM quiz_attempts
		WHERE topic_id = $1 AND user_id = $2 AND status = $3
	`, topicID, userID, StatusInProgress).Scan(
		&existing.ID, &existing.TopicID, &existing.UserID, &existing.Status,
		&existing.QuestionCount, &existing.StartedAt, &existing.DeadlineAt,
	)
	switch {
	case err == nil:
		if now <= existing.DeadlineAt {
			return &existing, nil
		}
		if _, err := s.finalizeAttempt(ctx, existing.ID, StatusExpired); err != nil {
			return nil, err
		}
	case !errors.Is(err, sql.ErrNoRows):
		return nil, fmt.Errorf("query running attempt: %w", err)
	}

	deadline := now + int64(s.defaultQuizMinutes)*60
	created := Attempt{
		TopicID:       topicID,
		UserID:        userID,
		Status:        StatusInProgress,
		QuestionCount: questionCount,
		StartedAt:     now,
		DeadlineAt:    deadline,
	}
	if err := s.db.QueryRowContext(ctx, `
		INSERT INTO quiz_attempts (
			topic_id, user_id, status, question_count, started_at, deadline_at
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`, topicID, userID, StatusInProgress, questionCount, now, deadline).Scan(&created.ID); err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}

	return &created, nil
}

func (s *Service) GetAttemptSummary(ctx context.Context, attemptID int64) (*AttemptSummary, error) {
	row, err := s.loadAttemptRow(ctx, s.db, attemptID)
	if err != nil {
		return nil, err
	}

	if row.Status == StatusInProgress && time.Now().Unix() > row.DeadlineAt {
		if _, err := s.finalizeAttempt(ctx, attemptID, StatusExpired); err != nil {
			return nil, err
		}
		row, err = s.loadAttemptRow(ctx, s.db, attemptID)
		if err != nil {
			return nil, err
		}
	}

	return s.buildSummary(ctx, s.db, row)
}

// AttemptQuestions returns the runner view of the attempt's question set
// along with any answers saved so far.
func (s *Service) AttemptQuestions(ctx context.Context, attemptID int64) ([]AttemptQuestion, error) {
	row, err := s.loadAttemptRow(ctx, s.db, attemptID)
	if err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.context_text, q.premise_items_json, q.question_stem, q.options_json, a.selected_index
		FROM questions q
		LEFT JOIN quiz_answers a ON a.attempt_id = $1 AND a.question_id = q.id
		WHERE q.topic_id = $2 AND q.is_active = TRUE
		ORDER BY q.id ASC
	`, attemptID, row.TopicID)
	if err != nil {
		return nil, fmt.Errorf("query attempt questions: %w", err)
	}
	defer rows.Close()

	out := make([]AttemptQuestion, 0)
	for rows.Next() {
		var (
			q           AttemptQuestion
			premisesRaw string
			optionsRaw  string
			selected    sql.NullInt64
		)
		if err := rows.Scan(&q.ID, &q.ContextText, &premisesRaw, &q.QuestionStem, &optionsRaw, &selected); err != nil {
			return nil, fmt.Errorf("scan attempt question: %w", err)
		}
		q.PremiseItems = decodeStringList(premisesRaw)
		q.Options = decodeStringList(optionsRaw)
		if selected.Valid {
			idx := int(selected.Int64)
			q.SelectedIndex = &idx
		}
		out = append(out, q)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempt questions: %w", err)
	}
	return out, nil
}

func (s *Service) SaveAnswer(ctx context.Context, input SaveAnswerInput) error {
	row, err := s.loadAttemptRow(ctx, s.db, input.AttemptID)
	if err != nil {
		return err
	}

	if row.Status != StatusInProgress {
		return ErrAttemptNotEditable
	}
	if time.Now().Unix() > row.DeadlineAt {
		_, _ = s.finalizeAttempt(ctx, input.AttemptID, StatusExpired)
		return ErrAttemptNotEditable
	}

	var optionsRaw string
	if err := s.db.QueryRowContext(ctx, `
		SELECT options_json
		FROM questions
		WHERE id = $1 AND topic_id = $2 AND is_active = TRUE
	`, input.QuestionID, row.TopicID).Scan(&optionsRaw); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrQuestionNotInAttempt
		}
		return fmt.Errorf("validate question in attempt: %w", err)
	}

	options := decodeStringList(optionsRaw)
	if input.SelectedIndex < 0 || input.SelectedIndex >= len(options) {
		return ErrInvalidAnswer
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO quiz_answers (attempt_id, question_id, selected_index, answered_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (attempt_id, question_id)
		DO UPDATE SET
			selected_index = EXCLUDED.selected_index,
			answered_at = EXCLUDED.answered_at
	`, input.AttemptID, input.QuestionID, input.SelectedIndex, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("upsert answer: %w", err)
	}

	return nil
}

func (s *Service) SubmitAttempt(ctx context.Context, attemptID int64) (*AttemptSummary, error) {
	return s.finalizeAttempt(ctx, attemptID, StatusSubmitted)
}

func (s *Service) GetAttemptOwner(ctx context.Context, attemptID int64) (int64, error) {
	var userID int64
	if err := s.db.QueryRowContext(ctx, `
		SELECT user_id FROM quiz_attempts WHERE id = $1
	`, attemptID).Scan(&userID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrAttemptNotFound
		}
		return 0, fmt.Errorf("load attempt owner: %w", err)
	}
	return userID, nil
}

func (s *Service) GetAttemptResult(ctx context.Context, attemptID int64) (*AttemptResult, error) {
	row, err := s.loadAttemptRow(ctx, s.db, attemptID)
	if err != nil {
		return nil, err
	}

	if row.Status == StatusInProgress {
		if time.Now().Unix() <= row.DeadlineAt {
			return nil, ErrAttemptNotFinal
		}
		if _, err := s.finalizeAttempt(ctx, attemptID, StatusExpired); err != nil {
			return nil, err
		}
		row, err = s.loadAttemptRow(ctx, s.db, attemptID)
		if err != nil {
			return nil, err
		}
	}

	summary, err := s.buildSummary(ctx, s.db, row)
	if err != nil {
		return nil, err
	}

	items, err := s.loadResultItems(ctx, row)
	if err != nil {
		return nil, err
	}

	return &AttemptResult{Summary: *summary, Items: items}, nil
}

func (s *Service) finalizeAttempt(ctx context.Context, attemptID int64, finalStatus string) (*AttemptSummary, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin finalize tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	row, err := s.loadAttemptRow(ctx, tx, attemptID)
	if err != nil {
		return nil, err
	}

	now := time.Now().Unix()

	if row.Status != StatusInProgress {
		summary, err := s.buildSummary(ctx, tx, row)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit finalize existing: %w", err)
		}
		return summary, nil
	}

	if finalStatus == StatusExpired && now <= row.DeadlineAt {
		summary, err := s.buildSummary(ctx, tx, row)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit finalize noop: %w", err)
		}
		return summary, nil
	}

	questions, err := loadEvalQuestions(ctx, tx, row.TopicID)
	if err != nil {
		return nil, err
	}
	selections, err := loadSelections(ctx, tx, row.ID)
	if err != nil {
		return nil, err
	}

	_, t := evaluateAttempt(questions, selections)

	// The status guard keeps a concurrent finalize from double writing.
	res, err := tx.ExecContext(ctx, `
		UPDATE quiz_attempts
		SET status = $2,
			question_count = $3,
			correct_count = $4,
			wrong_count = $5,
			unanswered_count = $6,
			score = $7,
			finished_at = $8
		WHERE id = $1 AND status = $9
	`, row.ID, finalStatus, len(questions), t.Correct, t.Wrong, t.Unanswered, t.Score, now, StatusInProgress)
	if err != nil {
		return nil, fmt.Errorf("update attempt final: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		row, err = s.loadAttemptRow(ctx, tx, row.ID)
		if err != nil {
			return nil, err
		}
		summary, err := s.buildSummary(ctx, tx, row)
		if err != nil {
			return nil, err
		}
		if err := tx.Commit(); err != nil {
			return nil, fmt.Errorf("commit finalize raced: %w", err)
		}
		return summary, nil
	}

	row, err = s.loadAttemptRow(ctx, tx, row.ID)
	if err != nil {
		return nil, err
	}
	summary, err := s.buildSummary(ctx, tx, row)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit finalize: %w", err)
	}
	return summary, nil
}

func (s *Service) loadResultItems(ctx context.Context, row *attemptRow) ([]ResultItem, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT q.id, q.question_stem, q.correct_option_index, q.explanation, a.selected_index
		FROM questions q
		LEFT JOIN quiz_answers a ON a.attempt_id = $1 AND a.question_id = q.id
		WHERE q.topic_id = $2 AND q.is_active = TRUE
		ORDER BY q.id ASC
	`, row.ID, row.TopicID)
	if err != nil {
		return nil, fmt.Errorf("query result items: %w", err)
	}
	defer rows.Close()

	items := make([]ResultItem, 0)
	for rows.Next() {
		var (
			item     ResultItem
			selected sql.NullInt64
		)
		if err := rows.Scan(&item.QuestionID, &item.QuestionStem, &item.CorrectIndex, &item.Explanation, &selected); err != nil {
			return nil, fmt.Errorf("scan result item: %w", err)
		}
		if selected.Valid {
			idx := int(selected.Int64)
			correct := idx == item.CorrectIndex
			item.SelectedIndex = &idx
			item.IsCorrect = &correct
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate result items: %w", err)
	}
	return items, nil
}

func (s *Service) buildSummary(ctx context.Context, q queryable, row *attemptRow) (*AttemptSummary, error) {
	var answered int
	if err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM quiz_answers WHERE attempt_id = $1
	`, row.ID).Scan(&answered); err != nil {
		return nil, fmt.Errorf("count answers: %w", err)
	}
	if answered > row.QuestionCount {
		answered = row.QuestionCount
	}

	summary := &AttemptSummary{
		ID:            row.ID,
		TopicID:       row.TopicID,
		UserID:        row.UserID,
		Status:        row.Status,
		StartedAt:     row.StartedAt,
		DeadlineAt:    row.DeadlineAt,
		QuestionCount: row.QuestionCount,
		Answered:      answered,
		RemainingSecs: remainingSeconds(row.Status, row.DeadlineAt, time.Now().Unix()),
	}

	if row.FinishedAt.Valid {
		v := row.FinishedAt.Int64
		summary.FinishedAt = &v
	}
	if row.Score.Valid {
		summary.Score = row.Score.Float64
	}
	if row.Correct.Valid {
		summary.Correct = int(row.Correct.Int64)
	}
	if row.Wrong.Valid {
		summary.Wrong = int(row.Wrong.Int64)
	}
	if row.Unanswered.Valid {
		summary.Unanswered = int(row.Unanswered.Int64)
	}

	if row.Status == StatusInProgress {
		summary.Correct = 0
		summary.Wrong = 0
		summary.Unanswered = row.QuestionCount - answered
	}

	return summary, nil
}

func (s *Service) loadAttemptRow(ctx context.Context, q queryable, attemptID int64) (*attemptRow, error) {
	row := &attemptRow{}
	err := q.QueryRowContext(ctx, `
		SELECT
			id,
			topic_id,
			user_id,
			status,
			question_count,
			correct_count,
			wrong_count,
			unanswered_count,
			score,
			started_at,
			deadline_at,
			finished_at
		FROM quiz_attempts
		WHERE id = $1
	`, attemptID).Scan(
		&row.ID,
		&row.TopicID,
		&row.UserID,
		&row.Status,
		&row.QuestionCount,
		&row.Correct,
		&row.Wrong,
		&row.Unanswered,
		&row.Score,
		&row.StartedAt,
		&row.DeadlineAt,
		&row.FinishedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrAttemptNotFound
		}
		return nil, fmt.Errorf("load attempt: %w", err)
	}
	return row, nil
}

func loadEvalQuestions(ctx context.Context, q queryable, topicID int64) ([]evalQuestion, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT id, correct_option_index
		FROM questions
		WHERE topic_id = $1 AND is_active = TRUE
		ORDER BY id ASC
	`, topicID)
	if err != nil {
		return nil, fmt.Errorf("query eval questions: %w", err)
	}
	defer rows.Close()

	out := make([]evalQuestion, 0)
	for rows.Next() {
		var eq evalQuestion
		if err := rows.Scan(&eq.ID, &eq.CorrectIndex); err != nil {
			return nil, fmt.Errorf("scan eval question: %w", err)
		}
		out = append(out, eq)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate eval questions: %w", err)
	}
	return out, nil
}

func loadSelections(ctx context.Context, q queryable, attemptID int64) (map[int64]int, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT question_id, selected_index
		FROM quiz_answers
		WHERE attempt_id = $1
	`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("query selections: %w", err)
	}
	defer rows.Close()

	out := make(map[int64]int)
	for rows.Next() {
		var qid int64
		var sel int
		if err := rows.Scan(&qid, &sel); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		out[qid] = sel
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selections: %w", err)
	}
	return out, nil
}

type queryable interface {
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
}

func decodeStringList(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil
	}
	return out
}
