package question

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrTopicNotFound    = errors.New("topic not found")
	ErrQuestionNotFound = errors.New("question not found")
)

const maxOptions = 5

type Service struct {
	db *sql.DB
}

// Record is a persisted question. PremiseItems and Options are stored as
// JSON arrays in a single column each; the proposition list is empty for
// plain single-stem questions.
type Record struct {
	ID                 int64    `json:"id"`
	TopicID            int64    `json:"topic_id"`
	ContextText        string   `json:"context_text,omitempty"`
	PremiseItems       []string `json:"premise_items,omitempty"`
	QuestionStem       string   `json:"question_stem"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation,omitempty"`
	Source             string   `json:"source,omitempty"`
	IsActive           bool     `json:"is_active"`
	CreatedAt          int64    `json:"created_at"`
	UpdatedAt          int64    `json:"updated_at"`
}

type CreateInput struct {
	TopicID            int64
	ContextText        string
	PremiseItems       []string
	QuestionStem       string
	Options            []string
	CorrectOptionIndex int
	Explanation        string
	Source             string
}

type UpdateInput struct {
	ContextText        string
	PremiseItems       []string
	QuestionStem       string
	Options            []string
	CorrectOptionIndex int
	Explanation        string
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*Record, error) {
	normalizeCreateInput(&in)
	if err := validateQuestion(in.QuestionStem, in.Options, in.CorrectOptionIndex); err != nil {
		return nil, err
	}
	if err := s.checkTopic(ctx, in.TopicID); err != nil {
		return nil, err
	}

	now := time.Now().Unix()
	premisesJSON, optionsJSON, err := encodeLists(in.PremiseItems, in.Options)
	if err != nil {
		return nil, err
	}

	var id int64
	err = s.db.QueryRowContext(ctx, `
		INSERT INTO questions (
			topic_id, context_text, premise_items_json, question_stem,
			options_json, correct_option_index, explanation, source,
			is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9)
		RETURNING id
	`, in.TopicID, in.ContextText, premisesJSON, in.QuestionStem,
		optionsJSON, in.CorrectOptionIndex, in.Explanation, in.Source, now).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("insert question: %w", err)
	}

	return s.Get(ctx, id)
}

func (s *Service) Get(ctx context.Context, id int64) (*Record, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, topic_id, context_text, premise_items_json, question_stem,
			options_json, correct_option_index, explanation, source,
			is_active, created_at, updated_at
		FROM questions
		WHERE id = $1
	`, id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrQuestionNotFound
		}
		return nil, fmt.Errorf("get question: %w", err)
	}
	return rec, nil
}

func (s *Service) ListByTopic(ctx context.Context, topicID int64, activeOnly bool) ([]Record, error) {
	if topicID <= 0 {
		return nil, ErrInvalidInput
	}

	query := `
		SELECT id, topic_id, context_text, premise_items_json, question_stem,
			options_json, correct_option_index, explanation, source,
			is_active, created_at, updated_at
		FROM questions
		WHERE topic_id = $1
	`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY id ASC"

	rows, err := s.db.QueryContext(ctx, query, topicID)
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}
	defer rows.Close()

	out := make([]Record, 0)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("scan question: %w", err)
		}
		out = append(out, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate questions: %w", err)
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, id int64, in UpdateInput) (*Record, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}
	in.ContextText = strings.TrimSpace(in.ContextText)
	in.QuestionStem = strings.TrimSpace(in.QuestionStem)
	in.Explanation = strings.TrimSpace(in.Explanation)
	in.PremiseItems = trimAll(in.PremiseItems)
	in.Options = trimAll(in.Options)
	if err := validateQuestion(in.QuestionStem, in.Options, in.CorrectOptionIndex); err != nil {
		return nil, err
	}

	premisesJSON, optionsJSON, err := encodeLists(in.PremiseItems, in.Options)
	if err != nil {
		return nil, err
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE questions
		SET context_text = $2,
			premise_items_json = $3,
			question_stem = $4,
			options_json = $5,
			correct_option_index = $6,
			explanation = $7,
			updated_at = $8
		WHERE id = $1
	`, id, in.ContextText, premisesJSON, in.QuestionStem,
		optionsJSON, in.CorrectOptionIndex, in.Explanation, time.Now().Unix())
	if err != nil {
		return nil, fmt.Errorf("update question: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return nil, ErrQuestionNotFound
	}

	return s.Get(ctx, id)
}

// Delete marks the question inactive. Finished attempts keep referencing it.
func (s *Service) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE questions
		SET is_active = FALSE,
			updated_at = $2
		WHERE id = $1
	`, id, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("delete question: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrQuestionNotFound
	}
	return nil
}

func (s *Service) checkTopic(ctx context.Context, topicID int64) error {
	if topicID <= 0 {
		return ErrTopicNotFound
	}
	var exists int
	err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM topics WHERE id = $1 AND is_active = TRUE
	`, topicID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrTopicNotFound
		}
		return fmt.Errorf("lookup topic: %w", err)
	}
	return nil
}

func normalizeCreateInput(in *CreateInput) {
	in.ContextText = strings.TrimSpace(in.ContextText)
	in.QuestionStem = strings.TrimSpace(in.QuestionStem)
	in.Explanation = strings.TrimSpace(in.Explanation)
	in.Source = strings.TrimSpace(in.Source)
	in.PremiseItems = trimAll(in.PremiseItems)
	in.Options = trimAll(in.Options)
}

func validateQuestion(stem string, options []string, correctIndex int) error {
	if strings.TrimSpace(stem) == "" {
		return fmt.Errorf("%w: question_stem is required", ErrInvalidInput)
	}
	if len(options) < 2 || len(options) > maxOptions {
		return fmt.Errorf("%w: between 2 and %d options are required", ErrInvalidInput, maxOptions)
	}
	for _, opt := range options {
		if strings.TrimSpace(opt) == "" {
			return fmt.Errorf("%w: options must not be empty", ErrInvalidInput)
		}
	}
	if correctIndex < 0 || correctIndex >= len(options) {
		return fmt.Errorf("%w: correct_option_index out of range", ErrInvalidInput)
	}
	return nil
}

func trimAll(items []string) []string {
	if len(items) == 0 {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		it = strings.TrimSpace(it)
		if it != "" {
			out = append(out, it)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func encodeLists(premises, options []string) (string, string, error) {
	premisesJSON, err := encodeStringList(premises)
	if err != nil {
		return "", "", fmt.Errorf("encode premises: %w", err)
	}
	optionsJSON, err := encodeStringList(options)
	if err != nil {
		return "", "", fmt.Errorf("encode options: %w", err)
	}
	return premisesJSON, optionsJSON, nil
}

func encodeStringList(items []string) (string, error) {
	if len(items) == 0 {
		return "[]", nil
	}
	b, err := json.Marshal(items)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func decodeStringList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == "[]" {
		return nil, nil
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*Record, error) {
	var rec Record
	var premisesJSON, optionsJSON string
	if err := row.Scan(
		&rec.ID, &rec.TopicID, &rec.ContextText, &premisesJSON, &rec.QuestionStem,
		&optionsJSON, &rec.CorrectOptionIndex, &rec.Explanation, &rec.Source,
		&rec.IsActive, &rec.CreatedAt, &rec.UpdatedAt,
	); err != nil {
		return nil, err
	}

	var err error
	if rec.PremiseItems, err = decodeStringList(premisesJSON); err != nil {
		return nil, fmt.Errorf("decode premises: %w", err)
	}
	if rec.Options, err = decodeStringList(optionsJSON); err != nil {
		return nil, fmt.Errorf("decode options: %w", err)
	}
	return &rec, nil
}
