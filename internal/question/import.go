package question

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"sorubank/internal/textimport"
)

// ImportPreview is the dry-run result of parsing a pasted document. Nothing
// is persisted; the batch id only labels the preview for the client.
type ImportPreview struct {
	BatchID   string                `json:"batch_id"`
	Questions []textimport.Question `json:"questions"`
	Report    textimport.Report     `json:"report"`
}

type ImportRowResult struct {
	ParsedID   string `json:"parsed_id"`
	QuestionID int64  `json:"question_id,omitempty"`
	Stem       string `json:"stem"`
	Error      string `json:"error,omitempty"`
}

type ImportReport struct {
	BatchID       string            `json:"batch_id"`
	TopicID       int64             `json:"topic_id"`
	TotalBlocks   int               `json:"total_blocks"`
	SkippedBlocks int               `json:"skipped_blocks"`
	SavedRows     int               `json:"saved_rows"`
	FailedRows    int               `json:"failed_rows"`
	Rows          []ImportRowResult `json:"rows"`
}

// PreviewImport parses pasted exam text without touching the database.
func (s *Service) PreviewImport(text string) *ImportPreview {
	questions, report := textimport.ParseWithReport(text)
	return &ImportPreview{
		BatchID:   uuid.NewString(),
		Questions: questions,
		Report:    report,
	}
}

// Import parses the document and persists every well-formed record to the
// topic in a single transaction. Records that fail bank validation are
// reported per row and skipped; the remaining inserts commit together.
func (s *Service) Import(ctx context.Context, topicID int64, text, source string) (*ImportReport, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: text is required", ErrInvalidInput)
	}
	if err := s.checkTopic(ctx, topicID); err != nil {
		return nil, err
	}

	questions, parseReport := textimport.ParseWithReport(text)
	report := &ImportReport{
		BatchID:       uuid.NewString(),
		TopicID:       topicID,
		TotalBlocks:   parseReport.TotalBlocks,
		SkippedBlocks: parseReport.SkippedBlocks,
		Rows:          make([]ImportRowResult, 0, len(questions)),
	}
	source = strings.TrimSpace(source)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().Unix()
	for _, q := range questions {
		row := ImportRowResult{ParsedID: q.ID, Stem: q.QuestionStem}

		if err := validateQuestion(q.QuestionStem, q.Options, q.CorrectOptionIndex); err != nil {
			row.Error = err.Error()
			report.FailedRows++
			report.Rows = append(report.Rows, row)
			continue
		}

		premisesJSON, optionsJSON, err := encodeLists(q.PremiseItems, q.Options)
		if err != nil {
			row.Error = err.Error()
			report.FailedRows++
			report.Rows = append(report.Rows, row)
			continue
		}

		var id int64
		err = tx.QueryRowContext(ctx, `
			INSERT INTO questions (
				topic_id, context_text, premise_items_json, question_stem,
				options_json, correct_option_index, explanation, source,
				is_active, created_at, updated_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, TRUE, $9, $9)
			RETURNING id
		`, topicID, q.ContextText, premisesJSON, q.QuestionStem,
			optionsJSON, q.CorrectOptionIndex, q.Explanation, source, now).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("insert imported question: %w", err)
		}

		row.QuestionID = id
		report.SavedRows++
		report.Rows = append(report.Rows, row)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}
	return report, nil
}
