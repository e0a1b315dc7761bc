// Package report aggregates attempt outcomes per topic for editors and
// admins. It only reads finalized attempts.
package report

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

var ErrTopicNotFound = errors.New("topic not found")

type Service struct {
	db *sql.DB
}

type TopicSummary struct {
	TopicID       int64   `json:"topic_id"`
	TopicName     string  `json:"topic_name"`
	QuestionCount int     `json:"question_count"`
	AttemptCount  int     `json:"attempt_count"`
	SubmittedCnt  int     `json:"submitted_count"`
	ExpiredCnt    int     `json:"expired_count"`
	AverageScore  float64 `json:"average_score"`
	HighestScore  float64 `json:"highest_score"`
	LowestScore   float64 `json:"lowest_score"`
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) SummaryByTopic(ctx context.Context, topicID int64) (*TopicSummary, error) {
	out := &TopicSummary{TopicID: topicID}

	if err := s.db.QueryRowContext(ctx, `
		SELECT name FROM topics WHERE id = $1
	`, topicID).Scan(&out.TopicName); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTopicNotFound
		}
		return nil, fmt.Errorf("load topic: %w", err)
	}

	if err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM questions WHERE topic_id = $1 AND is_active = TRUE
	`, topicID).Scan(&out.QuestionCount); err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	var avg, max, min sql.NullFloat64
	if err := s.db.QueryRowContext(ctx, `
		SELECT
			COUNT(*),
			COUNT(CASE WHEN status = 'submitted' THEN 1 END),
			COUNT(CASE WHEN status = 'expired' THEN 1 END),
			AVG(CASE WHEN status <> 'in_progress' THEN score END),
			MAX(CASE WHEN status <> 'in_progress' THEN score END),
			MIN(CASE WHEN status <> 'in_progress' THEN score END)
		FROM quiz_attempts
		WHERE topic_id = $1
	`, topicID).Scan(&out.AttemptCount, &out.SubmittedCnt, &out.ExpiredCnt, &avg, &max, &min); err != nil {
		return nil, fmt.Errorf("aggregate attempts: %w", err)
	}

	if avg.Valid {
		out.AverageScore = avg.Float64
	}
	if max.Valid {
		out.HighestScore = max.Float64
	}
	if min.Valid {
		out.LowestScore = min.Float64
	}

	return out, nil
}

// Overview returns one summary row per active topic, topics without
// attempts included.
func (s *Service) Overview(ctx context.Context) ([]TopicSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT
			t.id,
			t.name,
			COUNT(DISTINCT q.id),
			COUNT(DISTINCT a.id),
			AVG(CASE WHEN a.status <> 'in_progress' THEN a.score END)
		FROM topics t
		LEFT JOIN questions q ON q.topic_id = t.id AND q.is_active = TRUE
		LEFT JOIN quiz_attempts a ON a.topic_id = t.id
		WHERE t.is_active = TRUE
		GROUP BY t.id, t.name
		ORDER BY t.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("query overview: %w", err)
	}
	defer rows.Close()

	out := make([]TopicSummary, 0)
	for rows.Next() {
		var item TopicSummary
		var avg sql.NullFloat64
		if err := rows.Scan(&item.TopicID, &item.TopicName, &item.QuestionCount, &item.AttemptCount, &avg); err != nil {
			return nil, fmt.Errorf("scan overview row: %w", err)
		}
		if avg.Valid {
			item.AverageScore = avg.Float64
		}
		out = append(out, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate overview: %w", err)
	}
	return out, nil
}
