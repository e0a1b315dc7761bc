package catalog

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
	ErrInvalidInput = errors.New("invalid input")
)

type Service struct {
	db *sql.DB
}

type Category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"is_active"`
}

type Topic struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
	IsActive   bool   `json:"is_active"`
}

type CreateTopicInput struct {
	CategoryID int64
	Name       string
}

type UpdateTopicInput struct {
	CategoryID int64
	Name       string
}

func NewService(db *sql.DB) *Service {
	return &Service{db: db}
}

func (s *Service) CreateCategory(ctx context.Context, actorID int64, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrInvalidInput
	}

	var out Category
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, is_active, created_at)
		VALUES ($1, TRUE, $2)
		RETURNING id, name, is_active
	`, name, time.Now().Unix()).Scan(&out.ID, &out.Name, &out.IsActive)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", err)
	}

	_ = s.writeAudit(ctx, actorID, "category_created", "category", fmt.Sprintf("%d", out.ID), map[string]any{
		"name": out.Name,
	})
	return &out, nil
}

func (s *Service) ListCategories(ctx context.Context, activeOnly bool) ([]Category, error) {
	query := `
		SELECT id, name, is_active
		FROM categories
	`
	if activeOnly {
		query += " WHERE is_active = TRUE"
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := make([]Category, 0)
	for rows.Next() {
		var it Category
		if err := rows.Scan(&it.ID, &it.Name, &it.IsActive); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate categories: %w", err)
	}
	return out, nil
}

func (s *Service) UpdateCategory(ctx context.Context, actorID, id int64, name string) (*Category, error) {
	name = strings.TrimSpace(name)
	if id <= 0 || name == "" {
		return nil, ErrInvalidInput
	}

	var out Category
	err := s.db.QueryRowContext(ctx, `
		UPDATE categories
		SET name = $2
		WHERE id = $1
		RETURNING id, name, is_active
	`, id, name).Scan(&out.ID, &out.Name, &out.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("update category: %w", err)
	}

	_ = s.writeAudit(ctx, actorID, "category_updated", "category", fmt.Sprintf("%d", out.ID), map[string]any{
		"name": out.Name,
	})
	return &out, nil
}

// DeleteCategory deactivates the category. Topics and questions under it
// stay in place so existing attempts keep resolving.
func (s *Service) DeleteCategory(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE categories
		SET is_active = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}

	_ = s.writeAudit(ctx, actorID, "category_deleted", "category", fmt.Sprintf("%d", id), map[string]any{})
	return nil
}

func (s *Service) CreateTopic(ctx context.Context, actorID int64, in CreateTopicInput) (*Topic, error) {
	name := strings.TrimSpace(in.Name)
	if in.CategoryID <= 0 || name == "" {
		return nil, ErrInvalidInput
	}

	var exists int
	if err := s.db.QueryRowContext(ctx, `
		SELECT 1 FROM categories WHERE id = $1 AND is_active = TRUE
	`, in.CategoryID).Scan(&exists); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidInput
		}
		return nil, fmt.Errorf("lookup category: %w", err)
	}

	var out Topic
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO topics (category_id, name, is_active, created_at)
		VALUES ($1, $2, TRUE, $3)
		RETURNING id, category_id, name, is_active
	`, in.CategoryID, name, time.Now().Unix()).Scan(&out.ID, &out.CategoryID, &out.Name, &out.IsActive)
	if err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}

	_ = s.writeAudit(ctx, actorID, "topic_created", "topic", fmt.Sprintf("%d", out.ID), map[string]any{
		"category_id": out.CategoryID,
		"name":        out.Name,
	})
	return &out, nil
}

func (s *Service) ListTopics(ctx context.Context, categoryID int64, activeOnly bool) ([]Topic, error) {
	query := `
		SELECT id, category_id, name, is_active
		FROM topics
		WHERE ($1 <= 0 OR category_id = $1)
	`
	if activeOnly {
		query += " AND is_active = TRUE"
	}
	query += " ORDER BY name ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, categoryID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	out := make([]Topic, 0)
	for rows.Next() {
		var it Topic
		if err := rows.Scan(&it.ID, &it.CategoryID, &it.Name, &it.IsActive); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		out = append(out, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate topics: %w", err)
	}
	return out, nil
}

func (s *Service) GetTopic(ctx context.Context, id int64) (*Topic, error) {
	if id <= 0 {
		return nil, ErrInvalidInput
	}

	var out Topic
	err := s.db.QueryRowContext(ctx, `
		SELECT id, category_id, name, is_active
		FROM topics
		WHERE id = $1
	`, id).Scan(&out.ID, &out.CategoryID, &out.Name, &out.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("get topic: %w", err)
	}
	return &out, nil
}

func (s *Service) UpdateTopic(ctx context.Context, actorID, id int64, in UpdateTopicInput) (*Topic, error) {
	name := strings.TrimSpace(in.Name)
	if id <= 0 || in.CategoryID <= 0 || name == "" {
		return nil, ErrInvalidInput
	}

	var out Topic
	err := s.db.QueryRowContext(ctx, `
		UPDATE topics
		SET category_id = $2,
			name = $3
		WHERE id = $1
		RETURNING id, category_id, name, is_active
	`, id, in.CategoryID, name).Scan(&out.ID, &out.CategoryID, &out.Name, &out.IsActive)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, sql.ErrNoRows
		}
		return nil, fmt.Errorf("update topic: %w", err)
	}

	_ = s.writeAudit(ctx, actorID, "topic_updated", "topic", fmt.Sprintf("%d", out.ID), map[string]any{
		"category_id": out.CategoryID,
		"name":        out.Name,
	})
	return &out, nil
}

func (s *Service) DeleteTopic(ctx context.Context, actorID, id int64) error {
	if id <= 0 {
		return ErrInvalidInput
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE topics
		SET is_active = FALSE
		WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("delete topic: %w", err)
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return sql.ErrNoRows
	}

	_ = s.writeAudit(ctx, actorID, "topic_deleted", "topic", fmt.Sprintf("%d", id), map[string]any{})
	return nil
}

func (s *Service) writeAudit(ctx context.Context, userID int64, action, entityType, entityID string, payload map[string]any) error {
	b, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (user_id, action, entity_type, entity_id, payload, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, userID, action, entityType, entityID, string(b), time.Now().Unix())
	return err
}
