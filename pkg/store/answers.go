package store

import (
	"context"
	"fmt"

	"github.com/intizar/easyapply/pkg/domain"
)

// SaveAnswer persists one question-answer pair. A question already present
// keeps its original answer; once written an entry is never rewritten.
func (s *Store) SaveAnswer(ctx context.Context, question, answer string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answers (question, answer) VALUES (?, ?)
		ON CONFLICT(question) DO NOTHING`,
		question, answer,
	)
	if err != nil {
		return fmt.Errorf("save answer: %w", err)
	}
	return nil
}

// LoadAnswers returns the full persisted question-answer map.
func (s *Store) LoadAnswers(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question, answer FROM answers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("load answers: %w", err)
	}
	defer rows.Close()

	answers := make(map[string]string)
	for rows.Next() {
		var q, a string
		if err := rows.Scan(&q, &a); err != nil {
			return nil, err
		}
		answers[q] = a
	}
	return answers, rows.Err()
}

// ListAnswers returns persisted pairs in insertion order, for display.
func (s *Store) ListAnswers(ctx context.Context) ([]domain.QAEntry, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT question, answer FROM answers ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("list answers: %w", err)
	}
	defer rows.Close()

	var entries []domain.QAEntry
	for rows.Next() {
		var e domain.QAEntry
		if err := rows.Scan(&e.Question, &e.Answer); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// SetAnswer overwrites an answer from the CLI. This is the operator's
// correction path for sentinel answers; the apply loop itself never updates.
func (s *Store) SetAnswer(ctx context.Context, question, answer string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO answers (question, answer) VALUES (?, ?)
		ON CONFLICT(question) DO UPDATE SET answer = excluded.answer`,
		question, answer,
	)
	if err != nil {
		return fmt.Errorf("set answer: %w", err)
	}
	return nil
}
