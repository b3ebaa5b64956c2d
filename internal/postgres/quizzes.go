package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/curvaqz/curvaqz/internal/quiz"
)

func (s *Store) GetQuiz(ctx context.Context, id string) (*quiz.Record, error) {
	const q = `SELECT id, source, metadata, payload, created_at
	           FROM quizzes WHERE id = $1`

	var record quiz.Record
	err := s.pool.QueryRow(ctx, q, id).Scan(
		&record.ID, &record.Source, &record.Metadata, &record.Payload, &record.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, quiz.ErrNotFound
		}
		return nil, fmt.Errorf("get quiz: %w", err)
	}
	return &record, nil
}
