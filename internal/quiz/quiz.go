// Package quiz provides lookup of stored quizzes and validation of their
// persisted payloads. A payload that fails to revive into the expected shape
// is a data-integrity error: serving malformed quiz data is worse than failing.
package quiz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/curvaqz/curvaqz/internal/quizapi"
)

var (
	// ErrNotFound is returned when no quiz exists with the given ID.
	ErrNotFound = errors.New("quiz not found")
	// ErrInvalidPayload is returned when a stored payload cannot be revived
	// into the expected shape.
	ErrInvalidPayload = errors.New("invalid quiz payload")
)

// Record is a stored quiz row. Payload is nil when the quiz was saved without
// its content.
type Record struct {
	ID        string
	Source    string
	Metadata  json.RawMessage
	Payload   []byte
	CreatedAt time.Time
}

// Store defines quiz persistence lookup.
type Store interface {
	// GetQuiz returns the quiz with the given ID or ErrNotFound.
	GetQuiz(ctx context.Context, id string) (*Record, error)
}

// StoredPayload is the shape a persisted quiz payload must revive into.
type StoredPayload struct {
	QuizID    string             `json:"quizId"`
	Source    string             `json:"source"`
	Metadata  json.RawMessage    `json:"metadata"`
	Questions []quizapi.Question `json:"questions"`
}

// RevivePayload parses and validates a stored quiz payload. Beyond JSON
// well-formedness it requires a quiz ID and at least one question with text
// and answers, since a structurally empty quiz is as unservable as a corrupt one.
func RevivePayload(raw []byte) (*StoredPayload, error) {
	var payload StoredPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidPayload, err)
	}

	if payload.QuizID == "" {
		return nil, fmt.Errorf("%w: missing quiz id", ErrInvalidPayload)
	}
	if len(payload.Questions) == 0 {
		return nil, fmt.Errorf("%w: no questions", ErrInvalidPayload)
	}
	for i, q := range payload.Questions {
		if q.Text == "" {
			return nil, fmt.Errorf("%w: question %d has no text", ErrInvalidPayload, i)
		}
		if len(q.Answers) == 0 {
			return nil, fmt.Errorf("%w: question %d has no answers", ErrInvalidPayload, i)
		}
	}

	return &payload, nil
}
