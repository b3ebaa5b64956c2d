package quiz_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvaqz/curvaqz/internal/quiz"
)

func TestRevivePayload(t *testing.T) {
	t.Parallel()

	t.Run("valid payload", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{
			"quizId": "qz-123",
			"source": "fixture",
			"metadata": {"league": 1},
			"questions": [
				{"question": "Who won?", "answers": [
					{"text": "Home", "correct": true},
					{"text": "Away", "correct": false}
				]}
			]
		}`)

		payload, err := quiz.RevivePayload(raw)
		require.NoError(t, err)
		assert.Equal(t, "qz-123", payload.QuizID)
		assert.Equal(t, "fixture", payload.Source)
		assert.JSONEq(t, `{"league": 1}`, string(payload.Metadata))
		require.Len(t, payload.Questions, 1)
		assert.Equal(t, "Who won?", payload.Questions[0].Text)
		require.Len(t, payload.Questions[0].Answers, 2)
		assert.True(t, payload.Questions[0].Answers[0].Correct)
	})

	t.Run("malformed json", func(t *testing.T) {
		t.Parallel()

		_, err := quiz.RevivePayload([]byte(`{"quizId": `))
		assert.ErrorIs(t, err, quiz.ErrInvalidPayload)
	})

	t.Run("missing quiz id", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"questions": [{"question": "Q", "answers": [{"text": "A", "correct": true}]}]}`)

		_, err := quiz.RevivePayload(raw)
		require.ErrorIs(t, err, quiz.ErrInvalidPayload)
		assert.Contains(t, err.Error(), "missing quiz id")
	})

	t.Run("no questions", func(t *testing.T) {
		t.Parallel()

		_, err := quiz.RevivePayload([]byte(`{"quizId": "qz-1", "questions": []}`))
		require.ErrorIs(t, err, quiz.ErrInvalidPayload)
		assert.Contains(t, err.Error(), "no questions")
	})

	t.Run("question without text", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"quizId": "qz-1", "questions": [
			{"question": "", "answers": [{"text": "A", "correct": true}]}
		]}`)

		_, err := quiz.RevivePayload(raw)
		require.ErrorIs(t, err, quiz.ErrInvalidPayload)
		assert.Contains(t, err.Error(), "question 0 has no text")
	})

	t.Run("question without answers", func(t *testing.T) {
		t.Parallel()

		raw := []byte(`{"quizId": "qz-1", "questions": [
			{"question": "First", "answers": [{"text": "A", "correct": true}]},
			{"question": "Second", "answers": []}
		]}`)

		_, err := quiz.RevivePayload(raw)
		require.ErrorIs(t, err, quiz.ErrInvalidPayload)
		assert.Contains(t, err.Error(), "question 1 has no answers")
	})
}
