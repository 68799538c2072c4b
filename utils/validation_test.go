package utils

import (
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sampleQuestion struct {
	QuestionText string   `json:"question_text" validate:"required"`
	Options      []string `json:"options" validate:"required,min=2,dive,required"`
	Score        float64  `json:"score" validate:"omitempty,gt=0"`
	Options2     int      `json:"expected_options" validate:"omitempty,lte=8"`
}

func validQuestion() sampleQuestion {
	return sampleQuestion{QuestionText: "2 + 2?", Options: []string{"3", "4"}}
}

func TestValidateArrayEmpty(t *testing.T) {
	err := ValidateArray[sampleQuestion]("questions_array", nil)
	require.Error(t, err)
	assert.Equal(t, "questions_array must contain at least one item", err.(*fiber.Error).Message)
}

func TestValidateArrayNamesTheFailingElement(t *testing.T) {
	bad := validQuestion()
	bad.Options = []string{"only one"}

	err := ValidateArray("questions_array", []sampleQuestion{validQuestion(), bad})
	require.Error(t, err)

	var fe *fiber.Error
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, fiber.StatusBadRequest, fe.Code)
	assert.Equal(t, "questions_array[1].options must contain at least 2 items", fe.Message)
}

func TestValidateArrayMessages(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*sampleQuestion)
		message string
	}{
		{"required", func(q *sampleQuestion) { q.QuestionText = "" }, "items[0].question_text is required"},
		{"gt", func(q *sampleQuestion) { q.Score = -1 }, "items[0].score must be greater than 0"},
		{"lte", func(q *sampleQuestion) { q.Options2 = 9 }, "items[0].expected_options must be less than or equal to 8"},
		{"dive", func(q *sampleQuestion) { q.Options = []string{"a", ""} }, "items[0].options[1] is required"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuestion()
			tt.mutate(&q)
			err := ValidateArray("items", []sampleQuestion{q})
			require.Error(t, err)
			assert.Equal(t, tt.message, err.(*fiber.Error).Message)
		})
	}
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(validQuestion()))

	err := ValidateStruct(sampleQuestion{Options: []string{"a", "b"}})
	require.Error(t, err)
	assert.Equal(t, "question_text is required", err.(*fiber.Error).Message)
}
