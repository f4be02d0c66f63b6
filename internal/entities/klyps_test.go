package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuestion() Question {
	return Question{
		QuestionText:  "What is the powerhouse of the cell?",
		Options:       []string{"Nucleus", "Mitochondrion", "Ribosome", "Golgi apparatus"},
		CorrectAnswer: "B",
	}
}

func TestQuestionValidate(t *testing.T) {
	assert.NoError(t, validQuestion().Validate())

	short := validQuestion()
	short.Options = short.Options[:3]
	assert.ErrorIs(t, short.Validate(), ErrMalformedDocument)

	long := validQuestion()
	long.Options = append(long.Options, "Lysosome")
	assert.ErrorIs(t, long.Validate(), ErrMalformedDocument)

	badAnswer := validQuestion()
	badAnswer.CorrectAnswer = "E"
	assert.ErrorIs(t, badAnswer.Validate(), ErrMalformedDocument)

	lowercase := validQuestion()
	lowercase.CorrectAnswer = "b"
	assert.ErrorIs(t, lowercase.Validate(), ErrMalformedDocument)
}

func TestKlypValidate(t *testing.T) {
	klyp := Klyp{
		ClassCode: "BIO-101",
		Title:     "Cells",
		Questions: []Question{validQuestion(), validQuestion()},
	}
	assert.NoError(t, klyp.Validate())

	klyp.Questions[1].CorrectAnswer = "Z"
	err := klyp.Validate()
	assert.ErrorIs(t, err, ErrMalformedDocument)
	assert.Contains(t, err.Error(), "question 1")
}

func TestKlypValidateNoQuestions(t *testing.T) {
	assert.NoError(t, Klyp{Title: "Reading only"}.Validate())
}
