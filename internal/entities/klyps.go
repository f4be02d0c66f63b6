package entities

import (
	"errors"
	"fmt"
	"time"
)

// ErrMalformedDocument marks a document that decoded (or would encode) into a
// structurally invalid entity. Repositories reject such documents before they
// reach the store or the caller.
var ErrMalformedDocument = errors.New("malformed document")

// QuestionOptionCount is the required number of answer options per question.
const QuestionOptionCount = 4

var validAnswers = map[string]bool{"A": true, "B": true, "C": true, "D": true}

// Question is a single multiple-choice question inside a Klyp. Exactly four
// options, correct answer one of A-D.
type Question struct {
	QuestionText  string   `json:"questionText"`
	Options       []string `json:"options"`
	CorrectAnswer string   `json:"correctAnswer"`
}

// Validate checks the structural invariants of a question.
func (q Question) Validate() error {
	if len(q.Options) != QuestionOptionCount {
		return fmt.Errorf("question has %d options, want %d: %w", len(q.Options), QuestionOptionCount, ErrMalformedDocument)
	}
	if !validAnswers[q.CorrectAnswer] {
		return fmt.Errorf("correct answer %q not in A-D: %w", q.CorrectAnswer, ErrMalformedDocument)
	}
	return nil
}

// Klyp is a single learning unit: a body of study material plus its quiz
// questions. A klyp belongs to exactly one class via classCode.
type Klyp struct {
	ID        string     `json:"-"`
	ClassCode string     `json:"classCode"`
	Title     string     `json:"title"`
	MainBody  string     `json:"mainBody"`
	Questions []Question `json:"questions"`
	CreatedAt time.Time  `json:"createdAt"`
}

// Validate checks the klyp and all of its questions.
func (k Klyp) Validate() error {
	for i, q := range k.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("question %d: %w", i, err)
		}
	}
	return nil
}
