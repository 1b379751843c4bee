package domain

import (
	"encoding/json"
	"fmt"
	"time"
)

// QuestionID identifies a question within a quiz. Stored quizzes use numeric
// ids, so JSON numbers and strings are both accepted.
type QuestionID string

func (id *QuestionID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = QuestionID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("question id: %w", err)
	}
	*id = QuestionID(n.String())
	return nil
}

// Question is a multiple choice question with a single correct label.
type Question struct {
	ID            QuestionID `json:"id"`
	Text          string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer string     `json:"correctAnswer,omitempty"`
}

// Quiz is the ordered question list attached to a course. Order only matters for display.
type Quiz struct {
	Questions []Question `json:"questions"`
}

// SubmissionAnswers maps question ids to the submitted label. Partial maps are allowed.
type SubmissionAnswers map[QuestionID]string

// Course is a published course. It is immutable once created.
type Course struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	FileURL     string    `json:"fileUrl"`
	Quiz        *Quiz     `json:"quizData,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Public returns a copy of the course safe to hand to learners: correct answers are removed.
func (c Course) Public() Course {
	if c.Quiz == nil {
		return c
	}
	questions := make([]Question, len(c.Quiz.Questions))
	for i, q := range c.Quiz.Questions {
		questions[i] = Question{
			ID:      q.ID,
			Text:    q.Text,
			Options: append([]string(nil), q.Options...),
		}
	}
	c.Quiz = &Quiz{Questions: questions}
	return c
}

// ScoreResult is the outcome of grading one submission.
type ScoreResult struct {
	CorrectCount   int     `json:"correctCount"`
	TotalQuestions int     `json:"totalQuestions"`
	Percentage     float64 `json:"percentage"`
}

// MintRequest carries what the ledger needs to mint one certificate.
type MintRequest struct {
	Recipient         string
	CourseID          int64
	CourseName        string
	CourseDescription string
}
