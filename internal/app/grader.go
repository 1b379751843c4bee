package app

import (
	"fmt"

	"poap-service/internal/domain"
)

// ValidateQuiz checks that a quiz can be graded: at least one question, unique
// non-empty ids, two or more options per question and a correct answer drawn
// from the question's own options.
func ValidateQuiz(quiz domain.Quiz) error {
	if len(quiz.Questions) == 0 {
		return fmt.Errorf("%w: no questions", domain.ErrInvalidQuiz)
	}
	seen := make(map[domain.QuestionID]struct{}, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if q.ID == "" {
			return fmt.Errorf("%w: question %d has no id", domain.ErrInvalidQuiz, i)
		}
		if _, dup := seen[q.ID]; dup {
			return fmt.Errorf("%w: duplicate question id %q", domain.ErrInvalidQuiz, q.ID)
		}
		seen[q.ID] = struct{}{}
		if len(q.Options) < 2 {
			return fmt.Errorf("%w: question %q needs at least two options", domain.ErrInvalidQuiz, q.ID)
		}
		if !hasOption(q, q.CorrectAnswer) {
			return fmt.Errorf("%w: question %q correct answer is not one of its options", domain.ErrInvalidQuiz, q.ID)
		}
	}
	return nil
}

// Grade scores a submission. Answers are compared to the correct label by exact,
// case-sensitive equality; missing and unknown ids count as incorrect.
func Grade(quiz domain.Quiz, answers domain.SubmissionAnswers) (domain.ScoreResult, error) {
	if err := ValidateQuiz(quiz); err != nil {
		return domain.ScoreResult{}, err
	}

	correct := 0
	for _, q := range quiz.Questions {
		if answer, ok := answers[q.ID]; ok && answer == q.CorrectAnswer {
			correct++
		}
	}

	total := len(quiz.Questions)
	return domain.ScoreResult{
		CorrectCount:   correct,
		TotalQuestions: total,
		// Both operands are exact integers, so a true 80% lands on exactly 80.0.
		Percentage: float64(100*correct) / float64(total),
	}, nil
}

func hasOption(q domain.Question, label string) bool {
	for _, opt := range q.Options {
		if opt == label {
			return true
		}
	}
	return false
}
