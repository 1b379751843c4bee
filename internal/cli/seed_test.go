package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"poap-service/internal/app"
	"poap-service/internal/domain"
	"poap-service/internal/infra/memory"
	"poap-service/pkg/logger"
)

const seedYAML = `
courses:
  - title: Smart Contracts 101
    description: Writing and deploying a first contract
    fileUrl: https://example.com/contracts.pdf
    quizData:
      questions:
        - id: 1
          question: Which language targets the EVM?
          options: [Solidity, COBOL]
          correctAnswer: Solidity
        - id: 2
          question: What pays for execution?
          options: [Gas, Stake]
          correctAnswer: Gas
  - title: Reading list
    description: Further material
    fileUrl: https://example.com/reading.pdf
`

func TestSeedCourses(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.yaml")
	if err := os.WriteFile(path, []byte(seedYAML), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	store := memory.NewCourseStore()
	service := app.NewCourseService(logger.Discard(), store, memory.NewCourseRepository(store, time.Minute))

	if err := seedCourses(context.Background(), service, path, logger.Discard()); err != nil {
		t.Fatalf("seed: %v", err)
	}
	courses, err := store.ListCourses(context.Background())
	if err != nil || len(courses) != 2 {
		t.Fatalf("expected 2 courses, got %d (%v)", len(courses), err)
	}
	first := courses[0]
	if first.Quiz == nil || first.Quiz.Questions[0].ID != "1" || first.Quiz.Questions[1].CorrectAnswer != "Gas" {
		t.Fatalf("unexpected seeded quiz %+v", first.Quiz)
	}
	if courses[1].Quiz != nil {
		t.Fatalf("expected second course without quiz")
	}
}

func TestSeedRejectsInvalidQuiz(t *testing.T) {
	path := filepath.Join(t.TempDir(), "courses.yaml")
	body := `
courses:
  - title: Broken
    description: Answer is not an option
    fileUrl: https://example.com/broken.pdf
    quizData:
      questions:
        - id: 1
          question: Pick one
          options: [A, B]
          correctAnswer: C
`
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write seed: %v", err)
	}
	store := memory.NewCourseStore()
	service := app.NewCourseService(logger.Discard(), store, memory.NewCourseRepository(store, time.Minute))

	err := seedCourses(context.Background(), service, path, logger.Discard())
	if !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected invalid quiz, got %v", err)
	}
}

func TestSampleCoursesAreValid(t *testing.T) {
	for _, course := range sampleCourses() {
		if err := app.ValidateQuiz(*course.Quiz); err != nil {
			t.Fatalf("sample course %q: %v", course.Title, err)
		}
	}
}
