package app_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"poap-service/internal/app"
	"poap-service/internal/domain"
	"poap-service/internal/infra/memory"
	"poap-service/pkg/logger"
)

func TestCourseServiceCreateAndGet(t *testing.T) {
	ctx := context.Background()
	service, _ := newCourseService()

	quiz := fiveQuestionQuiz()
	created, err := service.Create(ctx, domain.Course{
		Title:       "  Smart Contracts ",
		Description: "Learn to build smart contracts",
		FileURL:     "https://example.com/sc.pdf",
		Quiz:        &quiz,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == 0 || created.Title != "Smart Contracts" {
		t.Fatalf("unexpected course %+v", created)
	}

	got, err := service.Get(ctx, created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Quiz == nil || len(got.Quiz.Questions) != 5 {
		t.Fatalf("expected quiz to round-trip, got %+v", got.Quiz)
	}

	public := got.Public()
	for _, q := range public.Quiz.Questions {
		if q.CorrectAnswer != "" {
			t.Fatalf("public view leaked answer for %s", q.ID)
		}
	}
	if got.Quiz.Questions[0].CorrectAnswer != "A" {
		t.Fatalf("public view mutated the original")
	}

	courses, err := service.List(ctx)
	if err != nil || len(courses) != 1 {
		t.Fatalf("expected 1 course, got %d %v", len(courses), err)
	}
}

func TestCourseServiceValidation(t *testing.T) {
	ctx := context.Background()
	service, _ := newCourseService()

	if _, err := service.Create(ctx, domain.Course{Title: "x", Description: "y"}); !errors.Is(err, domain.ErrInvalidCourse) {
		t.Fatalf("expected invalid course, got %v", err)
	}

	bad := domain.Quiz{Questions: []domain.Question{{ID: "1", Options: []string{"A", "B"}, CorrectAnswer: "C"}}}
	_, err := service.Create(ctx, domain.Course{Title: "x", Description: "y", FileURL: "z", Quiz: &bad})
	if !errors.Is(err, domain.ErrInvalidQuiz) {
		t.Fatalf("expected invalid quiz, got %v", err)
	}

	if _, err := service.Create(ctx, domain.Course{Title: "x", Description: "y", FileURL: "z"}); err != nil {
		t.Fatalf("course without quiz should be accepted: %v", err)
	}
}

func TestCourseServiceGetMissing(t *testing.T) {
	service, _ := newCourseService()
	if _, err := service.Get(context.Background(), 404); !errors.Is(err, domain.ErrCourseNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func newCourseService() (*app.CourseService, *memory.CourseStore) {
	store := memory.NewCourseStore()
	repo := memory.NewCourseRepository(store, time.Minute)
	return app.NewCourseService(logger.Discard(), store, repo), store
}
