package app

import (
	"context"
	"fmt"
	"strings"

	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

// CourseRepository loads courses, usually through a cache in front of a CourseStore.
type CourseRepository interface {
	GetCourse(ctx context.Context, courseID int64) (domain.Course, error)
}

// CourseStore persists courses.
type CourseStore interface {
	CreateCourse(ctx context.Context, course domain.Course) (domain.Course, error)
	ListCourses(ctx context.Context) ([]domain.Course, error)
}

// CourseService contains the course catalogue use cases.
type CourseService struct {
	log     logger.Log
	store   CourseStore
	courses CourseRepository
}

func NewCourseService(log logger.Log, store CourseStore, courses CourseRepository) *CourseService {
	return &CourseService{log: log, store: store, courses: courses}
}

// Create validates and stores a new course. The quiz is optional but must be
// gradeable when present, since courses cannot change after publishing.
func (s *CourseService) Create(ctx context.Context, course domain.Course) (domain.Course, error) {
	course.Title = strings.TrimSpace(course.Title)
	course.Description = strings.TrimSpace(course.Description)
	course.FileURL = strings.TrimSpace(course.FileURL)
	if course.Title == "" || course.Description == "" || course.FileURL == "" {
		return domain.Course{}, fmt.Errorf("%w: title, description and fileUrl are required", domain.ErrInvalidCourse)
	}
	if course.Quiz != nil {
		if err := ValidateQuiz(*course.Quiz); err != nil {
			return domain.Course{}, err
		}
	}

	created, err := s.store.CreateCourse(ctx, course)
	if err != nil {
		return domain.Course{}, fmt.Errorf("create course: %w", err)
	}
	s.log.Info("course created", "course_id", created.ID, "has_quiz", created.Quiz != nil)
	return created, nil
}

func (s *CourseService) List(ctx context.Context) ([]domain.Course, error) {
	return s.store.ListCourses(ctx)
}

func (s *CourseService) Get(ctx context.Context, courseID int64) (domain.Course, error) {
	return s.courses.GetCourse(ctx, courseID)
}
