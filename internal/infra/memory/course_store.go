package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"poap-service/internal/domain"
)

// CourseStore keeps courses in process memory. It backs local runs and tests
// when no Postgres URL is configured.
type CourseStore struct {
	mu      sync.RWMutex
	clock   func() time.Time
	nextID  int64
	courses map[int64]domain.Course
}

// NewCourseStore creates a store pre-loaded with seed courses. Seeds without an id get the next free one.
func NewCourseStore(seed ...domain.Course) *CourseStore {
	s := &CourseStore{
		clock:   time.Now,
		nextID:  1,
		courses: make(map[int64]domain.Course),
	}
	for _, course := range seed {
		s.put(course)
	}
	return s
}

func (s *CourseStore) CreateCourse(_ context.Context, course domain.Course) (domain.Course, error) {
	course.ID = 0
	return s.put(course), nil
}

func (s *CourseStore) ListCourses(_ context.Context) ([]domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	courses := make([]domain.Course, 0, len(s.courses))
	for _, course := range s.courses {
		courses = append(courses, cloneCourse(course))
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (s *CourseStore) LoadCourse(_ context.Context, courseID int64) (domain.Course, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if course, ok := s.courses[courseID]; ok {
		return cloneCourse(course), nil
	}
	return domain.Course{}, domain.ErrCourseNotFound
}

func (s *CourseStore) put(course domain.Course) domain.Course {
	s.mu.Lock()
	defer s.mu.Unlock()

	if course.ID == 0 {
		course.ID = s.nextID
	}
	if course.ID >= s.nextID {
		s.nextID = course.ID + 1
	}
	if course.CreatedAt.IsZero() {
		course.CreatedAt = s.clock()
	}
	course = cloneCourse(course)
	s.courses[course.ID] = course
	return cloneCourse(course)
}

// cloneCourse copies the quiz so callers cannot mutate stored content.
func cloneCourse(course domain.Course) domain.Course {
	if course.Quiz == nil {
		return course
	}
	questions := make([]domain.Question, len(course.Quiz.Questions))
	for i, q := range course.Quiz.Questions {
		q.Options = append([]string(nil), q.Options...)
		questions[i] = q
	}
	course.Quiz = &domain.Quiz{Questions: questions}
	return course
}
