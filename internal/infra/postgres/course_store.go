package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
	"poap-service/internal/domain"
)

// CourseStore keeps courses in Postgres with the quiz held as JSONB.
type CourseStore struct {
	pool *pgxpool.Pool
}

func NewCourseStore(pool *pgxpool.Pool) *CourseStore {
	return &CourseStore{pool: pool}
}

func (s *CourseStore) CreateCourse(ctx context.Context, course domain.Course) (domain.Course, error) {
	quiz, err := encodeQuiz(course.Quiz)
	if err != nil {
		return domain.Course{}, err
	}
	err = s.pool.QueryRow(ctx,
		`INSERT INTO courses (title, description, file_url, quiz)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, created_at`,
		course.Title, course.Description, course.FileURL, quiz,
	).Scan(&course.ID, &course.CreatedAt)
	if err != nil {
		return domain.Course{}, fmt.Errorf("insert course: %w", err)
	}
	return course, nil
}

func (s *CourseStore) ListCourses(ctx context.Context) ([]domain.Course, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, title, description, file_url, quiz, created_at FROM courses ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	defer rows.Close()

	var courses []domain.Course
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list courses: %w", err)
	}
	return courses, nil
}

func (s *CourseStore) LoadCourse(ctx context.Context, courseID int64) (domain.Course, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, title, description, file_url, quiz, created_at FROM courses WHERE id=$1`, courseID)
	course, err := scanCourse(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Course{}, fmt.Errorf("course %d: %w", courseID, domain.ErrCourseNotFound)
	}
	return course, err
}

func scanCourse(row pgx.Row) (domain.Course, error) {
	var (
		course domain.Course
		quiz   []byte
	)
	if err := row.Scan(&course.ID, &course.Title, &course.Description, &course.FileURL, &quiz, &course.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Course{}, err
		}
		return domain.Course{}, fmt.Errorf("scan course: %w", err)
	}
	if len(quiz) > 0 {
		course.Quiz = &domain.Quiz{}
		if err := json.Unmarshal(quiz, course.Quiz); err != nil {
			return domain.Course{}, fmt.Errorf("unmarshal quiz: %w", err)
		}
	}
	return course, nil
}

// encodeQuiz returns nil for a course without a quiz so the column stays NULL.
func encodeQuiz(quiz *domain.Quiz) ([]byte, error) {
	if quiz == nil {
		return nil, nil
	}
	data, err := json.Marshal(quiz)
	if err != nil {
		return nil, fmt.Errorf("marshal quiz: %w", err)
	}
	return data, nil
}
