package domain

import "errors"

var (
	// ErrCourseNotFound is returned when no course exists for an id.
	ErrCourseNotFound = errors.New("course not found")
	// ErrQuizNotFound indicates the course exists but carries no quiz.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrInvalidQuiz indicates quiz content that cannot be graded.
	ErrInvalidQuiz = errors.New("invalid quiz")
	// ErrInvalidCourse indicates a course payload missing required fields.
	ErrInvalidCourse = errors.New("invalid course")
	// ErrInvalidRecipient indicates a malformed or empty wallet address.
	ErrInvalidRecipient = errors.New("invalid recipient wallet address")
	// ErrAlreadyMinted is the ledger's duplicate class: a certificate already exists
	// for the (course, recipient) pair.
	ErrAlreadyMinted = errors.New("certificate already minted for this course for this recipient")
)
