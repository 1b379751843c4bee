package app

import (
	"context"
	"fmt"

	"poap-service/internal/domain"
)

// CertificationService is the entry point used by transports: it resolves the
// course and its quiz, then hands the attempt to the Certifier.
type CertificationService struct {
	courses   CourseRepository
	ledger    Ledger
	certifier *Certifier
}

func NewCertificationService(courses CourseRepository, ledger Ledger, certifier *Certifier) *CertificationService {
	return &CertificationService{courses: courses, ledger: ledger, certifier: certifier}
}

// Submit grades answers for a course and mints a certificate when the attempt qualifies.
func (s *CertificationService) Submit(ctx context.Context, courseID int64, recipient string, answers domain.SubmissionAnswers) (domain.MintOutcome, error) {
	return s.SubmitObserved(ctx, courseID, recipient, answers, nil)
}

func (s *CertificationService) SubmitObserved(ctx context.Context, courseID int64, recipient string, answers domain.SubmissionAnswers, observe StageFunc) (domain.MintOutcome, error) {
	course, err := s.courses.GetCourse(ctx, courseID)
	if err != nil {
		return domain.MintOutcome{}, err
	}
	if course.Quiz == nil {
		return domain.MintOutcome{}, fmt.Errorf("%w: course %d", domain.ErrQuizNotFound, courseID)
	}

	return s.certifier.CertifyObserved(ctx, CertifyRequest{
		CourseID:          course.ID,
		Recipient:         recipient,
		Quiz:              *course.Quiz,
		Answers:           answers,
		CourseName:        course.Title,
		CourseDescription: course.Description,
	}, observe)
}

// Check asks the ledger directly whether a certificate exists. Unlike the
// pre-check inside Certify, failures are reported to the caller.
func (s *CertificationService) Check(ctx context.Context, courseID int64, recipient string) (bool, error) {
	if err := domain.ValidateRecipient(recipient); err != nil {
		return false, err
	}
	exists, err := s.ledger.Exists(ctx, courseID, recipient)
	if err != nil {
		return false, fmt.Errorf("check certificate: %w", err)
	}
	return exists, nil
}
