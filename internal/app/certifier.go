package app

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

// Ledger is the authoritative certificate store. Mint must fail with an error
// wrapping domain.ErrAlreadyMinted when the (course, recipient) pair is taken.
type Ledger interface {
	Exists(ctx context.Context, courseID int64, recipient string) (bool, error)
	Mint(ctx context.Context, req domain.MintRequest) (string, error)
}

// CertifyRequest is one certification attempt.
type CertifyRequest struct {
	CourseID          int64
	Recipient         string
	Quiz              domain.Quiz
	Answers           domain.SubmissionAnswers
	CourseName        string
	CourseDescription string
}

type CertifierOptions struct {
	// Threshold overrides PassThreshold when non-zero.
	Threshold float64
	// CheckTimeout and MintTimeout bound the ledger calls when positive.
	CheckTimeout time.Duration
	MintTimeout  time.Duration
}

// StageFunc observes the non-terminal stages of an attempt. score is nil before grading.
type StageFunc func(stage domain.AttemptStage, score *domain.ScoreResult)

// Certifier coordinates grading, gating and minting. It holds no mutable state;
// uniqueness is left to the ledger.
type Certifier struct {
	log          logger.Log
	ledger       Ledger
	gate         Gate
	checkTimeout time.Duration
	mintTimeout  time.Duration
}

func NewCertifier(log logger.Log, ledger Ledger, opts CertifierOptions) *Certifier {
	return &Certifier{
		log:          log,
		ledger:       ledger,
		gate:         Gate{Threshold: opts.Threshold},
		checkTimeout: opts.CheckTimeout,
		mintTimeout:  opts.MintTimeout,
	}
}

// Certify runs a full attempt. Policy refusals and ledger failures are returned
// as outcomes; the error is reserved for invalid input, which never reaches the ledger.
func (c *Certifier) Certify(ctx context.Context, req CertifyRequest) (domain.MintOutcome, error) {
	return c.CertifyObserved(ctx, req, nil)
}

// CertifyObserved is Certify with stage notifications.
func (c *Certifier) CertifyObserved(ctx context.Context, req CertifyRequest, observe StageFunc) (domain.MintOutcome, error) {
	if err := domain.ValidateRecipient(req.Recipient); err != nil {
		return domain.MintOutcome{}, err
	}
	if err := ValidateQuiz(req.Quiz); err != nil {
		return domain.MintOutcome{}, err
	}

	log := c.log.With("attempt_id", uuid.NewString(), "course_id", req.CourseID, "recipient", req.Recipient)
	notify(observe, domain.StageSubmitted, nil)

	certified := c.preCheck(ctx, log, req)

	score, err := Grade(req.Quiz, req.Answers)
	if err != nil {
		return domain.MintOutcome{}, err
	}
	notify(observe, domain.StageGraded, &score)

	decision := c.gate.Decide(score.Percentage, certified)
	if !decision.Proceed {
		log.Info("certification refused", "outcome", decision.Refusal, "percentage", score.Percentage)
		return decision.outcome(score), nil
	}

	notify(observe, domain.StageMinting, &score)
	txID, err := c.mint(ctx, req)
	if err != nil {
		outcome := reconcileMintError(err, score)
		if outcome.Kind == domain.OutcomeAlreadyCertified {
			log.Info("ledger rejected duplicate mint", "percentage", score.Percentage)
		} else {
			log.ErrorErr("mint failed", err, "percentage", score.Percentage)
		}
		return outcome, nil
	}

	log.Info("certificate minted", "tx", txID, "percentage", score.Percentage)
	return domain.Minted(txID, score), nil
}

// preCheck is advisory: any failure counts as "not certified" because the
// mint call enforces uniqueness anyway.
func (c *Certifier) preCheck(ctx context.Context, log logger.Log, req CertifyRequest) bool {
	if c.checkTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.checkTimeout)
		defer cancel()
	}
	exists, err := c.ledger.Exists(ctx, req.CourseID, req.Recipient)
	if err != nil {
		log.Warn("certificate pre-check failed, continuing", logger.Err(err))
		return false
	}
	return exists
}

func (c *Certifier) mint(ctx context.Context, req CertifyRequest) (string, error) {
	if c.mintTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.mintTimeout)
		defer cancel()
	}
	return c.ledger.Mint(ctx, domain.MintRequest{
		Recipient:         req.Recipient,
		CourseID:          req.CourseID,
		CourseName:        req.CourseName,
		CourseDescription: req.CourseDescription,
	})
}

// reconcileMintError maps a ledger failure to an outcome. A duplicate here means a
// concurrent attempt won between the pre-check and the mint.
func reconcileMintError(err error, score domain.ScoreResult) domain.MintOutcome {
	switch {
	case errors.Is(err, domain.ErrAlreadyMinted):
		return domain.AlreadyCertified(&score)
	case errors.Is(err, context.DeadlineExceeded):
		return domain.MintFailed("timeout", score)
	default:
		return domain.MintFailed(err.Error(), score)
	}
}

func notify(observe StageFunc, stage domain.AttemptStage, score *domain.ScoreResult) {
	if observe != nil {
		observe(stage, score)
	}
}
