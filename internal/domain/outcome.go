package domain

// OutcomeKind tags a MintOutcome.
type OutcomeKind string

const (
	OutcomeMinted           OutcomeKind = "minted"
	OutcomeAlreadyCertified OutcomeKind = "already_certified"
	OutcomeScoreTooLow      OutcomeKind = "score_too_low"
	OutcomeMintFailed       OutcomeKind = "mint_failed"
)

// AttemptStage marks the non-terminal steps of a certification attempt.
type AttemptStage string

const (
	StageSubmitted AttemptStage = "submitted"
	StageGraded    AttemptStage = "graded"
	StageMinting   AttemptStage = "minting"
)

// MintOutcome is the single result of a certification attempt.
// Only the fields relevant to Kind are set; Score is set whenever grading ran.
type MintOutcome struct {
	Kind          OutcomeKind  `json:"kind"`
	TransactionID string       `json:"transactionId,omitempty"`
	Reason        string       `json:"reason,omitempty"`
	Score         *ScoreResult `json:"score,omitempty"`
}

func Minted(txID string, score ScoreResult) MintOutcome {
	return MintOutcome{Kind: OutcomeMinted, TransactionID: txID, Score: &score}
}

func AlreadyCertified(score *ScoreResult) MintOutcome {
	return MintOutcome{Kind: OutcomeAlreadyCertified, Score: score}
}

func ScoreTooLow(score ScoreResult) MintOutcome {
	return MintOutcome{Kind: OutcomeScoreTooLow, Score: &score}
}

func MintFailed(reason string, score ScoreResult) MintOutcome {
	return MintOutcome{Kind: OutcomeMintFailed, Reason: reason, Score: &score}
}

// Percentage returns the graded percentage, or 0 when the attempt was never graded.
func (o MintOutcome) Percentage() float64 {
	if o.Score == nil {
		return 0
	}
	return o.Score.Percentage
}
