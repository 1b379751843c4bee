package app

import "poap-service/internal/domain"

// PassThreshold is the minimum percentage, inclusive, required to mint.
const PassThreshold = 80.0

// Gate decides whether a graded attempt may proceed to minting.
// A zero Threshold means PassThreshold.
type Gate struct {
	Threshold float64
}

// Decision is the gate's verdict. Refusal is empty when Proceed is true.
type Decision struct {
	Proceed bool
	Refusal domain.OutcomeKind
}

func (g Gate) threshold() float64 {
	if g.Threshold == 0 {
		return PassThreshold
	}
	return g.Threshold
}

// Decide refuses already certified recipients before looking at the score.
func (g Gate) Decide(percentage float64, alreadyCertified bool) Decision {
	if alreadyCertified {
		return Decision{Refusal: domain.OutcomeAlreadyCertified}
	}
	if percentage < g.threshold() {
		return Decision{Refusal: domain.OutcomeScoreTooLow}
	}
	return Decision{Proceed: true}
}

func (d Decision) outcome(score domain.ScoreResult) domain.MintOutcome {
	if d.Refusal == domain.OutcomeAlreadyCertified {
		return domain.AlreadyCertified(&score)
	}
	return domain.ScoreTooLow(score)
}
