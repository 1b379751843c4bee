package app_test

import (
	"testing"

	"poap-service/internal/app"
	"poap-service/internal/domain"
)

func TestGateDecide(t *testing.T) {
	cases := []struct {
		name       string
		gate       app.Gate
		percentage float64
		certified  bool
		proceed    bool
		refusal    domain.OutcomeKind
	}{
		{name: "threshold is inclusive", percentage: 80.0, proceed: true},
		{name: "just below threshold", percentage: 79.99999999, refusal: domain.OutcomeScoreTooLow},
		{name: "perfect score", percentage: 100, proceed: true},
		{name: "zero score", percentage: 0, refusal: domain.OutcomeScoreTooLow},
		{name: "duplicate dominates perfect score", percentage: 100, certified: true, refusal: domain.OutcomeAlreadyCertified},
		{name: "duplicate dominates low score", percentage: 10, certified: true, refusal: domain.OutcomeAlreadyCertified},
		{name: "override threshold", gate: app.Gate{Threshold: 50}, percentage: 60, proceed: true},
		{name: "override threshold refuses", gate: app.Gate{Threshold: 90}, percentage: 80, refusal: domain.OutcomeScoreTooLow},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			d := tc.gate.Decide(tc.percentage, tc.certified)
			if d.Proceed != tc.proceed || d.Refusal != tc.refusal {
				t.Fatalf("expected proceed=%v refusal=%q, got %+v", tc.proceed, tc.refusal, d)
			}
		})
	}
}

func TestPassThresholdValue(t *testing.T) {
	if app.PassThreshold != 80.0 {
		t.Fatalf("pass threshold changed: %v", app.PassThreshold)
	}
}
