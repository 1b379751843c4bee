package http

import (
	"encoding/json"
	"net/http"

	"github.com/shopspring/decimal"
	"poap-service/internal/domain"
)

type errorResponse struct {
	Error string `json:"error"`
}

// outcomeResponse is the client view of a certification attempt, shared by
// the REST endpoint and the WebSocket outcome message.
type outcomeResponse struct {
	Success bool               `json:"success"`
	Kind    domain.OutcomeKind `json:"kind,omitempty"`
	TxHash  string             `json:"txHash,omitempty"`
	Score   *float64           `json:"score,omitempty"`
	Error   string             `json:"error,omitempty"`
}

func newOutcomeResponse(outcome domain.MintOutcome) outcomeResponse {
	resp := outcomeResponse{Kind: outcome.Kind}
	if outcome.Score != nil {
		score := displayScore(outcome.Score.Percentage)
		resp.Score = &score
	}
	switch outcome.Kind {
	case domain.OutcomeMinted:
		resp.Success = true
		resp.TxHash = outcome.TransactionID
	case domain.OutcomeAlreadyCertified:
		resp.Error = "You have already completed this course and received a certificate"
	case domain.OutcomeScoreTooLow:
		resp.Error = "Quiz score too low to mint certificate"
	case domain.OutcomeMintFailed:
		resp.Error = "Failed to mint certificate: " + outcome.Reason
	}
	return resp
}

func outcomeStatus(kind domain.OutcomeKind) int {
	switch kind {
	case domain.OutcomeMinted:
		return http.StatusOK
	case domain.OutcomeScoreTooLow:
		return http.StatusBadRequest
	case domain.OutcomeAlreadyCertified:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// displayScore rounds a percentage to two decimals for clients; grading itself stays exact.
func displayScore(percentage float64) float64 {
	rounded, _ := decimal.NewFromFloat(percentage).Round(2).Float64()
	return rounded
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}
