package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"poap-service/internal/app"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

type CertificateHandler struct {
	service *app.CertificationService
	log     logger.Log
}

func NewCertificateHandler(service *app.CertificationService, log logger.Log) *CertificateHandler {
	return &CertificateHandler{service: service, log: log}
}

// submitRequest accepts courseId as a JSON number or numeric string.
type submitRequest struct {
	CourseID      json.Number              `json:"courseId"`
	Answers       domain.SubmissionAnswers `json:"answers"`
	WalletAddress string                   `json:"walletAddress"`
}

type checkResponse struct {
	Exists bool `json:"exists"`
}

func (h *CertificateHandler) Check(w http.ResponseWriter, r *http.Request) {
	rawCourse := r.URL.Query().Get("courseId")
	wallet := r.URL.Query().Get("walletAddress")
	if rawCourse == "" || wallet == "" {
		writeError(w, http.StatusBadRequest, "missing courseId or walletAddress")
		return
	}
	courseID, err := strconv.ParseInt(rawCourse, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid courseId")
		return
	}

	exists, err := h.service.Check(r.Context(), courseID, wallet)
	switch {
	case errors.Is(err, domain.ErrInvalidRecipient):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.ErrorErr("check certificate", err, "course_id", courseID)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, checkResponse{Exists: exists})
}

func (h *CertificateHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid submission payload")
		return
	}
	courseID, err := req.CourseID.Int64()
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid courseId")
		return
	}

	outcome, err := h.service.Submit(r.Context(), courseID, req.WalletAddress, req.Answers)
	if err != nil {
		status := submitErrorStatus(err)
		if status == http.StatusInternalServerError {
			h.log.ErrorErr("submit quiz", err, "course_id", courseID)
		}
		writeJSON(w, status, outcomeResponse{Error: err.Error()})
		return
	}
	writeJSON(w, outcomeStatus(outcome.Kind), newOutcomeResponse(outcome))
}

func submitErrorStatus(err error) int {
	switch {
	case errors.Is(err, domain.ErrCourseNotFound), errors.Is(err, domain.ErrQuizNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidRecipient), errors.Is(err, domain.ErrInvalidQuiz):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
