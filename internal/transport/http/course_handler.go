package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"poap-service/internal/app"
	"poap-service/internal/domain"
	"poap-service/pkg/logger"
)

type CourseHandler struct {
	service *app.CourseService
	log     logger.Log
}

func NewCourseHandler(service *app.CourseService, log logger.Log) *CourseHandler {
	return &CourseHandler{service: service, log: log}
}

type courseResponse struct {
	Course domain.Course `json:"course"`
}

type coursesResponse struct {
	Courses []domain.Course `json:"courses"`
}

func (h *CourseHandler) List(w http.ResponseWriter, r *http.Request) {
	courses, err := h.service.List(r.Context())
	if err != nil {
		h.log.ErrorErr("list courses", err)
		writeError(w, http.StatusInternalServerError, "failed to list courses")
		return
	}
	public := make([]domain.Course, 0, len(courses))
	for _, course := range courses {
		public = append(public, course.Public())
	}
	writeJSON(w, http.StatusOK, coursesResponse{Courses: public})
}

func (h *CourseHandler) Get(w http.ResponseWriter, r *http.Request) {
	courseID, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid course id")
		return
	}
	course, err := h.service.Get(r.Context(), courseID)
	switch {
	case errors.Is(err, domain.ErrCourseNotFound):
		writeError(w, http.StatusNotFound, "course not found")
		return
	case err != nil:
		h.log.ErrorErr("get course", err, "course_id", courseID)
		writeError(w, http.StatusInternalServerError, "failed to load course")
		return
	}
	writeJSON(w, http.StatusOK, courseResponse{Course: course.Public()})
}

func (h *CourseHandler) Create(w http.ResponseWriter, r *http.Request) {
	var course domain.Course
	if err := json.NewDecoder(r.Body).Decode(&course); err != nil {
		writeError(w, http.StatusBadRequest, "invalid course payload")
		return
	}
	created, err := h.service.Create(r.Context(), course)
	switch {
	case errors.Is(err, domain.ErrInvalidCourse), errors.Is(err, domain.ErrInvalidQuiz):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		h.log.ErrorErr("create course", err)
		writeError(w, http.StatusInternalServerError, "failed to create course")
		return
	}
	writeJSON(w, http.StatusCreated, courseResponse{Course: created.Public()})
}
