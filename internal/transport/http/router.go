package http

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"poap-service/internal/app"
	"poap-service/pkg/logger"
)

// RouterConfig lists the services exposed over HTTP.
type RouterConfig struct {
	Courses        *app.CourseService
	Certifications *app.CertificationService
	Log            logger.Log
	// AllowedOrigins defaults to any origin when empty.
	AllowedOrigins []string
}

// NewRouter builds the REST and WebSocket routes wrapped in CORS handling.
func NewRouter(cfg RouterConfig) http.Handler {
	courses := NewCourseHandler(cfg.Courses, cfg.Log)
	certificates := NewCertificateHandler(cfg.Certifications, cfg.Log)
	ws := NewWSHandler(cfg.Certifications, cfg.Log)

	router := mux.NewRouter()
	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	}).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/courses", courses.List).Methods(http.MethodGet)
	api.HandleFunc("/courses", courses.Create).Methods(http.MethodPost)
	api.HandleFunc("/courses/{id:[0-9]+}", courses.Get).Methods(http.MethodGet)
	api.HandleFunc("/certificate/check", certificates.Check).Methods(http.MethodGet)
	api.HandleFunc("/quiz", certificates.Submit).Methods(http.MethodPost)

	router.HandleFunc("/ws", ws.ServeWS)

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "X-Requested-With"},
		MaxAge:         300,
	}).Handler(router)
}
