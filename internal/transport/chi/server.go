package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/filerec/internal/domain"
	logpkg "github.com/kailas-cloud/filerec/internal/logger"
	healthuc "github.com/kailas-cloud/filerec/internal/usecase/health"
)

// Recommender serves one recommendation request.
type Recommender interface {
	Recommend(ctx context.Context, userID, query string) (domain.Recommendation, error)
}

// FileUpserter stores a file record. The bool reports creation.
type FileUpserter interface {
	Upsert(ctx context.Context, rec *domain.FileRecord) (bool, error)
}

// HealthReporter aggregates component health.
type HealthReporter interface {
	Check(ctx context.Context) healthuc.Report
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error) bool

// Server is the HTTP API surface.
type Server struct {
	recommender   Recommender
	files         FileUpserter
	health        HealthReporter
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(recommender Recommender, files FileUpserter, health HealthReporter, logger *zap.Logger) *Server {
	s := &Server{
		recommender: recommender,
		files:       files,
		health:      health,
		logger:      logger,
	}
	s.errorHandlers = []errorHandler{
		validationHandler,
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound),
	}
	return s
}

// Routes mounts all handlers on a fresh chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/recommend", s.Recommend)
	r.Post("/files", s.UpsertFile)
	r.Get("/health", s.HealthCheck)
	r.Get("/metrics", s.Metrics)
	return r
}

type recommendRequest struct {
	Query  string `json:"query"`
	UserID string `json:"userId"`
}

type imageResponse struct {
	URL       string `json:"url"`
	Alt       string `json:"alt"`
	Source    string `json:"source"`
	Title     string `json:"title"`
	Timestamp string `json:"timestamp,omitempty"`
}

type recommendResponse struct {
	LocalFiles     []string        `json:"local_files"`
	ExternalImages []imageResponse `json:"external_images"`
}

// Recommend handles POST /recommend.
func (s *Server) Recommend(w http.ResponseWriter, r *http.Request) {
	var req recommendRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.logger.Debug("malformed request body", zap.Error(err))
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}

	rec, err := s.recommender.Recommend(r.Context(), req.UserID, req.Query)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, recommendationToResponse(rec))
}

type upsertFileRequest struct {
	UserID   string   `json:"userId"`
	Filename string   `json:"filename"`
	Filepath string   `json:"filepath"`
	Tags     []string `json:"tags"`
}

// UpsertFile handles POST /files.
func (s *Server) UpsertFile(w http.ResponseWriter, r *http.Request) {
	var req upsertFileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "")
		return
	}
	if req.UserID == "" || req.Filename == "" {
		writeError(w, http.StatusBadRequest, "userId and filename are required", "")
		return
	}

	rec := domain.FileRecord{
		UserID:   req.UserID,
		Filename: req.Filename,
		Filepath: req.Filepath,
		Tags:     req.Tags,
	}
	created, err := s.files.Upsert(r.Context(), &rec)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, map[string]any{
		"userId":     rec.UserID,
		"filename":   rec.Filename,
		"filepath":   rec.Filepath,
		"tags":       rec.Tags,
		"uploadDate": rec.UploadDate.UTC().Format(time.RFC3339),
		"created":    created,
	})
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": report.Status,
		"checks": report.Checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

func recommendationToResponse(rec domain.Recommendation) recommendResponse {
	images := make([]imageResponse, len(rec.ExternalImages))
	for i, img := range rec.ExternalImages {
		images[i] = imageResponse{
			URL:    img.URL,
			Alt:    img.Alt,
			Source: img.Source,
			Title:  img.Title,
		}
		if !img.Timestamp.IsZero() {
			images[i].Timestamp = img.Timestamp.UTC().Format(time.RFC3339)
		}
	}
	files := rec.LocalFiles
	if files == nil {
		files = []string{}
	}
	return recommendResponse{LocalFiles: files, ExternalImages: images}
}

type errorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, errorResponse{Error: message, Details: details})
}

// validationHandler surfaces the validation message verbatim; it originates
// in our own checks and carries no internals.
func validationHandler(w http.ResponseWriter, err error) bool {
	if !errors.Is(err, domain.ErrValidation) {
		return false
	}
	writeError(w, http.StatusBadRequest, err.Error(), "")
	return true
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, sentinel.Error(), "")
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, r *http.Request, err error) {
	for _, h := range s.errorHandlers {
		if h(w, err) {
			return
		}
	}
	// Request-scoped logger carries the request id when the middleware ran.
	logpkg.FromContext(r.Context()).Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "recommendation failed", "internal error")
}
