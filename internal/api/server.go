// Package api exposes the interview workflow over JSON HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/spigell/screening/internal/domain"
	"github.com/spigell/screening/internal/interview"
	"github.com/spigell/screening/internal/logger"
)

const maxBodyBytes = 1 << 20

// Interviews is the orchestration the handlers drive. *interview.Service
// satisfies it.
type Interviews interface {
	Apply(ctx context.Context, in interview.ApplyInput) (*interview.ApplyResult, error)
	ListCandidates(ctx context.Context) ([]domain.Candidate, error)

	ListJobs(ctx context.Context, activeOnly bool) ([]domain.JobPosting, error)
	CreateJob(ctx context.Context, in interview.JobInput) (*domain.JobPosting, error)
	DeactivateJob(ctx context.Context, id string) error

	PreviewQuestions(ctx context.Context, draft interview.Draft) (*interview.Preview, error)
	Report(ctx context.Context, interviewID string) (*domain.InterviewReport, error)
	StartInterview(ctx context.Context, interviewID, strategy string) ([]domain.InterviewQuestion, error)
	Questions(ctx context.Context, interviewID string) ([]domain.InterviewQuestion, error)
	SubmitAnswers(ctx context.Context, interviewID string, sub interview.Submission) (*interview.SubmitResult, error)
}

// HealthCheck reports whether the backing services are reachable.
type HealthCheck func(ctx context.Context) error

type Server struct {
	svc    Interviews
	health HealthCheck
	logger *zap.Logger
}

func NewServer(svc Interviews, health HealthCheck, log *zap.Logger) *Server {
	return &Server{
		svc:    svc,
		health: health,
		logger: logger.WithFields(log),
	}
}

// Router returns the HTTP handler with request logging applied.
func (s *Server) Router() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", s.handleHealth)

	mux.HandleFunc("GET /jobs", s.handleListJobs)
	mux.HandleFunc("POST /jobs", s.handleCreateJob)
	mux.HandleFunc("DELETE /jobs/{id}", s.handleDeactivateJob)

	mux.HandleFunc("GET /candidates", s.handleListCandidates)
	mux.HandleFunc("POST /candidates", s.handleApply)

	mux.HandleFunc("POST /generate-questions", s.handlePreviewQuestions)

	mux.HandleFunc("GET /interviews/{id}", s.handleGetInterview)
	mux.HandleFunc("POST /interviews/{id}/questions", s.handleStartInterview)
	mux.HandleFunc("GET /interviews/{id}/questions", s.handleListQuestions)
	mux.HandleFunc("POST /interviews/{id}/save", s.handleSubmitAnswers)

	return s.loggingMiddleware(mux)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if s.health != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.health(ctx); err != nil {
			s.logger.Warn("health check failed", zap.Error(err))
			s.respondJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unhealthy"})
			return
		}
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(rec, r)

		s.logger.Info("http request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(started)),
			zap.String("remote", r.RemoteAddr))
	})
}
