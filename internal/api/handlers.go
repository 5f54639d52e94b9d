package api

import (
	"math"
	"net/http"
	"strconv"

	apperrors "github.com/spigell/screening/internal/errors"
	"github.com/spigell/screening/internal/interview"
)

func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	activeOnly, _ := strconv.ParseBool(r.URL.Query().Get("active"))

	jobs, err := s.svc.ListJobs(r.Context(), activeOnly)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, jobs)
}

func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var in interview.JobInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		s.respondError(w, r, err)
		return
	}

	job, err := s.svc.CreateJob(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, job)
}

func (s *Server) handleDeactivateJob(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.DeactivateJob(r.Context(), id); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{
		"id":       id,
		"isActive": false,
		"message":  "Job deactivated",
	})
}

func (s *Server) handleListCandidates(w http.ResponseWriter, r *http.Request) {
	candidates, err := s.svc.ListCandidates(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, candidates)
}

func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	var in interview.ApplyInput
	if err := decodeJSON(w, r, &in, false); err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.svc.Apply(r.Context(), in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	status := http.StatusOK
	if res.Created {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, res)
}

func (s *Server) handlePreviewQuestions(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	if err := decodeJSON(w, r, &payload, false); err != nil {
		s.respondError(w, r, err)
		return
	}

	draft, err := interview.DecodeDraft(payload)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	preview, err := s.svc.PreviewQuestions(r.Context(), draft)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"strategy":  preview.Strategy,
		"questions": preview.Questions,
		"userData":  preview.UserData,
		"jobData":   preview.JobData,
	})
}

func (s *Server) handleGetInterview(w http.ResponseWriter, r *http.Request) {
	report, err := s.svc.Report(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, report)
}

type startRequest struct {
	Strategy string `json:"strategy"`
}

func (s *Server) handleStartInterview(w http.ResponseWriter, r *http.Request) {
	var req startRequest
	if err := decodeJSON(w, r, &req, true); err != nil {
		s.respondError(w, r, err)
		return
	}

	questions, err := s.svc.StartInterview(r.Context(), r.PathValue("id"), req.Strategy)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]any{
		"questions": questions,
		"message":   "Interview questions generated and interview started",
	})
}

func (s *Server) handleListQuestions(w http.ResponseWriter, r *http.Request) {
	questions, err := s.svc.Questions(r.Context(), r.PathValue("id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"questions": questions})
}

// maxDurationSeconds bounds a submitted duration so it converts to int safely.
const maxDurationSeconds = math.MaxInt32

type saveRequest struct {
	Answers  []string `json:"answers"`
	VideoURL string   `json:"videoUrl"`
	// Duration is in seconds; browsers may send fractions.
	Duration float64 `json:"duration"`
}

func (s *Server) handleSubmitAnswers(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(w, r, &req, false); err != nil {
		s.respondError(w, r, err)
		return
	}

	// Negative values are left to the service; only the conversion is guarded here.
	if math.IsNaN(req.Duration) || math.Abs(req.Duration) > maxDurationSeconds {
		s.respondError(w, r, apperrors.Validation("duration is out of range"))
		return
	}

	res, err := s.svc.SubmitAnswers(r.Context(), r.PathValue("id"), interview.Submission{
		Answers:         req.Answers,
		RecordingURL:    req.VideoURL,
		DurationSeconds: int(req.Duration),
	})
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}
