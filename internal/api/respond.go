package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	apperrors "github.com/spigell/screening/internal/errors"
)

const internalErrorMessage = "internal server error"

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Warn("failed to encode JSON response", zap.Error(err))
	}
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// respondError maps err onto a status code. Messages of unexpected failures
// are not exposed.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		s.logger.Error("unhandled error", zap.String("path", r.URL.Path), zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, errorBody{Error: internalErrorMessage})
		return
	}

	status := statusFor(de.Type)
	body := errorBody{Error: de.Message, Code: string(de.Type)}

	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed",
			zap.String("path", r.URL.Path),
			zap.String("code", string(de.Type)),
			zap.Error(err),
			zap.ByteString("stack", de.StackTrace()))
		if de.Type == apperrors.ErrTypeInternal {
			body.Error = internalErrorMessage
		}
	} else {
		s.logger.Debug("request rejected",
			zap.String("path", r.URL.Path),
			zap.String("code", string(de.Type)),
			zap.String("reason", de.Message))
	}

	s.respondJSON(w, status, body)
}

func statusFor(t apperrors.ErrorType) int {
	switch t {
	case apperrors.ErrTypeValidation, apperrors.ErrTypeAnswerCountMismatch:
		return http.StatusBadRequest
	case apperrors.ErrTypeNotFound:
		return http.StatusNotFound
	case apperrors.ErrTypeInvalidStateTransition:
		return http.StatusConflict
	case apperrors.ErrTypeGenerationFormat, apperrors.ErrTypeGenerationService:
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

// decodeJSON reads a bounded JSON body into v. An empty body is accepted
// when allowEmpty is set.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any, allowEmpty bool) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	defer r.Body.Close()

	err := json.NewDecoder(r.Body).Decode(v)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF) && allowEmpty:
		return nil
	}

	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return apperrors.Validation("request body too large")
	}
	return apperrors.Validation("invalid JSON body: " + err.Error())
}
