package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rmaksimov/videotube/internal/common"
)

// envelope is the uniform response body shape.
type envelope struct {
	Status  int    `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message"`
}

func (s *Server) writeJSON(ctx context.Context, w http.ResponseWriter, status int, data any, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(envelope{Status: status, Data: data, Message: message}); err != nil {
		s.logger.Error(ctx, "response encoding error", "error", err.Error())
	}
}

// writeError maps service sentinel errors to HTTP statuses. Anything not in
// the taxonomy is an internal fault: logged, and returned as a generic 500.
func (s *Server) writeError(ctx context.Context, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, common.ErrorValidation):
		s.writeJSON(ctx, w, http.StatusBadRequest, nil, "all required fields must be provided")
	case errors.Is(err, common.ErrorInvalidCredentials):
		s.writeJSON(ctx, w, http.StatusUnauthorized, nil, "invalid user credentials")
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired),
		errors.Is(err, common.ErrMalformedToken):
		s.writeJSON(ctx, w, http.StatusUnauthorized, nil, "unauthorized request")
	case errors.Is(err, common.ErrTokenReused):
		s.writeJSON(ctx, w, http.StatusUnauthorized, nil, common.ErrTokenReused.Error())
	case errors.Is(err, common.ErrorNotFound):
		s.writeJSON(ctx, w, http.StatusNotFound, nil, "not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		s.writeJSON(ctx, w, http.StatusConflict, nil, "user with username or email already exists")
	default:
		s.logger.Error(ctx, "internal error", "error", err.Error())
		s.writeJSON(ctx, w, http.StatusInternalServerError, nil, "internal error")
	}
}
