package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/domain"
)

// respondJSON writes a JSON response with the given status code and payload.
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondServiceError maps a service error onto a status code and error code.
func respondServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	switch {
	case errors.Is(err, domain.ErrMissingActor):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "MISSING_ACTOR"})
	case errors.Is(err, domain.ErrInvalidSubmission):
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "VALIDATION_ERROR"})
	case errors.Is(err, domain.ErrDuplicateSubmission):
		respondJSON(w, http.StatusConflict, ErrorResponse{Error: err.Error(), Code: "DUPLICATE"})
	case errors.Is(err, domain.ErrQueueRejected):
		respondJSON(w, http.StatusServiceUnavailable, ErrorResponse{Error: err.Error(), Code: "QUEUE_REJECTED"})
	case errors.Is(err, domain.ErrParametersNotFound), errors.Is(err, domain.ErrRecordNotFound):
		respondJSON(w, http.StatusNotFound, ErrorResponse{Error: "not found", Code: "NOT_FOUND"})
	default:
		logger.Error("request failed", zap.Error(err))
		respondJSON(w, http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  "INTERNAL_ERROR",
		})
	}
}
