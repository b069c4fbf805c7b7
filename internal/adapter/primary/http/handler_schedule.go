package http

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/port/primary"
)

// ScheduleHandler handles POST /delayed requests.
type ScheduleHandler struct {
	service  primary.PublishService
	validate *validator.Validate
	logger   *zap.Logger
}

// NewScheduleHandler creates a handler for scheduling publications.
func NewScheduleHandler(service primary.PublishService, logger *zap.Logger) *ScheduleHandler {
	return &ScheduleHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.Named("schedule-handler"),
	}
}

// ServeHTTP processes the schedule request.
func (h *ScheduleHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req ScheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "invalid request body",
			Code:  "INVALID_BODY",
		})
		return
	}

	if err := h.validate.Struct(&req); err != nil {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: err.Error(),
			Code:  "VALIDATION_ERROR",
		})
		return
	}

	id, err := h.service.Schedule(r.Context(), req.toEntity())
	if err != nil {
		respondServiceError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusCreated, ScheduleResponse{
		ID:      id,
		Message: fmt.Sprintf("Publication %d scheduled successfully", id),
	})
}
