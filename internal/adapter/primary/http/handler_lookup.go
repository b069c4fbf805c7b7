package http

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/port/primary"
)

// ParametersHandler handles GET /delayed/{id}.
type ParametersHandler struct {
	service primary.PublishService
	logger  *zap.Logger
}

// NewParametersHandler creates a handler for parameter lookups by record ID.
func NewParametersHandler(service primary.PublishService, logger *zap.Logger) *ParametersHandler {
	return &ParametersHandler{service: service, logger: logger.Named("parameters-handler")}
}

// ServeHTTP returns the stored submission parameters of a pending record.
func (h *ParametersHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid record id", Code: "INVALID_ID"})
		return
	}

	params, err := h.service.Parameters(r.Context(), id)
	if err != nil {
		respondServiceError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, fromParameters(id, params))
}

// PendingHandler handles GET /delayed?uri=&uid=.
type PendingHandler struct {
	service primary.PublishService
	logger  *zap.Logger
}

// NewPendingHandler creates a handler for pending publication checks.
func NewPendingHandler(service primary.PublishService, logger *zap.Logger) *PendingHandler {
	return &PendingHandler{service: service, logger: logger.Named("pending-handler")}
}

// ServeHTTP reports whether a publication of uri by uid is still pending.
func (h *PendingHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uri := r.URL.Query().Get("uri")
	uid, err := strconv.ParseInt(r.URL.Query().Get("uid"), 10, 64)
	if uri == "" || err != nil || uid <= 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{
			Error: "uri and uid query parameters are required",
			Code:  "VALIDATION_ERROR",
		})
		return
	}

	pending, err := h.service.Pending(r.Context(), uri, uid)
	if err != nil {
		respondServiceError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, PendingResponse{URI: uri, UID: uid, Pending: pending})
}

// ActorRecordsHandler handles GET /actors/{uid}/delayed.
type ActorRecordsHandler struct {
	service primary.PublishService
	logger  *zap.Logger
}

// NewActorRecordsHandler creates a handler listing an actor's pending records.
func NewActorRecordsHandler(service primary.PublishService, logger *zap.Logger) *ActorRecordsHandler {
	return &ActorRecordsHandler{service: service, logger: logger.Named("actor-records-handler")}
}

// ServeHTTP lists the pending records of the actor in the path.
func (h *ActorRecordsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	uid, err := strconv.ParseInt(r.PathValue("uid"), 10, 64)
	if err != nil || uid <= 0 {
		respondJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid actor id", Code: "INVALID_ID"})
		return
	}

	records, err := h.service.PendingByActor(r.Context(), uid)
	if err != nil {
		respondServiceError(w, err, h.logger)
		return
	}

	respondJSON(w, http.StatusOK, fromRecords(records))
}
