package http

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/ruudy-sib/postpone/internal/port/primary"
	"github.com/ruudy-sib/postpone/internal/port/secondary"
)

// NewRouter creates an HTTP mux with all application routes registered.
func NewRouter(
	publishService primary.PublishService,
	healthChecks []secondary.HealthChecker,
	logger *zap.Logger,
) http.Handler {
	mux := http.NewServeMux()

	// Delayed publication endpoints
	mux.Handle("POST /delayed", NewScheduleHandler(publishService, logger))
	mux.Handle("GET /delayed", NewPendingHandler(publishService, logger))
	mux.Handle("GET /delayed/{id}", NewParametersHandler(publishService, logger))
	mux.Handle("GET /actors/{uid}/delayed", NewActorRecordsHandler(publishService, logger))

	// Operational endpoints
	mux.Handle("GET /health", NewHealthHandler(healthChecks))
	mux.Handle("GET /metrics", promhttp.Handler())

	return mux
}
