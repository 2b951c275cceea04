// Copyright (c) 2026 BlaBlaBook. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package api

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/taibuivan/blablabook/internal/platform/respond"
)

// readinessTimeout bounds every dependency check.
const readinessTimeout = 2 * time.Second

// Check is one named dependency check for /ready.
type Check struct {
	Name string
	Ping func(ctx context.Context) error

	// Optional checks are reported but never fail readiness.
	Optional bool
}

type healthHandler struct {
	checks []Check
	logger *slog.Logger
}

// NewHealthHandlers creates the /health and /ready http.HandlerFuncs.
func NewHealthHandlers(logger *slog.Logger, checks ...Check) (liveness, readiness http.HandlerFunc) {
	handler := &healthHandler{checks: checks, logger: logger}
	return handler.liveness, handler.readiness
}

// liveness handles GET /health.
func (handler *healthHandler) liveness(writer http.ResponseWriter, request *http.Request) {
	respond.OK(writer, map[string]string{"status": "ok"})
}

type checkResult struct {
	Name  string `json:"name"`
	IsOK  bool   `json:"ok"`
	Error string `json:"error,omitempty"`
}

// readiness handles GET /ready.
func (handler *healthHandler) readiness(writer http.ResponseWriter, request *http.Request) {
	ctx, cancel := context.WithTimeout(request.Context(), readinessTimeout)
	defer cancel()

	results := make([]checkResult, 0, len(handler.checks))
	isSystemReady := true

	for _, check := range handler.checks {
		result := checkResult{Name: check.Name, IsOK: true}
		if err := check.Ping(ctx); err != nil {
			result.IsOK = false
			result.Error = err.Error()
			if !check.Optional {
				isSystemReady = false
			}
			handler.logger.Error("readiness_check_failed", slog.String("dependency", check.Name), slog.Any("error", err))
		}
		results = append(results, result)
	}

	body := map[string]any{"status": "ready", "checks": results}
	if isSystemReady {
		respond.OK(writer, body)
		return
	}

	body["status"] = "degraded"
	respond.JSON(writer, http.StatusServiceUnavailable, respond.SuccessEnvelope{Success: false, Data: body})
}
