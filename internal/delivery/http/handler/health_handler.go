package handler

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/rabeeb-commits/spring-dental-clinic-sub001/pkg/response"
)

// HealthCheck reports whether one dependency is reachable.
type HealthCheck func(ctx context.Context) error

type HealthHandler struct {
	checks  map[string]HealthCheck
	timeout time.Duration
}

func NewHealthHandler(checks map[string]HealthCheck) *HealthHandler {
	return &HealthHandler{checks: checks, timeout: 2 * time.Second}
}

// Health pings every dependency
// @Summary Health check
// @Tags System
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := map[string]string{}
	healthy := true
	for _, name := range names {
		if err := h.checks[name](ctx); err != nil {
			status[name] = err.Error()
			healthy = false
			continue
		}
		status[name] = "ok"
	}

	if !healthy {
		response.Error(w, http.StatusServiceUnavailable, "Service unavailable", status)
		return
	}
	response.Success(w, http.StatusOK, "Service healthy", status)
}
