// Package handler provides HTTP handlers for the yield prediction API.
package handler

import (
	"net/http"
	"time"

	"github.com/sony/gobreaker/v2"

	"github.com/yieldwise/yieldwise/internal/api/models"
	"github.com/yieldwise/yieldwise/internal/api/response"
	"github.com/yieldwise/yieldwise/internal/crop"
	"github.com/yieldwise/yieldwise/internal/health"
	"github.com/yieldwise/yieldwise/internal/provider/resilience"
	"github.com/yieldwise/yieldwise/internal/weather"
)

// SessionCounter reports the number of live wizard sessions.
type SessionCounter interface {
	Len() int
}

// OpsConfig holds the dependencies of the ops endpoints. Nil fields are
// left out of the status report.
type OpsConfig struct {
	Version   string
	BuildTime string
	Catalog   *crop.Catalog
	Registry  *resilience.Registry
	Weather   *weather.Service
	Analysis  *health.Service
	Sessions  SessionCounter
}

// OpsHandler handles operational endpoints.
type OpsHandler struct {
	cfg OpsConfig
}

// NewOpsHandler creates a new OpsHandler.
func NewOpsHandler(cfg OpsConfig) *OpsHandler {
	return &OpsHandler{cfg: cfg}
}

// HealthCheck handles GET /v1/ops/health - liveness check.
func (h *OpsHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"version":   h.cfg.Version,
			"buildTime": h.cfg.BuildTime,
		},
	})
}

// ReadinessCheck handles GET /v1/ops/ready. The service is ready once the
// crop catalog is loaded.
func (h *OpsHandler) ReadinessCheck(w http.ResponseWriter, r *http.Request) {
	if h.cfg.Catalog == nil || h.cfg.Catalog.Len() == 0 {
		response.JSON(w, r, http.StatusServiceUnavailable, models.Health{
			Status: models.HealthStatusFail,
			Time:   models.Timestamp(time.Now()),
			Details: map[string]interface{}{
				"reason": "crop catalog not loaded",
			},
		})
		return
	}

	response.JSON(w, r, http.StatusOK, models.Health{
		Status: models.HealthStatusOK,
		Time:   models.Timestamp(time.Now()),
		Details: map[string]interface{}{
			"crops": h.cfg.Catalog.Len(),
		},
	})
}

// SystemStatus handles GET /v1/ops/status - provider and subsystem status.
func (h *OpsHandler) SystemStatus(w http.ResponseWriter, r *http.Request) {
	status := models.SystemStatus{
		Status:     models.HealthStatusOK,
		Time:       models.Timestamp(time.Now()),
		Version:    h.cfg.Version,
		Subsystems: h.subsystems(),
		Providers:  h.providers(),
	}

	for _, p := range status.Providers {
		status.Status = worst(status.Status, p.Status)
	}
	for _, s := range status.Subsystems {
		status.Status = worst(status.Status, s.Status)
	}

	response.JSON(w, r, http.StatusOK, status)
}

func (h *OpsHandler) subsystems() []models.SubsystemStatus {
	var out []models.SubsystemStatus

	if h.cfg.Catalog != nil {
		out = append(out, models.SubsystemStatus{
			Name:   "crop-catalog",
			Status: models.HealthStatusOK,
			Detail: strPtr(itoa(h.cfg.Catalog.Len()) + " crops"),
		})
	}
	if h.cfg.Sessions != nil {
		out = append(out, models.SubsystemStatus{
			Name:   "session-store",
			Status: models.HealthStatusOK,
			Detail: strPtr(itoa(h.cfg.Sessions.Len()) + " active sessions"),
		})
	}
	if h.cfg.Weather != nil {
		stats := h.cfg.Weather.CacheStats()
		out = append(out, models.SubsystemStatus{
			Name:   "weather-cache",
			Status: models.HealthStatusOK,
			Detail: strPtr(itoa(stats.FreshEntries) + "/" + itoa(stats.Entries) + " fresh entries from " + stats.Provider),
		})
	}
	if h.cfg.Analysis != nil {
		out = append(out, models.SubsystemStatus{
			Name:   "image-analysis",
			Status: breakerStatus(h.cfg.Analysis.BreakerState()),
			Detail: strPtr("detector " + h.cfg.Analysis.DetectorName()),
		})
	}
	return out
}

func (h *OpsHandler) providers() []models.ProviderStatus {
	out := []models.ProviderStatus{}
	if h.cfg.Registry == nil {
		return out
	}
	for _, p := range h.cfg.Registry.All() {
		ps := models.ProviderStatus{
			Provider:      p.Name,
			Status:        breakerStatus(p.CircuitState),
			CircuitState:  p.CircuitState.String(),
			LastSuccessAt: models.TimestampPtr(p.LastSuccessAt),
			LastFailureAt: models.TimestampPtr(p.LastFailureAt),
		}
		if p.LastError != "" {
			ps.Message = strPtr(p.LastError)
		}
		out = append(out, ps)
	}
	return out
}

func breakerStatus(state gobreaker.State) models.HealthStatus {
	switch state {
	case gobreaker.StateOpen:
		return models.HealthStatusFail
	case gobreaker.StateHalfOpen:
		return models.HealthStatusDegraded
	default:
		return models.HealthStatusOK
	}
}

// worst keeps the more severe of two statuses. A failing dependency only
// degrades the service since scoring still works.
func worst(a, b models.HealthStatus) models.HealthStatus {
	if a == models.HealthStatusDegraded || b == models.HealthStatusOK {
		return a
	}
	return models.HealthStatusDegraded
}
