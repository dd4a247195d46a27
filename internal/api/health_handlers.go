package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/danielgtaylor/huma/v2"
)

func (s *Server) registerHealthRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "healthCheck",
		Method:      http.MethodGet,
		Path:        "/health",
		Summary:     "Health check",
		Description: "Returns server health status with component checks",
		Tags:        []string{"Health"},
	}, s.handleHealthCheck)
}

// ComponentHealth describes the health of a single component.
type ComponentHealth struct {
	Status  string `json:"status" doc:"Component status: healthy, degraded, or unhealthy"`
	Latency string `json:"latency,omitempty" doc:"Response time for this component"`
	Message string `json:"message,omitempty" doc:"Additional status information"`
}

// HealthResponse contains health check data in API responses.
type HealthResponse struct {
	Status     string                     `json:"status" doc:"Overall status: healthy, degraded, or unhealthy"`
	Components map[string]ComponentHealth `json:"components" doc:"Individual component statuses"`
}

// HealthOutput wraps the health response for Huma.
type HealthOutput struct {
	Body HealthResponse
}

func (s *Server) handleHealthCheck(_ context.Context, _ *struct{}) (*HealthOutput, error) {
	components := map[string]ComponentHealth{
		"dataset":   s.checkDataset(),
		"countries": s.checkCountryIndex(),
	}

	overall := "healthy"
	for _, c := range components {
		switch c.Status {
		case "unhealthy":
			overall = "unhealthy"
		case "degraded":
			if overall == "healthy" {
				overall = "degraded"
			}
		}
	}

	return &HealthOutput{
		Body: HealthResponse{
			Status:     overall,
			Components: components,
		},
	}, nil
}

// checkDataset reports whether a dataset snapshot is loaded.
func (s *Server) checkDataset() ComponentHealth {
	if s.services == nil || s.services.Breakdown == nil {
		return ComponentHealth{Status: "unhealthy", Message: "dataset not loaded"}
	}

	info := s.services.Breakdown.DatasetInfo()
	if info.Records == 0 {
		return ComponentHealth{Status: "degraded", Message: "dataset is empty"}
	}
	return ComponentHealth{
		Status:  "healthy",
		Message: strconv.Itoa(info.Records) + " records, " + strconv.Itoa(info.Countries) + " countries",
	}
}

// checkCountryIndex verifies the Bleve country index is readable.
func (s *Server) checkCountryIndex() ComponentHealth {
	if s.services == nil || s.services.Countries == nil {
		return ComponentHealth{Status: "degraded", Message: "country search not configured"}
	}

	start := time.Now()
	count, err := s.services.Countries.IndexedCount()
	latency := time.Since(start)

	if err != nil {
		return ComponentHealth{Status: "unhealthy", Latency: latency.String(), Message: "country index unreachable"}
	}
	if count == 0 {
		return ComponentHealth{Status: "degraded", Latency: latency.String(), Message: "country index empty"}
	}
	return ComponentHealth{
		Status:  "healthy",
		Latency: latency.String(),
		Message: strconv.FormatUint(count, 10) + " countries indexed",
	}
}
