package api

import (
	"github.com/protectedareas/wdpa-server/internal/service"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Breakdown *service.BreakdownService
	Countries *service.CountryService
}
