package list_facility_types

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
)

type FacilityService interface {
	ListTypes(ctx context.Context, clubID string) (*models.FacilityTypeListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
