package update_opening_hours

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
)

type FacilityService interface {
	UpdateOpeningHours(ctx context.Context, req *models.UpdateOpeningHoursRequest) (*models.OpeningHoursListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
