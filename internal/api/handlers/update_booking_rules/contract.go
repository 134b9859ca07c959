package update_booking_rules

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
)

type FacilityService interface {
	UpdateBookingRules(ctx context.Context, req *models.UpdateBookingRulesRequest) (*models.RulesResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
