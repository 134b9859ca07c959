package availability

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// ScheduleRepository источник часов работы и закрытий
type ScheduleRepository interface {
	ListOpeningHours(ctx context.Context, facilityID, facilityTypeID string, day domain.DayOfWeek) ([]domain.OpeningHours, error)
	ListClosures(ctx context.Context, filter domain.ClosureFilter) ([]domain.Closure, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
