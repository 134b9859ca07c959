package admission

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability"
)

// FacilityRepository загружает площадку с типом (внутри транзакции - с блокировкой строки)
type FacilityRepository interface {
	GetWithType(ctx context.Context, id string) (*domain.Facility, error)
}

// AvailabilityChecker проверка закрытий и часов работы
type AvailabilityChecker interface {
	IsClosed(ctx context.Context, clubID, facilityID, facilityTypeID string, date time.Time) (bool, error)
	CheckOpeningHours(ctx context.Context, facilityID, facilityTypeID string, day domain.DayOfWeek, startMin, endMin int) (availability.HoursVerdict, error)
}

// RuleResolver разрешение правил бронирования
type RuleResolver interface {
	ResolveMaxDuration(ctx context.Context, clubID, facilityTypeID string) (time.Duration, bool, error)
	ResolveCancellationWindow(ctx context.Context, clubID, facilityTypeID string) (time.Duration, bool, error)
}

// ConflictDetector поиск пересекающихся броней
type ConflictDetector interface {
	FindOverlapping(ctx context.Context, facilityID string, start, end time.Time, excludeBookingID string) (*domain.Booking, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
