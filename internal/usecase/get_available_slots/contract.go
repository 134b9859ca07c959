package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// AccessResolver проверка членства пользователя в клубе
type AccessResolver interface {
	RequireMember(ctx context.Context, userID, clubID string) (*domain.AuthorizationContext, error)
}

// FacilityLoader загрузка активной площадки клуба вместе с её типом
type FacilityLoader interface {
	LoadFacility(ctx context.Context, clubID, facilityID string) (*domain.Facility, error)
	Location() *time.Location
}

// ScheduleReader закрытия и часы работы площадки
type ScheduleReader interface {
	IsClosed(ctx context.Context, clubID, facilityID, facilityTypeID string, date time.Time) (bool, error)
	OpeningHoursFor(ctx context.Context, facilityID, facilityTypeID string, day domain.DayOfWeek) ([]domain.OpeningHours, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	FindOverlapping(ctx context.Context, facilityID string, start, end time.Time, excludeID string, limit int) ([]*domain.Booking, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
