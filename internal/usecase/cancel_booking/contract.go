package cancel_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	Cancel(ctx context.Context, id string, at time.Time) error
}

// FacilityRepository загрузка площадки брони вместе с типом
type FacilityRepository interface {
	GetWithType(ctx context.Context, id string) (*domain.Facility, error)
}

// WindowChecker проверка окна отмены
type WindowChecker interface {
	CheckCancellationWindow(ctx context.Context, clubID, facilityTypeID string, start, now time.Time, verb string) error
}

// EventPublisher публикация событий бронирований
type EventPublisher interface {
	PublishBookingEvent(ctx context.Context, event eventbus.BookingEvent) error
}

// DecisionRecorder учет решений по бронированиям в метриках
type DecisionRecorder interface {
	RecordBookingDecision(operation, outcome string)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
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
