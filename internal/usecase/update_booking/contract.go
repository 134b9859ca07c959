package update_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/admission"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateTimes(ctx context.Context, id string, start, end time.Time) error
	ReplaceParticipants(ctx context.Context, bookingID string, participants []domain.Participant) error
}

// FacilityRepository загрузка площадки брони вместе с типом
type FacilityRepository interface {
	GetWithType(ctx context.Context, id string) (*domain.Facility, error)
}

// AdmissionChecker проверки допустимости нового интервала и окна отмены
type AdmissionChecker interface {
	Admit(ctx context.Context, cand admission.Candidate) (*domain.Facility, error)
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
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
