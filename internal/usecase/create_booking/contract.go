package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/admission"
)

// AccessResolver проверка членства пользователя в клубе
type AccessResolver interface {
	RequireMember(ctx context.Context, userID, clubID string) (*domain.AuthorizationContext, error)
}

// AdmissionChecker проверки допустимости интервала брони
type AdmissionChecker interface {
	Admit(ctx context.Context, cand admission.Candidate) (*domain.Facility, error)
}

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
}

// GuestFeeResolver плата за гостя из правил типа площадки
type GuestFeeResolver interface {
	ResolveGuestFee(ctx context.Context, clubID, facilityTypeID string) (float64, bool, error)
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
