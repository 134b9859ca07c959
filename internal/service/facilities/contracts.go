package facilities

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// FacilityRepository интерфейс репозитория площадок и их типов
type FacilityRepository interface {
	GetWithType(ctx context.Context, id string) (*domain.Facility, error)
	GetType(ctx context.Context, id string) (*domain.FacilityType, error)
	ListTypes(ctx context.Context, clubID string) ([]*domain.FacilityType, error)
	ListByClub(ctx context.Context, clubID string) ([]*domain.Facility, error)
	UpdateBookingInterval(ctx context.Context, typeID string, minutes int) error
}

// ScheduleRepository интерфейс репозитория часов работы и закрытий
type ScheduleRepository interface {
	ListOpeningHoursByTypes(ctx context.Context, typeIDs []string) ([]domain.OpeningHours, error)
	ReplaceTypeOpeningHours(ctx context.Context, typeID string, hours []domain.OpeningHours) error
	ListClosures(ctx context.Context, filter domain.ClosureFilter) ([]domain.Closure, error)
	GetClosure(ctx context.Context, id string) (*domain.Closure, error)
	CreateClosure(ctx context.Context, c *domain.Closure) (*domain.Closure, error)
	DeleteClosure(ctx context.Context, id string) error
}

// RuleRepository интерфейс репозитория правил бронирования
type RuleRepository interface {
	ListByTypes(ctx context.Context, typeIDs []string) ([]*domain.BookingRule, error)
	Replace(ctx context.Context, clubID, facilityTypeID string, rules []domain.BookingRule) error
}

// AccessResolver проверка прав управления клубом
type AccessResolver interface {
	RequireManager(ctx context.Context, userID, clubID string) (*domain.AuthorizationContext, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
