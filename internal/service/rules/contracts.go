package rules

import (
	"context"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// RuleRepository источник сохранённых правил бронирования
type RuleRepository interface {
	GetFirst(ctx context.Context, clubID, facilityTypeID string, ruleType domain.RuleType) (*domain.BookingRule, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
