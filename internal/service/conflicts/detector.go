package conflicts

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// ErrInternal возвращается при ошибке чтения бронирований
var ErrInternal = errors.New("conflicts.detector: internal error")

// BookingRepository источник активных бронирований площадки
type BookingRepository interface {
	FindOverlapping(ctx context.Context, facilityID string, start, end time.Time, excludeID string, limit int) ([]*domain.Booking, error)
}

// Detector ищет активную бронь, пересекающуюся с запрошенным интервалом
type Detector struct {
	repo BookingRepository
}

// NewDetector создает детектор конфликтов
func NewDetector(repo BookingRepository) *Detector {
	return &Detector{repo: repo}
}

// FindOverlapping возвращает первую активную бронь площадки, пересекающуюся с [start, end),
// или nil. excludeBookingID исключает редактируемую бронь из проверки.
func (d *Detector) FindOverlapping(
	ctx context.Context,
	facilityID string,
	start, end time.Time,
	excludeBookingID string,
) (*domain.Booking, error) {
	candidates, err := d.repo.FindOverlapping(ctx, facilityID, start, end, excludeBookingID, 1)
	if err != nil {
		return nil, fmt.Errorf("%w: FindOverlapping facility=%s: %v", ErrInternal, facilityID, err)
	}

	for _, b := range candidates {
		if b.ID == excludeBookingID || !b.IsBlocking() {
			continue
		}
		if domain.IntervalsOverlap(start, end, b.StartTime, b.EndTime) {
			return b, nil
		}
	}

	return nil, nil
}
