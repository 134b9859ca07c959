package availability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// ErrInternal возвращается при ошибке чтения расписания
var ErrInternal = errors.New("availability.service: internal error")

// HoursVerdict результат сверки брони с часами работы
type HoursVerdict int

const (
	// HoursFit бронь целиком помещается в один из интервалов дня
	HoursFit HoursVerdict = iota
	// HoursClosedDay на этот день недели нет ни одного интервала
	HoursClosedDay
	// HoursOutside интервалы есть, но бронь не помещается ни в один
	HoursOutside
)

// Service проверяет закрытия и часы работы площадки
type Service struct {
	repo   ScheduleRepository
	logger Logger
}

// NewService создает новый экземпляр сервиса доступности
func NewService(repo ScheduleRepository, logger Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// IsClosed возвращает true, если на дату date действует закрытие площадки или всего её типа
// Сравниваются только календарные даты, границы закрытия включительно.
func (s *Service) IsClosed(ctx context.Context, clubID, facilityID, facilityTypeID string, date time.Time) (bool, error) {
	day := domain.CivilDate(date)

	closures, err := s.repo.ListClosures(ctx, domain.ClosureFilter{
		ClubID:         clubID,
		FacilityID:     facilityID,
		FacilityTypeID: facilityTypeID,
		Date:           &day,
	})
	if err != nil {
		s.logger.Error("IsClosed: failed to list closures for facility=%s: %v", facilityID, err)
		return false, fmt.Errorf("%w: IsClosed: %v", ErrInternal, err)
	}

	for _, c := range closures {
		if c.Covers(day) {
			return true, nil
		}
	}
	return false, nil
}

// OpeningHoursFor интервалы работы площадки на день недели day
// Часы, заданные для самой площадки, применяются наравне с часами её типа.
func (s *Service) OpeningHoursFor(
	ctx context.Context,
	facilityID, facilityTypeID string,
	day domain.DayOfWeek,
) ([]domain.OpeningHours, error) {
	hours, err := s.repo.ListOpeningHours(ctx, facilityID, facilityTypeID, day)
	if err != nil {
		s.logger.Error("OpeningHoursFor: failed to list hours for facility=%s: %v", facilityID, err)
		return nil, fmt.Errorf("%w: OpeningHoursFor: %v", ErrInternal, err)
	}
	return hours, nil
}

// CheckOpeningHours сверяет интервал [startMin, endMin] с часами работы на день day
// Бронь должна целиком помещаться в один интервал; перерыв между интервалами пересекать нельзя.
func (s *Service) CheckOpeningHours(
	ctx context.Context,
	facilityID, facilityTypeID string,
	day domain.DayOfWeek,
	startMin, endMin int,
) (HoursVerdict, error) {
	hours, err := s.OpeningHoursFor(ctx, facilityID, facilityTypeID, day)
	if err != nil {
		return HoursOutside, err
	}

	if len(hours) == 0 {
		return HoursClosedDay, nil
	}

	for _, h := range hours {
		fits, err := h.Contains(startMin, endMin)
		if err != nil {
			s.logger.Error("CheckOpeningHours: malformed opening hours id=%s: %v", h.ID, err)
			return HoursOutside, fmt.Errorf("%w: %w: opening hours id=%s: %v", ErrInternal, domain.ErrMalformedTime, h.ID, err)
		}
		if fits {
			return HoursFit, nil
		}
	}

	return HoursOutside, nil
}
