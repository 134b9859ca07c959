package admission

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	facilityRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/facility"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability"
)

// ErrInternal возвращается, когда проверку не удалось выполнить из-за сбоя хранилища
var ErrInternal = errors.New("admission.checker: internal error")

// Candidate запрошенный интервал брони
type Candidate struct {
	ClubID     string
	FacilityID string
	Start      time.Time
	End        time.Time

	// ExcludeBookingID редактируемая бронь, не конфликтующая сама с собой
	ExcludeBookingID string
}

// Checker выполняет общие для создания и переноса проверки допустимости брони.
// Проверки идут в фиксированном порядке и прерываются на первом отказе.
type Checker struct {
	facilities   FacilityRepository
	availability AvailabilityChecker
	rules        RuleResolver
	conflicts    ConflictDetector
	location     *time.Location
	logger       Logger
}

// NewChecker создает checker; location - часовой пояс клуба для дат и часов работы
func NewChecker(
	facilities FacilityRepository,
	availability AvailabilityChecker,
	rules RuleResolver,
	conflicts ConflictDetector,
	location *time.Location,
	logger Logger,
) *Checker {
	if location == nil {
		location = time.UTC
	}
	return &Checker{
		facilities:   facilities,
		availability: availability,
		rules:        rules,
		conflicts:    conflicts,
		location:     location,
		logger:       logger,
	}
}

// Location часовой пояс, в котором интерпретируются даты и часы работы
func (c *Checker) Location() *time.Location {
	return c.location
}

// Admit проверяет интервал и возвращает площадку, если бронь допустима:
// корректность интервала, площадка, закрытия, часы работы, максимальная длительность, пересечения.
func (c *Checker) Admit(ctx context.Context, cand Candidate) (*domain.Facility, error) {
	if !cand.End.After(cand.Start) {
		return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidRange, "End time must be after start time")
	}

	facility, err := c.LoadFacility(ctx, cand.ClubID, cand.FacilityID)
	if err != nil {
		return nil, err
	}
	typeID := facility.FacilityTypeID

	window, ok := domain.ToLocalWindow(cand.Start, cand.End, c.location)
	if !ok {
		return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrCrossesMidnight,
			"Booking must start and end on the same day")
	}

	closed, err := c.availability.IsClosed(ctx, cand.ClubID, facility.ID, typeID, window.Date)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if closed {
		return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrFacilityClosed, "Facility is closed on this date")
	}

	verdict, err := c.availability.CheckOpeningHours(ctx, facility.ID, typeID, window.Day, window.StartMin, window.EndMin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInternal, err)
	}
	switch verdict {
	case availability.HoursClosedDay:
		return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrClosedOnDay, "Facility is closed on this day")
	case availability.HoursOutside:
		return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrOutsideOpeningHours, "Booking time is outside opening hours")
	}

	maxDuration, limited, err := c.rules.ResolveMaxDuration(ctx, cand.ClubID, typeID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if limited && cand.End.Sub(cand.Start) > maxDuration {
		return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrMaxDurationExceeded,
			fmt.Sprintf("Booking exceeds maximum duration of %s minutes", formatAmount(maxDuration.Minutes())))
	}

	existing, err := c.conflicts.FindOverlapping(ctx, facility.ID, cand.Start, cand.End, cand.ExcludeBookingID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if existing != nil {
		c.logger.Warn("Admit: facility=%s %s-%s overlaps booking id=%s",
			facility.ID, cand.Start.Format(time.RFC3339), cand.End.Format(time.RFC3339), existing.ID)
		return nil, domain.Reject(domain.ErrConflict, domain.ErrSlotTaken, "Facility is already booked for this time slot")
	}

	return facility, nil
}

// LoadFacility загружает активную площадку клуба; чужая или выключенная площадка не найдена
func (c *Checker) LoadFacility(ctx context.Context, clubID, facilityID string) (*domain.Facility, error) {
	facility, err := c.facilities.GetWithType(ctx, facilityID)
	if err != nil {
		if errors.Is(err, facilityRepo.ErrFacilityNotFound) {
			return nil, domain.Reject(domain.ErrNotFound, domain.ErrFacilityNotFound, "Facility not found")
		}
		c.logger.Error("LoadFacility: failed to get facility id=%s: %v", facilityID, err)
		return nil, fmt.Errorf("%w: LoadFacility: %v", ErrInternal, err)
	}

	if !facility.BelongsTo(clubID) || !facility.IsActive {
		return nil, domain.Reject(domain.ErrNotFound, domain.ErrFacilityNotFound, "Facility not found")
	}

	return facility, nil
}

// CheckCancellationWindow запрещает действие verb ("edit", "cancel") ближе окна отмены к началу брони.
// Ровно N часов до начала допустимо.
func (c *Checker) CheckCancellationWindow(
	ctx context.Context,
	clubID, facilityTypeID string,
	start, now time.Time,
	verb string,
) error {
	window, found, err := c.rules.ResolveCancellationWindow(ctx, clubID, facilityTypeID)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInternal, err)
	}
	if !found {
		return nil
	}

	if start.Sub(now) < window {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrWithinCancelWindow,
			fmt.Sprintf("Cannot %s within %s hours of start time", verb, formatAmount(window.Hours())))
	}
	return nil
}

// formatAmount печатает число без лишних нулей: 24, 1.5, 90.5
func formatAmount(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
