package get_available_slots

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// UseCase use case для получения слотов площадки на день
type UseCase struct {
	access       AccessResolver
	facilities   FacilityLoader
	schedule     ScheduleReader
	bookingRepo  BookingRepository
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	access AccessResolver,
	facilities FacilityLoader,
	schedule ScheduleReader,
	bookingRepo BookingRepository,
	logger Logger,
) *UseCase {
	return &UseCase{
		access:       access,
		facilities:   facilities,
		schedule:     schedule,
		bookingRepo:  bookingRepo,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute возвращает слоты площадки на дату с отметкой занятости
// Прошедшая дата и день закрытия дают пустой список.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	if _, err := uc.access.RequireMember(ctx, req.UserID, req.ClubID); err != nil {
		return nil, err
	}

	facility, err := uc.facilities.LoadFacility(ctx, req.ClubID, req.FacilityID)
	if err != nil {
		return nil, err
	}

	interval := domain.DefaultBookingIntervalMinutes
	if facility.Type != nil && facility.Type.BookingIntervalMinutes > 0 {
		interval = facility.Type.BookingIntervalMinutes
	}

	resp := &Response{
		Date:            domain.CivilDate(req.Date),
		FacilityID:      facility.ID,
		IntervalMinutes: interval,
		Slots:           []domain.AvailableSlot{},
	}

	loc := uc.facilities.Location()
	now := uc.timeProvider.Now().In(loc)

	if isDateInPast(req.Date, now) {
		return resp, nil
	}

	closed, err := uc.schedule.IsClosed(ctx, req.ClubID, facility.ID, facility.FacilityTypeID, req.Date)
	if err != nil {
		uc.logger.Error("Execute: failed to check closures for facility=%s: %v", facility.ID, err)
		return nil, fmt.Errorf("%w: Execute - check closures: %v", ErrInternal, err)
	}
	if closed {
		resp.Closed = true
		return resp, nil
	}

	hours, err := uc.schedule.OpeningHoursFor(ctx, facility.ID, facility.FacilityTypeID, domain.DayOfWeekOf(req.Date))
	if err != nil {
		uc.logger.Error("Execute: failed to load opening hours for facility=%s: %v", facility.ID, err)
		return nil, fmt.Errorf("%w: Execute - opening hours: %v", ErrInternal, err)
	}

	slots, err := generateSlots(hours, interval, req.Date, loc, now)
	if err != nil {
		uc.logger.Error("Execute: failed to generate slots for facility=%s: %v", facility.ID, err)
		return nil, fmt.Errorf("%w: Execute - generate slots: %v", ErrInternal, err)
	}
	if len(slots) == 0 {
		return resp, nil
	}

	y, m, d := req.Date.Date()
	dayStart := time.Date(y, m, d, 0, 0, 0, 0, loc)
	bookings, err := uc.bookingRepo.FindOverlapping(ctx, facility.ID, dayStart, dayStart.AddDate(0, 0, 1), "", 0)
	if err != nil {
		uc.logger.Error("Execute: failed to load bookings for facility=%s: %v", facility.ID, err)
		return nil, fmt.Errorf("%w: Execute - load bookings: %v", ErrInternal, err)
	}

	markTaken(slots, bookings)
	resp.Slots = slots

	uc.logger.Info("Execute: slots generated: facility=%s, date=%s, slots=%d, bookings=%d",
		facility.ID, req.Date.Format(domain.DateFormat), len(slots), len(bookings))

	return resp, nil
}
