package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/bookings/models"
)

// Service сервис чтения бронирований
type Service struct {
	bookingRepo  BookingRepository
	access       AccessResolver
	timeProvider TimeProvider
	logger       Logger
}

// NewService создает новый экземпляр сервиса бронирований
func NewService(
	bookingRepo BookingRepository,
	access AccessResolver,
	logger Logger,
) *Service {
	return &Service{
		bookingRepo:  bookingRepo,
		access:       access,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (s *Service) WithTimeProvider(tp TimeProvider) *Service {
	s.timeProvider = tp
	return s
}

// GetByID получает бронирование по ID
// Видеть бронирование может его автор или любой активный участник клуба
func (s *Service) GetByID(ctx context.Context, id string, userID string) (*models.BookingResponse, error) {
	s.logger.Info("GetByID: fetching booking id=%s for user=%s", id, userID)

	booking, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingRepo.ErrBookingNotFound) {
			s.logger.Warn("GetByID: booking id=%s not found", id)
			return nil, domain.Reject(domain.ErrNotFound, domain.ErrBookingNotFound, "Booking not found")
		}
		s.logger.Error("GetByID: repository error for booking id=%s: %v", id, err)
		return nil, fmt.Errorf("%w: GetByID - repository error: %v", ErrInternal, err)
	}

	if !booking.IsOwnedBy(userID) {
		ac, err := s.access.Resolve(ctx, userID, booking.ClubID)
		if err != nil {
			s.logger.Error("GetByID: failed to resolve access for user=%s: %v", userID, err)
			return nil, fmt.Errorf("%w: GetByID - resolve access: %v", ErrInternal, err)
		}
		if !ac.CanBook() {
			s.logger.Warn("GetByID: access denied for user=%s to booking id=%s", userID, id)
			return nil, domain.Reject(domain.ErrForbidden, domain.ErrNotMember, "You must be an active member of this club")
		}
	}

	s.logger.Info("GetByID: successfully fetched booking id=%s", id)
	return models.FromDomainBooking(booking), nil
}

// List возвращает бронирования клуба, пересекающиеся с [Start, End), в любом статусе,
// вместе с участниками и данными автора
func (s *Service) List(ctx context.Context, req *models.ListBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("List: fetching bookings for club=%s, user=%s, period=%s..%s, facilities=%v",
		req.ClubID, req.UserID, req.Start.Format(domain.DateFormat), req.End.Format(domain.DateFormat), req.FacilityIDs)

	if err := validateListRequest(req); err != nil {
		s.logger.Warn("List: invalid request for club=%s: %v", req.ClubID, err)
		return nil, err
	}

	bookings, err := s.bookingRepo.List(ctx, req.ToDomainFilter())
	if err != nil {
		s.logger.Error("List: repository error for club=%s: %v", req.ClubID, err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("List: successfully fetched %d bookings for club=%s", len(bookings), req.ClubID)
	return models.FromDomainBookingList(bookings), nil
}

// ListForUser возвращает бронирования пользователя во всех клубах, которые ещё не закончились
// По умолчанию отдаются только активные брони; req.Status задаёт другой статус.
func (s *Service) ListForUser(ctx context.Context, req *models.UserBookingsRequest) (*models.BookingListResponse, error) {
	s.logger.Info("ListForUser: fetching bookings for user=%s", req.UserID)

	status := domain.StatusBooked
	if req.Status != nil {
		status = domain.BookingStatus(*req.Status)
		if !status.IsValid() {
			s.logger.Warn("ListForUser: invalid status=%s for user=%s", *req.Status, req.UserID)
			return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidStatus,
				fmt.Sprintf("Unknown booking status %q", *req.Status))
		}
	}

	bookings, err := s.bookingRepo.ListByUser(ctx, domain.UserBookingsFilter{
		UserID: req.UserID,
		From:   s.timeProvider.Now(),
		Status: &status,
	})
	if err != nil {
		s.logger.Error("ListForUser: repository error for user=%s: %v", req.UserID, err)
		return nil, fmt.Errorf("%w: ListForUser - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("ListForUser: successfully fetched %d bookings for user=%s", len(bookings), req.UserID)
	return models.FromDomainBookingList(bookings), nil
}

func validateListRequest(req *models.ListBookingsRequest) error {
	if req.ClubID == "" {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidRange, "Club id is required")
	}
	if req.Start.IsZero() || req.End.IsZero() {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidRange, "Start and end are required")
	}
	if !req.End.After(req.Start) {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidRange, "End must be after start")
	}
	if req.End.Sub(req.Start) > domain.MaxListRangeDays*24*time.Hour {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidRange,
			fmt.Sprintf("Date range must not exceed %d days", domain.MaxListRangeDays))
	}
	return nil
}
