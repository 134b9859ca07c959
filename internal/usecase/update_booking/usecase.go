package update_booking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/admission"
)

const operation = "update_booking"

var tracer = otel.Tracer("github.com/m04kA/SMC-ClubBookingService/internal/usecase/update_booking")

// UseCase use case для переноса бронирования и замены участников
type UseCase struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	admission    AdmissionChecker
	publisher    EventPublisher
	recorder     DecisionRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	bookingRepo BookingRepository,
	facilityRepo FacilityRepository,
	admission AdmissionChecker,
	publisher EventPublisher,
	recorder DecisionRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		admission:    admission,
		publisher:    publisher,
		recorder:     recorder,
		txManager:    txManager,
		timeProvider: &RealTimeProvider{},
		logger:       logger,
	}
}

// WithTimeProvider подменяет источник времени
func (uc *UseCase) WithTimeProvider(tp TimeProvider) *UseCase {
	uc.timeProvider = tp
	return uc
}

// Execute выполняет use case переноса бронирования
// Окно отмены и прошлое проверяются по исходному началу брони, остальные проверки - по новому интервалу.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "UpdateBooking", trace.WithAttributes(
		attribute.String("booking.id", req.BookingID),
		attribute.String("user.id", req.UserID),
	))
	defer func() {
		outcome := domain.OutcomeOf(err)
		uc.recorder.RecordBookingDecision(operation, outcome)
		span.SetAttributes(attribute.String("booking.outcome", outcome))
		if err != nil && !domain.IsRejection(err) {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	uc.logger.Info("UpdateBooking: booking=%s, user=%s, %s-%s",
		req.BookingID, req.UserID, req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	now := uc.timeProvider.Now()
	var updated *domain.Booking

	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 1. Бронь существует (строка блокируется до конца транзакции)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return notFound()
			}
			return fmt.Errorf("%w: GetByID: %v", ErrInternal, err)
		}

		// 2-3. Владелец, статус, исходное начало
		if err := checkEditable(booking, req.UserID, now); err != nil {
			return err
		}

		// 4. Окно отмены по типу площадки текущей брони
		facility, err := uc.facilityRepo.GetWithType(txCtx, booking.FacilityID)
		if err != nil {
			return fmt.Errorf("%w: GetWithType: %v", ErrInternal, err)
		}
		if err := uc.admission.CheckCancellationWindow(txCtx, booking.ClubID, facility.FacilityTypeID,
			booking.StartTime, now, "edit"); err != nil {
			return err
		}

		if err := validateParticipants(req.Participants); err != nil {
			return err
		}

		// 5. Проверки нового интервала без учета самой брони
		if _, err := uc.admission.Admit(txCtx, admission.Candidate{
			ClubID:           booking.ClubID,
			FacilityID:       booking.FacilityID,
			Start:            req.StartTime,
			End:              req.EndTime,
			ExcludeBookingID: booking.ID,
		}); err != nil {
			return err
		}

		if err := uc.bookingRepo.UpdateTimes(txCtx, booking.ID, req.StartTime.UTC(), req.EndTime.UTC()); err != nil {
			return err
		}

		if req.Participants != nil {
			if err := uc.bookingRepo.ReplaceParticipants(txCtx, booking.ID, req.Participants); err != nil {
				return fmt.Errorf("%w: ReplaceParticipants: %v", ErrInternal, err)
			}
		}

		updated, err = uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if isSlotConflict(err) {
			uc.logger.Warn("UpdateBooking: booking=%s new range taken by a concurrent request: %v", req.BookingID, err)
			return nil, slotTaken()
		}
		return nil, uc.fail(err)
	}

	uc.logger.Info("UpdateBooking: successfully updated booking id=%s", updated.ID)

	event := eventbus.NewBookingEvent(eventbus.EventBookingUpdated, updated, now)
	if err := uc.publisher.PublishBookingEvent(ctx, event); err != nil {
		uc.logger.Warn("UpdateBooking: failed to publish %s for booking id=%s: %v", event.Type, updated.ID, err)
	}

	return &Response{Booking: updated}, nil
}

// fail пропускает отказы как есть, остальное оборачивает во внутреннюю ошибку
func (uc *UseCase) fail(err error) error {
	if domain.IsRejection(err) {
		uc.logger.Warn("UpdateBooking: rejected: %v", err)
		return err
	}
	uc.logger.Error("UpdateBooking: failed: %v", err)
	if errors.Is(err, ErrInternal) {
		return err
	}
	return fmt.Errorf("%w: %v", ErrInternal, err)
}
