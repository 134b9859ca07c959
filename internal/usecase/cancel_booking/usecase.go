package cancel_booking

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
)

const operation = "cancel_booking"

var tracer = otel.Tracer("github.com/m04kA/SMC-ClubBookingService/internal/usecase/cancel_booking")

// UseCase use case для отмены бронирования
type UseCase struct {
	bookingRepo  BookingRepository
	facilityRepo FacilityRepository
	window       WindowChecker
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
	window WindowChecker,
	publisher EventPublisher,
	recorder DecisionRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		bookingRepo:  bookingRepo,
		facilityRepo: facilityRepo,
		window:       window,
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

// Execute выполняет use case отмены бронирования
// Строка брони не удаляется: меняется статус, слот сразу освобождается для новых броней.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CancelBooking", trace.WithAttributes(
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

	uc.logger.Info("CancelBooking: booking=%s, user=%s", req.BookingID, req.UserID)

	now := uc.timeProvider.Now()
	var cancelled *domain.Booking

	err = uc.txManager.Do(ctx, func(txCtx context.Context) error {
		// 1. Бронь существует (строка блокируется до конца транзакции)
		booking, err := uc.bookingRepo.GetByID(txCtx, req.BookingID)
		if err != nil {
			if errors.Is(err, bookingRepo.ErrBookingNotFound) {
				return notFound()
			}
			return fmt.Errorf("%w: GetByID: %v", ErrInternal, err)
		}

		// 2. Владелец и активный статус
		if err := checkCancellable(booking, req.UserID); err != nil {
			return err
		}

		// 3. Окно отмены; площадка могла быть выключена, это не мешает отмене
		facility, err := uc.facilityRepo.GetWithType(txCtx, booking.FacilityID)
		if err != nil {
			return fmt.Errorf("%w: GetWithType: %v", ErrInternal, err)
		}
		if err := uc.window.CheckCancellationWindow(txCtx, booking.ClubID, facility.FacilityTypeID,
			booking.StartTime, now, "cancel"); err != nil {
			return err
		}

		if err := uc.bookingRepo.Cancel(txCtx, booking.ID, now.UTC()); err != nil {
			return fmt.Errorf("%w: Cancel: %v", ErrInternal, err)
		}

		cancelled, err = uc.bookingRepo.GetByID(txCtx, booking.ID)
		if err != nil {
			return fmt.Errorf("%w: reload booking: %v", ErrInternal, err)
		}
		return nil
	})
	if err != nil {
		if domain.IsRejection(err) {
			uc.logger.Warn("CancelBooking: rejected: %v", err)
			return nil, err
		}
		uc.logger.Error("CancelBooking: failed: %v", err)
		if errors.Is(err, ErrInternal) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", ErrInternal, err)
	}

	uc.logger.Info("CancelBooking: successfully cancelled booking id=%s", cancelled.ID)

	event := eventbus.NewBookingEvent(eventbus.EventBookingCancelled, cancelled, now)
	if err := uc.publisher.PublishBookingEvent(ctx, event); err != nil {
		uc.logger.Warn("CancelBooking: failed to publish %s for booking id=%s: %v", event.Type, cancelled.ID, err)
	}

	return &Response{Booking: cancelled}, nil
}
