package create_booking

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
	"github.com/m04kA/SMC-ClubBookingService/internal/integrations/eventbus"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/admission"
)

const operation = "create_booking"

var tracer = otel.Tracer("github.com/m04kA/SMC-ClubBookingService/internal/usecase/create_booking")

// UseCase use case для создания бронирования
type UseCase struct {
	access       AccessResolver
	admission    AdmissionChecker
	bookingRepo  BookingRepository
	guestFees    GuestFeeResolver
	publisher    EventPublisher
	recorder     DecisionRecorder
	txManager    TransactionManager
	timeProvider TimeProvider
	logger       Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	access AccessResolver,
	admission AdmissionChecker,
	bookingRepo BookingRepository,
	guestFees GuestFeeResolver,
	publisher EventPublisher,
	recorder DecisionRecorder,
	txManager TransactionManager,
	logger Logger,
) *UseCase {
	return &UseCase{
		access:       access,
		admission:    admission,
		bookingRepo:  bookingRepo,
		guestFees:    guestFees,
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

// Execute выполняет use case создания бронирования
// Проверки и запись идут в одной сериализуемой транзакции, поэтому из двух
// конкурентных запросов на пересекающиеся интервалы успешен только один.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (resp *Response, err error) {
	ctx, span := tracer.Start(ctx, "CreateBooking", trace.WithAttributes(
		attribute.String("club.id", req.ClubID),
		attribute.String("facility.id", req.FacilityID),
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

	uc.logger.Info("CreateBooking: user=%s, club=%s, facility=%s, %s-%s",
		req.UserID, req.ClubID, req.FacilityID,
		req.StartTime.Format(time.RFC3339), req.EndTime.Format(time.RFC3339))

	// 1. Права: только активный участник клуба
	if _, err := uc.access.RequireMember(ctx, req.UserID, req.ClubID); err != nil {
		return nil, uc.fail("RequireMember", err)
	}

	// 2. Бронь не может начинаться в прошлом
	now := uc.timeProvider.Now()
	if err := validateStart(req.StartTime, now); err != nil {
		uc.logger.Warn("CreateBooking: start %s is before now %s", req.StartTime.Format(time.RFC3339), now.Format(time.RFC3339))
		return nil, err
	}
	if err := validateRange(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	// 3. Тип и участники
	bookingType, err := normalizeType(req.Type)
	if err != nil {
		return nil, err
	}
	if err := validateParticipants(req.Participants); err != nil {
		uc.logger.Warn("CreateBooking: invalid participants: %v", err)
		return nil, err
	}

	var (
		created  *domain.Booking
		facility *domain.Facility
	)

	// 4. Проверки допустимости и запись в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		f, err := uc.admission.Admit(txCtx, admission.Candidate{
			ClubID:     req.ClubID,
			FacilityID: req.FacilityID,
			Start:      req.StartTime,
			End:        req.EndTime,
		})
		if err != nil {
			return err
		}
		facility = f

		booking := &domain.Booking{
			ClubID:       req.ClubID,
			FacilityID:   f.ID,
			UserID:       req.UserID,
			StartTime:    req.StartTime.UTC(),
			EndTime:      req.EndTime.UTC(),
			Status:       domain.StatusBooked,
			Type:         bookingType,
			Participants: req.Participants,
		}

		b, err := uc.bookingRepo.Create(txCtx, booking)
		if err != nil {
			return err
		}
		created = b
		return nil
	})
	if err != nil {
		if isSlotConflict(err) {
			uc.logger.Warn("CreateBooking: facility=%s slot taken by a concurrent request: %v", req.FacilityID, err)
			return nil, slotTaken()
		}
		return nil, uc.fail("transaction", err)
	}

	uc.logger.Info("CreateBooking: successfully created booking id=%s", created.ID)

	// 5. Плата за гостей и событие считаются после фиксации и не влияют на результат
	resp = &Response{
		Booking:  created,
		GuestFee: uc.quote(ctx, created, facility.FacilityTypeID),
	}
	uc.publish(ctx, created, now)

	return resp, nil
}

func (uc *UseCase) quote(ctx context.Context, booking *domain.Booking, facilityTypeID string) *GuestFeeQuote {
	guests := booking.GuestCount()
	if guests == 0 {
		return nil
	}

	fee, found, err := uc.guestFees.ResolveGuestFee(ctx, booking.ClubID, facilityTypeID)
	if err != nil {
		uc.logger.Warn("CreateBooking: failed to resolve guest fee for booking id=%s: %v", booking.ID, err)
		return nil
	}
	if !found {
		return nil
	}
	return quoteGuestFee(fee, guests)
}

func (uc *UseCase) publish(ctx context.Context, booking *domain.Booking, now time.Time) {
	event := eventbus.NewBookingEvent(eventbus.EventBookingCreated, booking, now)
	if err := uc.publisher.PublishBookingEvent(ctx, event); err != nil {
		uc.logger.Warn("CreateBooking: failed to publish %s for booking id=%s: %v", event.Type, booking.ID, err)
	}
}

// fail пропускает отказы как есть, остальное оборачивает во внутреннюю ошибку
func (uc *UseCase) fail(step string, err error) error {
	if domain.IsRejection(err) {
		uc.logger.Warn("CreateBooking: rejected at %s: %v", step, err)
		return err
	}
	if errors.Is(err, ErrInternal) {
		return err
	}
	uc.logger.Error("CreateBooking: %s failed: %v", step, err)
	return fmt.Errorf("%w: %s: %v", ErrInternal, step, err)
}
