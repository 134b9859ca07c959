package create_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/pgerr"
)

// validateStart запрещает бронь, начинающуюся раньше текущего момента
func validateStart(start, now time.Time) error {
	if start.Before(now) {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrBookingInPast, "Cannot book in the past")
	}
	return nil
}

// validateRange проверяет интервал до типа и участников, чтобы порядок отказов совпадал с Admit
func validateRange(start, end time.Time) error {
	if !end.After(start) {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidRange, "End time must be after start time")
	}
	return nil
}

// normalizeType подставляет тип по умолчанию и проверяет известные значения
func normalizeType(t domain.BookingType) (domain.BookingType, error) {
	if t == "" {
		return domain.BookingTypeUser, nil
	}
	if !t.IsValid() {
		return "", domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidBookingType,
			fmt.Sprintf("Unknown booking type %q", t))
	}
	return t, nil
}

// validateParticipants проверяет количество и каждого участника
func validateParticipants(participants []domain.Participant) error {
	if len(participants) > domain.MaxParticipants {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidParticipant,
			fmt.Sprintf("Booking cannot have more than %d participants", domain.MaxParticipants))
	}
	return domain.ValidateParticipants(participants)
}

// isSlotConflict пересечение, пойманное БД: exclusion constraint или конкурентная сериализуемая транзакция
func isSlotConflict(err error) bool {
	return errors.Is(err, bookingRepo.ErrOverlap) || pgerr.IsConflict(err)
}

func slotTaken() error {
	return domain.Reject(domain.ErrConflict, domain.ErrSlotTaken, "Facility is already booked for this time slot")
}

// quoteGuestFee считает плату за гостей; без гостей расчета нет
func quoteGuestFee(perGuest float64, guests int) *GuestFeeQuote {
	if guests == 0 {
		return nil
	}
	return &GuestFeeQuote{
		PerGuest: perGuest,
		Guests:   guests,
		Total:    perGuest * float64(guests),
	}
}
