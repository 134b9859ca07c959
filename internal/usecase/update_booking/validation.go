package update_booking

import (
	"errors"
	"fmt"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	"github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/pgerr"
)

// checkEditable владелец, активный статус и исходное начало не в прошлом
func checkEditable(b *domain.Booking, userID string, now time.Time) error {
	if !b.IsOwnedBy(userID) {
		return domain.Reject(domain.ErrForbidden, domain.ErrNotOwner, "You can only edit your own bookings")
	}
	if b.Status != domain.StatusBooked {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrBookingNotActive,
			fmt.Sprintf("Cannot edit a booking with status %s", b.Status))
	}
	if b.StartTime.Before(now) {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrBookingInPast, "Cannot edit past bookings")
	}
	return nil
}

// validateParticipants nil означает, что список участников не меняется
func validateParticipants(participants []domain.Participant) error {
	if participants == nil {
		return nil
	}
	if len(participants) > domain.MaxParticipants {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidParticipant,
			fmt.Sprintf("Booking cannot have more than %d participants", domain.MaxParticipants))
	}
	return domain.ValidateParticipants(participants)
}

func notFound() error {
	return domain.Reject(domain.ErrNotFound, domain.ErrBookingNotFound, "Booking not found")
}

// isSlotConflict пересечение, пойманное БД: exclusion constraint или конкурентная сериализуемая транзакция
func isSlotConflict(err error) bool {
	return errors.Is(err, bookingRepo.ErrOverlap) || pgerr.IsConflict(err)
}

func slotTaken() error {
	return domain.Reject(domain.ErrConflict, domain.ErrSlotTaken, "Facility is already booked for this time slot")
}
