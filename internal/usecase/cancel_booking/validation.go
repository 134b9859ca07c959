package cancel_booking

import (
	"fmt"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// checkCancellable только владелец может отменить, и только активную бронь
// Повторная отмена отклоняется, а не считается успешной.
func checkCancellable(b *domain.Booking, userID string) error {
	if !b.IsOwnedBy(userID) {
		return domain.Reject(domain.ErrForbidden, domain.ErrNotOwner, "You can only cancel your own bookings")
	}
	if b.Status != domain.StatusBooked {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrBookingNotActive,
			fmt.Sprintf("Cannot cancel a booking with status %s", b.Status))
	}
	return nil
}

func notFound() error {
	return domain.Reject(domain.ErrNotFound, domain.ErrBookingNotFound, "Booking not found")
}
