package cancel_booking

import "github.com/m04kA/SMC-ClubBookingService/internal/domain"

// Request модель запроса на отмену бронирования
type Request struct {
	UserID    string
	BookingID string
}

// Response отмененное бронирование (status=cancelled, CancelledAt заполнено)
type Response struct {
	Booking *domain.Booking
}
