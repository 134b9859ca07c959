package update_booking

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Request модель запроса на перенос бронирования
type Request struct {
	UserID    string
	BookingID string
	StartTime time.Time
	EndTime   time.Time

	// Participants nil = оставить как есть, пустой срез = удалить всех
	Participants []domain.Participant
}

// Response модель ответа с обновленным бронированием
type Response struct {
	Booking *domain.Booking
}
