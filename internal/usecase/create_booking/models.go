package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	UserID       string             // ID пользователя из заголовка
	ClubID       string             // ID клуба
	FacilityID   string             // ID площадки
	StartTime    time.Time          // Начало интервала (включительно)
	EndTime      time.Time          // Конец интервала (не включительно)
	Type         domain.BookingType // Пусто = user_booking
	Participants []domain.Participant
}

// GuestFeeQuote расчет платы за гостей; бронь от нее не зависит
type GuestFeeQuote struct {
	PerGuest float64
	Guests   int
	Total    float64
}

// Response модель ответа с созданным бронированием
type Response struct {
	Booking  *domain.Booking
	GuestFee *GuestFeeQuote // nil, если правила guest_fee нет или гостей нет
}
