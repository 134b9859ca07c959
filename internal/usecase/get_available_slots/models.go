package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Request модель запроса на получение слотов площадки
type Request struct {
	UserID     string
	ClubID     string
	FacilityID string
	Date       time.Time // Календарная дата в часовом поясе клуба
}

// Response модель ответа со списком слотов
type Response struct {
	Date            time.Time
	FacilityID      string
	IntervalMinutes int
	Closed          bool // На дату действует закрытие площадки или её типа
	Slots           []domain.AvailableSlot
}
