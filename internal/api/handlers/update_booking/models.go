package update_booking

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	updateBooking "github.com/m04kA/SMC-ClubBookingService/internal/usecase/update_booking"
)

// UpdateBookingRequest HTTP request model
// Отсутствующее поле participants оставляет участников без изменений, пустой массив удаляет всех.
type UpdateBookingRequest struct {
	StartTime    string                       `json:"startTime"`
	EndTime      string                       `json:"endTime"`
	Participants *[]handlers.ParticipantInput `json:"participants,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *UpdateBookingRequest) ToUseCaseRequest(userID, bookingID string) (*updateBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	req := &updateBooking.Request{
		UserID:    userID,
		BookingID: bookingID,
		StartTime: start,
		EndTime:   end,
	}
	if r.Participants != nil {
		req.Participants = handlers.ToDomainParticipants(*r.Participants)
		if req.Participants == nil {
			req.Participants = []domain.Participant{}
		}
	}
	return req, nil
}
