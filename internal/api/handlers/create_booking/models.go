package create_booking

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/bookings/models"
	createBooking "github.com/m04kA/SMC-ClubBookingService/internal/usecase/create_booking"
)

// CreateBookingRequest HTTP request model
type CreateBookingRequest struct {
	FacilityID   string                      `json:"facilityId"`
	StartTime    string                      `json:"startTime"` // RFC 3339, "2025-10-15T10:00:00Z"
	EndTime      string                      `json:"endTime"`
	Type         string                      `json:"type,omitempty"`
	Participants []handlers.ParticipantInput `json:"participants,omitempty"`
}

// GuestFeeResponse расчет платы за гостей
type GuestFeeResponse struct {
	PerGuest float64 `json:"perGuest"`
	Guests   int     `json:"guests"`
	Total    float64 `json:"total"`
}

// CreateBookingResponse созданное бронирование и расчет платы за гостей
type CreateBookingResponse struct {
	*models.BookingResponse
	GuestFee *GuestFeeResponse `json:"guestFee,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateBookingRequest) ToUseCaseRequest(userID, clubID string) (*createBooking.Request, error) {
	start, err := time.Parse(time.RFC3339, r.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, r.EndTime)
	if err != nil {
		return nil, err
	}

	return &createBooking.Request{
		UserID:       userID,
		ClubID:       clubID,
		FacilityID:   r.FacilityID,
		StartTime:    start,
		EndTime:      end,
		Type:         domain.BookingType(r.Type),
		Participants: handlers.ToDomainParticipants(r.Participants),
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *CreateBookingResponse {
	out := &CreateBookingResponse{BookingResponse: models.FromDomainBooking(resp.Booking)}
	if resp.GuestFee != nil {
		out.GuestFee = &GuestFeeResponse{
			PerGuest: resp.GuestFee.PerGuest,
			Guests:   resp.GuestFee.Guests,
			Total:    resp.GuestFee.Total,
		}
	}
	return out
}
