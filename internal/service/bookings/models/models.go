package models

import (
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Request модели

// ListBookingsRequest запрос бронирований клуба за период
type ListBookingsRequest struct {
	UserID      string
	ClubID      string
	Start       time.Time
	End         time.Time
	FacilityIDs []string // Фильтр по площадкам (опционально)
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListBookingsRequest) ToDomainFilter() domain.BookingsFilter {
	return domain.BookingsFilter{
		ClubID:      r.ClubID,
		Start:       r.Start,
		End:         r.End,
		FacilityIDs: r.FacilityIDs,
	}
}

// UserBookingsRequest запрос бронирований текущего пользователя
type UserBookingsRequest struct {
	UserID string
	Status *string // Фильтр по статусу (опционально, по умолчанию booked)
}

// Response модели

// ParticipantResponse участник бронирования
type ParticipantResponse struct {
	ID         string  `json:"id"`
	UserID     *string `json:"userId,omitempty"`
	GuestName  *string `json:"guestName,omitempty"`
	GuestEmail *string `json:"guestEmail,omitempty"`
	IsGuest    bool    `json:"isGuest"`
}

// RequesterResponse автор бронирования
type RequesterResponse struct {
	ID    string  `json:"id"`
	Name  *string `json:"name,omitempty"`
	Email *string `json:"email,omitempty"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID           string                `json:"id"`
	ClubID       string                `json:"clubId"`
	FacilityID   string                `json:"facilityId"`
	UserID       string                `json:"userId"`
	StartTime    string                `json:"startTime"` // RFC 3339
	EndTime      string                `json:"endTime"`
	Status       string                `json:"status"`
	Type         string                `json:"type"`
	CheckInAt    *string               `json:"checkInAt,omitempty"`
	CancelledAt  *string               `json:"cancelledAt,omitempty"`
	Participants []ParticipantResponse `json:"participants"`
	Requester    *RequesterResponse    `json:"requester,omitempty"`
	CreatedAt    string                `json:"createdAt"`
	UpdatedAt    string                `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:           b.ID,
		ClubID:       b.ClubID,
		FacilityID:   b.FacilityID,
		UserID:       b.UserID,
		StartTime:    b.StartTime.UTC().Format(time.RFC3339),
		EndTime:      b.EndTime.UTC().Format(time.RFC3339),
		Status:       string(b.Status),
		Type:         string(b.Type),
		CheckInAt:    formatOptional(b.CheckInAt),
		CancelledAt:  formatOptional(b.CancelledAt),
		Participants: make([]ParticipantResponse, 0, len(b.Participants)),
		CreatedAt:    b.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    b.UpdatedAt.UTC().Format(time.RFC3339),
	}

	for _, p := range b.Participants {
		resp.Participants = append(resp.Participants, ParticipantResponse{
			ID:         p.ID,
			UserID:     p.UserID,
			GuestName:  p.GuestName,
			GuestEmail: p.GuestEmail,
			IsGuest:    p.IsGuest,
		})
	}

	if b.Requester != nil {
		resp.Requester = &RequesterResponse{
			ID:    b.Requester.ID,
			Name:  b.Requester.Name,
			Email: b.Requester.Email,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

func formatOptional(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
