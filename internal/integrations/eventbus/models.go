package eventbus

import (
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// EventType тип события бронирования, он же routing key
type EventType string

const (
	EventBookingCreated   EventType = "booking.created"
	EventBookingUpdated   EventType = "booking.updated"
	EventBookingCancelled EventType = "booking.cancelled"
)

// BookingEvent сообщение о зафиксированном изменении бронирования
type BookingEvent struct {
	EventID    string    `json:"eventId"`
	Type       EventType `json:"type"`
	OccurredAt time.Time `json:"occurredAt"`

	BookingID  string    `json:"bookingId"`
	ClubID     string    `json:"clubId"`
	FacilityID string    `json:"facilityId"`
	UserID     string    `json:"userId"`
	StartTime  time.Time `json:"startTime"`
	EndTime    time.Time `json:"endTime"`
	Status     string    `json:"status"`
	GuestCount int       `json:"guestCount"`
}

// NewBookingEvent собирает событие по состоянию брони после коммита
func NewBookingEvent(eventType EventType, b *domain.Booking, occurredAt time.Time) BookingEvent {
	return BookingEvent{
		EventID:    uuid.NewString(),
		Type:       eventType,
		OccurredAt: occurredAt.UTC(),
		BookingID:  b.ID,
		ClubID:     b.ClubID,
		FacilityID: b.FacilityID,
		UserID:     b.UserID,
		StartTime:  b.StartTime.UTC(),
		EndTime:    b.EndTime.UTC(),
		Status:     string(b.Status),
		GuestCount: b.GuestCount(),
	}
}
