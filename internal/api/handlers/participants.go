package handlers

import (
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// ParticipantInput участник в теле запроса: участник клуба (userId) или гость (guestName)
type ParticipantInput struct {
	UserID     *string `json:"userId,omitempty"`
	GuestName  *string `json:"guestName,omitempty"`
	GuestEmail *string `json:"guestEmail,omitempty"`
	IsGuest    bool    `json:"isGuest"`
}

// ToDomainParticipants конвертирует участников; nil на входе дает nil
func ToDomainParticipants(in []ParticipantInput) []domain.Participant {
	if in == nil {
		return nil
	}
	out := make([]domain.Participant, 0, len(in))
	for _, p := range in {
		out = append(out, domain.Participant{
			UserID:     p.UserID,
			GuestName:  p.GuestName,
			GuestEmail: p.GuestEmail,
			IsGuest:    p.IsGuest,
		})
	}
	return out
}
