package domain

import (
	"strings"
)

// Participant is a person attending a booking: either a club member or a named guest
type Participant struct {
	ID         string
	BookingID  string
	UserID     *string
	GuestName  *string
	GuestEmail *string
	IsGuest    bool
}

// Validate checks that a member carries a user id and a guest carries a name
func (p Participant) Validate() error {
	if p.IsGuest {
		if p.GuestName == nil || strings.TrimSpace(*p.GuestName) == "" {
			return Reject(ErrInvalidRequest, ErrInvalidParticipant, "guest participant must have a name")
		}
		if p.UserID != nil {
			return Reject(ErrInvalidRequest, ErrInvalidParticipant, "guest participant cannot reference a user")
		}
		return nil
	}

	if p.UserID == nil || strings.TrimSpace(*p.UserID) == "" {
		return Reject(ErrInvalidRequest, ErrInvalidParticipant, "member participant must have a user id")
	}
	return nil
}

// ValidateParticipants validates every participant in order
func ValidateParticipants(participants []Participant) error {
	for _, p := range participants {
		if err := p.Validate(); err != nil {
			return err
		}
	}
	return nil
}
