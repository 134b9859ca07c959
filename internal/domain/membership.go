package domain

import "time"

// Role of a user within a club
type Role string

const (
	RoleOwner  Role = "owner"
	RoleAdmin  Role = "admin"
	RoleCoach  Role = "coach"
	RoleMember Role = "member"
)

// MembershipStatus of a user within a club
type MembershipStatus string

const (
	MembershipActive    MembershipStatus = "active"
	MembershipSuspended MembershipStatus = "suspended"
	MembershipPending   MembershipStatus = "pending"
)

// Membership links a user to a club
type Membership struct {
	ID        string
	ClubID    string
	UserID    string
	Role      Role
	Status    MembershipStatus
	CreatedAt time.Time
}

// AuthorizationContext is what a request may do in one club, resolved once per request
type AuthorizationContext struct {
	UserID string
	ClubID string
	Role   Role
	Active bool
}

// NewAuthorizationContext builds the context from a membership; m may be nil
func NewAuthorizationContext(userID, clubID string, m *Membership) *AuthorizationContext {
	ac := &AuthorizationContext{UserID: userID, ClubID: clubID}
	if m != nil {
		ac.Role = m.Role
		ac.Active = m.Status == MembershipActive
	}
	return ac
}

// CanBook returns true for active members of any role
func (a *AuthorizationContext) CanBook() bool {
	return a != nil && a.Active
}

// CanManageFacilities returns true for active owners and admins
func (a *AuthorizationContext) CanManageFacilities() bool {
	return a.CanBook() && (a.Role == RoleOwner || a.Role == RoleAdmin)
}
