package testutil

import (
	"sync"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClubBookingService/pkg/types"
)

// Идентификаторы стандартного клуба
const (
	ClubID      = "club-1"
	OtherClubID = "club-2"

	TennisTypeID = "type-tennis"
	SquashTypeID = "type-squash"

	CourtID         = "court-1"
	SecondCourtID   = "court-2"
	InactiveCourtID = "court-3"
	ForeignCourtID  = "court-foreign"
	SquashCourtID   = "squash-1"

	MemberID    = "user-member"
	OtherMember = "user-other"
	AdminID     = "user-admin"
	SuspendedID = "user-suspended"
	OutsiderID  = "user-outsider"
)

// Now фиксированное "сейчас" для тестов: воскресенье 2026-11-01 10:00 UTC
var Now = time.Date(2026, time.November, 1, 10, 0, 0, 0, time.UTC)

// Monday возвращает момент понедельника 2026-11-02 (следующий день после Now) в UTC
func Monday(hour, minute int) time.Time {
	return time.Date(2026, time.November, 2, hour, minute, 0, 0, time.UTC)
}

// SeedClub заполняет store стандартным клубом: теннис 08:00-22:00 ежедневно, сквош только по будням,
// теннисные правила max_duration=120 минут, cancellation_window=24 часа, guest_fee=15.
func SeedClub(s *Store) {
	s.AddFacilityType(domain.FacilityType{ID: TennisTypeID, ClubID: ClubID, Name: "Tennis", BookingIntervalMinutes: 30})
	s.AddFacilityType(domain.FacilityType{ID: SquashTypeID, ClubID: ClubID, Name: "Squash", BookingIntervalMinutes: 30})
	s.AddFacilityType(domain.FacilityType{ID: "type-foreign", ClubID: OtherClubID, Name: "Padel", BookingIntervalMinutes: 60})

	s.AddFacility(domain.Facility{ID: CourtID, ClubID: ClubID, FacilityTypeID: TennisTypeID, Name: "Court 1", Capacity: 4, IsActive: true})
	s.AddFacility(domain.Facility{ID: SecondCourtID, ClubID: ClubID, FacilityTypeID: TennisTypeID, Name: "Court 2", Capacity: 4, IsActive: true})
	s.AddFacility(domain.Facility{ID: InactiveCourtID, ClubID: ClubID, FacilityTypeID: TennisTypeID, Name: "Court 3", Capacity: 4, IsActive: false})
	s.AddFacility(domain.Facility{ID: SquashCourtID, ClubID: ClubID, FacilityTypeID: SquashTypeID, Name: "Squash 1", Capacity: 2, IsActive: true})
	s.AddFacility(domain.Facility{ID: ForeignCourtID, ClubID: OtherClubID, FacilityTypeID: "type-foreign", Name: "Padel 1", Capacity: 4, IsActive: true})

	for _, day := range []domain.DayOfWeek{
		domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday,
		domain.Friday, domain.Saturday, domain.Sunday,
	} {
		s.AddOpeningHours(domain.OpeningHours{
			FacilityTypeID: ptr.Ptr(TennisTypeID),
			DayOfWeek:      day,
			StartTime:      types.TimeString("08:00"),
			EndTime:        types.TimeString("22:00"),
		})
	}
	for _, day := range []domain.DayOfWeek{domain.Monday, domain.Tuesday, domain.Wednesday, domain.Thursday, domain.Friday} {
		s.AddOpeningHours(domain.OpeningHours{
			FacilityTypeID: ptr.Ptr(SquashTypeID),
			DayOfWeek:      day,
			StartTime:      types.TimeString("07:00"),
			EndTime:        types.TimeString("21:00"),
		})
	}

	s.AddRule(domain.BookingRule{ClubID: ClubID, FacilityTypeID: TennisTypeID, Type: domain.RuleMaxDuration, Value: []byte(`{"minutes":120}`)})
	s.AddRule(domain.BookingRule{ClubID: ClubID, FacilityTypeID: TennisTypeID, Type: domain.RuleCancellationWindow, Value: []byte(`{"hours":24}`)})
	s.AddRule(domain.BookingRule{ClubID: ClubID, FacilityTypeID: TennisTypeID, Type: domain.RuleGuestFee, Value: []byte(`{"amount":15}`)})

	s.AddMembership(domain.Membership{ClubID: ClubID, UserID: MemberID, Role: domain.RoleMember, Status: domain.MembershipActive})
	s.AddMembership(domain.Membership{ClubID: ClubID, UserID: OtherMember, Role: domain.RoleMember, Status: domain.MembershipActive})
	s.AddMembership(domain.Membership{ClubID: ClubID, UserID: AdminID, Role: domain.RoleAdmin, Status: domain.MembershipActive})
	s.AddMembership(domain.Membership{ClubID: ClubID, UserID: SuspendedID, Role: domain.RoleMember, Status: domain.MembershipSuspended})

	s.AddUser(domain.UserInfo{ID: MemberID, Name: ptr.Ptr("Anna Member"), Email: ptr.Ptr("anna@example.com")})
}

// Clock фиксированный провайдер времени
type Clock struct {
	T time.Time
}

func (c Clock) Now() time.Time {
	return c.T
}

// NopLogger логгер, который ничего не пишет
type NopLogger struct{}

func (NopLogger) Info(string, ...interface{})  {}
func (NopLogger) Warn(string, ...interface{})  {}
func (NopLogger) Error(string, ...interface{}) {}

// DecisionRecorder запоминает зафиксированные решения по броням
type DecisionRecorder struct {
	mu        sync.Mutex
	Decisions []string
}

func (r *DecisionRecorder) RecordBookingDecision(operation, outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Decisions = append(r.Decisions, operation+":"+outcome)
}

// Last последнее зафиксированное решение
func (r *DecisionRecorder) Last() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.Decisions) == 0 {
		return ""
	}
	return r.Decisions[len(r.Decisions)-1]
}
