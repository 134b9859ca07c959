// Package testutil provides in-memory stand-ins for the storage layer and other collaborators,
// so services and use cases can be exercised without PostgreSQL.
package testutil

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	bookingRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/booking"
	facilityRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/facility"
	membershipRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/membership"
	ruleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/rule"
	scheduleRepo "github.com/m04kA/SMC-ClubBookingService/internal/infra/storage/schedule"
)

// Store is an in-memory implementation of every repository used by the service.
// Overlapping booked bookings on one facility are rejected the way the exclusion constraint does.
type Store struct {
	mu sync.Mutex

	types       map[string]*domain.FacilityType
	facilities  map[string]*domain.Facility
	hours       []domain.OpeningHours
	closures    []domain.Closure
	rules       []domain.BookingRule
	memberships map[string]*domain.Membership
	users       map[string]*domain.UserInfo
	bookings    map[string]*domain.Booking

	seq int
}

// NewStore returns an empty store
func NewStore() *Store {
	return &Store{
		types:       map[string]*domain.FacilityType{},
		facilities:  map[string]*domain.Facility{},
		memberships: map[string]*domain.Membership{},
		users:       map[string]*domain.UserInfo{},
		bookings:    map[string]*domain.Booking{},
	}
}

func (s *Store) nextID(prefix string) string {
	s.seq++
	return fmt.Sprintf("%s-%d", prefix, s.seq)
}

// --- seeding ---

// AddFacilityType stores t
func (s *Store) AddFacilityType(t domain.FacilityType) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types[t.ID] = &t
}

// AddFacility stores f
func (s *Store) AddFacility(f domain.Facility) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.facilities[f.ID] = &f
}

// AddOpeningHours stores h
func (s *Store) AddOpeningHours(h domain.OpeningHours) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if h.ID == "" {
		h.ID = s.nextID("oh")
	}
	s.hours = append(s.hours, h)
}

// AddClosure stores c
func (s *Store) AddClosure(c domain.Closure) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == "" {
		c.ID = s.nextID("closure")
	}
	s.closures = append(s.closures, c)
}

// AddRule stores r, keeping insertion order as the "first row" order
func (s *Store) AddRule(r domain.BookingRule) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if r.ID == "" {
		r.ID = s.nextID("rule")
	}
	s.rules = append(s.rules, r)
}

// AddMembership stores m
func (s *Store) AddMembership(m domain.Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.memberships[m.ClubID+"/"+m.UserID] = &m
}

// AddUser stores u
func (s *Store) AddUser(u domain.UserInfo) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// AddBooking stores b as is, bypassing overlap checks
func (s *Store) AddBooking(b domain.Booking) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == "" {
		b.ID = s.nextID("booking")
	}
	s.bookings[b.ID] = cloneBooking(&b)
}

// Bookings returns a copy of all stored bookings ordered by start time
func (s *Store) Bookings() []*domain.Booking {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, cloneBooking(b))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartTime.Before(out[j].StartTime) })
	return out
}

// Rules returns a copy of the stored rules
func (s *Store) Rules() []domain.BookingRule {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BookingRule(nil), s.rules...)
}

// OpeningHours returns a copy of the stored opening hours
func (s *Store) OpeningHours() []domain.OpeningHours {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.OpeningHours(nil), s.hours...)
}

// --- membership repository ---

func (s *Store) Get(ctx context.Context, clubID, userID string) (*domain.Membership, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.memberships[clubID+"/"+userID]
	if !ok {
		return nil, membershipRepo.ErrMembershipNotFound
	}
	copied := *m
	return &copied, nil
}

// --- facility repository ---

func (s *Store) GetWithType(ctx context.Context, id string) (*domain.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.facilities[id]
	if !ok {
		return nil, facilityRepo.ErrFacilityNotFound
	}
	copied := *f
	if t, ok := s.types[f.FacilityTypeID]; ok {
		tc := *t
		copied.Type = &tc
	}
	return &copied, nil
}

func (s *Store) GetType(ctx context.Context, id string) (*domain.FacilityType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.types[id]
	if !ok {
		return nil, facilityRepo.ErrFacilityTypeNotFound
	}
	copied := *t
	return &copied, nil
}

func (s *Store) ListTypes(ctx context.Context, clubID string) ([]*domain.FacilityType, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.FacilityType, 0)
	for _, t := range s.types {
		if t.ClubID == clubID {
			copied := *t
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) ListByClub(ctx context.Context, clubID string) ([]*domain.Facility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Facility, 0)
	for _, f := range s.facilities {
		if f.ClubID == clubID {
			copied := *f
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateBookingInterval(ctx context.Context, typeID string, minutes int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.types[typeID]
	if !ok {
		return facilityRepo.ErrFacilityTypeNotFound
	}
	t.BookingIntervalMinutes = minutes
	return nil
}

// --- schedule repository ---

func (s *Store) ListOpeningHours(ctx context.Context, facilityID, facilityTypeID string, day domain.DayOfWeek) ([]domain.OpeningHours, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.OpeningHours, 0)
	for _, h := range s.hours {
		if h.DayOfWeek != day {
			continue
		}
		if (h.FacilityID != nil && *h.FacilityID == facilityID) ||
			(h.FacilityTypeID != nil && *h.FacilityTypeID == facilityTypeID) {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) ListOpeningHoursByTypes(ctx context.Context, typeIDs []string) ([]domain.OpeningHours, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := toSet(typeIDs)
	out := make([]domain.OpeningHours, 0)
	for _, h := range s.hours {
		if h.FacilityTypeID != nil && wanted[*h.FacilityTypeID] {
			out = append(out, h)
		}
	}
	return out, nil
}

func (s *Store) ReplaceTypeOpeningHours(ctx context.Context, typeID string, hours []domain.OpeningHours) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.hours[:0:0]
	for _, h := range s.hours {
		if h.FacilityTypeID == nil || *h.FacilityTypeID != typeID {
			kept = append(kept, h)
		}
	}
	for i := range hours {
		hours[i].ID = s.nextID("oh")
		id := typeID
		hours[i].FacilityTypeID = &id
		kept = append(kept, hours[i])
	}
	s.hours = kept
	return nil
}

func (s *Store) ListClosures(ctx context.Context, filter domain.ClosureFilter) ([]domain.Closure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Closure, 0)
	for _, c := range s.closures {
		if c.ClubID != filter.ClubID {
			continue
		}
		if filter.FacilityID != "" || filter.FacilityTypeID != "" {
			matchFacility := filter.FacilityID != "" && c.FacilityID != nil && *c.FacilityID == filter.FacilityID
			matchType := filter.FacilityTypeID != "" && c.FacilityTypeID != nil && *c.FacilityTypeID == filter.FacilityTypeID
			if !matchFacility && !matchType {
				continue
			}
		}
		if filter.Date != nil && !c.Covers(*filter.Date) {
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

func (s *Store) GetClosure(ctx context.Context, id string) (*domain.Closure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.closures {
		if c.ID == id {
			copied := c
			return &copied, nil
		}
	}
	return nil, scheduleRepo.ErrClosureNotFound
}

func (s *Store) CreateClosure(ctx context.Context, c *domain.Closure) (*domain.Closure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.nextID("closure")
	c.CreatedAt = time.Now()
	s.closures = append(s.closures, *c)
	return c, nil
}

func (s *Store) DeleteClosure(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, c := range s.closures {
		if c.ID == id {
			s.closures = append(s.closures[:i], s.closures[i+1:]...)
			return nil
		}
	}
	return scheduleRepo.ErrClosureNotFound
}

// --- rule repository ---

func (s *Store) GetFirst(ctx context.Context, clubID, facilityTypeID string, ruleType domain.RuleType) (*domain.BookingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.rules {
		if r.ClubID == clubID && r.FacilityTypeID == facilityTypeID && r.Type == ruleType {
			copied := r
			return &copied, nil
		}
	}
	return nil, ruleRepo.ErrRuleNotFound
}

func (s *Store) ListByTypes(ctx context.Context, typeIDs []string) ([]*domain.BookingRule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	wanted := toSet(typeIDs)
	out := make([]*domain.BookingRule, 0)
	for _, r := range s.rules {
		if wanted[r.FacilityTypeID] {
			copied := r
			out = append(out, &copied)
		}
	}
	return out, nil
}

func (s *Store) Replace(ctx context.Context, clubID, facilityTypeID string, rules []domain.BookingRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	seen := map[domain.RuleType]bool{}
	for _, r := range rules {
		if seen[r.Type] {
			return ruleRepo.ErrDuplicateRule
		}
		seen[r.Type] = true
	}

	kept := s.rules[:0:0]
	for _, r := range s.rules {
		if r.FacilityTypeID != facilityTypeID {
			kept = append(kept, r)
		}
	}
	for i := range rules {
		rules[i].ID = s.nextID("rule")
		rules[i].ClubID = clubID
		rules[i].FacilityTypeID = facilityTypeID
		kept = append(kept, rules[i])
	}
	s.rules = kept
	return nil
}

// --- booking repository ---

func (s *Store) Create(ctx context.Context, b *domain.Booking) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.Status == domain.StatusBooked && s.overlapsLocked(b.FacilityID, b.StartTime, b.EndTime, "") {
		return nil, bookingRepo.ErrOverlap
	}
	b.ID = s.nextID("booking")
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	for i := range b.Participants {
		b.Participants[i].ID = s.nextID("participant")
		b.Participants[i].BookingID = b.ID
	}
	s.bookings[b.ID] = cloneBooking(b)
	return b, nil
}

func (s *Store) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return cloneBooking(b), nil
}

func (s *Store) FindOverlapping(ctx context.Context, facilityID string, start, end time.Time, excludeID string, limit int) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.sortedLocked() {
		if b.FacilityID != facilityID || b.ID == excludeID || !b.IsBlocking() {
			continue
		}
		if domain.IntervalsOverlap(start, end, b.StartTime, b.EndTime) {
			out = append(out, cloneBooking(b))
			if limit > 0 && len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

func (s *Store) UpdateTimes(ctx context.Context, id string, start, end time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	if b.IsBlocking() && s.overlapsLocked(b.FacilityID, start, end, id) {
		return bookingRepo.ErrOverlap
	}
	b.StartTime, b.EndTime = start, end
	b.UpdatedAt = time.Now()
	return nil
}

func (s *Store) Cancel(ctx context.Context, id string, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = domain.StatusCancelled
	b.CancelledAt = &at
	b.UpdatedAt = time.Now()
	return nil
}

func (s *Store) ReplaceParticipants(ctx context.Context, bookingID string, participants []domain.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bookings[bookingID]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	for i := range participants {
		participants[i].ID = s.nextID("participant")
		participants[i].BookingID = bookingID
	}
	b.Participants = append([]domain.Participant(nil), participants...)
	return nil
}

func (s *Store) List(ctx context.Context, filter domain.BookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	facilities := toSet(filter.FacilityIDs)
	out := make([]*domain.Booking, 0)
	for _, b := range s.sortedLocked() {
		if b.ClubID != filter.ClubID {
			continue
		}
		if len(facilities) > 0 && !facilities[b.FacilityID] {
			continue
		}
		if !domain.IntervalsOverlap(filter.Start, filter.End, b.StartTime, b.EndTime) {
			continue
		}
		copied := cloneBooking(b)
		copied.Requester = &domain.UserInfo{ID: b.UserID}
		if u, ok := s.users[b.UserID]; ok {
			copied.Requester.Name, copied.Requester.Email = u.Name, u.Email
		}
		out = append(out, copied)
	}
	return out, nil
}

func (s *Store) ListByUser(ctx context.Context, filter domain.UserBookingsFilter) ([]*domain.Booking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*domain.Booking, 0)
	for _, b := range s.sortedLocked() {
		if b.UserID != filter.UserID || !b.EndTime.After(filter.From) {
			continue
		}
		if filter.Status != nil && b.Status != *filter.Status {
			continue
		}
		out = append(out, cloneBooking(b))
	}
	return out, nil
}

// --- transactions ---

type snapshot struct {
	types       map[string]*domain.FacilityType
	hours       []domain.OpeningHours
	closures    []domain.Closure
	rules       []domain.BookingRule
	bookings    map[string]*domain.Booking
	facilities  map[string]*domain.Facility
	memberships map[string]*domain.Membership
}

func (s *Store) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	snap := snapshot{
		types:       map[string]*domain.FacilityType{},
		hours:       append([]domain.OpeningHours(nil), s.hours...),
		closures:    append([]domain.Closure(nil), s.closures...),
		rules:       append([]domain.BookingRule(nil), s.rules...),
		bookings:    map[string]*domain.Booking{},
		facilities:  s.facilities,
		memberships: s.memberships,
	}
	for id, t := range s.types {
		copied := *t
		snap.types[id] = &copied
	}
	for id, b := range s.bookings {
		snap.bookings[id] = cloneBooking(b)
	}
	return snap
}

func (s *Store) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.types = snap.types
	s.hours = snap.hours
	s.closures = snap.closures
	s.rules = snap.rules
	s.bookings = snap.bookings
	s.facilities = snap.facilities
	s.memberships = snap.memberships
}

// TxManager runs each transaction alone and rolls the store back on error,
// standing in for a SERIALIZABLE transaction with a facility row lock.
type TxManager struct {
	store *Store
	mu    sync.Mutex

	Commits   int
	Rollbacks int
}

// NewTxManager returns a transaction manager bound to store
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := m.store.snapshot()
	if err := fn(ctx); err != nil {
		m.store.restore(snap)
		m.Rollbacks++
		return err
	}
	m.Commits++
	return nil
}

func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

func (s *Store) overlapsLocked(facilityID string, start, end time.Time, excludeID string) bool {
	for _, b := range s.bookings {
		if b.FacilityID == facilityID && b.ID != excludeID && b.IsBlocking() &&
			domain.IntervalsOverlap(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

func (s *Store) sortedLocked() []*domain.Booking {
	out := make([]*domain.Booking, 0, len(s.bookings))
	for _, b := range s.bookings {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StartTime.Equal(out[j].StartTime) {
			return out[i].ID < out[j].ID
		}
		return out[i].StartTime.Before(out[j].StartTime)
	})
	return out
}

func cloneBooking(b *domain.Booking) *domain.Booking {
	copied := *b
	copied.Participants = append([]domain.Participant(nil), b.Participants...)
	return &copied
}

func toSet(ids []string) map[string]bool {
	set := make(map[string]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
