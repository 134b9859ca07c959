package admission

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/availability"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/conflicts"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/rules"
	"github.com/m04kA/SMC-ClubBookingService/internal/testutil"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
)

func newChecker(t *testing.T) (*Checker, *testutil.Store) {
	t.Helper()
	store := testutil.NewStore()
	testutil.SeedClub(store)
	logger := testutil.NopLogger{}
	return NewChecker(
		store,
		availability.NewService(store, logger),
		rules.NewService(store, logger),
		conflicts.NewDetector(store),
		time.UTC,
		logger,
	), store
}

func candidate(facilityID string, start, end time.Time) Candidate {
	return Candidate{ClubID: testutil.ClubID, FacilityID: facilityID, Start: start, End: end}
}

func TestAdmit_Accepts(t *testing.T) {
	c, _ := newChecker(t)

	facility, err := c.Admit(context.Background(), candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(11, 0)))
	require.NoError(t, err)
	assert.Equal(t, testutil.CourtID, facility.ID)
	require.NotNil(t, facility.Type)
	assert.Equal(t, testutil.TennisTypeID, facility.Type.ID)
}

func TestAdmit_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		cand       Candidate
		setup      func(s *testutil.Store)
		wantKind   error
		wantCause  error
		wantReason string
	}{
		{
			name:       "end before start",
			cand:       candidate(testutil.CourtID, testutil.Monday(11, 0), testutil.Monday(10, 0)),
			wantKind:   domain.ErrInvalidRequest,
			wantCause:  domain.ErrInvalidRange,
			wantReason: "End time must be after start time",
		},
		{
			name:       "empty interval",
			cand:       candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(10, 0)),
			wantKind:   domain.ErrInvalidRequest,
			wantCause:  domain.ErrInvalidRange,
			wantReason: "End time must be after start time",
		},
		{
			name:       "unknown facility",
			cand:       candidate("missing", testutil.Monday(10, 0), testutil.Monday(11, 0)),
			wantKind:   domain.ErrNotFound,
			wantCause:  domain.ErrFacilityNotFound,
			wantReason: "Facility not found",
		},
		{
			name:       "facility of another club",
			cand:       candidate(testutil.ForeignCourtID, testutil.Monday(10, 0), testutil.Monday(11, 0)),
			wantKind:   domain.ErrNotFound,
			wantCause:  domain.ErrFacilityNotFound,
			wantReason: "Facility not found",
		},
		{
			name:       "inactive facility",
			cand:       candidate(testutil.InactiveCourtID, testutil.Monday(10, 0), testutil.Monday(11, 0)),
			wantKind:   domain.ErrNotFound,
			wantCause:  domain.ErrFacilityNotFound,
			wantReason: "Facility not found",
		},
		{
			name:       "crosses midnight",
			cand:       candidate(testutil.CourtID, testutil.Monday(23, 0), testutil.Monday(23, 0).Add(2*time.Hour)),
			wantKind:   domain.ErrInvalidRequest,
			wantCause:  domain.ErrCrossesMidnight,
			wantReason: "Booking must start and end on the same day",
		},
		{
			name: "closure for the type covers the date",
			cand: candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(11, 0)),
			setup: func(s *testutil.Store) {
				s.AddClosure(domain.Closure{
					ClubID:         testutil.ClubID,
					FacilityTypeID: ptr.Ptr(testutil.TennisTypeID),
					StartDate:      time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
					EndDate:        time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC),
				})
			},
			wantKind:   domain.ErrInvalidRequest,
			wantCause:  domain.ErrFacilityClosed,
			wantReason: "Facility is closed on this date",
		},
		{
			name:       "no opening hours on the day",
			cand:       candidate(testutil.SquashCourtID, testutil.Monday(10, 0).AddDate(0, 0, 5), testutil.Monday(11, 0).AddDate(0, 0, 5)),
			wantKind:   domain.ErrInvalidRequest,
			wantCause:  domain.ErrClosedOnDay,
			wantReason: "Facility is closed on this day",
		},
		{
			name:       "ends after closing time",
			cand:       candidate(testutil.CourtID, testutil.Monday(21, 0), testutil.Monday(22, 30)),
			wantKind:   domain.ErrInvalidRequest,
			wantCause:  domain.ErrOutsideOpeningHours,
			wantReason: "Booking time is outside opening hours",
		},
		{
			name:       "longer than max duration",
			cand:       candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(12, 1)),
			wantKind:   domain.ErrInvalidRequest,
			wantCause:  domain.ErrMaxDurationExceeded,
			wantReason: "Booking exceeds maximum duration of 120 minutes",
		},
		{
			name: "overlaps an active booking",
			cand: candidate(testutil.CourtID, testutil.Monday(10, 30), testutil.Monday(11, 30)),
			setup: func(s *testutil.Store) {
				s.AddBooking(domain.Booking{
					ID: "existing", ClubID: testutil.ClubID, FacilityID: testutil.CourtID, UserID: testutil.OtherMember,
					StartTime: testutil.Monday(10, 0), EndTime: testutil.Monday(11, 0), Status: domain.StatusBooked,
				})
			},
			wantKind:   domain.ErrConflict,
			wantCause:  domain.ErrSlotTaken,
			wantReason: "Facility is already booked for this time slot",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, store := newChecker(t)
			if tt.setup != nil {
				tt.setup(store)
			}

			_, err := c.Admit(context.Background(), tt.cand)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.ErrorIs(t, err, tt.wantCause)
			assert.Equal(t, tt.wantReason, err.Error())
		})
	}
}

func TestAdmit_MaxDurationBoundary(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()

	_, err := c.Admit(ctx, candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(12, 0)))
	assert.NoError(t, err, "exactly 120 minutes is allowed")

	_, err = c.Admit(ctx, candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(12, 1)))
	assert.ErrorIs(t, err, domain.ErrMaxDurationExceeded)
}

func TestAdmit_NoMaxDurationRuleMeansUnlimited(t *testing.T) {
	c, _ := newChecker(t)

	// у сквоша нет правил
	_, err := c.Admit(context.Background(), candidate(testutil.SquashCourtID, testutil.Monday(7, 0), testutil.Monday(21, 0)))
	assert.NoError(t, err)
}

func TestAdmit_FractionalMaxDurationIsEnforced(t *testing.T) {
	c, store := newChecker(t)
	store.AddRule(domain.BookingRule{
		ClubID:         testutil.ClubID,
		FacilityTypeID: testutil.SquashTypeID,
		Type:           domain.RuleMaxDuration,
		Value:          []byte(`90.5`),
	})
	ctx := context.Background()

	_, err := c.Admit(ctx, candidate(testutil.SquashCourtID, testutil.Monday(10, 0), testutil.Monday(11, 30)))
	assert.NoError(t, err, "90 minutes fit under 90.5")

	_, err = c.Admit(ctx, candidate(testutil.SquashCourtID, testutil.Monday(10, 0), testutil.Monday(11, 31)))
	assert.ErrorIs(t, err, domain.ErrMaxDurationExceeded)
	assert.Equal(t, "Booking exceeds maximum duration of 90.5 minutes", err.Error())
}

func TestAdmit_TouchingBookingsDoNotConflict(t *testing.T) {
	c, store := newChecker(t)
	store.AddBooking(domain.Booking{
		ClubID: testutil.ClubID, FacilityID: testutil.CourtID, UserID: testutil.OtherMember,
		StartTime: testutil.Monday(10, 0), EndTime: testutil.Monday(11, 0), Status: domain.StatusBooked,
	})
	store.AddBooking(domain.Booking{
		ClubID: testutil.ClubID, FacilityID: testutil.CourtID, UserID: testutil.OtherMember,
		StartTime: testutil.Monday(11, 0), EndTime: testutil.Monday(12, 0), Status: domain.StatusCancelled,
	})

	_, err := c.Admit(context.Background(), candidate(testutil.CourtID, testutil.Monday(11, 0), testutil.Monday(12, 0)))
	assert.NoError(t, err)

	// другая площадка того же типа свободна
	_, err = c.Admit(context.Background(), candidate(testutil.SecondCourtID, testutil.Monday(10, 0), testutil.Monday(11, 0)))
	assert.NoError(t, err)
}

func TestAdmit_ExcludesEditedBooking(t *testing.T) {
	c, store := newChecker(t)
	store.AddBooking(domain.Booking{
		ID: "mine", ClubID: testutil.ClubID, FacilityID: testutil.CourtID, UserID: testutil.MemberID,
		StartTime: testutil.Monday(10, 0), EndTime: testutil.Monday(11, 0), Status: domain.StatusBooked,
	})

	cand := candidate(testutil.CourtID, testutil.Monday(10, 30), testutil.Monday(11, 30))
	_, err := c.Admit(context.Background(), cand)
	assert.ErrorIs(t, err, domain.ErrSlotTaken)

	cand.ExcludeBookingID = "mine"
	_, err = c.Admit(context.Background(), cand)
	assert.NoError(t, err)
}

func TestAdmit_ClosedFacilityReportedBeforeOverlap(t *testing.T) {
	c, store := newChecker(t)
	store.AddClosure(domain.Closure{
		ClubID:     testutil.ClubID,
		FacilityID: ptr.Ptr(testutil.CourtID),
		StartDate:  time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, time.November, 2, 0, 0, 0, 0, time.UTC),
	})
	store.AddBooking(domain.Booking{
		ClubID: testutil.ClubID, FacilityID: testutil.CourtID, UserID: testutil.OtherMember,
		StartTime: testutil.Monday(10, 0), EndTime: testutil.Monday(11, 0), Status: domain.StatusBooked,
	})

	_, err := c.Admit(context.Background(), candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(11, 0)))
	assert.ErrorIs(t, err, domain.ErrFacilityClosed)
}

type failingFacilities struct{}

func (failingFacilities) GetWithType(context.Context, string) (*domain.Facility, error) {
	return nil, errors.New("connection reset")
}

func TestAdmit_StorageFailureIsInternal(t *testing.T) {
	store := testutil.NewStore()
	logger := testutil.NopLogger{}
	c := NewChecker(failingFacilities{}, availability.NewService(store, logger), rules.NewService(store, logger),
		conflicts.NewDetector(store), nil, logger)

	_, err := c.Admit(context.Background(), candidate(testutil.CourtID, testutil.Monday(10, 0), testutil.Monday(11, 0)))
	assert.ErrorIs(t, err, ErrInternal)
	assert.False(t, domain.IsRejection(err))
	assert.Equal(t, time.UTC, c.Location())
}

func TestCheckCancellationWindow(t *testing.T) {
	c, _ := newChecker(t)
	ctx := context.Background()
	start := testutil.Monday(10, 0)

	tests := []struct {
		name    string
		now     time.Time
		wantErr bool
	}{
		{name: "exactly 24 hours before", now: start.Add(-24 * time.Hour)},
		{name: "more than 24 hours before", now: start.Add(-48 * time.Hour)},
		{name: "23h59m before", now: start.Add(-24*time.Hour + time.Minute), wantErr: true},
		{name: "after start", now: start.Add(time.Hour), wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := c.CheckCancellationWindow(ctx, testutil.ClubID, testutil.TennisTypeID, start, tt.now, "cancel")
			if !tt.wantErr {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, domain.ErrWithinCancelWindow)
			assert.Equal(t, "Cannot cancel within 24 hours of start time", err.Error())
		})
	}

	// без правила окно не действует
	err := c.CheckCancellationWindow(ctx, testutil.ClubID, testutil.SquashTypeID, start, start.Add(-time.Minute), "edit")
	assert.NoError(t, err)
}
