package facilities

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/authz"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
	"github.com/m04kA/SMC-ClubBookingService/internal/testutil"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
)

func newService(t *testing.T) (*Service, *testutil.Store, *testutil.TxManager) {
	t.Helper()
	store := testutil.NewStore()
	testutil.SeedClub(store)
	tx := testutil.NewTxManager(store)
	return NewService(store, store, store, authz.NewResolver(store), tx, testutil.NopLogger{}), store, tx
}

func TestListTypes(t *testing.T) {
	svc, store, _ := newService(t)
	store.AddClosure(domain.Closure{ClubID: testutil.ClubID, FacilityID: ptr.Ptr(testutil.CourtID)})

	resp, err := svc.ListTypes(context.Background(), testutil.ClubID)
	require.NoError(t, err)
	require.Len(t, resp.FacilityTypes, 2)

	squash, tennis := resp.FacilityTypes[0], resp.FacilityTypes[1]
	assert.Equal(t, "Squash", squash.Name)
	assert.Len(t, squash.OpeningHours, 5)
	assert.Empty(t, squash.Rules)
	assert.Empty(t, squash.Closures)

	assert.Equal(t, "Tennis", tennis.Name)
	assert.Len(t, tennis.Facilities, 3)
	assert.Len(t, tennis.OpeningHours, 7)
	assert.Len(t, tennis.Rules, 3)
	assert.Len(t, tennis.Closures, 1, "facility closure is listed under its type")

	empty, err := svc.ListTypes(context.Background(), "no-such-club")
	require.NoError(t, err)
	assert.Empty(t, empty.FacilityTypes)
}

func TestUpdateOpeningHours(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	resp, err := svc.UpdateOpeningHours(ctx, &models.UpdateOpeningHoursRequest{
		UserID:         testutil.AdminID,
		FacilityTypeID: testutil.SquashTypeID,
		Hours: []models.OpeningHoursInput{
			{DayOfWeek: "Saturday", StartTime: "09:00", EndTime: "12:00"},
			{DayOfWeek: "saturday", StartTime: "14:00:00", EndTime: "18:00"},
		},
	})
	require.NoError(t, err)
	require.Len(t, resp.OpeningHours, 2)
	assert.Equal(t, "saturday", resp.OpeningHours[1].DayOfWeek)
	assert.Equal(t, "14:00", resp.OpeningHours[1].StartTime)

	squashRows := 0
	for _, h := range store.OpeningHours() {
		if h.FacilityTypeID != nil && *h.FacilityTypeID == testutil.SquashTypeID {
			squashRows++
		}
	}
	assert.Equal(t, 2, squashRows, "weekday hours are replaced")
}

func TestUpdateOpeningHours_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      models.UpdateOpeningHoursRequest
		wantKind error
	}{
		{
			name: "member is not a manager",
			req: models.UpdateOpeningHoursRequest{UserID: testutil.MemberID, FacilityTypeID: testutil.TennisTypeID,
				Hours: []models.OpeningHoursInput{{DayOfWeek: "monday", StartTime: "08:00", EndTime: "10:00"}}},
			wantKind: domain.ErrForbidden,
		},
		{
			name:     "unknown type",
			req:      models.UpdateOpeningHoursRequest{UserID: testutil.AdminID, FacilityTypeID: "missing"},
			wantKind: domain.ErrNotFound,
		},
		{
			name: "end before start",
			req: models.UpdateOpeningHoursRequest{UserID: testutil.AdminID, FacilityTypeID: testutil.TennisTypeID,
				Hours: []models.OpeningHoursInput{{DayOfWeek: "monday", StartTime: "10:00", EndTime: "08:00"}}},
			wantKind: domain.ErrInvalidRequest,
		},
		{
			name: "unknown day",
			req: models.UpdateOpeningHoursRequest{UserID: testutil.AdminID, FacilityTypeID: testutil.TennisTypeID,
				Hours: []models.OpeningHoursInput{{DayOfWeek: "funday", StartTime: "08:00", EndTime: "10:00"}}},
			wantKind: domain.ErrInvalidRequest,
		},
		{
			name: "malformed time",
			req: models.UpdateOpeningHoursRequest{UserID: testutil.AdminID, FacilityTypeID: testutil.TennisTypeID,
				Hours: []models.OpeningHoursInput{{DayOfWeek: "monday", StartTime: "8am", EndTime: "10:00"}}},
			wantKind: domain.ErrInvalidRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newService(t)
			before := len(store.OpeningHours())

			_, err := svc.UpdateOpeningHours(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.Len(t, store.OpeningHours(), before)
		})
	}
}

func TestUpdateBookingRules(t *testing.T) {
	svc, store, _ := newService(t)

	resp, err := svc.UpdateBookingRules(context.Background(), &models.UpdateBookingRulesRequest{
		UserID:                 testutil.AdminID,
		FacilityTypeID:         testutil.TennisTypeID,
		BookingIntervalMinutes: ptr.Ptr(60),
		Rules: []models.RuleInput{
			{Type: "max_duration", Value: json.RawMessage(`90`)},
			{Type: "cancellation_window", Value: json.RawMessage(`{"hours":"12"}`)},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, 60, resp.BookingIntervalMinutes)
	require.Len(t, resp.Rules, 2)
	assert.JSONEq(t, `{"minutes":90}`, string(resp.Rules[0].Value))
	assert.JSONEq(t, `{"hours":12}`, string(resp.Rules[1].Value))

	tennisRules := 0
	for _, r := range store.Rules() {
		if r.FacilityTypeID == testutil.TennisTypeID {
			tennisRules++
		}
	}
	assert.Equal(t, 2, tennisRules, "guest fee rule is removed by the replace")

	typ, err := store.GetType(context.Background(), testutil.TennisTypeID)
	require.NoError(t, err)
	assert.Equal(t, 60, typ.BookingIntervalMinutes)
}

func TestUpdateBookingRules_Rejections(t *testing.T) {
	tests := []struct {
		name      string
		req       models.UpdateBookingRulesRequest
		wantKind  error
		wantCause error
	}{
		{
			name: "duplicate kind",
			req: models.UpdateBookingRulesRequest{UserID: testutil.AdminID, FacilityTypeID: testutil.TennisTypeID,
				Rules: []models.RuleInput{
					{Type: "max_duration", Value: json.RawMessage(`60`)},
					{Type: "max_duration", Value: json.RawMessage(`90`)},
				}},
			wantKind:  domain.ErrInvalidRequest,
			wantCause: domain.ErrDuplicateRule,
		},
		{
			name: "fractional minutes",
			req: models.UpdateBookingRulesRequest{UserID: testutil.AdminID, FacilityTypeID: testutil.TennisTypeID,
				Rules: []models.RuleInput{{Type: "max_duration", Value: json.RawMessage(`90.5`)}}},
			wantKind:  domain.ErrInvalidRequest,
			wantCause: domain.ErrInvalidRule,
		},
		{
			name: "unknown rule type",
			req: models.UpdateBookingRulesRequest{UserID: testutil.AdminID, FacilityTypeID: testutil.TennisTypeID,
				Rules: []models.RuleInput{{Type: "waitlist", Value: json.RawMessage(`1`)}}},
			wantKind:  domain.ErrInvalidRequest,
			wantCause: domain.ErrInvalidRule,
		},
		{
			name: "interval below minimum",
			req: models.UpdateBookingRulesRequest{UserID: testutil.AdminID, FacilityTypeID: testutil.TennisTypeID,
				BookingIntervalMinutes: ptr.Ptr(10)},
			wantKind:  domain.ErrInvalidRequest,
			wantCause: domain.ErrInvalidInterval,
		},
		{
			name:      "suspended user",
			req:       models.UpdateBookingRulesRequest{UserID: testutil.SuspendedID, FacilityTypeID: testutil.TennisTypeID},
			wantKind:  domain.ErrForbidden,
			wantCause: domain.ErrNotManager,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newService(t)

			_, err := svc.UpdateBookingRules(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantKind)
			assert.ErrorIs(t, err, tt.wantCause)
			assert.Len(t, store.Rules(), 3)
		})
	}
}

func TestCreateAndDeleteClosure(t *testing.T) {
	svc, store, _ := newService(t)
	ctx := context.Background()

	created, err := svc.CreateClosure(ctx, &models.CreateClosureRequest{
		UserID:         testutil.AdminID,
		ClubID:         testutil.ClubID,
		FacilityTypeID: ptr.Ptr(testutil.TennisTypeID),
		StartDate:      "2026-12-24",
		EndDate:        "2026-12-26",
		Reason:         ptr.Ptr("Holidays"),
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-12-24", created.StartDate)
	assert.Equal(t, "2026-12-26", created.EndDate)

	closures, err := store.ListClosures(ctx, domain.ClosureFilter{ClubID: testutil.ClubID})
	require.NoError(t, err)
	require.Len(t, closures, 1)

	err = svc.DeleteClosure(ctx, created.ID, testutil.MemberID)
	assert.ErrorIs(t, err, domain.ErrForbidden)

	require.NoError(t, svc.DeleteClosure(ctx, created.ID, testutil.AdminID))

	err = svc.DeleteClosure(ctx, created.ID, testutil.AdminID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.ErrorIs(t, err, domain.ErrClosureNotFound)
}

func TestCreateClosure_Rejections(t *testing.T) {
	tests := []struct {
		name     string
		req      models.CreateClosureRequest
		wantKind error
	}{
		{
			name:     "no scope",
			req:      models.CreateClosureRequest{StartDate: "2026-12-24", EndDate: "2026-12-24"},
			wantKind: domain.ErrInvalidRequest,
		},
		{
			name: "both scopes",
			req: models.CreateClosureRequest{FacilityID: ptr.Ptr(testutil.CourtID), FacilityTypeID: ptr.Ptr(testutil.TennisTypeID),
				StartDate: "2026-12-24", EndDate: "2026-12-24"},
			wantKind: domain.ErrInvalidRequest,
		},
		{
			name:     "end before start",
			req:      models.CreateClosureRequest{FacilityID: ptr.Ptr(testutil.CourtID), StartDate: "2026-12-24", EndDate: "2026-12-23"},
			wantKind: domain.ErrInvalidRequest,
		},
		{
			name:     "bad date",
			req:      models.CreateClosureRequest{FacilityID: ptr.Ptr(testutil.CourtID), StartDate: "24.12.2026", EndDate: "2026-12-24"},
			wantKind: domain.ErrInvalidRequest,
		},
		{
			name:     "facility of another club",
			req:      models.CreateClosureRequest{FacilityID: ptr.Ptr(testutil.ForeignCourtID), StartDate: "2026-12-24", EndDate: "2026-12-24"},
			wantKind: domain.ErrNotFound,
		},
		{
			name:     "type of another club",
			req:      models.CreateClosureRequest{FacilityTypeID: ptr.Ptr("type-foreign"), StartDate: "2026-12-24", EndDate: "2026-12-24"},
			wantKind: domain.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newService(t)
			tt.req.UserID = testutil.AdminID
			tt.req.ClubID = testutil.ClubID

			_, err := svc.CreateClosure(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.wantKind)
		})
	}

	svc, _, _ := newService(t)
	_, err := svc.CreateClosure(context.Background(), &models.CreateClosureRequest{
		UserID: testutil.MemberID, ClubID: testutil.ClubID, FacilityID: ptr.Ptr(testutil.CourtID),
		StartDate: "2026-12-24", EndDate: "2026-12-24",
	})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
