package availability

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
	"github.com/m04kA/SMC-ClubBookingService/pkg/types"
)

type mockScheduleRepository struct {
	mock.Mock
}

func (m *mockScheduleRepository) ListOpeningHours(ctx context.Context, facilityID, facilityTypeID string, day domain.DayOfWeek) ([]domain.OpeningHours, error) {
	args := m.Called(ctx, facilityID, facilityTypeID, day)
	hours, _ := args.Get(0).([]domain.OpeningHours)
	return hours, args.Error(1)
}

func (m *mockScheduleRepository) ListClosures(ctx context.Context, filter domain.ClosureFilter) ([]domain.Closure, error) {
	args := m.Called(ctx, filter)
	closures, _ := args.Get(0).([]domain.Closure)
	return closures, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func hours(start, end string) domain.OpeningHours {
	return domain.OpeningHours{ID: start + "-" + end, StartTime: types.TimeString(start), EndTime: types.TimeString(end)}
}

func minutes(s string) int {
	m, err := types.ToMinutesSinceMidnight(s)
	if err != nil {
		panic(err)
	}
	return m
}

func TestCheckOpeningHours(t *testing.T) {
	split := []domain.OpeningHours{hours("09:00", "12:00"), hours("14:00", "18:00")}

	tests := []struct {
		name       string
		rows       []domain.OpeningHours
		start, end string
		want       HoursVerdict
	}{
		{name: "exactly the opening interval", rows: []domain.OpeningHours{hours("09:00", "18:00")}, start: "09:00", end: "18:00", want: HoursFit},
		{name: "starts before opening", rows: []domain.OpeningHours{hours("09:00", "18:00")}, start: "08:30", end: "09:30", want: HoursOutside},
		{name: "ends after closing", rows: []domain.OpeningHours{hours("09:00", "18:00")}, start: "17:30", end: "18:30", want: HoursOutside},
		{name: "fits morning block", rows: split, start: "10:00", end: "11:00", want: HoursFit},
		{name: "fits afternoon block", rows: split, start: "14:00", end: "15:00", want: HoursFit},
		{name: "spans the lunch gap", rows: split, start: "11:30", end: "14:30", want: HoursOutside},
		{name: "no rows for the day", rows: nil, start: "10:00", end: "11:00", want: HoursClosedDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockScheduleRepository{}
			repo.On("ListOpeningHours", mock.Anything, "fac-1", "type-1", domain.Monday).Return(tt.rows, nil)

			svc := NewService(repo, nopLogger{})
			got, err := svc.CheckOpeningHours(context.Background(), "fac-1", "type-1", domain.Monday, minutes(tt.start), minutes(tt.end))

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCheckOpeningHours_MalformedRow(t *testing.T) {
	repo := &mockScheduleRepository{}
	repo.On("ListOpeningHours", mock.Anything, "fac-1", "type-1", domain.Monday).
		Return([]domain.OpeningHours{hours("nine", "18:00")}, nil)

	svc := NewService(repo, nopLogger{})
	_, err := svc.CheckOpeningHours(context.Background(), "fac-1", "type-1", domain.Monday, 600, 660)

	assert.ErrorIs(t, err, domain.ErrMalformedTime)
	assert.ErrorIs(t, err, ErrInternal)
}

func TestIsClosed_TypeWideClosureApplies(t *testing.T) {
	date := time.Date(2030, 7, 14, 0, 0, 0, 0, time.UTC)
	typeWide := domain.Closure{
		ID:             "cl-1",
		FacilityTypeID: ptr.Ptr("type-1"),
		StartDate:      date,
		EndDate:        date,
		Reason:         ptr.Ptr("resurfacing"),
	}

	repo := &mockScheduleRepository{}
	repo.On("ListClosures", mock.Anything, mock.MatchedBy(func(f domain.ClosureFilter) bool {
		return f.ClubID == "club-1" && f.FacilityID == "fac-1" && f.FacilityTypeID == "type-1" &&
			f.Date != nil && f.Date.Equal(date)
	})).Return([]domain.Closure{typeWide}, nil)

	svc := NewService(repo, nopLogger{})
	closed, err := svc.IsClosed(context.Background(), "club-1", "fac-1", "type-1", date.Add(10*time.Hour))

	require.NoError(t, err)
	assert.True(t, closed)
	repo.AssertExpectations(t)
}

func TestIsClosed_ClosureOutsideDate(t *testing.T) {
	repo := &mockScheduleRepository{}
	repo.On("ListClosures", mock.Anything, mock.Anything).Return([]domain.Closure{{
		StartDate: time.Date(2030, 7, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2030, 7, 3, 0, 0, 0, 0, time.UTC),
	}}, nil)

	svc := NewService(repo, nopLogger{})
	closed, err := svc.IsClosed(context.Background(), "club-1", "fac-1", "type-1", time.Date(2030, 7, 4, 9, 0, 0, 0, time.UTC))

	require.NoError(t, err)
	assert.False(t, closed)
}

func TestIsClosed_StorageError(t *testing.T) {
	repo := &mockScheduleRepository{}
	repo.On("ListClosures", mock.Anything, mock.Anything).Return(nil, errors.New("timeout"))

	svc := NewService(repo, nopLogger{})
	_, err := svc.IsClosed(context.Background(), "club-1", "fac-1", "type-1", time.Now())

	assert.ErrorIs(t, err, ErrInternal)
}

func TestOpeningHoursFor_StorageError(t *testing.T) {
	repo := &mockScheduleRepository{}
	repo.On("ListOpeningHours", mock.Anything, "fac-1", "type-1", domain.Sunday).Return(nil, errors.New("timeout"))

	svc := NewService(repo, nopLogger{})
	_, err := svc.OpeningHoursFor(context.Background(), "fac-1", "type-1", domain.Sunday)
	assert.ErrorIs(t, err, ErrInternal)

	verdict, err := svc.CheckOpeningHours(context.Background(), "fac-1", "type-1", domain.Sunday, 600, 660)
	assert.ErrorIs(t, err, ErrInternal)
	assert.Equal(t, HoursOutside, verdict)
}
