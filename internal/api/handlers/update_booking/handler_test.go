package update_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	updateBooking "github.com/m04kA/SMC-ClubBookingService/internal/usecase/update_booking"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *updateBooking.Request) (*updateBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*updateBooking.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/bookings/booking-1", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"bookingId": "booking-1"})
	return r.WithContext(middleware.WithUserID(r.Context(), "user-1"))
}

func bookingResponse() *updateBooking.Response {
	start := time.Date(2026, 11, 2, 14, 0, 0, 0, time.UTC)
	return &updateBooking.Response{Booking: &domain.Booking{
		ID: "booking-1", ClubID: "club-1", FacilityID: "court-1", UserID: "user-1",
		StartTime: start, EndTime: start.Add(time.Hour), Status: domain.StatusBooked, Type: domain.BookingTypeUser,
	}}
}

func TestHandle_ParticipantsPresence(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantNil   bool
		wantCount int
	}{
		{
			name:    "field absent keeps participants",
			body:    `{"startTime":"2026-11-02T14:00:00Z","endTime":"2026-11-02T15:00:00Z"}`,
			wantNil: true,
		},
		{
			name:      "empty array clears participants",
			body:      `{"startTime":"2026-11-02T14:00:00Z","endTime":"2026-11-02T15:00:00Z","participants":[]}`,
			wantCount: 0,
		},
		{
			name:      "array replaces participants",
			body:      `{"startTime":"2026-11-02T14:00:00Z","endTime":"2026-11-02T15:00:00Z","participants":[{"userId":"user-2"}]}`,
			wantCount: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *updateBooking.Request) bool {
				if req.BookingID != "booking-1" || req.UserID != "user-1" {
					return false
				}
				if tt.wantNil {
					return req.Participants == nil
				}
				return req.Participants != nil && len(req.Participants) == tt.wantCount
			})).Return(bookingResponse(), nil)

			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, newRequest(tt.body))

			require.Equal(t, http.StatusOK, w.Code)
			assert.Contains(t, w.Body.String(), `"startTime":"2026-11-02T14:00:00Z"`)
			uc.AssertExpectations(t)
		})
	}
}

func TestHandle_Errors(t *testing.T) {
	body := `{"startTime":"2026-11-02T14:00:00Z","endTime":"2026-11-02T15:00:00Z"}`
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"not found", domain.Reject(domain.ErrNotFound, domain.ErrBookingNotFound, "Booking not found"), http.StatusNotFound},
		{"not owner", domain.Reject(domain.ErrForbidden, domain.ErrNotOwner, "You can only edit your own bookings"), http.StatusForbidden},
		{"window", domain.Reject(domain.ErrInvalidRequest, domain.ErrWithinCancelWindow, "Cannot edit within 24 hours of start time"), http.StatusBadRequest},
		{"conflict", domain.Reject(domain.ErrConflict, domain.ErrSlotTaken, "Facility is already booked for this time slot"), http.StatusConflict},
		{"internal", updateBooking.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, newRequest(body))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}

func TestHandle_InvalidTime(t *testing.T) {
	uc := &mockUseCase{}

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, newRequest(`{"startTime":"14:00","endTime":"15:00"}`))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}
