package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	cancelBooking "github.com/m04kA/SMC-ClubBookingService/internal/usecase/cancel_booking"
)

type mockUseCase struct {
	mock.Mock
}

func (m *mockUseCase) Execute(ctx context.Context, req *cancelBooking.Request) (*cancelBooking.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*cancelBooking.Response)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest() *http.Request {
	r := httptest.NewRequest(http.MethodPatch, "/api/v1/bookings/booking-1/cancel", nil)
	r = mux.SetURLVars(r, map[string]string{"bookingId": "booking-1"})
	return r.WithContext(middleware.WithUserID(r.Context(), "user-1"))
}

func TestHandle_Cancelled(t *testing.T) {
	cancelledAt := time.Date(2026, 11, 1, 10, 0, 0, 0, time.UTC)
	uc := &mockUseCase{}
	uc.On("Execute", mock.Anything, &cancelBooking.Request{UserID: "user-1", BookingID: "booking-1"}).
		Return(&cancelBooking.Response{Booking: &domain.Booking{
			ID: "booking-1", Status: domain.StatusCancelled, CancelledAt: &cancelledAt,
		}}, nil)

	w := httptest.NewRecorder()
	NewHandler(uc, nopLogger{}).Handle(w, newRequest())

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"status":"cancelled"`)
	assert.Contains(t, w.Body.String(), `"cancelledAt":"2026-11-01T10:00:00Z"`)
	uc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "already cancelled",
			err:        domain.Reject(domain.ErrInvalidRequest, domain.ErrBookingNotActive, "Cannot cancel a booking with status cancelled"),
			wantStatus: http.StatusBadRequest,
			wantBody:   `{"error":"Cannot cancel a booking with status cancelled"}`,
		},
		{
			name:       "not owner",
			err:        domain.Reject(domain.ErrForbidden, domain.ErrNotOwner, "You can only cancel your own bookings"),
			wantStatus: http.StatusForbidden,
			wantBody:   `{"error":"You can only cancel your own bookings"}`,
		},
		{
			name:       "not found",
			err:        domain.Reject(domain.ErrNotFound, domain.ErrBookingNotFound, "Booking not found"),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"Booking not found"}`,
		},
		{
			name:       "internal",
			err:        cancelBooking.ErrInternal,
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"внутренняя ошибка сервера"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := &mockUseCase{}
			uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

			w := httptest.NewRecorder()
			NewHandler(uc, nopLogger{}).Handle(w, newRequest())
			assert.Equal(t, tt.wantStatus, w.Code)
			assert.JSONEq(t, tt.wantBody, w.Body.String())
		})
	}
}
