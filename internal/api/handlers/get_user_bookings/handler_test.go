package get_user_bookings

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/bookings/models"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) ListForUser(ctx context.Context, req *models.UserBookingsRequest) (*models.BookingListResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.BookingListResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(userID, query string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/api/v1/users/me/bookings"+query, nil)
	if userID != "" {
		r = r.WithContext(middleware.WithUserID(r.Context(), userID))
	}
	return r
}

func TestHandle_ReturnsOwnBookings(t *testing.T) {
	svc := &mockService{}
	svc.On("ListForUser", mock.Anything, &models.UserBookingsRequest{UserID: "user-1"}).
		Return(&models.BookingListResponse{Bookings: []models.BookingResponse{{ID: "b-1", Participants: []models.ParticipantResponse{}}}}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, newRequest("user-1", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"b-1"`)
	svc.AssertExpectations(t)
}

func TestHandle_PassesStatusFilter(t *testing.T) {
	svc := &mockService{}
	svc.On("ListForUser", mock.Anything, &models.UserBookingsRequest{UserID: "user-1", Status: ptr.Ptr("cancelled")}).
		Return(&models.BookingListResponse{Bookings: []models.BookingResponse{}}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, newRequest("user-1", "?status=cancelled"))

	assert.Equal(t, http.StatusOK, w.Code)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		err        error
		wantStatus int
	}{
		{name: "missing user", wantStatus: http.StatusUnauthorized},
		{
			name:       "unknown status",
			userID:     "user-1",
			err:        domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidStatus, `Unknown booking status "pending"`),
			wantStatus: http.StatusBadRequest,
		},
		{name: "internal", userID: "user-1", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.userID != "" {
				svc.On("ListForUser", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(w, newRequest(tt.userID, ""))

			assert.Equal(t, tt.wantStatus, w.Code)
			svc.AssertExpectations(t)
		})
	}
}
