package create_closure

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
	"github.com/m04kA/SMC-ClubBookingService/pkg/ptr"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateClosure(ctx context.Context, req *models.CreateClosureRequest) (*models.ClosureResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.ClosureResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPost, "/api/v1/clubs/club-1/closures", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"clubId": "club-1"})
	return r.WithContext(middleware.WithUserID(r.Context(), "admin-1"))
}

func TestHandle_Created(t *testing.T) {
	svc := &mockService{}
	svc.On("CreateClosure", mock.Anything, mock.Anything).Return(&models.ClosureResponse{
		ID: "closure-1", ClubID: "club-1", FacilityID: ptr.Ptr("court-1"),
		StartDate: "2026-12-24", EndDate: "2026-12-26",
	}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, newRequest(
		`{"facilityId":"court-1","startDate":"2026-12-24","endDate":"2026-12-26","reason":"Holidays"}`))

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"id":"closure-1"`)

	req := svc.Calls[0].Arguments.Get(1).(*models.CreateClosureRequest)
	assert.Equal(t, "admin-1", req.UserID)
	assert.Equal(t, "club-1", req.ClubID)
	require.NotNil(t, req.Reason)
	assert.Equal(t, "Holidays", *req.Reason)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "malformed body", body: `{`, wantStatus: http.StatusBadRequest},
		{
			name:       "no scope",
			body:       `{"startDate":"2026-12-24","endDate":"2026-12-26"}`,
			err:        domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidClosure, "Exactly one of facilityTypeId or facilityId is required"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "member without admin rights",
			body:       `{"facilityId":"court-1","startDate":"2026-12-24","endDate":"2026-12-26"}`,
			err:        domain.Reject(domain.ErrForbidden, domain.ErrNotManager, "Only club owners and admins can manage facilities"),
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("CreateClosure", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(w, newRequest(tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
