package update_booking_rules

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
)

type mockService struct {
	mock.Mock
}

func (m *mockService) UpdateBookingRules(ctx context.Context, req *models.UpdateBookingRulesRequest) (*models.RulesResponse, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*models.RulesResponse)
	return resp, args.Error(1)
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newRequest(body string) *http.Request {
	r := httptest.NewRequest(http.MethodPut, "/api/v1/facility-types/type-1/rules", strings.NewReader(body))
	r = mux.SetURLVars(r, map[string]string{"typeId": "type-1"})
	return r.WithContext(middleware.WithUserID(r.Context(), "admin-1"))
}

func TestHandle_Replaces(t *testing.T) {
	svc := &mockService{}
	svc.On("UpdateBookingRules", mock.Anything, mock.MatchedBy(func(req *models.UpdateBookingRulesRequest) bool {
		return req.UserID == "admin-1" &&
			req.FacilityTypeID == "type-1" &&
			req.BookingIntervalMinutes != nil && *req.BookingIntervalMinutes == 60 &&
			len(req.Rules) == 1 && req.Rules[0].Type == "max_duration" &&
			string(req.Rules[0].Value) == `{"minutes":120}`
	})).Return(&models.RulesResponse{
		FacilityTypeID:         "type-1",
		BookingIntervalMinutes: 60,
		Rules:                  []models.RuleResponse{{ID: "r-1", Type: "max_duration", Value: json.RawMessage(`{"minutes":120}`)}},
	}, nil)

	w := httptest.NewRecorder()
	NewHandler(svc, nopLogger{}).Handle(w, newRequest(
		`{"bookingIntervalMinutes":60,"rules":[{"type":"max_duration","value":{"minutes":120}}]}`))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"value":{"minutes":120}`)
	svc.AssertExpectations(t)
}

func TestHandle_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
	}{
		{name: "malformed body", body: `not json`, wantStatus: http.StatusBadRequest},
		{
			name:       "duplicate rule",
			body:       `{"rules":[{"type":"max_duration","value":60},{"type":"max_duration","value":90}]}`,
			err:        domain.Reject(domain.ErrInvalidRequest, domain.ErrDuplicateRule, "each rule type may be specified only once"),
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown facility type",
			body:       `{"rules":[]}`,
			err:        domain.Reject(domain.ErrNotFound, domain.ErrFacilityTypeNotFound, "Facility type not found"),
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := &mockService{}
			if tt.err != nil {
				svc.On("UpdateBookingRules", mock.Anything, mock.Anything).Return(nil, tt.err)
			}

			w := httptest.NewRecorder()
			NewHandler(svc, nopLogger{}).Handle(w, newRequest(tt.body))
			assert.Equal(t, tt.wantStatus, w.Code)
		})
	}
}
