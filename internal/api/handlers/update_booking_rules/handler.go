package update_booking_rules

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
)

const (
	msgMissingUserID  = "отсутствует ID пользователя"
	msgInvalidRequest = "некорректное тело запроса"
)

type Handler struct {
	service FacilityService
	logger  Logger
}

func NewHandler(service FacilityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/facility-types/{typeId}/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	typeID := mux.Vars(r)["typeId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("PUT /facility-types/{id}/rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.UpdateBookingRulesRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /facility-types/{id}/rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}
	req.UserID = userID
	req.FacilityTypeID = typeID

	result, err := h.service.UpdateBookingRules(r.Context(), &req)
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("PUT /facility-types/{id}/rules - Rejected: type_id=%s, user_id=%s: %v", typeID, userID, err)
			return
		}
		h.logger.Error("PUT /facility-types/{id}/rules - Failed to update rules: type_id=%s, error=%v", typeID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("PUT /facility-types/{id}/rules - Rules replaced: type_id=%s, rules=%d", typeID, len(result.Rules))
	handlers.RespondJSON(w, http.StatusOK, result)
}
