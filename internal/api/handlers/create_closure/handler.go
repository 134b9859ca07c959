package create_closure

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

// Handle POST /api/v1/clubs/{clubId}/closures
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clubID := mux.Vars(r)["clubId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /clubs/{id}/closures - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req models.CreateClosureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clubs/{id}/closures - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequest)
		return
	}
	req.UserID = userID
	req.ClubID = clubID

	result, err := h.service.CreateClosure(r.Context(), &req)
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("POST /clubs/{id}/closures - Rejected: club_id=%s, user_id=%s: %v", clubID, userID, err)
			return
		}
		h.logger.Error("POST /clubs/{id}/closures - Failed to create closure: club_id=%s, error=%v", clubID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /clubs/{id}/closures - Closure created: closure_id=%s, club_id=%s", result.ID, clubID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
