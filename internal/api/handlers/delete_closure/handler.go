package delete_closure

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"
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

// Handle DELETE /api/v1/closures/{closureId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	closureID := mux.Vars(r)["closureId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("DELETE /closures/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	if err := h.service.DeleteClosure(r.Context(), closureID, userID); err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("DELETE /closures/{id} - Rejected: closure_id=%s, user_id=%s: %v", closureID, userID, err)
			return
		}
		h.logger.Error("DELETE /closures/{id} - Failed to delete closure: closure_id=%s, error=%v", closureID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /closures/{id} - Closure deleted: closure_id=%s, user_id=%s", closureID, userID)
	w.WriteHeader(http.StatusNoContent)
}
