package list_facility_types

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
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

// Handle GET /api/v1/clubs/{clubId}/facility-types
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clubID := mux.Vars(r)["clubId"]

	result, err := h.service.ListTypes(r.Context(), clubID)
	if err != nil {
		h.logger.Error("GET /clubs/{id}/facility-types - Failed to list facility types: club_id=%s, error=%v", clubID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clubs/{id}/facility-types - Facility types retrieved successfully: club_id=%s, count=%d",
		clubID, len(result.FacilityTypes))
	handlers.RespondJSON(w, http.StatusOK, result)
}
