package list_bookings

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
)

const (
	msgMissingUserID     = "отсутствует ID пользователя"
	msgInvalidQueryParam = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/clubs/{clubId}/bookings?start=...&end=...&facilityId=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clubID := mux.Vars(r)["clubId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("GET /clubs/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	query := r.URL.Query()
	req, err := ToServiceRequest(clubID, userID, query.Get("start"), query.Get("end"), query["facilityId"])
	if err != nil {
		h.logger.Warn("GET /clubs/{id}/bookings - Invalid query parameters: club_id=%s, error=%v", clubID, err)
		handlers.RespondBadRequest(w, msgInvalidQueryParam)
		return
	}

	result, err := h.service.List(r.Context(), req)
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("GET /clubs/{id}/bookings - Rejected: club_id=%s, user_id=%s: %v", clubID, userID, err)
			return
		}
		h.logger.Error("GET /clubs/{id}/bookings - Failed to list bookings: club_id=%s, error=%v", clubID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /clubs/{id}/bookings - Bookings retrieved successfully: club_id=%s, count=%d",
		clubID, len(result.Bookings))
	handlers.RespondJSON(w, http.StatusOK, result)
}
