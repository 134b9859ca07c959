package create_booking

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ClubBookingService/internal/api/handlers"
	"github.com/m04kA/SMC-ClubBookingService/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidTime        = "некорректный формат времени, ожидается RFC 3339"
	msgMissingFacilityID  = "не указана площадка"
	msgMissingUserID      = "отсутствует ID пользователя"
)

type Handler struct {
	useCase CreateBookingUseCase
	logger  Logger
}

func NewHandler(useCase CreateBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/clubs/{clubId}/bookings
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	clubID := mux.Vars(r)["clubId"]

	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		h.logger.Warn("POST /clubs/{id}/bookings - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /clubs/{id}/bookings - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.FacilityID == "" {
		handlers.RespondBadRequest(w, msgMissingFacilityID)
		return
	}

	useCaseReq, err := req.ToUseCaseRequest(userID, clubID)
	if err != nil {
		h.logger.Warn("POST /clubs/{id}/bookings - Failed to parse time: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTime)
		return
	}

	result, err := h.useCase.Execute(r.Context(), useCaseReq)
	if err != nil {
		if handlers.RespondRejection(w, err) {
			h.logger.Warn("POST /clubs/{id}/bookings - Rejected: club_id=%s, facility_id=%s, user_id=%s: %v",
				clubID, req.FacilityID, userID, err)
			return
		}
		h.logger.Error("POST /clubs/{id}/bookings - Failed to create booking: club_id=%s, user_id=%s, error=%v",
			clubID, userID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /clubs/{id}/bookings - Booking created successfully: booking_id=%s, user_id=%s, club_id=%s",
		result.Booking.ID, userID, clubID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
