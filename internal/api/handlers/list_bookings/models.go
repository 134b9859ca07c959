package list_bookings

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
func ToServiceRequest(
	clubID string,
	userID string,
	startStr string,
	endStr string,
	facilityIDs []string,
) (*models.ListBookingsRequest, error) {
	req := &models.ListBookingsRequest{
		UserID: userID,
		ClubID: clubID,
	}

	// Пустые start/end отклонит сервис
	if startStr != "" {
		start, err := parseBound(startStr)
		if err != nil {
			return nil, fmt.Errorf("invalid start value: %w", err)
		}
		req.Start = start
	}

	if endStr != "" {
		end, err := parseBound(endStr)
		if err != nil {
			return nil, fmt.Errorf("invalid end value: %w", err)
		}
		req.End = end
	}

	// facilityId можно передать несколько раз или через запятую
	for _, raw := range facilityIDs {
		for _, id := range strings.Split(raw, ",") {
			if id = strings.TrimSpace(id); id != "" {
				req.FacilityIDs = append(req.FacilityIDs, id)
			}
		}
	}

	return req, nil
}

// parseBound принимает RFC 3339 или дату "2006-01-02" (полночь UTC)
func parseBound(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Parse(domain.DateFormat, s)
}
