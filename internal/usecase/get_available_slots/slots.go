package get_available_slots

import (
	"fmt"
	"sort"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/pkg/types"
)

// generateSlots нарезает интервалы работы на слоты длиной interval минут
// Слот, не помещающийся целиком до конца интервала, отбрасывается.
// Слоты, начинающиеся раньше now, не попадают в результат.
func generateSlots(
	hours []domain.OpeningHours,
	interval int,
	date time.Time,
	loc *time.Location,
	now time.Time,
) ([]domain.AvailableSlot, error) {
	slots := make([]domain.AvailableSlot, 0)
	y, m, d := date.Date()

	for _, h := range hours {
		open, err := h.StartTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: opening hours id=%s: %v", domain.ErrMalformedTime, h.ID, err)
		}
		closeAt, err := h.EndTime.Minutes()
		if err != nil {
			return nil, fmt.Errorf("%w: opening hours id=%s: %v", domain.ErrMalformedTime, h.ID, err)
		}

		for start := open; start+interval <= closeAt; start += interval {
			end := start + interval
			slot := domain.AvailableSlot{
				StartTime:       types.FromMinutes(start),
				EndTime:         types.FromMinutes(end),
				DurationMinutes: interval,
				Available:       true,
				Start:           time.Date(y, m, d, start/60, start%60, 0, 0, loc),
				End:             time.Date(y, m, d, end/60, end%60, 0, 0, loc),
			}
			if slot.Start.Before(now) {
				continue
			}
			slots = append(slots, slot)
		}
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots, nil
}

// markTaken помечает занятыми слоты, пересекающиеся с активными бронями
func markTaken(slots []domain.AvailableSlot, bookings []*domain.Booking) {
	for i := range slots {
		for _, b := range bookings {
			if slots[i].IsTakenBy(b) {
				slots[i].Available = false
				break
			}
		}
	}
}

// isDateInPast проверяет, что календарная дата раньше сегодняшнего дня
func isDateInPast(date, today time.Time) bool {
	return domain.CivilDate(date).Before(domain.CivilDate(today))
}
