package facilities

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
	"github.com/m04kA/SMC-ClubBookingService/internal/service/facilities/models"
	"github.com/m04kA/SMC-ClubBookingService/pkg/types"
)

// toDomainOpeningHours валидирует интервалы и конвертирует их в domain модели
func toDomainOpeningHours(typeID string, input []models.OpeningHoursInput) ([]domain.OpeningHours, error) {
	hours := make([]domain.OpeningHours, 0, len(input))

	for i, in := range input {
		day := domain.DayOfWeek(strings.ToLower(strings.TrimSpace(in.DayOfWeek)))
		if !day.IsValid() {
			return nil, invalidHours(i, fmt.Sprintf("unknown day of week %q", in.DayOfWeek))
		}

		start, err := types.NewTimeStringFromString(in.StartTime)
		if err != nil {
			return nil, invalidHours(i, "start time must be HH:MM")
		}
		end, err := types.NewTimeStringFromString(in.EndTime)
		if err != nil {
			return nil, invalidHours(i, "end time must be HH:MM")
		}
		if !end.IsAfter(start) {
			return nil, invalidHours(i, "end time must be after start time")
		}

		id := typeID
		hours = append(hours, domain.OpeningHours{
			FacilityTypeID: &id,
			DayOfWeek:      day,
			StartTime:      start,
			EndTime:        end,
		})
	}

	return hours, nil
}

func invalidHours(index int, reason string) error {
	return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidOpeningHours,
		fmt.Sprintf("opening hours #%d: %s", index+1, reason))
}

// toDomainRules разбирает значения правил в каноническую форму
// Двух правил одного вида быть не может.
func toDomainRules(input []models.RuleInput) ([]domain.BookingRule, error) {
	rules := make([]domain.BookingRule, 0, len(input))
	seen := make(map[domain.RuleType]bool, len(input))

	for _, in := range input {
		ruleType := domain.RuleType(strings.TrimSpace(in.Type))
		if !ruleType.IsValid() {
			return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidRule,
				fmt.Sprintf("unknown rule type %q", in.Type))
		}
		if seen[ruleType] {
			return nil, domain.Reject(domain.ErrInvalidRequest, domain.ErrDuplicateRule,
				fmt.Sprintf("rule %s is specified more than once", ruleType))
		}
		seen[ruleType] = true

		value, err := domain.ParseRuleValue(ruleType, in.Value)
		if err != nil {
			return nil, err
		}
		encoded, err := domain.EncodeRuleValue(value)
		if err != nil {
			return nil, err
		}

		rules = append(rules, domain.BookingRule{Type: ruleType, Value: encoded})
	}

	return rules, nil
}

func validateBookingInterval(minutes *int) error {
	if minutes == nil {
		return nil
	}
	if *minutes < domain.MinBookingIntervalMinutes {
		return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidInterval,
			fmt.Sprintf("booking interval must be at least %d minutes", domain.MinBookingIntervalMinutes))
	}
	return nil
}

// parseClosure проверяет область и даты закрытия
// Закрытие относится ровно к одной площадке или ровно к одному типу.
func parseClosure(req *models.CreateClosureRequest) (*domain.Closure, error) {
	hasType := req.FacilityTypeID != nil && *req.FacilityTypeID != ""
	hasFacility := req.FacilityID != nil && *req.FacilityID != ""
	if hasType == hasFacility {
		return nil, invalidClosure("exactly one of facilityTypeId or facilityId must be set")
	}

	start, err := time.Parse(domain.DateFormat, req.StartDate)
	if err != nil {
		return nil, invalidClosure("start date must be YYYY-MM-DD")
	}
	end, err := time.Parse(domain.DateFormat, req.EndDate)
	if err != nil {
		return nil, invalidClosure("end date must be YYYY-MM-DD")
	}
	if end.Before(start) {
		return nil, invalidClosure("end date must not be before start date")
	}

	if req.Reason != nil && len([]rune(*req.Reason)) > domain.MaxClosureReason {
		return nil, invalidClosure(fmt.Sprintf("reason must not exceed %d characters", domain.MaxClosureReason))
	}

	closure := &domain.Closure{
		ClubID:    req.ClubID,
		StartDate: start,
		EndDate:   end,
		Reason:    req.Reason,
	}
	if hasType {
		closure.FacilityTypeID = req.FacilityTypeID
	} else {
		closure.FacilityID = req.FacilityID
	}

	return closure, nil
}

func invalidClosure(reason string) error {
	return domain.Reject(domain.ErrInvalidRequest, domain.ErrInvalidClosure, reason)
}
