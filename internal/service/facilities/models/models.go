package models

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-ClubBookingService/internal/domain"
)

// Request модели

// OpeningHoursInput один интервал работы
type OpeningHoursInput struct {
	DayOfWeek string `json:"dayOfWeek"` // "monday".."sunday"
	StartTime string `json:"startTime"` // "08:00"
	EndTime   string `json:"endTime"`   // "22:00"
}

// UpdateOpeningHoursRequest замена часов работы типа площадки
type UpdateOpeningHoursRequest struct {
	UserID         string              `json:"-"`
	FacilityTypeID string              `json:"-"`
	Hours          []OpeningHoursInput `json:"hours"`
}

// RuleInput правило бронирования в запросе
type RuleInput struct {
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// UpdateBookingRulesRequest замена правил типа площадки
type UpdateBookingRulesRequest struct {
	UserID                 string      `json:"-"`
	FacilityTypeID         string      `json:"-"`
	BookingIntervalMinutes *int        `json:"bookingIntervalMinutes,omitempty"`
	Rules                  []RuleInput `json:"rules"`
}

// CreateClosureRequest закрытие площадки или типа на период
type CreateClosureRequest struct {
	UserID         string  `json:"-"`
	ClubID         string  `json:"-"`
	FacilityTypeID *string `json:"facilityTypeId,omitempty"`
	FacilityID     *string `json:"facilityId,omitempty"`
	StartDate      string  `json:"startDate"` // "2025-12-24"
	EndDate        string  `json:"endDate"`
	Reason         *string `json:"reason,omitempty"`
}

// Response модели

// OpeningHoursResponse интервал работы
type OpeningHoursResponse struct {
	ID         string  `json:"id"`
	FacilityID *string `json:"facilityId,omitempty"`
	DayOfWeek  string  `json:"dayOfWeek"`
	StartTime  string  `json:"startTime"`
	EndTime    string  `json:"endTime"`
}

// ClosureResponse закрытие
type ClosureResponse struct {
	ID             string  `json:"id"`
	ClubID         string  `json:"clubId"`
	FacilityTypeID *string `json:"facilityTypeId,omitempty"`
	FacilityID     *string `json:"facilityId,omitempty"`
	StartDate      string  `json:"startDate"`
	EndDate        string  `json:"endDate"`
	Reason         *string `json:"reason,omitempty"`
	CreatedAt      string  `json:"createdAt"`
}

// RuleResponse правило бронирования
type RuleResponse struct {
	ID    string          `json:"id"`
	Type  string          `json:"type"`
	Value json.RawMessage `json:"value"`
}

// FacilityResponse площадка
type FacilityResponse struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
	IsActive bool   `json:"isActive"`
}

// FacilityTypeResponse тип площадки со всем, что влияет на бронирование
type FacilityTypeResponse struct {
	ID                     string                 `json:"id"`
	ClubID                 string                 `json:"clubId"`
	Name                   string                 `json:"name"`
	Description            *string                `json:"description,omitempty"`
	BookingIntervalMinutes int                    `json:"bookingIntervalMinutes"`
	Facilities             []FacilityResponse     `json:"facilities"`
	OpeningHours           []OpeningHoursResponse `json:"openingHours"`
	Closures               []ClosureResponse      `json:"closures"`
	Rules                  []RuleResponse         `json:"rules"`
}

// FacilityTypeListResponse каталог типов площадок клуба
type FacilityTypeListResponse struct {
	FacilityTypes []FacilityTypeResponse `json:"facilityTypes"`
}

// OpeningHoursListResponse часы работы типа площадки
type OpeningHoursListResponse struct {
	FacilityTypeID string                 `json:"facilityTypeId"`
	OpeningHours   []OpeningHoursResponse `json:"openingHours"`
}

// RulesResponse правила типа площадки
type RulesResponse struct {
	FacilityTypeID         string         `json:"facilityTypeId"`
	BookingIntervalMinutes int            `json:"bookingIntervalMinutes"`
	Rules                  []RuleResponse `json:"rules"`
}

// Методы конвертации

// FromDomainFacilityType конвертирует тип площадки с пустыми вложенными списками
func FromDomainFacilityType(t *domain.FacilityType) FacilityTypeResponse {
	return FacilityTypeResponse{
		ID:                     t.ID,
		ClubID:                 t.ClubID,
		Name:                   t.Name,
		Description:            t.Description,
		BookingIntervalMinutes: t.BookingIntervalMinutes,
		Facilities:             []FacilityResponse{},
		OpeningHours:           []OpeningHoursResponse{},
		Closures:               []ClosureResponse{},
		Rules:                  []RuleResponse{},
	}
}

// FromDomainFacility конвертирует площадку
func FromDomainFacility(f *domain.Facility) FacilityResponse {
	return FacilityResponse{
		ID:       f.ID,
		Name:     f.Name,
		Capacity: f.Capacity,
		IsActive: f.IsActive,
	}
}

// FromDomainOpeningHours конвертирует интервал работы
func FromDomainOpeningHours(h domain.OpeningHours) OpeningHoursResponse {
	return OpeningHoursResponse{
		ID:         h.ID,
		FacilityID: h.FacilityID,
		DayOfWeek:  string(h.DayOfWeek),
		StartTime:  h.StartTime.String(),
		EndTime:    h.EndTime.String(),
	}
}

// FromDomainClosure конвертирует закрытие
func FromDomainClosure(c *domain.Closure) *ClosureResponse {
	if c == nil {
		return nil
	}
	return &ClosureResponse{
		ID:             c.ID,
		ClubID:         c.ClubID,
		FacilityTypeID: c.FacilityTypeID,
		FacilityID:     c.FacilityID,
		StartDate:      c.StartDate.Format(domain.DateFormat),
		EndDate:        c.EndDate.Format(domain.DateFormat),
		Reason:         c.Reason,
		CreatedAt:      c.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// FromDomainRule конвертирует правило
func FromDomainRule(r *domain.BookingRule) RuleResponse {
	return RuleResponse{
		ID:    r.ID,
		Type:  string(r.Type),
		Value: r.Value,
	}
}
