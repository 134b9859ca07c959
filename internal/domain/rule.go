package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// RuleType is the kind of a booking rule
type RuleType string

const (
	RuleMaxDuration        RuleType = "max_duration"
	RuleCancellationWindow RuleType = "cancellation_window"
	RuleGuestFee           RuleType = "guest_fee"
)

// IsValid reports whether t is a known rule kind
func (t RuleType) IsValid() bool {
	switch t {
	case RuleMaxDuration, RuleCancellationWindow, RuleGuestFee:
		return true
	}
	return false
}

// BookingRule is a stored rule of a facility type. Value is the raw JSON as persisted,
// which may be a bare number (legacy rows) or an object such as {"minutes": 120}.
type BookingRule struct {
	ID             string
	ClubID         string
	FacilityTypeID string
	Type           RuleType
	Value          json.RawMessage
	CreatedAt      time.Time
}

// RuleValue is a typed rule value used on the write path
type RuleValue interface {
	RuleType() RuleType
	Validate() error
}

// MaxDuration limits the length of one booking
type MaxDuration struct {
	Minutes int `json:"minutes"`
}

func (MaxDuration) RuleType() RuleType { return RuleMaxDuration }

func (v MaxDuration) Validate() error {
	if v.Minutes <= 0 {
		return Reject(ErrInvalidRequest, ErrInvalidRule, "max duration must be a positive number of minutes")
	}
	return nil
}

// CancellationWindow forbids edits and cancellations closer than Hours to the start
type CancellationWindow struct {
	Hours int `json:"hours"`
}

func (CancellationWindow) RuleType() RuleType { return RuleCancellationWindow }

func (v CancellationWindow) Validate() error {
	if v.Hours < 0 {
		return Reject(ErrInvalidRequest, ErrInvalidRule, "cancellation window cannot be negative")
	}
	return nil
}

// GuestFee is the amount charged per guest participant
type GuestFee struct {
	Amount float64 `json:"amount"`
}

func (GuestFee) RuleType() RuleType { return RuleGuestFee }

func (v GuestFee) Validate() error {
	if v.Amount < 0 || math.IsNaN(v.Amount) || math.IsInf(v.Amount, 0) {
		return Reject(ErrInvalidRequest, ErrInvalidRule, "guest fee must be a non-negative amount")
	}
	return nil
}

// EncodeRuleValue serializes v in the canonical object form
func EncodeRuleValue(v RuleValue) (json.RawMessage, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%w: encode %s: %v", ErrInvalidRule, v.RuleType(), err)
	}
	return data, nil
}

// ParseRuleValue turns a client-supplied value of kind t into a typed RuleValue.
// Accepts the same shapes as the read path, then validates the result.
func ParseRuleValue(t RuleType, raw json.RawMessage) (RuleValue, error) {
	var v RuleValue
	switch t {
	case RuleMaxDuration:
		n, ok := decodeWholeNumber(raw, "minutes")
		if !ok {
			return nil, Reject(ErrInvalidRequest, ErrInvalidRule, "max duration must be a whole number of minutes")
		}
		v = MaxDuration{Minutes: n}
	case RuleCancellationWindow:
		n, ok := decodeWholeNumber(raw, "hours")
		if !ok {
			return nil, Reject(ErrInvalidRequest, ErrInvalidRule, "cancellation window must be a whole number of hours")
		}
		v = CancellationWindow{Hours: n}
	case RuleGuestFee:
		f, ok := decodeNumber(raw, "amount")
		if !ok {
			return nil, Reject(ErrInvalidRequest, ErrInvalidRule, "guest fee must be a number")
		}
		v = GuestFee{Amount: f}
	default:
		return nil, Reject(ErrInvalidRequest, ErrInvalidRule, fmt.Sprintf("unknown rule type %q", t))
	}

	if err := v.Validate(); err != nil {
		return nil, err
	}
	return v, nil
}

// DecodeMaxDuration reads a stored max_duration value given in minutes.
// Fractional minutes are kept; zero, negative or unrecognized values mean no limit.
func DecodeMaxDuration(raw json.RawMessage) (time.Duration, bool) {
	f, ok := decodeNumber(raw, "minutes")
	if !ok || f <= 0 {
		return 0, false
	}
	return toDuration(f, time.Minute), true
}

// DecodeCancellationWindow reads a stored cancellation_window value given in hours.
// Fractional hours are kept; negative or unrecognized values mean no window.
func DecodeCancellationWindow(raw json.RawMessage) (time.Duration, bool) {
	f, ok := decodeNumber(raw, "hours")
	if !ok || f < 0 {
		return 0, false
	}
	return toDuration(f, time.Hour), true
}

// DecodeGuestFeeAmount reads a stored guest_fee value
func DecodeGuestFeeAmount(raw json.RawMessage) (float64, bool) {
	f, ok := decodeNumber(raw, "amount")
	if !ok || f < 0 {
		return 0, false
	}
	return f, true
}

// decodeWholeNumber accepts a non-negative integer given bare or under field
func decodeWholeNumber(raw json.RawMessage, field string) (int, bool) {
	f, ok := decodeNumber(raw, field)
	if !ok || f < 0 || f != math.Trunc(f) || f > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

// toDuration converts f units to a duration, saturating at the largest one
func toDuration(f float64, unit time.Duration) time.Duration {
	d := f * float64(unit)
	if d >= math.MaxInt64 {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(d)
}

// decodeNumber accepts 120, {"field": 120} and {"field": "120"}.
// A bare string is not a number.
func decodeNumber(raw json.RawMessage, field string) (float64, bool) {
	if len(raw) == 0 {
		return 0, false
	}

	var v interface{}
	if err := json.Unmarshal(raw, &v); err != nil {
		return 0, false
	}

	nested := false
	if obj, ok := v.(map[string]interface{}); ok {
		inner, found := obj[field]
		if !found {
			return 0, false
		}
		v = inner
		nested = true
	}

	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return n, true
	case string:
		if !nested {
			return 0, false
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
