package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeMaxDuration(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   time.Duration
		wantOK bool
	}{
		{name: "bare number", raw: `120`, want: 120 * time.Minute, wantOK: true},
		{name: "object", raw: `{"minutes": 120}`, want: 120 * time.Minute, wantOK: true},
		{name: "object with numeric string", raw: `{"minutes": "90"}`, want: 90 * time.Minute, wantOK: true},
		{name: "fractional bare", raw: `90.5`, want: 90*time.Minute + 30*time.Second, wantOK: true},
		{name: "fractional object", raw: `{"minutes": 90.5}`, want: 90*time.Minute + 30*time.Second, wantOK: true},
		{name: "bare numeric string is not a number", raw: `"45"`, wantOK: false},
		{name: "zero means no limit", raw: `0`, wantOK: false},
		{name: "negative", raw: `-30`, wantOK: false},
		{name: "wrong field", raw: `{"hours": 2}`, wantOK: false},
		{name: "array", raw: `[120]`, wantOK: false},
		{name: "null", raw: `null`, wantOK: false},
		{name: "garbage", raw: `not json`, wantOK: false},
		{name: "empty", raw: ``, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeMaxDuration(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestLegacyAndObjectFormsAreEquivalent(t *testing.T) {
	legacy, okLegacy := DecodeMaxDuration(json.RawMessage(`120`))
	object, okObject := DecodeMaxDuration(json.RawMessage(`{"minutes":120}`))
	assert.True(t, okLegacy)
	assert.True(t, okObject)
	assert.Equal(t, legacy, object)

	h1, ok1 := DecodeCancellationWindow(json.RawMessage(`24`))
	h2, ok2 := DecodeCancellationWindow(json.RawMessage(`{"hours":24}`))
	assert.True(t, ok1 && ok2)
	assert.Equal(t, h1, h2)
}

func TestDecodeCancellationWindow(t *testing.T) {
	tests := []struct {
		name   string
		raw    string
		want   time.Duration
		wantOK bool
	}{
		{name: "zero is present", raw: `{"hours":0}`, want: 0, wantOK: true},
		{name: "fractional object", raw: `{"hours": 1.5}`, want: 90 * time.Minute, wantOK: true},
		{name: "fractional below one hour", raw: `{"hours": 0.5}`, want: 30 * time.Minute, wantOK: true},
		{name: "fractional bare", raw: `1.5`, want: 90 * time.Minute, wantOK: true},
		{name: "bare numeric string", raw: `"24"`, wantOK: false},
		{name: "negative", raw: `{"hours": -2}`, wantOK: false},
		{name: "huge value saturates", raw: `1e300`, want: time.Duration(1<<63 - 1), wantOK: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := DecodeCancellationWindow(json.RawMessage(tt.raw))
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestDecodeGuestFeeAmount(t *testing.T) {
	fee, ok := DecodeGuestFeeAmount(json.RawMessage(`{"amount": 12.5}`))
	assert.True(t, ok)
	assert.InDelta(t, 12.5, fee, 1e-9)

	_, ok = DecodeGuestFeeAmount(json.RawMessage(`{"amount": -1}`))
	assert.False(t, ok)
}

func TestParseRuleValue(t *testing.T) {
	v, err := ParseRuleValue(RuleMaxDuration, json.RawMessage(`90`))
	require.NoError(t, err)
	assert.Equal(t, MaxDuration{Minutes: 90}, v)

	v, err = ParseRuleValue(RuleCancellationWindow, json.RawMessage(`{"hours": 12}`))
	require.NoError(t, err)
	assert.Equal(t, CancellationWindow{Hours: 12}, v)

	_, err = ParseRuleValue(RuleMaxDuration, json.RawMessage(`0`))
	assert.ErrorIs(t, err, ErrInvalidRequest)
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = ParseRuleValue(RuleType("surcharge"), json.RawMessage(`1`))
	assert.ErrorIs(t, err, ErrInvalidRule)
}

func TestEncodeRuleValue_Canonical(t *testing.T) {
	raw, err := EncodeRuleValue(MaxDuration{Minutes: 120})
	require.NoError(t, err)
	assert.JSONEq(t, `{"minutes":120}`, string(raw))

	raw, err = EncodeRuleValue(GuestFee{Amount: 5})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":5}`, string(raw))

	_, err = EncodeRuleValue(CancellationWindow{Hours: -1})
	assert.ErrorIs(t, err, ErrInvalidRule)
}
