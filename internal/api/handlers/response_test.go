package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/availability"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/conflicts"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/window"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("x: %w", domain.ErrValidation), http.StatusBadRequest},
		{fmt.Errorf("x: %w", domain.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("x: %w", domain.ErrForbidden), http.StatusForbidden},
		{&availability.ClosedError{}, http.StatusUnprocessableEntity},
		{&capacity.ExceededError{}, http.StatusUnprocessableEntity},
		{&window.ViolationError{}, http.StatusUnprocessableEntity},
		{&conflicts.ConflictError{}, http.StatusConflict},
		{fmt.Errorf("x: %w", domain.ErrInvalidTransition), http.StatusConflict},
		{fmt.Errorf("x: %w", domain.ErrPaymentProvider), http.StatusPaymentRequired},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusFor(tt.err), "%v", tt.err)
	}
}

func TestRespondDomainError_IncludesResolvedLimit(t *testing.T) {
	err := fmt.Errorf("create_booking: %w", &capacity.ExceededError{
		Limit: 2, Held: 1, Requested: 2, Source: capacity.SourceWeekly,
	})

	rec := httptest.NewRecorder()
	RespondDomainError(rec, err, "limit")

	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, http.StatusUnprocessableEntity, body.Code)
	assert.Equal(t, "limit", body.Message)
	assert.Equal(t, float64(2), body.Details["limit"])
	assert.Equal(t, float64(1), body.Details["held"])
	assert.Equal(t, "weekly", body.Details["source"])
}

func TestErrorDetails(t *testing.T) {
	date := types.NewDate(2025, time.March, 10)

	details := ErrorDetails(&availability.ClosedError{
		Date:    date,
		Windows: []domain.TimeWindow{{Start: "08:00", End: "12:00"}},
	})
	assert.Equal(t, "2025-03-10", details["date"])
	assert.Equal(t, []map[string]string{{"start": "08:00", "end": "12:00"}}, details["windows"])

	details = ErrorDetails(&window.ViolationError{Reason: domain.SlotReasonNoticeWindow, MinimumWindowHours: 2})
	assert.Equal(t, domain.SlotReasonNoticeWindow, details["reason"])
	assert.Equal(t, 2, details["minimumBookingWindowHours"])

	details = ErrorDetails(&conflicts.ConflictError{Existing: &domain.Booking{
		ID: 99, BookingDate: date, StartTime: "09:00", EndTime: "10:00",
	}})
	assert.Equal(t, "09:00", details["startTime"])
	assert.NotContains(t, details, "id")

	assert.Nil(t, ErrorDetails(errors.New("plain")))
}

func TestRespondDomainError_HidesInternalErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondDomainError(rec, errors.New("pq: connection refused"), "ignored")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

type validated struct {
	Date  string `json:"bookingDate" validate:"required,date"`
	Start string `json:"startTime" validate:"required,hhmm"`
	Email string `json:"contactEmail" validate:"omitempty,email"`
}

func TestValidate_ReportsJSONFieldNames(t *testing.T) {
	assert.NoError(t, Validate(&validated{Date: "2025-03-10", Start: "24:00"}))

	err := Validate(&validated{Date: "10/03/2025", Start: "25:00", Email: "nope"})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	RespondValidationError(rec, "bad", err)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	fields, ok := body.Details["fields"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "date", fields["bookingDate"])
	assert.Equal(t, "hhmm", fields["startTime"])
	assert.Equal(t, "email", fields["contactEmail"])
}
