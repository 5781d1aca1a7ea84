package create_booking

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings/models"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/conflicts"
	createBooking "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/create_booking"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/logger"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

type fakeUseCase struct {
	got *createBooking.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createBooking.Request) (*models.BookingResponse, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: 1, KitchenID: req.KitchenID, Status: string(domain.StatusPending)}, nil
}

const validBody = `{"kitchenId":1,"bookingDate":"2025-03-10","startTime":"09:00","endTime":"11:00"}`

func serve(t *testing.T, uc *fakeUseCase, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	h := NewHandler(uc, logger.NewNop())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	middleware.Identity(http.HandlerFunc(h.Handle)).ServeHTTP(rec, req)
	return rec
}

func TestHandle_CreatesBookingForChef(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(t, uc, validBody, map[string]string{middleware.HeaderUserID: "7"})

	require.Equal(t, http.StatusCreated, rec.Code)
	require.NotNil(t, uc.got)
	assert.Equal(t, domain.Actor{UserID: 7, Role: domain.RoleChef}, uc.got.Actor)
	assert.Equal(t, types.NewDate(2025, 3, 10), uc.got.Date)
	assert.Equal(t, types.TimeString("09:00"), uc.got.StartTime)
	assert.Equal(t, types.TimeString("11:00"), uc.got.EndTime)

	var resp models.BookingResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, int64(1), resp.ID)
}

func TestHandle_AnonymousBookingPassesContact(t *testing.T) {
	uc := &fakeUseCase{}
	body := `{"kitchenId":1,"bookingDate":"2025-03-10","startTime":"09:00","endTime":"10:00",
		"contactName":"Ann","contactEmail":"ann@example.com"}`

	rec := serve(t, uc, body, nil)

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, int64(0), uc.got.Actor.UserID)
	require.NotNil(t, uc.got.Contact.Email)
	assert.Equal(t, "ann@example.com", *uc.got.Contact.Email)
}

func TestHandle_RejectsMalformedFields(t *testing.T) {
	uc := &fakeUseCase{}
	rec := serve(t, uc, `{"kitchenId":1,"bookingDate":"10.03.2025","startTime":"9am","endTime":"11:00"}`, nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Nil(t, uc.got)

	var body handlers.ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	fields := body.Details["fields"].(map[string]interface{})
	assert.Contains(t, fields, "bookingDate")
	assert.Contains(t, fields, "startTime")

	rec = serve(t, uc, `{not json`, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandle_MapsDomainErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantDetail string
	}{
		{"validation", fmt.Errorf("%w: start must be before end", createBooking.ErrInvalidInput), http.StatusBadRequest, ""},
		{"not found", createBooking.ErrKitchenNotFound, http.StatusNotFound, ""},
		{"inactive", createBooking.ErrKitchenInactive, http.StatusUnprocessableEntity, ""},
		{"capacity", &capacity.ExceededError{Limit: 2, Held: 1, Requested: 2, Source: capacity.SourceWeekly},
			http.StatusUnprocessableEntity, "limit"},
		{"conflict", &conflicts.ConflictError{Existing: &domain.Booking{StartTime: "09:00", EndTime: "10:00"}},
			http.StatusConflict, "startTime"},
		{"lock held", createBooking.ErrSlotNotAvailable, http.StatusConflict, ""},
		{"payment", createBooking.ErrPaymentFailed, http.StatusPaymentRequired, ""},
		{"internal", createBooking.ErrInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, &fakeUseCase{err: tt.err}, validBody, map[string]string{middleware.HeaderUserID: "7"})
			require.Equal(t, tt.wantStatus, rec.Code)

			var body handlers.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Code)
			if tt.wantDetail != "" {
				assert.Contains(t, body.Details, tt.wantDetail)
			}
		})
	}
}
