package cancel_booking

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/middleware"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings/models"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/logger"
)

type fakeService struct {
	gotID  int64
	gotReq *models.CancelBookingRequest
	err    error
}

func (f *fakeService) Cancel(_ context.Context, id int64, req *models.CancelBookingRequest) (*models.BookingResponse, error) {
	f.gotID, f.gotReq = id, req
	if f.err != nil {
		return nil, f.err
	}
	return &models.BookingResponse{ID: id, Status: string(domain.StatusCancelled)}, nil
}

func serve(svc *fakeService, path, body string, userID string) *httptest.ResponseRecorder {
	r := mux.NewRouter()
	r.Use(middleware.Identity)
	r.HandleFunc("/bookings/{bookingId}/cancel", NewHandler(svc, logger.NewNop()).Handle)

	req := httptest.NewRequest(http.MethodPatch, path, strings.NewReader(body))
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestHandle_CancelsWithOptionalBody(t *testing.T) {
	svc := &fakeService{}
	rec := serve(svc, "/bookings/3/cancel", "", "7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(3), svc.gotID)
	assert.Nil(t, svc.gotReq.CancellationReason)

	rec = serve(svc, "/bookings/3/cancel", `{"cancellationReason":"sick"}`, "7")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "sick", *svc.gotReq.CancellationReason)
	assert.Equal(t, int64(7), svc.gotReq.Actor.UserID)
}

func TestHandle_CancelErrors(t *testing.T) {
	tests := []struct {
		name       string
		userID     string
		err        error
		wantStatus int
	}{
		{"anonymous", "", nil, http.StatusUnauthorized},
		{"not found", "7", bookings.ErrBookingNotFound, http.StatusNotFound},
		{"foreign booking", "7", bookings.ErrAccessDenied, http.StatusForbidden},
		{"already cancelled", "7", bookings.ErrCannotCancel, http.StatusConflict},
		{"internal", "7", bookings.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(&fakeService{err: tt.err}, "/bookings/3/cancel", "", tt.userID)
			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
