package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/capacity"
	getAvailableSlots "github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/usecase/get_available_slots"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/logger"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/ptr"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/pkg/types"
)

type fakeUseCase struct {
	got *getAvailableSlots.Request
	err error
}

func (f *fakeUseCase) Execute(_ context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	f.got = req
	if f.err != nil {
		return nil, f.err
	}
	return &getAvailableSlots.Response{
		Date:       req.Date,
		KitchenID:  req.KitchenID,
		LocationID: 2,
		Timezone:   "America/St_Johns",
		IsActive:   true,
		Windows:    []domain.TimeWindow{{Start: "08:00", End: "10:00"}},
		Limit:      getAvailableSlots.Limit{MaxSlotsPerChef: 2, Source: capacity.SourceWeekly},
		Policy: getAvailableSlots.Policy{
			MinimumBookingWindowHours: 1,
			CancellationPolicyHours:   ptr.Ptr(24),
		},
		Slots: []domain.AvailableSlot{
			{StartTime: "08:00", EndTime: "09:00", Available: false, Reason: domain.SlotReasonBooked},
			{StartTime: "09:00", EndTime: "10:00", Available: true},
		},
	}, nil
}

func newRouter(uc *fakeUseCase) *mux.Router {
	r := mux.NewRouter()
	r.HandleFunc("/kitchens/{kitchenId}/availability", NewHandler(uc, logger.NewNop()).Handle)
	return r
}

func TestHandle_ReturnsSlotsView(t *testing.T) {
	uc := &fakeUseCase{}
	rec := httptest.NewRecorder()
	newRouter(uc).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kitchens/5/availability?date=2025-03-10", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(5), uc.got.KitchenID)
	assert.Equal(t, types.NewDate(2025, time.March, 10), uc.got.Date)

	var resp AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2025-03-10", resp.Date)
	assert.Equal(t, "weekly", resp.Limit.Source)
	assert.Equal(t, []TimeWindow{{Start: "08:00", End: "10:00"}}, resp.Windows)
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, "booked", resp.Slots[0].Reason)
	assert.True(t, resp.Slots[1].Available)
	assert.Equal(t, 24, *resp.Policy.CancellationPolicyHours)
}

func TestHandle_BadRequests(t *testing.T) {
	for _, path := range []string{
		"/kitchens/5/availability",
		"/kitchens/5/availability?date=2025-13-01",
		"/kitchens/abc/availability?date=2025-03-10",
		"/kitchens/0/availability?date=2025-03-10",
	} {
		rec := httptest.NewRecorder()
		newRouter(&fakeUseCase{}).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusBadRequest, rec.Code, path)
	}
}

func TestHandle_KitchenNotFound(t *testing.T) {
	rec := httptest.NewRecorder()
	newRouter(&fakeUseCase{err: getAvailableSlots.ErrKitchenNotFound}).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/kitchens/5/availability?date=2025-03-10", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
