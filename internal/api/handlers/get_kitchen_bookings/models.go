package get_kitchen_bookings

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/api/handlers"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings/models"
)

// ToServiceRequest формирует запрос к сервису из query параметров
// Query params: from, to (YYYY-MM-DD), date (один день), status, includeInactive
func ToServiceRequest(r *http.Request, kitchenID int64, actor domain.Actor) (*models.GetKitchenBookingsRequest, error) {
	req := &models.GetKitchenBookingsRequest{
		Actor:     actor,
		KitchenID: kitchenID,
	}

	from, err := handlers.QueryDate(r, "from")
	if err != nil {
		return nil, fmt.Errorf("invalid from: %w", err)
	}
	to, err := handlers.QueryDate(r, "to")
	if err != nil {
		return nil, fmt.Errorf("invalid to: %w", err)
	}
	req.StartDate, req.EndDate = from, to

	// date - сокращение для from=to
	date, err := handlers.QueryDate(r, "date")
	if err != nil {
		return nil, fmt.Errorf("invalid date: %w", err)
	}
	if date != nil {
		req.StartDate, req.EndDate = date, date
	}

	if status := r.URL.Query().Get("status"); status != "" {
		req.Status = &status
	}

	if raw := r.URL.Query().Get("includeInactive"); raw != "" {
		includeInactive, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid includeInactive value: %w", err)
		}
		req.IncludeInactive = includeInactive
	}

	return req, nil
}
