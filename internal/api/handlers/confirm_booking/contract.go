package confirm_booking

import (
	"context"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/domain"
	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/bookings/models"
)

type BookingService interface {
	Confirm(ctx context.Context, bookingID int64, actor domain.Actor) (*models.BookingResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
