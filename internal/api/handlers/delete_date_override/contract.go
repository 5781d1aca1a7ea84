package delete_date_override

import (
	"context"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
)

type ScheduleService interface {
	DeleteDateOverride(ctx context.Context, req *models.OverrideKeyRequest) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
