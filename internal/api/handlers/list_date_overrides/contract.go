package list_date_overrides

import (
	"context"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
)

type ScheduleService interface {
	ListDateOverrides(ctx context.Context, req *models.GetScheduleRequest) ([]models.OverrideResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
