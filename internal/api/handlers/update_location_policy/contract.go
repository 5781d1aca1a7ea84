package update_location_policy

import (
	"context"

	"github.com/Raunak-Sarmacharya/LocalCooksCommunity-sub005/internal/service/schedule/models"
)

type ScheduleService interface {
	UpdateLocationPolicy(ctx context.Context, req *models.UpdateLocationPolicyRequest) (*models.LocationPolicyResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
