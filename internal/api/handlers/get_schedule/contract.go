package get_schedule

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type ScheduleService interface {
	Snapshot(states map[string]domain.SyncState) *models.ScheduleSnapshot
}

type SyncManager interface {
	States() map[string]domain.SyncState
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
