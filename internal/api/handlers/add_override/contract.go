package add_override

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type ScheduleService interface {
	AddOverride(inspectorID string, req *models.AddOverrideRequest) (models.OverrideView, error)
}

type SyncManager interface {
	MarkDirty(inspectorID string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
