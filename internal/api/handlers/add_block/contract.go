package add_block

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

type ScheduleService interface {
	AddBlock(inspectorID, dayKey string) (models.TimeBlock, error)
}

type SyncManager interface {
	MarkDirty(inspectorID string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
