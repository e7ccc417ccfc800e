package add_slot

type ScheduleService interface {
	AddSlot(inspectorID, dayKey string) (string, error)
}

type SyncManager interface {
	MarkDirty(inspectorID string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
