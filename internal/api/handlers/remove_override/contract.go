package remove_override

type ScheduleService interface {
	RemoveOverride(inspectorID, date, start string) error
}

type SyncManager interface {
	MarkDirty(inspectorID string)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
