package retry_save

type ScheduleService interface {
	HasInspector(id string) bool
}

type SyncManager interface {
	Retry(inspectorID string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
