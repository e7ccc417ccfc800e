package set_view_mode

import "context"

type ScheduleService interface {
	SetViewMode(ctx context.Context, mode string) error
	ViewMode() string
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
