package sync

import "github.com/m04kA/SMC-AvailabilityService/internal/domain"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Recorder счётчики для наблюдения за движком синхронизации
// Реализуется pkg/metrics; nil при создании менеджера заменяется заглушкой
type Recorder interface {
	SaveSucceeded()
	SaveFailed()
	SaveSkipped()
	StaleResponseDiscarded()
	RequestCancelled()
}

// StateListener получает каждое изменение статуса сохранения инспектора
// Вызывается под внутренней блокировкой менеджера и не должен обращаться
// к менеджеру повторно; реализация обязана быть неблокирующей
type StateListener func(inspectorID string, state domain.SyncState)

type nopRecorder struct{}

func (nopRecorder) SaveSucceeded()          {}
func (nopRecorder) SaveFailed()             {}
func (nopRecorder) SaveSkipped()            {}
func (nopRecorder) StaleResponseDiscarded() {}
func (nopRecorder) RequestCancelled()       {}
