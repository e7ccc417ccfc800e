package models

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// Request модели

// ReplaceDayRequest запрос на замену расписания одного дня недели
// Используется только список, соответствующий активному режиму отображения;
// второй список остаётся нетронутым
type ReplaceDayRequest struct {
	OpenSchedule []TimeBlock `json:"openSchedule,omitempty"`
	TimeSlots    []string    `json:"timeSlots,omitempty"`
}

// AddOverrideRequest запрос на добавление исключения на конкретную дату
// End обязателен в режиме openSchedule; в режиме timeSlots он выводится
// из Start и длительности слота, а переданное значение игнорируется
type AddOverrideRequest struct {
	Date  string  `json:"date"`
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// Response модели

// TimeBlock интервал открытого расписания
type TimeBlock struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayView расписание одного дня недели
type DayView struct {
	OpenSchedule []TimeBlock `json:"openSchedule"`
	TimeSlots    []string    `json:"timeSlots"`
}

// OverrideView исключение на конкретную дату
type OverrideView struct {
	Date  string `json:"date"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// SyncStateView статус сохранения инспектора для отображения в UI
type SyncStateView struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// InspectorView редактируемое состояние одного инспектора
type InspectorView struct {
	InspectorID   string             `json:"inspectorId"`
	InspectorName string             `json:"inspectorName"`
	Days          map[string]DayView `json:"days"`
	DateOverrides []OverrideView     `json:"dateOverrides"`
	SyncState     SyncStateView      `json:"syncState"`
}

// ScheduleSnapshot полное состояние сессии редактирования
type ScheduleSnapshot struct {
	Inspectors []InspectorView `json:"inspectors"`
	TimeGrid   []string        `json:"timeGrid"`
	ViewMode   string          `json:"viewMode"`
}

// FromDomainDay конвертирует доменное расписание дня в модель ответа
func FromDomainDay(day domain.DaySchedule) DayView {
	view := DayView{
		OpenSchedule: make([]TimeBlock, 0, len(day.OpenSchedule)),
		TimeSlots:    make([]string, 0, len(day.TimeSlots)),
	}
	for _, b := range day.OpenSchedule {
		view.OpenSchedule = append(view.OpenSchedule, TimeBlock{Start: string(b.Start), End: string(b.End)})
	}
	for _, s := range day.TimeSlots {
		view.TimeSlots = append(view.TimeSlots, string(s.Time))
	}
	return view
}

// FromDomainOverride конвертирует доменное исключение в модель ответа
func FromDomainOverride(o domain.DateOverride) OverrideView {
	return OverrideView{
		Date:  o.Date.Format(domain.DateFormat),
		Start: string(o.Start),
		End:   string(o.End),
	}
}

// FromDomainInspector конвертирует доменную запись инспектора в модель ответа
func FromDomainInspector(a *domain.InspectorAvailability, state domain.SyncState) InspectorView {
	view := InspectorView{
		InspectorID:   a.InspectorID,
		InspectorName: a.InspectorName,
		Days:          make(map[string]DayView, len(domain.WeekDays)),
		DateOverrides: make([]OverrideView, 0, len(a.DateOverrides)),
		SyncState: SyncStateView{
			Status:  string(state.Status),
			Message: state.Message,
		},
	}
	for _, day := range domain.WeekDays {
		view.Days[string(day)] = FromDomainDay(a.Days[day])
	}
	for _, o := range a.DateOverrides {
		view.DateOverrides = append(view.DateOverrides, FromDomainOverride(o))
	}
	return view
}
