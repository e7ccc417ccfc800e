package schedstore

// TimeBlockWire блок открытого расписания в формате хранилища
type TimeBlockWire struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// DayScheduleWire расписание одного дня недели в формате хранилища
// Обе формы представления передаются всегда, независимо от режима отображения
type DayScheduleWire struct {
	OpenSchedule []TimeBlockWire `json:"openSchedule"`
	TimeSlots    []string        `json:"timeSlots"`
}

// DateOverrideWire исключение на конкретную дату в формате хранилища
type DateOverrideWire struct {
	Date  string `json:"date"` // ISO date, YYYY-MM-DD
	Start string `json:"start"`
	End   string `json:"end"`
}

// InspectorWire запись одного инспектора из коллекции доступности
type InspectorWire struct {
	InspectorID   string                     `json:"inspectorId"`
	InspectorName string                     `json:"inspectorName"`
	Availability  map[string]DayScheduleWire `json:"availability"`
	DateSpecific  []DateOverrideWire         `json:"dateSpecific"`
}

// AvailabilityCollection ответ хранилища на GET коллекции доступности
type AvailabilityCollection struct {
	Inspectors []InspectorWire `json:"inspectors"`
	TimeGrid   []string        `json:"timeGrid"`
	ViewMode   string          `json:"viewMode"`
}

// SaveScheduleRequest тело PUT-запроса на сохранение расписания одного инспектора
type SaveScheduleRequest struct {
	InspectorID  string                     `json:"inspectorId"`
	Days         map[string]DayScheduleWire `json:"days"`
	DateSpecific []DateOverrideWire         `json:"dateSpecific"`
}

// SaveScheduleResponse канонический ответ хранилища на сохранение
// Хранилище может нормализовать и переупорядочить данные; эти значения
// являются эталоном для сверки локального состояния
type SaveScheduleResponse struct {
	Availability map[string]DayScheduleWire `json:"availability"`
	DateSpecific []DateOverrideWire         `json:"dateSpecific"`
}

// ViewModeRequest тело PUT-запроса на смену режима отображения
type ViewModeRequest struct {
	ViewMode string `json:"viewMode"`
}

// ErrorResponse модель ошибки от хранилища
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
