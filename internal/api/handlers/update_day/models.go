package update_day

import (
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

// TimeBlockPayload интервал открытого расписания в теле запроса
type TimeBlockPayload struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// UpdateDayRequest HTTP request model
// Учитывается только список активного режима отображения
type UpdateDayRequest struct {
	OpenSchedule []TimeBlockPayload `json:"openSchedule,omitempty"`
	TimeSlots    []string           `json:"timeSlots,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *UpdateDayRequest) ToServiceRequest() *models.ReplaceDayRequest {
	req := &models.ReplaceDayRequest{
		OpenSchedule: make([]models.TimeBlock, 0, len(r.OpenSchedule)),
		TimeSlots:    r.TimeSlots,
	}
	for _, b := range r.OpenSchedule {
		req.OpenSchedule = append(req.OpenSchedule, models.TimeBlock{Start: b.Start, End: b.End})
	}
	return req
}
