package update_day

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInspectorNotFound  = "инспектор не найден"
	msgUnknownDay         = "некорректный день недели"
	msgInvalidSchedule    = "расписание нарушает ограничения"
	msgInvalidData        = "некорректные данные расписания"
)

type Handler struct {
	service ScheduleService
	syncMgr SyncManager
	logger  Logger
}

func NewHandler(service ScheduleService, syncMgr SyncManager, logger Logger) *Handler {
	return &Handler{
		service: service,
		syncMgr: syncMgr,
		logger:  logger,
	}
}

// Handle PUT /api/v1/inspectors/{inspectorId}/days/{day}
// Заменяет расписание одного дня; валидная правка ставит инспектора
// в очередь отложенного сохранения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	inspectorID := vars["inspectorId"]
	day := vars["day"]

	var req UpdateDayRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /inspectors/{id}/days/{day} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.ReplaceDay(inspectorID, day, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInspectorNotFound):
			h.logger.Warn("PUT /inspectors/{id}/days/{day} - Inspector not found: inspector_id=%s", inspectorID)
			handlers.RespondNotFound(w, msgInspectorNotFound)

		case errors.Is(err, schedule.ErrUnknownDay):
			h.logger.Warn("PUT /inspectors/{id}/days/{day} - Unknown day: day=%s", day)
			handlers.RespondBadRequest(w, msgUnknownDay)

		case errors.Is(err, schedule.ErrInvalidSchedule):
			h.logger.Warn("PUT /inspectors/{id}/days/{day} - Schedule rejected: inspector_id=%s, day=%s, error=%v",
				inspectorID, day, err)
			handlers.RespondUnprocessable(w, msgInvalidSchedule)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /inspectors/{id}/days/{day} - Invalid data: inspector_id=%s, error=%v",
				inspectorID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("PUT /inspectors/{id}/days/{day} - Failed to replace day: inspector_id=%s, error=%v",
				inspectorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.syncMgr.MarkDirty(inspectorID)

	h.logger.Info("PUT /inspectors/{id}/days/{day} - Day updated: inspector_id=%s, day=%s", inspectorID, day)
	handlers.RespondJSON(w, http.StatusOK, result)
}
