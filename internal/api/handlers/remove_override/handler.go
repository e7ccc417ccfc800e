package remove_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgInspectorNotFound = "инспектор не найден"
	msgOverrideNotFound  = "исключение не найдено"
	msgInvalidParams     = "некорректные параметры запроса"
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

// Handle DELETE /api/v1/inspectors/{inspectorId}/overrides
// Ключ исключения передаётся query-параметрами date и start
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	inspectorID := vars["inspectorId"]

	date := r.URL.Query().Get("date")
	start := r.URL.Query().Get("start")
	if date == "" || start == "" {
		h.logger.Warn("DELETE /inspectors/{id}/overrides - Missing date or start param")
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	if err := h.service.RemoveOverride(inspectorID, date, start); err != nil {
		switch {
		case errors.Is(err, schedule.ErrInspectorNotFound):
			h.logger.Warn("DELETE /inspectors/{id}/overrides - Inspector not found: inspector_id=%s", inspectorID)
			handlers.RespondNotFound(w, msgInspectorNotFound)

		case errors.Is(err, schedule.ErrOverrideNotFound):
			h.logger.Warn("DELETE /inspectors/{id}/overrides - Override not found: inspector_id=%s, date=%s, start=%s",
				inspectorID, date, start)
			handlers.RespondNotFound(w, msgOverrideNotFound)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("DELETE /inspectors/{id}/overrides - Invalid params: inspector_id=%s, error=%v",
				inspectorID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)

		default:
			h.logger.Error("DELETE /inspectors/{id}/overrides - Failed to remove override: inspector_id=%s, error=%v",
				inspectorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.syncMgr.MarkDirty(inspectorID)

	h.logger.Info("DELETE /inspectors/{id}/overrides - Override removed: inspector_id=%s, date=%s, start=%s",
		inspectorID, date, start)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
