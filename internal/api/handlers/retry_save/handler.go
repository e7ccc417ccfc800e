package retry_save

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
)

const msgInspectorNotFound = "инспектор не найден"

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

// Handle POST /api/v1/inspectors/{inspectorId}/retry
// Немедленно повторяет сохранение расписания из текущего состояния,
// без ожидания дебаунса
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	inspectorID := mux.Vars(r)["inspectorId"]

	if !h.service.HasInspector(inspectorID) {
		h.logger.Warn("POST /inspectors/{id}/retry - Inspector not found: id=%s", inspectorID)
		handlers.RespondNotFound(w, msgInspectorNotFound)
		return
	}

	if err := h.syncMgr.Retry(inspectorID); err != nil {
		h.logger.Error("POST /inspectors/{id}/retry - Retry failed: id=%s, error=%v", inspectorID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /inspectors/{id}/retry - Retry scheduled: id=%s", inspectorID)
	w.WriteHeader(http.StatusAccepted)
}
