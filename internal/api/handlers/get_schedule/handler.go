package get_schedule

import (
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
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

// Handle GET /api/v1/schedule
// Возвращает черновики всех инспекторов, сетку времени, режим
// отображения и статусы сохранения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	snapshot := h.service.Snapshot(h.syncMgr.States())

	h.logger.Info("GET /schedule - Snapshot served: inspectors=%d", len(snapshot.Inspectors))
	handlers.RespondJSON(w, http.StatusOK, snapshot)
}
