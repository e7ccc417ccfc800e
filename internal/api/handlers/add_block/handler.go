package add_block

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgInspectorNotFound = "инспектор не найден"
	msgUnknownDay        = "некорректный день недели"
	msgGridExhausted     = "нельзя добавить блок без пересечения с существующими"
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

// Handle POST /api/v1/inspectors/{inspectorId}/days/{day}/blocks
// Добавляет первый свободный блок, предложенный системой
// Исчерпание сетки не сбой, а информационный ответ 409
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	inspectorID := vars["inspectorId"]
	day := vars["day"]

	block, err := h.service.AddBlock(inspectorID, day)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInspectorNotFound):
			h.logger.Warn("POST .../blocks - Inspector not found: inspector_id=%s", inspectorID)
			handlers.RespondNotFound(w, msgInspectorNotFound)

		case errors.Is(err, schedule.ErrUnknownDay):
			h.logger.Warn("POST .../blocks - Unknown day: day=%s", day)
			handlers.RespondBadRequest(w, msgUnknownDay)

		case errors.Is(err, schedule.ErrGridExhausted):
			h.logger.Info("POST .../blocks - Grid exhausted: inspector_id=%s, day=%s", inspectorID, day)
			handlers.RespondConflict(w, msgGridExhausted)

		default:
			h.logger.Error("POST .../blocks - Failed to add block: inspector_id=%s, error=%v", inspectorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.syncMgr.MarkDirty(inspectorID)

	h.logger.Info("POST .../blocks - Block added: inspector_id=%s, day=%s, block=%s-%s",
		inspectorID, day, block.Start, block.End)
	handlers.RespondJSON(w, http.StatusCreated, block)
}
