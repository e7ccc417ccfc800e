package add_slot

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
	msgGridExhausted     = "все слоты сетки уже заняты"
)

// AddSlotResponse HTTP response model
type AddSlotResponse struct {
	Slot string `json:"slot"`
}

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

// Handle POST /api/v1/inspectors/{inspectorId}/days/{day}/slots
// Добавляет первый свободный дискретный слот из сетки
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	inspectorID := vars["inspectorId"]
	day := vars["day"]

	slot, err := h.service.AddSlot(inspectorID, day)
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInspectorNotFound):
			h.logger.Warn("POST .../slots - Inspector not found: inspector_id=%s", inspectorID)
			handlers.RespondNotFound(w, msgInspectorNotFound)

		case errors.Is(err, schedule.ErrUnknownDay):
			h.logger.Warn("POST .../slots - Unknown day: day=%s", day)
			handlers.RespondBadRequest(w, msgUnknownDay)

		case errors.Is(err, schedule.ErrGridExhausted):
			h.logger.Info("POST .../slots - Grid exhausted: inspector_id=%s, day=%s", inspectorID, day)
			handlers.RespondConflict(w, msgGridExhausted)

		default:
			h.logger.Error("POST .../slots - Failed to add slot: inspector_id=%s, error=%v", inspectorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.syncMgr.MarkDirty(inspectorID)

	h.logger.Info("POST .../slots - Slot added: inspector_id=%s, day=%s, slot=%s", inspectorID, day, slot)
	handlers.RespondJSON(w, http.StatusCreated, AddSlotResponse{Slot: slot})
}
