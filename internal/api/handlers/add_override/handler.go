package add_override

import (
	"errors"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInspectorNotFound  = "инспектор не найден"
	msgPastDate           = "дата исключения не может быть в прошлом"
	msgInvalidData        = "некорректные данные исключения"
)

// AddOverrideRequest HTTP request model
type AddOverrideRequest struct {
	Date  string  `json:"date"`
	Start string  `json:"start"`
	End   *string `json:"end,omitempty"`
}

// ToServiceRequest конвертирует HTTP request в модель сервиса
func (r *AddOverrideRequest) ToServiceRequest() *models.AddOverrideRequest {
	return &models.AddOverrideRequest{
		Date:  r.Date,
		Start: r.Start,
		End:   r.End,
	}
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

// Handle POST /api/v1/inspectors/{inspectorId}/overrides
// Добавляет исключение на конкретную дату, замещающее недельный шаблон
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	inspectorID := vars["inspectorId"]

	var req AddOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /inspectors/{id}/overrides - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.AddOverride(inspectorID, req.ToServiceRequest())
	if err != nil {
		switch {
		case errors.Is(err, schedule.ErrInspectorNotFound):
			h.logger.Warn("POST /inspectors/{id}/overrides - Inspector not found: inspector_id=%s", inspectorID)
			handlers.RespondNotFound(w, msgInspectorNotFound)

		case errors.Is(err, schedule.ErrPastDate):
			h.logger.Warn("POST /inspectors/{id}/overrides - Past date rejected: inspector_id=%s, date=%s",
				inspectorID, req.Date)
			handlers.RespondUnprocessable(w, msgPastDate)

		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("POST /inspectors/{id}/overrides - Invalid data: inspector_id=%s, error=%v",
				inspectorID, err)
			handlers.RespondBadRequest(w, msgInvalidData)

		default:
			h.logger.Error("POST /inspectors/{id}/overrides - Failed to add override: inspector_id=%s, error=%v",
				inspectorID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.syncMgr.MarkDirty(inspectorID)

	h.logger.Info("POST /inspectors/{id}/overrides - Override added: inspector_id=%s, date=%s, start=%s",
		inspectorID, result.Date, result.Start)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
