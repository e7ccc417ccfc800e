package set_view_mode

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AvailabilityService/internal/api/handlers"
	"github.com/m04kA/SMC-AvailabilityService/internal/service/schedule"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidMode        = "неизвестный режим отображения"
	msgStoreRejected      = "хранилище не подтвердило смену режима, изменение отменено"
)

// SetViewModeRequest HTTP request model
type SetViewModeRequest struct {
	ViewMode string `json:"viewMode"`
}

// SetViewModeResponse HTTP response model
// Возвращает действующий режим: при откате он совпадает с прежним
type SetViewModeResponse struct {
	ViewMode string `json:"viewMode"`
}

type Handler struct {
	service ScheduleService
	logger  Logger
}

func NewHandler(service ScheduleService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/view-mode
// Оптимистично переключает глобальный режим отображения; при отказе
// хранилища переключение откатывается и возвращается ошибка
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req SetViewModeRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /view-mode - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	if err := h.service.SetViewMode(r.Context(), req.ViewMode); err != nil {
		switch {
		case errors.Is(err, schedule.ErrInvalidInput):
			h.logger.Warn("PUT /view-mode - Unknown view mode: %q", req.ViewMode)
			handlers.RespondBadRequest(w, msgInvalidMode)

		case errors.Is(err, schedule.ErrViewModeRejected):
			h.logger.Error("PUT /view-mode - Store rejected view mode %s: %v", req.ViewMode, err)
			handlers.RespondBadGateway(w, msgStoreRejected)

		default:
			h.logger.Error("PUT /view-mode - Failed to set view mode: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /view-mode - View mode set to %s", req.ViewMode)
	handlers.RespondJSON(w, http.StatusOK, SetViewModeResponse{ViewMode: h.service.ViewMode()})
}
