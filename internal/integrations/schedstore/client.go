package schedstore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/google/uuid"
)

// Client клиент для работы с внешним хранилищем расписаний
// Хранилище является единственным источником durable-состояния;
// локальная копия доступности живёт только в памяти сессии
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        Logger
}

// NewClient создает новый экземпляр клиента хранилища расписаний
// Timeout транспорта гарантирует, что зависший запрос завершится ошибкой,
// а не оставит инспектора в состоянии saving навсегда
func NewClient(baseURL string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// FetchAvailability получает коллекцию доступности всех инспекторов
// Вызывается один раз при старте сессии; из результата
// восстанавливается локальное состояние
func (c *Client) FetchAvailability(ctx context.Context) (*AvailabilityCollection, error) {
	url := fmt.Sprintf("%s/internal/availability", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	default:
		return nil, c.unexpectedStatus(resp)
	}

	var collection AvailabilityCollection
	if err := json.NewDecoder(resp.Body).Decode(&collection); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	c.log.Info("Fetched availability collection: %d inspectors, %d grid times, view_mode=%s",
		len(collection.Inspectors), len(collection.TimeGrid), collection.ViewMode)
	return &collection, nil
}

// SaveInspectorSchedule сохраняет расписание одного инспектора
// Ответ содержит канонические значения, пересчитанные хранилищем
func (c *Client) SaveInspectorSchedule(ctx context.Context, payload *SaveScheduleRequest) (*SaveScheduleResponse, error) {
	url := fmt.Sprintf("%s/internal/availability/%s", c.baseURL, payload.InspectorID)

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// Отмену запроса пробрасываем как есть: для sync-движка это не ошибка
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: failed to execute request: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// Продолжаем обработку
	case http.StatusNotFound:
		return nil, ErrInspectorNotFound
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return nil, fmt.Errorf("%w: inspector_id=%s", ErrRejected, payload.InspectorID)
	default:
		return nil, c.unexpectedStatus(resp)
	}

	var result SaveScheduleResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("%w: failed to decode response: %v", ErrInvalidResponse, err)
	}

	return &result, nil
}

// SaveViewMode сохраняет глобальный режим отображения
// Хранилище отвечает подтверждением без тела
func (c *Client) SaveViewMode(ctx context.Context, mode string) error {
	url := fmt.Sprintf("%s/internal/availability/view-mode", c.baseURL)

	body, err := json.Marshal(ViewModeRequest{ViewMode: mode})
	if err != nil {
		return fmt.Errorf("%w: failed to marshal payload: %v", ErrInternal, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("%w: failed to execute request: %v", ErrStoreUnavailable, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK, http.StatusNoContent:
		return nil
	case http.StatusBadRequest:
		return fmt.Errorf("%w: view_mode=%s", ErrRejected, mode)
	default:
		return c.unexpectedStatus(resp)
	}
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Request-ID", uuid.NewString())
}

func (c *Client) unexpectedStatus(resp *http.Response) error {
	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= http.StatusInternalServerError {
		return fmt.Errorf("%w: status code %d: %s", ErrStoreUnavailable, resp.StatusCode, string(body))
	}
	return fmt.Errorf("%w: unexpected status code %d: %s", ErrInvalidResponse, resp.StatusCode, string(body))
}
