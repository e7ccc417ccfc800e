package ws

import (
	"encoding/json"
	"time"

	"github.com/m04kA/SMC-AvailabilityService/internal/domain"
)

// MessageType тип websocket-сообщения
type MessageType string

const (
	// TypeSyncStateChanged статус сохранения инспектора изменился
	TypeSyncStateChanged MessageType = "sync.state_changed"
)

// Message конверт websocket-сообщения
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   any         `json:"payload"`
}

// SyncStatePayload полезная нагрузка события sync.state_changed
type SyncStatePayload struct {
	InspectorID string `json:"inspectorId"`
	Status      string `json:"status"`
	Message     string `json:"message,omitempty"`
}

// BroadcastSyncState рассылает смену статуса сохранения инспектора
// Вызывается из sync-движка под его блокировкой, поэтому обязан быть
// неблокирующим
func (h *Hub) BroadcastSyncState(inspectorID string, state domain.SyncState) {
	msg := Message{
		Type:      TypeSyncStateChanged,
		Timestamp: time.Now().UTC(),
		Payload: SyncStatePayload{
			InspectorID: inspectorID,
			Status:      string(state.Status),
			Message:     state.Message,
		},
	}

	data, err := json.Marshal(msg)
	if err != nil {
		h.log.Warn("ws: failed to encode sync state event: %v", err)
		return
	}
	h.Broadcast(data)
}
