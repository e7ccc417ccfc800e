package stream

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/m04kA/SMC-AvailabilityService/internal/ws"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Редактор работает за тем же reverse-proxy, что и сервис
		return true
	},
}

type Handler struct {
	hub    *ws.Hub
	logger Logger
}

func NewHandler(hub *ws.Hub, logger Logger) *Handler {
	return &Handler{
		hub:    hub,
		logger: logger,
	}
}

// Handle GET /api/v1/ws
// Переводит соединение в websocket и подписывает клиента на события
// смены статуса сохранения
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("GET /ws - Upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.hub)
	h.hub.Register(client)

	go h.writePump(conn, client)
	go h.readPump(conn, client)
}

// writePump гонит сообщения из hub'а в websocket-соединение
func (h *Handler) writePump(conn *websocket.Conn, client *ws.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case message, ok := <-client.Send():
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// Hub закрыл канал
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump вычитывает входящие сообщения; клиент ничего не шлет,
// кроме pong, поэтому содержимое игнорируется
func (h *Handler) readPump(conn *websocket.Conn, client *ws.Client) {
	defer func() {
		h.hub.Unregister(client)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.Warn("GET /ws - Read error: %v", err)
			}
			return
		}
	}
}
