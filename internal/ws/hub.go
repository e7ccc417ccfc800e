// Package ws управляет websocket-подключениями редактора и рассылает
// им события смены статуса сохранения инспекторов
package ws

import "sync"

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
}

// Hub держит множество подключённых клиентов и разносит им сообщения
type Hub struct {
	clients    map[*Client]bool
	broadcast  chan []byte
	register   chan *Client
	unregister chan *Client
	done       chan struct{}
	log        Logger

	mu sync.RWMutex
}

// NewHub создает новый hub
func NewHub(log Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		broadcast:  make(chan []byte, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run главный цикл hub'а; запускается в отдельной горутине
func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("ws: client connected (total: %d)", total)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			total := len(h.clients)
			h.mu.Unlock()
			h.log.Info("ws: client disconnected (total: %d)", total)

		case message := <-h.broadcast:
			h.mu.Lock()
			for client := range h.clients {
				select {
				case client.send <- message:
				default:
					// Буфер клиента переполнен, отключаем его
					close(client.send)
					delete(h.clients, client)
				}
			}
			h.mu.Unlock()

		case <-h.done:
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// Broadcast неблокирующая отправка сообщения всем клиентам
// При переполнении канала сообщение отбрасывается
func (h *Hub) Broadcast(message []byte) {
	select {
	case h.broadcast <- message:
	default:
		h.log.Warn("ws: broadcast channel full, dropping message")
	}
}

// Register добавляет клиента
func (h *Hub) Register(client *Client) {
	h.register <- client
}

// Unregister убирает клиента
func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// Close останавливает цикл и отключает всех клиентов
func (h *Hub) Close() {
	close(h.done)
}

// Client одно websocket-подключение редактора
type Client struct {
	hub  *Hub
	send chan []byte
}

// NewClient создает нового клиента
func NewClient(hub *Hub) *Client {
	return &Client{
		hub:  hub,
		send: make(chan []byte, 256),
	}
}

// Send канал исходящих сообщений клиента
func (c *Client) Send() chan []byte {
	return c.send
}
