package ws

import (
	"context"
	"encoding/json"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// EventPublisher, service katmanının event yayınlamak için kullandığı interface.
// Service'ler Hub'ın kendisine değil bu interface'e bağımlıdır.
type EventPublisher interface {
	BroadcastToAll(event Event)
}

type nopPublisher struct{}

func (nopPublisher) BroadcastToAll(Event) {}

// NopPublisher, hiçbir şey yayınlamayan EventPublisher döner.
func NopPublisher() EventPublisher { return nopPublisher{} }

// Hub, admin panelinin tüm WebSocket bağlantılarını yönetir.
//
// Kayıt ve çıkış channel'lar üzerinden Run goroutine'ine gelir; broadcast
// ise çağıranın goroutine'inde, clients map'i RLock ile okunarak yapılır.
type Hub struct {
	clients map[*Client]bool
	mu      sync.RWMutex

	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	seq atomic.Int64
	log *zap.SugaredLogger
}

// NewHub, yeni bir Hub oluşturur. Run çağrılana kadar bağlantı kabul edilmez.
func NewHub(log *zap.SugaredLogger) *Hub {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Hub{
		clients:    make(map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		log:        log.Named("ws"),
	}
}

// Run, Hub'ın ana event loop'u. ctx iptal edilince tüm bağlantılar kapatılır.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.addClient(client)

		case client := <-h.unregister:
			h.removeClient(client)

		case <-ctx.Done():
			h.shutdown()
			return
		}
	}
}

// join, client'ı kaydeder. Hub kapanmışsa false döner.
func (h *Hub) join(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// leave, client'ı Hub'dan çıkarır. Hub kapanmışsa bloklamaz.
func (h *Hub) leave(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) addClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.clients[client] = true
	h.log.Infow("admin connected", "actor", client.actor, "connections", len(h.clients))
}

// removeClient, client'ı çıkarır ve send channel'ını kapatır.
func (h *Hub) removeClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	h.log.Infow("admin disconnected", "actor", client.actor, "connections", len(h.clients))
}

// BroadcastToAll, bağlı tüm admin client'larına event gönderir.
// Buffer'ı dolu olan client yavaş sayılır ve çıkarılır.
func (h *Hub) BroadcastToAll(event Event) {
	event.Seq = h.seq.Add(1)

	data, err := json.Marshal(event)
	if err != nil {
		h.log.Errorw("failed to marshal event", "op", event.Op, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	for client := range h.clients {
		select {
		case client.send <- data:
		default:
			go h.leave(client)
		}
	}
}

// ClientCount, bağlı client sayısını döner.
func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) shutdown() {
	close(h.done)

	h.mu.Lock()
	defer h.mu.Unlock()

	for client := range h.clients {
		close(client.send)
	}
	h.clients = make(map[*Client]bool)
	h.log.Info("hub shut down, all connections closed")
}
