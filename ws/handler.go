package ws

import (
	"net/http"
	"slices"

	"github.com/akinalp/masala/pkg"
	"github.com/gorilla/websocket"
)

// Authorizer, admin yetki kontrolü. middleware.AdminAuth bu interface'i karşılar;
// ws paketi services'e bağımlı olmasın diye burada tanımlanır.
type Authorizer interface {
	Authorize(r *http.Request, key string) (string, error)
}

// Handler, /admin/ws bağlantı isteklerini işler.
type Handler struct {
	hub      *Hub
	auth     Authorizer
	upgrader websocket.Upgrader
}

// NewHandler, constructor. allowedOrigins "*" içeriyorsa her origin kabul edilir.
func NewHandler(hub *Hub, auth Authorizer, allowedOrigins []string) *Handler {
	anyOrigin := slices.Contains(allowedOrigins, "*")

	return &Handler{
		hub:  hub,
		auth: auth,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return anyOrigin || origin == "" || slices.Contains(allowedOrigins, origin)
			},
		},
	}
}

// HandleConnection, isteği doğrular, WebSocket'e yükseltir ve client'ı Hub'a kaydeder.
//
// Tarayıcı WebSocket açarken header gönderemez; yetki ?key= veya ?token= ile gelir:
//
//	ws://server/admin/ws?token=JWT
func (h *Handler) HandleConnection(w http.ResponseWriter, r *http.Request) {
	if token := r.URL.Query().Get("token"); token != "" && r.Header.Get("Authorization") == "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	actor, err := h.auth.Authorize(r, "")
	if err != nil {
		pkg.Error(w, err)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Warnw("upgrade failed", "actor", actor, "error", err)
		return
	}

	client := &Client{
		hub:   h.hub,
		conn:  conn,
		actor: actor,
		send:  make(chan []byte, sendBufferSize),
	}

	if !h.hub.join(client) {
		conn.Close()
		return
	}

	if err := client.writeEvent(Event{Op: OpReady, Data: ReadyData{Actor: actor}}); err != nil {
		h.hub.leave(client)
		conn.Close()
		return
	}

	go client.WritePump()
	client.ReadPump()
}
