// Package ws, admin paneline canlı bildirimleri WebSocket üzerinden dağıtır.
//
// Event akışı:
//  1. Müşteri sipariş verir veya iletişim formu gönderir → Service kaydı yazar
//  2. Service, EventPublisher.BroadcastToAll ile event yayınlar
//  3. Hub, event'i bağlı tüm admin client'larına iletir
//  4. Her client'ın WritePump'ı event'i WebSocket'e yazar
package ws

// Event, WebSocket üzerinden iletilen bir mesajı temsil eder.
//
// Seq her outbound event'te artar; panel eksik event'i seq boşluğundan anlar
// ve listeyi HTTP ile yeniden çeker.
type Event struct {
	Op   string `json:"op"`
	Data any    `json:"d,omitempty"`
	Seq  int64  `json:"seq,omitempty"`
}

// Client → Server
const (
	OpHeartbeat = "heartbeat" // Panel her 30sn'de gönderir
)

// Server → Client
const (
	OpReady             = "ready"
	OpHeartbeatAck      = "heartbeat_ack"
	OpOrderCreate       = "order_create"        // d: models.Order
	OpOrderStatusUpdate = "order_status_update" // d: OrderStatusData
	OpContactCreate     = "contact_create"      // d: models.ContactMessage
)

// ReadyData, bağlantı kurulunca gönderilen ilk event'in payload'ı.
type ReadyData struct {
	Actor string `json:"actor"`
}

// OrderStatusData, kargo durumu değiştiğinde gönderilir.
type OrderStatusData struct {
	OrderID string `json:"order_id"`
	Status  string `json:"status"`
}
