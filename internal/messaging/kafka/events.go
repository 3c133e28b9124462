package kafka

import (
	"time"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

// TopicCartNotifications — топик с исходами операций над корзиной.
const TopicCartNotifications = "cart.notifications"

// EventType определяет тип события.
type EventType string

const (
	EventTypeCartChanged  EventType = "cart.changed"
	EventTypeCartRejected EventType = "cart.rejected"
)

// CartEvent — сообщение, публикуемое после каждой операции над корзиной.
type CartEvent struct {
	EventType      EventType `json:"event_type"`
	NotificationID string    `json:"notification_id"`
	CartKey        string    `json:"cart_key"`
	Operation      string    `json:"operation"`
	Outcome        string    `json:"outcome"`
	ProductID      int64     `json:"product_id"`
	Amount         int       `json:"amount,omitempty"`
	Message        string    `json:"message"`
	Timestamp      time.Time `json:"timestamp"`
}

// NewCartEvent строит событие из уведомления.
func NewCartEvent(cartKey string, n domain.Notification) CartEvent {
	eventType := EventTypeCartChanged
	if n.Kind.IsFailure() {
		eventType = EventTypeCartRejected
	}
	ts := n.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return CartEvent{
		EventType:      eventType,
		NotificationID: n.ID,
		CartKey:        cartKey,
		Operation:      string(n.Operation),
		Outcome:        string(n.Kind),
		ProductID:      n.ProductID,
		Amount:         n.Amount,
		Message:        n.Message,
		Timestamp:      ts,
	}
}
