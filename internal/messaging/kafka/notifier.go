package kafka

import (
	"context"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

// Notifier публикует уведомления корзины в Kafka. Ошибки публикации
// логируются и не возвращаются вызывающему.
type Notifier struct {
	publisher Publisher
	topic     string
	cartKey   string
	logger    *log.Entry
}

// NewNotifier создаёт Notifier. Пустой topic заменяется на TopicCartNotifications.
func NewNotifier(publisher Publisher, topic, cartKey string, logger *log.Entry) *Notifier {
	if topic == "" {
		topic = TopicCartNotifications
	}
	if logger == nil {
		logger = log.WithField("component", "kafka-notifier")
	}
	return &Notifier{publisher: publisher, topic: topic, cartKey: cartKey, logger: logger}
}

// Notify отправляет событие; ключ сообщения — ключ корзины, чтобы события
// одной корзины попадали в одну партицию.
func (n *Notifier) Notify(_ context.Context, notification domain.Notification) {
	event := NewCartEvent(n.cartKey, notification)
	if err := n.publisher.PublishEvent(n.topic, n.cartKey, event); err != nil {
		n.logger.WithError(err).WithFields(log.Fields{
			"topic":           n.topic,
			"notification_id": notification.ID,
		}).Warn("failed to publish cart notification")
	}
}

var _ domain.Notifier = (*Notifier)(nil)
