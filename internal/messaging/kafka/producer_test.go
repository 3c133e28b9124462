package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladislavdragonenkov/cartstore/internal/domain"
)

func TestProducer_PublishEvent(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer)

	mockProducer.ExpectSendMessageWithCheckerFunctionAndSucceed(func(val []byte) error {
		var event CartEvent
		if err := json.Unmarshal(val, &event); err != nil {
			return err
		}
		if event.ProductID != 3 {
			return errors.New("unexpected product id")
		}
		return nil
	})

	err := producer.PublishEvent(TopicCartNotifications, "cart", CartEvent{ProductID: 3})
	require.NoError(t, err)
	require.NoError(t, producer.Close())
}

func TestProducer_PublishEvent_Error(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer)

	mockProducer.ExpectSendMessageAndFail(sarama.ErrOutOfBrokers)

	err := producer.PublishEvent(TopicCartNotifications, "cart", CartEvent{})
	require.ErrorIs(t, err, sarama.ErrOutOfBrokers)
	require.NoError(t, producer.Close())
}

func TestProducer_PublishEvent_MarshalError(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	producer := NewProducerFromSync(mockProducer)

	err := producer.PublishEvent(TopicCartNotifications, "cart", make(chan int))
	require.Error(t, err)
	require.NoError(t, producer.Close())
}

func TestNewProducer_NoBrokers(t *testing.T) {
	_, err := NewProducer(nil, "cartstore")
	require.Error(t, err)
}

func TestNewCartEvent(t *testing.T) {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

	ok := NewCartEvent("@RocketShoes:cart", domain.Notification{
		ID: "n-1", Kind: domain.KindAdded, Operation: domain.OperationAdd, ProductID: 4, Amount: 2, Message: "Added!", At: at,
	})
	assert.Equal(t, EventTypeCartChanged, ok.EventType)
	assert.Equal(t, "add", ok.Operation)
	assert.Equal(t, "added", ok.Outcome)
	assert.Equal(t, at, ok.Timestamp)
	assert.Equal(t, 2, ok.Amount)

	rejected := NewCartEvent("k", domain.Notification{Kind: domain.KindOutOfStock, Operation: domain.OperationUpdate})
	assert.Equal(t, EventTypeCartRejected, rejected.EventType)
	assert.False(t, rejected.Timestamp.IsZero())
}

type recordingPublisher struct {
	topic string
	key   string
	event any
	err   error
}

func (r *recordingPublisher) PublishEvent(topic, key string, event any) error {
	r.topic, r.key, r.event = topic, key, event
	return r.err
}

func TestNotifier_Notify(t *testing.T) {
	pub := &recordingPublisher{}
	notifier := NewNotifier(pub, "", "cart-key", nil)

	notifier.Notify(context.Background(), domain.Notification{ID: "n-2", Kind: domain.KindRemoved, Operation: domain.OperationRemove, ProductID: 9})

	assert.Equal(t, TopicCartNotifications, pub.topic)
	assert.Equal(t, "cart-key", pub.key)
	event, ok := pub.event.(CartEvent)
	require.True(t, ok)
	assert.Equal(t, "n-2", event.NotificationID)
	assert.Equal(t, int64(9), event.ProductID)
}

func TestNotifier_SwallowsPublishErrors(t *testing.T) {
	mockProducer := mocks.NewSyncProducer(t, nil)
	mockProducer.ExpectSendMessageAndFail(sarama.ErrNotConnected)
	notifier := NewNotifier(NewProducerFromSync(mockProducer), "custom.topic", "k", nil)

	assert.NotPanics(t, func() {
		notifier.Notify(context.Background(), domain.Notification{Kind: domain.KindAddFailed})
	})
	require.NoError(t, mockProducer.Close())
}
