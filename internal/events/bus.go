package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const TopicOrders = "orders"

// OrderEvent is published whenever an order is created or changes
// status; the admin realtime feed streams these.
type OrderEvent struct {
	Type          string    `json:"type"` // "created" | "status_changed" | "payment"
	OrderID       uint      `json:"order_id"`
	OrderNo       string    `json:"order_no"`
	OrderStatus   string    `json:"order_status"`
	PaymentStatus string    `json:"payment_status"`
	At            time.Time `json:"at"`
}

// Bus wraps an in-process watermill Pub/Sub. The message API is kept so
// a broker-backed Pub/Sub can replace gochannel without touching callers.
type Bus struct {
	pubsub *gochannel.GoChannel
}

func NewBus() *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
		}, watermill.NewStdLogger(false, false)),
	}
}

func (b *Bus) PublishOrder(evt OrderEvent) error {
	evt.At = time.Now()
	payload, err := json.Marshal(evt)
	if err != nil {
		return err
	}
	return b.pubsub.Publish(TopicOrders, message.NewMessage(watermill.NewUUID(), payload))
}

// SubscribeOrders delivers order events until ctx is cancelled.
func (b *Bus) SubscribeOrders(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicOrders)
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
