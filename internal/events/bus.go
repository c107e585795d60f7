// Package events fans interaction state changes out to interested parties
// (the WebSocket hub) over an in-process watermill pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"go.uber.org/zap"

	"paige/internal/interaction"
)

const TopicState = "interaction.state"

// Bus implements interaction.Notifier. Delivery order between messages is not
// guaranteed; subscribers compare State.Version to discard stale snapshots.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    *zap.Logger
}

func NewBus(log *zap.Logger) *Bus {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.With(zap.String("component", "events"))
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, NewWatermillLogger(log)),
		log:    log,
	}
}

func (b *Bus) Publish(s interaction.State) {
	payload, err := json.Marshal(s)
	if err != nil {
		b.log.Error("failed to encode state", zap.Error(err))
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicState, msg); err != nil {
		b.log.Warn("failed to publish state", zap.Error(err), zap.Uint64("version", s.Version))
	}
}

// Subscribe streams encoded states until ctx is done or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan []byte, error) {
	msgs, err := b.pubsub.Subscribe(ctx, TopicState)
	if err != nil {
		return nil, fmt.Errorf("subscribe %s: %w", TopicState, err)
	}
	out := make(chan []byte, 16)
	go func() {
		defer close(out)
		for msg := range msgs {
			payload := msg.Payload
			msg.Ack()
			select {
			case out <- payload:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
