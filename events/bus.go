// Package events carries change notifications from the conversation
// store to whatever front end is observing it, over an in-process
// watermill pub/sub.
package events

import (
	"context"
	"encoding/json"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/rs/zerolog"
)

// TopicConversationChanged carries ConversationChanged payloads.
const TopicConversationChanged = "chat.conversation-changed"

// ConversationChanged is published after every store mutation. Op
// names the operation ("create", "append", "edit", ...); the id is
// empty for collection-wide operations.
type ConversationChanged struct {
	ConversationID string `json:"conversationId"`
	Op             string `json:"op"`
}

// Bus is an in-process event bus. Publishing is fire-and-forget:
// failures are logged and dropped, never surfaced to the store.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    zerolog.Logger
}

// NewBus creates a bus with an in-memory gochannel transport.
func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		// Buffered so publishing never blocks a store mutation on a
		// slow subscriber
		pubsub: gochannel.NewGoChannel(gochannel.Config{OutputChannelBuffer: 64}, watermill.NopLogger{}),
		log:    log,
	}
}

// ConversationChanged publishes a change notification. Satisfies the
// store's Notifier interface.
func (b *Bus) ConversationChanged(conversationID, op string) {
	payload, err := json.Marshal(ConversationChanged{ConversationID: conversationID, Op: op})
	if err != nil {
		b.log.Warn().Err(err).Msg("failed to serialize change event")
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := b.pubsub.Publish(TopicConversationChanged, msg); err != nil {
		b.log.Warn().Err(err).Str("op", op).Msg("failed to publish change event")
	}
}

// Subscribe returns the stream of change notifications. The channel
// closes when ctx is cancelled or the bus is closed.
func (b *Bus) Subscribe(ctx context.Context) (<-chan *message.Message, error) {
	return b.pubsub.Subscribe(ctx, TopicConversationChanged)
}

// Close shuts the transport down.
func (b *Bus) Close() error {
	return b.pubsub.Close()
}
