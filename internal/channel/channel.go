package channel

import (
	"context"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/bus"
)

// Channel is one interaction surface the assistant can be reached on.
type Channel interface {
	Name() string
	Start(ctx context.Context) error
	Stop() error
	Send(msg bus.OutboundMessage) error
}

// StepSender is implemented by channels that can display intermediate
// reasoning steps live; others only ever see final answers.
type StepSender interface {
	SendStep(ev bus.StepEvent) error
}

// BaseChannel carries the shared identity and sender allow-list handling.
type BaseChannel struct {
	name      string
	bus       *bus.MessageBus
	allowFrom map[string]bool
}

// NewBaseChannel builds the common channel state. An empty allowFrom list
// means everyone is allowed.
func NewBaseChannel(name string, b *bus.MessageBus, allowFrom []string) BaseChannel {
	allowed := make(map[string]bool, len(allowFrom))
	for _, id := range allowFrom {
		allowed[id] = true
	}
	return BaseChannel{name: name, bus: b, allowFrom: allowed}
}

func (c *BaseChannel) Name() string {
	return c.name
}

// IsAllowed reports whether senderID may talk to the assistant.
func (c *BaseChannel) IsAllowed(senderID string) bool {
	if len(c.allowFrom) == 0 {
		return true
	}
	return c.allowFrom[senderID]
}
