package bus

import (
	"context"
	"log"
	"sync"
)

// MessageBus decouples the gateway from the interaction channels. Questions
// flow in on Inbound; answers and live reasoning steps flow out to per-channel
// subscribers.
type MessageBus struct {
	Inbound  chan InboundMessage
	Outbound chan OutboundMessage
	Steps    chan StepEvent

	mu          sync.RWMutex
	outboundSub map[string]func(OutboundMessage)
	stepSub     map[string]func(StepEvent)
}

// NewMessageBus creates a bus with the given channel buffer size.
func NewMessageBus(bufSize int) *MessageBus {
	return &MessageBus{
		Inbound:     make(chan InboundMessage, bufSize),
		Outbound:    make(chan OutboundMessage, bufSize),
		Steps:       make(chan StepEvent, bufSize),
		outboundSub: make(map[string]func(OutboundMessage)),
		stepSub:     make(map[string]func(StepEvent)),
	}
}

// SubscribeOutbound registers the handler for answers addressed to channel.
func (b *MessageBus) SubscribeOutbound(channel string, fn func(OutboundMessage)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.outboundSub[channel] = fn
}

// SubscribeSteps registers the handler for step events addressed to channel.
// Channels that cannot display intermediate steps simply never subscribe.
func (b *MessageBus) SubscribeSteps(channel string, fn func(StepEvent)) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.stepSub[channel] = fn
}

// DispatchOutbound delivers outbound messages and step events to their
// channel's subscriber until ctx is cancelled. Run it in its own goroutine.
func (b *MessageBus) DispatchOutbound(ctx context.Context) {
	for {
		select {
		case msg := <-b.Outbound:
			b.mu.RLock()
			fn := b.outboundSub[msg.Channel]
			b.mu.RUnlock()
			if fn == nil {
				log.Printf("[bus] no outbound subscriber for %s, dropping message", msg.Channel)
				continue
			}
			fn(msg)
		case ev := <-b.Steps:
			b.mu.RLock()
			fn := b.stepSub[ev.Channel]
			b.mu.RUnlock()
			if fn != nil {
				fn(ev)
			}
		case <-ctx.Done():
			return
		}
	}
}
