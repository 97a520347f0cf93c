package bus

import (
	"time"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/agent"
)

// InboundMessage is a question arriving from an interaction channel.
type InboundMessage struct {
	Channel   string
	SenderID  string
	ChatID    string
	Content   string
	Timestamp time.Time
}

// SessionKey identifies the transcript this message belongs to.
func (m *InboundMessage) SessionKey() string {
	return m.Channel + ":" + m.ChatID
}

// OutboundMessage is an answer (or error text) going back to a channel.
type OutboundMessage struct {
	Channel string
	ChatID  string
	Content string
	// IsError marks inline configuration errors so channels can render
	// them distinctly from answers.
	IsError bool
	// Elapsed is how long the search took; zero when not applicable.
	Elapsed time.Duration
}

// StepEvent streams one intermediate reasoning step to the channel that
// asked the question, for live display only.
type StepEvent struct {
	Channel string
	ChatID  string
	Step    agent.Step
}
