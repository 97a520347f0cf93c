package gateway

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/agent"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/bus"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/channel"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/llm"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/session"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/tools"
)

// fallbackAnswer is shown when the reasoning loop fails mid-question.
const fallbackAnswer = "I encountered an issue while searching for information. This might be due to tool errors or complexity in the question. Could you try rephrasing your question or selecting different search tools?"

// Runner answers one question, reporting each reasoning step through the
// callback it was built with.
type Runner interface {
	Run(ctx context.Context, question string) (string, []agent.Step, error)
}

// RunnerFactory creates a Runner instance (allows mocking in tests).
type RunnerFactory func(cfg *config.Config, onStep func(agent.Step)) (Runner, error)

// Options for creating a Gateway
type Options struct {
	RunnerFactory RunnerFactory
	SignalChan    chan os.Signal // for testing signal handling
}

// DefaultRunnerFactory wires the configured model provider and the enabled
// search tools into a fresh reasoning loop.
func DefaultRunnerFactory(cfg *config.Config, onStep func(agent.Step)) (Runner, error) {
	if strings.TrimSpace(cfg.Provider.APIKey) == "" {
		return nil, &agent.ConfigurationError{Reason: "no model credential supplied"}
	}
	completer, err := llm.NewFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	registry := tools.NewRegistry(cfg.Tools)
	a, err := agent.New(agent.Options{
		Completer:     completer,
		Registry:      registry,
		MaxIterations: cfg.Agent.MaxIterations,
		Temperature:   cfg.Agent.Temperature,
		MaxTokens:     cfg.Agent.MaxTokens,
		OnStep:        onStep,
	})
	if err != nil {
		return nil, err
	}
	return a, nil
}

// Gateway connects the interaction channels to the reasoning loop. Each chat
// gets its own transcript; each question gets a fresh loop.
type Gateway struct {
	cfg           *config.Config
	bus           *bus.MessageBus
	channels      *channel.ChannelManager
	sessions      *session.Store
	runnerFactory RunnerFactory
	signalChan    chan os.Signal // for testing
}

// New creates a Gateway with default options
func New(cfg *config.Config) (*Gateway, error) {
	return NewWithOptions(cfg, Options{})
}

// NewWithOptions creates a Gateway with custom options for testing
func NewWithOptions(cfg *config.Config, opts Options) (*Gateway, error) {
	g := &Gateway{
		cfg:           cfg,
		bus:           bus.NewMessageBus(config.DefaultBufSize),
		sessions:      session.NewStore(),
		runnerFactory: opts.RunnerFactory,
		signalChan:    opts.SignalChan,
	}
	if g.runnerFactory == nil {
		g.runnerFactory = DefaultRunnerFactory
	}

	chMgr, err := channel.NewChannelManager(cfg.Channels, cfg.Gateway, g.bus)
	if err != nil {
		return nil, fmt.Errorf("create channel manager: %w", err)
	}
	g.channels = chMgr

	return g, nil
}

// Bus exposes the message bus, mainly for tests.
func (g *Gateway) Bus() *bus.MessageBus {
	return g.bus
}

func (g *Gateway) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go g.bus.DispatchOutbound(ctx)

	if err := g.channels.StartAll(ctx); err != nil {
		return fmt.Errorf("start channels: %w", err)
	}
	log.Printf("[gateway] channels started: %v", g.channels.EnabledChannels())

	go g.processLoop(ctx)

	log.Printf("[gateway] running on %s:%d", g.cfg.Gateway.Host, g.cfg.Gateway.Port)

	// Use injected signal channel for testing, or create default
	sigCh := g.signalChan
	if sigCh == nil {
		sigCh = make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	}
	<-sigCh

	log.Printf("[gateway] shutting down...")
	return g.Shutdown()
}

func (g *Gateway) processLoop(ctx context.Context) {
	for {
		select {
		case msg := <-g.bus.Inbound:
			log.Printf("[gateway] inbound from %s/%s: %s", msg.Channel, msg.SenderID, truncate(msg.Content, 80))
			g.handleQuestion(ctx, msg)
		case <-ctx.Done():
			return
		}
	}
}

// handleQuestion runs one question through the reasoning loop and publishes
// the answer. The transcript keeps the full conversation; the loop itself
// only ever sees the latest question.
func (g *Gateway) handleQuestion(ctx context.Context, msg bus.InboundMessage) {
	transcript := g.sessions.Get(msg.SessionKey())
	transcript.Append(session.RoleUser, msg.Content)

	onStep := func(s agent.Step) {
		g.bus.Steps <- bus.StepEvent{Channel: msg.Channel, ChatID: msg.ChatID, Step: s}
	}

	runner, err := g.runnerFactory(g.cfg, onStep)
	if err != nil {
		log.Printf("[gateway] runner setup error: %v", err)
		g.bus.Outbound <- bus.OutboundMessage{
			Channel: msg.Channel,
			ChatID:  msg.ChatID,
			Content: setupErrorMessage(err),
			IsError: true,
		}
		return
	}

	start := time.Now()
	answer, _, err := runner.Run(ctx, msg.Content)
	elapsed := time.Since(start)
	if err != nil {
		log.Printf("[gateway] agent error: %v", err)
		answer = fallbackAnswer
	}

	transcript.Append(session.RoleAssistant, answer)

	g.bus.Outbound <- bus.OutboundMessage{
		Channel: msg.Channel,
		ChatID:  msg.ChatID,
		Content: answer,
		Elapsed: elapsed,
	}
}

// setupErrorMessage translates setup failures into user-facing guidance.
func setupErrorMessage(err error) string {
	var cfgErr *agent.ConfigurationError
	if errors.As(err, &cfgErr) {
		return "Cannot start the search: " + cfgErr.Reason + "."
	}
	return "Cannot start the search: " + err.Error()
}

func (g *Gateway) Shutdown() error {
	_ = g.channels.StopAll()
	log.Printf("[gateway] shutdown complete")
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
