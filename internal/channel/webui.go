package channel

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/google/uuid"

	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/bus"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/config"
	"github.com/Varun2010080023/Lang-chain-Search-engine/internal/session"
)

//go:embed static
var staticFiles embed.FS

const webUIChannelName = "webui"

// wsMessage is the wire format between the page and the gateway. Type is
// one of "message", "step", "error".
type wsMessage struct {
	Type        string `json:"type"`
	Role        string `json:"role,omitempty"`
	Content     string `json:"content,omitempty"`
	Thought     string `json:"thought,omitempty"`
	Tool        string `json:"tool,omitempty"`
	ToolInput   string `json:"toolInput,omitempty"`
	Observation string `json:"observation,omitempty"`
	Elapsed     string `json:"elapsed,omitempty"`
}

type wsClient struct {
	conn *websocket.Conn
	id   string
}

// WebUIChannel serves the embedded single-page chat and relays questions,
// live reasoning steps, and answers over a websocket.
type WebUIChannel struct {
	BaseChannel
	port    int
	server  *http.Server
	clients sync.Map
}

func NewWebUIChannel(cfg config.WebUIConfig, gwCfg config.GatewayConfig, b *bus.MessageBus) (*WebUIChannel, error) {
	port := gwCfg.Port
	if port == 0 {
		port = config.DefaultPort
	}

	ch := &WebUIChannel{
		BaseChannel: NewBaseChannel(webUIChannelName, b, cfg.AllowFrom),
		port:        port,
	}
	return ch, nil
}

func (w *WebUIChannel) Start(ctx context.Context) error {
	staticFS, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return fmt.Errorf("embed static fs: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/", http.FileServer(http.FS(staticFS)))
	mux.HandleFunc("/ws", w.handleWS)

	w.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", w.port),
		Handler: mux,
	}

	go func() {
		log.Printf("[webui] listening on :%d", w.port)
		if err := w.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("[webui] server error: %v", err)
		}
	}()

	return nil
}

func (w *WebUIChannel) handleWS(wr http.ResponseWriter, r *http.Request) {
	// Client IDs are generated per connection, so the allow-list is keyed
	// on the remote host instead.
	if !w.IsAllowed(remoteHost(r.RemoteAddr)) {
		log.Printf("[webui] rejected connection from %s", r.RemoteAddr)
		http.Error(wr, "forbidden", http.StatusForbidden)
		return
	}

	conn, err := websocket.Accept(wr, r, &websocket.AcceptOptions{
		InsecureSkipVerify: true,
	})
	if err != nil {
		log.Printf("[webui] websocket accept error: %v", err)
		return
	}

	clientID := "webui-" + uuid.NewString()
	client := &wsClient{conn: conn, id: clientID}
	w.clients.Store(clientID, client)
	log.Printf("[webui] client connected: %s", clientID)

	// Every fresh session opens with the assistant greeting.
	w.writeTo(client, wsMessage{Type: "message", Role: "assistant", Content: session.Greeting})

	defer func() {
		w.clients.Delete(clientID)
		conn.CloseNow()
		log.Printf("[webui] client disconnected: %s", clientID)
	}()

	for {
		_, data, err := conn.Read(r.Context())
		if err != nil {
			return
		}

		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}

		if msg.Type != "message" || msg.Content == "" {
			continue
		}

		w.bus.Inbound <- bus.InboundMessage{
			Channel:   webUIChannelName,
			SenderID:  clientID,
			ChatID:    clientID,
			Content:   msg.Content,
			Timestamp: time.Now(),
		}
	}
}

// Send delivers a final answer (or inline error) to the asking client, or
// broadcasts when no specific target is known.
func (w *WebUIChannel) Send(msg bus.OutboundMessage) error {
	out := wsMessage{Type: "message", Role: "assistant", Content: msg.Content}
	if msg.IsError {
		out.Type = "error"
	}
	if msg.Elapsed > 0 {
		out.Elapsed = fmt.Sprintf("%.2fs", msg.Elapsed.Seconds())
	}

	client, ok := w.clients.Load(msg.ChatID)
	if !ok {
		w.clients.Range(func(key, value any) bool {
			w.writeTo(value.(*wsClient), out)
			return true
		})
		return nil
	}
	return w.writeTo(client.(*wsClient), out)
}

// SendStep streams one intermediate reasoning step to the asking client.
func (w *WebUIChannel) SendStep(ev bus.StepEvent) error {
	client, ok := w.clients.Load(ev.ChatID)
	if !ok {
		return nil
	}
	return w.writeTo(client.(*wsClient), wsMessage{
		Type:        "step",
		Thought:     ev.Step.Thought,
		Tool:        ev.Step.Tool,
		ToolInput:   ev.Step.ToolInput,
		Observation: ev.Step.Observation,
	})
}

func remoteHost(addr string) string {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

func (w *WebUIChannel) writeTo(c *wsClient, msg wsMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return c.conn.Write(ctx, websocket.MessageText, data)
}

func (w *WebUIChannel) Stop() error {
	if w.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := w.server.Shutdown(ctx); err != nil {
			log.Printf("[webui] shutdown error: %v", err)
		}
	}
	w.clients.Range(func(key, value any) bool {
		value.(*wsClient).conn.CloseNow()
		return true
	})
	log.Printf("[webui] stopped")
	return nil
}
