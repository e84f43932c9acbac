package channel

import (
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"

	"github.com/asdevv/funai/chat"
	"github.com/asdevv/funai/logger"
	"github.com/asdevv/funai/transcript"
)

const (
	webMaxFormBytes    = 64 << 10
	webShutdownTimeout = 5 * time.Second
	webGenericError    = "Unexpected Server Error"
)

//go:embed web/index.html
var webFS embed.FS

var indexTemplate = template.Must(template.ParseFS(webFS, "web/index.html"))

// WebConfig configures the web channel.
type WebConfig struct {
	Addr      string
	Title     string
	Model     string // shown in the page badge
	Submitter Submitter
}

// WebChannel serves the chat page, the form submission endpoint and a websocket transport.
type WebChannel struct {
	cfg      WebConfig
	server   *http.Server
	listener net.Listener
	done     chan struct{}
	stopOnce sync.Once
}

// NewWebChannel creates a web channel. Call Start to begin listening.
func NewWebChannel(cfg WebConfig) *WebChannel {
	c := &WebChannel{cfg: cfg, done: make(chan struct{})}
	c.server = &http.Server{
		Handler:           c.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return c
}

func (c *WebChannel) Name() string { return "web" }

// Handler returns the HTTP routes of the channel.
func (c *WebChannel) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", c.handleIndex)
	mux.HandleFunc("POST /{$}", c.handleSubmit)
	mux.HandleFunc("GET /ws", c.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})
	return mux
}

// Start listens on the configured address and serves in the background.
func (c *WebChannel) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", c.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", c.cfg.Addr, err)
	}
	c.listener = ln

	go func() {
		if err := c.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("web server error", "err", err)
		}
		c.stopOnce.Do(func() { close(c.done) })
	}()

	logger.Info("web channel started", "addr", ln.Addr().String())
	return nil
}

// Addr returns the bound address once started.
func (c *WebChannel) Addr() string {
	if c.listener == nil {
		return c.cfg.Addr
	}
	return c.listener.Addr().String()
}

// Stop shuts the server down, waiting for in-flight requests.
func (c *WebChannel) Stop() error {
	ctx, cancel := context.WithTimeout(context.Background(), webShutdownTimeout)
	defer cancel()
	err := c.server.Shutdown(ctx)
	c.stopOnce.Do(func() { close(c.done) })
	logger.Info("web channel stopped")
	return err
}

func (c *WebChannel) Done() <-chan struct{} { return c.done }

func (c *WebChannel) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	data := struct {
		Title string
		Model string
	}{Title: c.cfg.Title, Model: c.cfg.Model}
	if err := indexTemplate.Execute(w, data); err != nil {
		logger.Error("render index failed", "err", err)
	}
}

type submitResponse struct {
	Data chat.Result `json:"data"`
}

func (c *WebChannel) handleSubmit(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, webMaxFormBytes)
	if err := r.ParseForm(); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("web submit rejected", "channel", "web", "reason", "body too large", "limit", tooLarge.Limit)
			http.Error(w, "Prompt Too Large", http.StatusRequestEntityTooLarge)
			return
		}
		logger.Warn("web submit rejected", "channel", "web", "err", err)
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	message := r.PostFormValue("message")
	reqID := uuid.NewString()
	logger.Debug("web submit received", "requestId", reqID, "promptChars", len(message))

	res, err := c.cfg.Submitter.Submit(r.Context(), message)
	if err != nil {
		logger.Error("web submit failed", "channel", "web", "requestId", reqID, "err", err)
		http.Error(w, webGenericError, http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, submitResponse{Data: res})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn("write json failed", "err", err)
	}
}

// wsFrame is the single message shape used in both directions on /ws.
type wsFrame struct {
	Type    string           `json:"type"`
	Message string           `json:"message,omitempty"`
	Turn    *transcript.Turn `json:"turn,omitempty"`
	State   string           `json:"state,omitempty"`
	Data    *chat.Result     `json:"data,omitempty"`
	Error   string           `json:"error,omitempty"`
}

const (
	frameSubmit = "submit"
	frameTurn   = "turn"
	frameStatus = "status"
	frameResult = "result"
	frameError  = "error"
)

func (c *WebChannel) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		logger.Warn("websocket accept failed", "err", err)
		return
	}
	defer conn.CloseNow()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	s := &wsSession{id: uuid.NewString(), conn: conn, submitter: c.cfg.Submitter, view: transcript.NewView()}
	logger.Info("websocket connected", "session", s.id)
	s.view.OnAppend(func(_ int, turn transcript.Turn) {
		s.send(ctx, wsFrame{Type: frameTurn, Turn: &turn})
	})
	s.run(ctx)
	cancel()
	s.wg.Wait()
	conn.Close(websocket.StatusNormalClosure, "")
	logger.Info("websocket closed", "session", s.id, "turns", s.view.Len())
}

// wsSession owns one connection's transcript. The transcript lives as long as the connection.
type wsSession struct {
	id        string
	conn      *websocket.Conn
	submitter Submitter
	view      *transcript.View
	mu        sync.Mutex
	wg        sync.WaitGroup
}

func (s *wsSession) run(ctx context.Context) {
	for {
		var in wsFrame
		if err := wsjson.Read(ctx, s.conn, &in); err != nil {
			if status := websocket.CloseStatus(err); status != websocket.StatusNormalClosure && status != websocket.StatusGoingAway {
				logger.Debug("websocket read ended", "session", s.id, "err", err)
			}
			return
		}
		if in.Type != frameSubmit {
			s.send(ctx, wsFrame{Type: frameError, Error: "unknown frame type: " + in.Type})
			continue
		}
		s.submit(ctx, in.Message)
	}
}

func (s *wsSession) submit(ctx context.Context, message string) {
	if message == "" {
		empty := chat.Result{Agent: chat.AgentAI}
		s.send(ctx, wsFrame{Type: frameResult, Data: &empty})
		return
	}

	// each view transition and the frames it produces are written as one unit
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.view.Begin(message); err != nil {
		s.send(ctx, wsFrame{Type: frameError, Error: err.Error()})
		return
	}
	s.send(ctx, wsFrame{Type: frameStatus, State: transcript.StateSubmitting.String()})

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		res, err := s.submitter.Submit(ctx, message)

		s.mu.Lock()
		defer s.mu.Unlock()
		if err != nil {
			logger.Error("websocket submit failed", "channel", "web", "session", s.id, "err", err)
			_ = s.view.Fail()
			s.send(ctx, wsFrame{Type: frameError, Error: webGenericError})
			s.send(ctx, wsFrame{Type: frameStatus, State: transcript.StateIdle.String()})
			return
		}
		_, _ = s.view.Complete(res.Content)
		s.send(ctx, wsFrame{Type: frameResult, Data: &res})
		s.send(ctx, wsFrame{Type: frameStatus, State: transcript.StateIdle.String()})
	}()
}

func (s *wsSession) send(ctx context.Context, f wsFrame) {
	if err := wsjson.Write(ctx, s.conn, f); err != nil {
		logger.Debug("websocket write failed", "type", f.Type, "err", err)
	}
}
