package service

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const (
	// sessionIdleTimeout is how long a session may go without traffic before
	// the sweeper reaps it.
	sessionIdleTimeout   = 10 * time.Minute
	sessionSweepInterval = time.Minute
)

// HTTPTransport serves MCP over HTTP. JSON-RPC messages arrive as POST
// requests and streamed responses go out over Server-Sent Events. Each client
// is tracked as a session keyed by the X-MCP-Session-ID header. Idle sessions
// are reaped periodically so the session table stays bounded.
type HTTPTransport struct {
	addr         string
	server       *mcp.Server
	sessions     map[string]*httpSession
	sessionsMu   sync.RWMutex
	httpServer   *http.Server
	serverCtx    context.Context
	serverCancel context.CancelFunc
	serverOnceMu sync.Mutex
	serverOnce   map[string]*sync.Once
}

// httpSession holds the connection state of one HTTP client.
type httpSession struct {
	id       string
	conn     *httpConnection
	lastUsed time.Time
}

// httpConnection implements mcp.Connection over a pair of message channels.
type httpConnection struct {
	sessionID  string
	reqChan    chan jsonrpc.Message
	respChan   chan jsonrpc.Message
	closed     chan struct{}
	mu         sync.Mutex
	closedFlag bool
}

// NewHTTPTransportWithServer creates an HTTP transport bound to an MCP
// server. An empty addr binds to localhost:8081.
func NewHTTPTransportWithServer(addr string, server *mcp.Server) *HTTPTransport {
	if addr == "" {
		addr = "localhost:8081"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &HTTPTransport{
		addr:         addr,
		server:       server,
		sessions:     make(map[string]*httpSession),
		serverCtx:    ctx,
		serverCancel: cancel,
		serverOnce:   make(map[string]*sync.Once),
	}
}

// Connect implements mcp.Transport. It creates a session whose connection
// feeds off incoming HTTP requests.
func (t *HTTPTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	sessionID := generateSessionID()

	conn := &httpConnection{
		sessionID: sessionID,
		reqChan:   make(chan jsonrpc.Message, 10),
		respChan:  make(chan jsonrpc.Message, 10),
		closed:    make(chan struct{}),
	}

	t.sessionsMu.Lock()
	t.sessions[sessionID] = &httpSession{id: sessionID, conn: conn, lastUsed: time.Now()}
	t.sessionsMu.Unlock()

	return conn, nil
}

// Start runs the HTTP server until the context ends or the listener fails.
func (t *HTTPTransport) Start(ctx context.Context) error {
	t.serverCtx, t.serverCancel = context.WithCancel(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/mcp/messages", t.handleMessages)
	mux.HandleFunc("/mcp/sse", t.handleSSE)
	mux.HandleFunc("/mcp/health", t.handleHealth)

	t.httpServer = &http.Server{Addr: t.addr, Handler: mux}

	go t.sweepLoop(t.serverCtx)

	log.Printf("starting MCP HTTP server on %s", t.addr)

	errChan := make(chan error, 1)
	go func() {
		if err := t.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	select {
	case <-ctx.Done():
		log.Printf("shutting down MCP HTTP server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := t.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown HTTP server: %w", err)
		}
		if t.serverCancel != nil {
			t.serverCancel()
		}
		return nil
	case err := <-errChan:
		return fmt.Errorf("HTTP server error: %w", err)
	}
}

// sweepLoop reaps idle sessions until ctx ends.
func (t *HTTPTransport) sweepLoop(ctx context.Context) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			t.reapIdle(now)
		}
	}
}

// reapIdle closes and forgets every session idle longer than
// sessionIdleTimeout. Closing the connection ends the session's server loop
// and any attached SSE stream.
func (t *HTTPTransport) reapIdle(now time.Time) {
	cutoff := now.Add(-sessionIdleTimeout)

	t.sessionsMu.Lock()
	var idle []*httpSession
	for id, session := range t.sessions {
		if session.lastUsed.Before(cutoff) {
			idle = append(idle, session)
			delete(t.sessions, id)
		}
	}
	t.sessionsMu.Unlock()

	for _, session := range idle {
		_ = session.conn.Close()
		t.serverOnceMu.Lock()
		delete(t.serverOnce, session.id)
		t.serverOnceMu.Unlock()
		log.Printf("reaped idle MCP session %s", session.id)
	}
}

// touch records traffic on a session.
func (t *HTTPTransport) touch(session *httpSession) {
	t.sessionsMu.Lock()
	session.lastUsed = time.Now()
	t.sessionsMu.Unlock()
}

// session returns the session for id, or nil.
func (t *HTTPTransport) session(id string) *httpSession {
	if id == "" {
		return nil
	}
	t.sessionsMu.RLock()
	defer t.sessionsMu.RUnlock()
	return t.sessions[id]
}

// sessionFor resolves the session named by id, creating one when absent.
func (t *HTTPTransport) sessionFor(ctx context.Context, id string) (*httpSession, error) {
	if session := t.session(id); session != nil {
		return session, nil
	}
	conn, err := t.Connect(ctx)
	if err != nil {
		return nil, err
	}
	return t.session(conn.SessionID()), nil
}

// handleMessages handles POST /mcp/messages JSON-RPC requests.
func (t *HTTPTransport) handleMessages(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := t.sessionFor(r.Context(), r.Header.Get("X-MCP-Session-ID"))
	if err != nil {
		http.Error(w, fmt.Sprintf("create session: %v", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("X-MCP-Session-ID", session.id)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, fmt.Sprintf("read request: %v", err), http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	var msg jsonrpc.Message
	if err := json.Unmarshal(body, &msg); err != nil {
		http.Error(w, fmt.Sprintf("invalid JSON-RPC message: %v", err), http.StatusBadRequest)
		return
	}

	t.touch(session)
	t.ensureServerRunning(session)

	select {
	case session.conn.reqChan <- msg:
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
		return
	}

	// Notifications carry no ID and get no response body.
	isRequest := true
	switch v := msg.(type) {
	case *jsonrpc.Request:
		isRequest = v.ID != jsonrpc.ID{}
	case *jsonrpc.Response:
		http.Error(w, "invalid message type: response", http.StatusBadRequest)
		return
	}

	if !isRequest {
		w.WriteHeader(http.StatusNoContent)
		return
	}

	select {
	case resp := <-session.conn.respChan:
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			log.Printf("encode response: %v", err)
		}
	case <-r.Context().Done():
		http.Error(w, "request cancelled", http.StatusRequestTimeout)
	}
}

// handleSSE handles GET /mcp/sse streaming.
func (t *HTTPTransport) handleSSE(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	session, err := t.sessionFor(r.Context(), r.URL.Query().Get("session"))
	if err != nil {
		http.Error(w, fmt.Sprintf("create session: %v", err), http.StatusInternalServerError)
		return
	}
	t.touch(session)

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-MCP-Session-ID", session.id)

	if flusher, ok := w.(http.Flusher); ok {
		flusher.Flush()
	}

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-session.conn.closed:
			return
		case msg := <-session.conn.respChan:
			data, err := json.Marshal(msg)
			if err != nil {
				log.Printf("marshal SSE message: %v", err)
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", data)
			if flusher, ok := w.(http.Flusher); ok {
				flusher.Flush()
			}
		}
	}
}

// handleHealth handles GET /mcp/health.
func (t *HTTPTransport) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Read implements mcp.Connection.
func (c *httpConnection) Read(ctx context.Context) (jsonrpc.Message, error) {
	select {
	case msg := <-c.reqChan:
		return msg, nil
	case <-c.closed:
		return nil, fmt.Errorf("connection closed")
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Write implements mcp.Connection.
func (c *httpConnection) Write(ctx context.Context, msg jsonrpc.Message) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedFlag {
		return fmt.Errorf("connection closed")
	}

	select {
	case c.respChan <- msg:
		return nil
	case <-c.closed:
		return fmt.Errorf("connection closed")
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements mcp.Connection.
func (c *httpConnection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closedFlag {
		return nil
	}
	c.closedFlag = true
	close(c.closed)
	return nil
}

// SessionID implements mcp.Connection.
func (c *httpConnection) SessionID() string {
	return c.sessionID
}

// ensureServerRunning starts, once per session, a server loop that reads the
// session's request channel and writes its response channel.
func (t *HTTPTransport) ensureServerRunning(session *httpSession) {
	if t.server == nil {
		return
	}

	t.serverOnceMu.Lock()
	once, exists := t.serverOnce[session.id]
	if !exists {
		once = &sync.Once{}
		t.serverOnce[session.id] = once
	}
	t.serverOnceMu.Unlock()

	once.Do(func() {
		go func() {
			_ = t.server.Run(t.serverCtx, &sessionTransport{conn: session.conn})
		}()
	})
}

// sessionTransport hands an already established connection to Server.Run.
type sessionTransport struct {
	conn mcp.Connection
}

func (st *sessionTransport) Connect(ctx context.Context) (mcp.Connection, error) {
	return st.conn, nil
}

func generateSessionID() string {
	return fmt.Sprintf("session_%d", time.Now().UnixNano())
}
