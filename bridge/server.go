package bridge

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/opd-ai/calldetect"
	"github.com/opd-ai/calldetect/event"
	"github.com/opd-ai/calldetect/sim"
)

// sendQueueSize bounds the per-client outgoing message queue.
const sendQueueSize = 16

// wsClient is one connected WebSocket client. Only the writer goroutine
// writes to the connection; responses and events are queued on send.
type wsClient struct {
	send chan any
	done chan struct{}
}

// Server exposes a detector over HTTP and WebSocket. It subscribes to
// the detector's relay and pushes every published event to all
// connected clients.
type Server struct {
	detector *calldetect.Detector
	commands *CommandHandler

	mu      sync.RWMutex
	clients map[*wsClient]struct{}
	subs    []*event.Subscription
}

// NewServer creates a server for the given detector. phone and audio
// attach simulator controls for sim/* commands; both may be nil when
// the detector runs against real sources.
func NewServer(detector *calldetect.Detector, phone *sim.Telephony, audio *sim.AudioFocus) *Server {
	s := &Server{
		detector: detector,
		commands: NewCommandHandler(detector, phone, audio),
		clients:  make(map[*wsClient]struct{}),
	}

	relay := detector.Relay()
	s.subs = append(s.subs,
		relay.Subscribe(event.CategoryCall, s.broadcastEvent),
		relay.Subscribe(event.CategoryFocus, s.broadcastEvent),
	)

	return s
}

// Close removes the server's relay subscriptions. Connected clients
// stay open but stop receiving events.
func (s *Server) Close() {
	for _, sub := range s.subs {
		sub.Remove()
	}
}

// ClientCount reports the number of connected WebSocket clients.
func (s *Server) ClientCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.clients)
}

// broadcastEvent queues an event on every connected client. Slow
// clients have the event dropped rather than blocking the publisher.
func (s *Server) broadcastEvent(ev event.Event) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for c := range s.clients {
		select {
		case c.send <- ev:
		default:
			droppedMessages.Inc()
		}
	}
}

func (s *Server) addClient(c *wsClient) {
	s.mu.Lock()
	s.clients[c] = struct{}{}
	s.mu.Unlock()
	connectedClients.Inc()
}

func (s *Server) removeClient(c *wsClient) {
	s.mu.Lock()
	delete(s.clients, c)
	s.mu.Unlock()
	connectedClients.Dec()
}

// handleWebSocket upgrades the connection and serves commands until the
// client disconnects. A current status snapshot is pushed on connect.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := UpgradeConnection(w, r)
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "handleWebSocket",
			"error":    err,
		}).Error("WebSocket upgrade failed")
		return
	}

	client := &wsClient{
		send: make(chan any, sendQueueSize),
		done: make(chan struct{}),
	}
	s.addClient(client)

	logrus.WithFields(logrus.Fields{
		"function": "handleWebSocket",
		"remote":   r.RemoteAddr,
	}).Info("WebSocket client connected")

	go s.runClientWriter(conn, client)

	trySend(client.send, "status", BuildStatus(s.detector))

	s.runClientReader(conn, client)
}

// runClientWriter drains the send queue onto the connection. It is the
// sole writer to the connection.
func (s *Server) runClientWriter(conn *websocket.Conn, client *wsClient) {
	defer func() {
		if err := conn.Close(); err != nil {
			logrus.WithFields(logrus.Fields{
				"function": "runClientWriter",
				"error":    err,
			}).Debug("WebSocket close error")
		}
	}()

	for {
		select {
		case msg := <-client.send:
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-client.done:
			return
		}
	}
}

// runClientReader dispatches incoming commands until the connection
// fails, then unregisters the client.
func (s *Server) runClientReader(conn *websocket.Conn, client *wsClient) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithFields(logrus.Fields{
				"function": "runClientReader",
				"panic":    r,
			}).Error("Panic in WebSocket reader")
		}
		s.removeClient(client)
		close(client.done)
	}()

	for {
		var cmd Command
		if err := conn.ReadJSON(&cmd); err != nil {
			return
		}
		s.commands.Handle(cmd, client.send)
	}
}

// handleHealthz reports process liveness and listener state.
func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(map[string]any{
		"status":              "ok",
		"gsmListening":        s.detector.IsActive(),
		"audioFocusListening": s.detector.IsAudioFocusActive(),
	}); err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "handleHealthz",
			"error":    err,
		}).Error("Failed to encode health response")
	}
}

// Routes returns an http.Handler configured with the bridge endpoints.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWebSocket)
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", s.handleHealthz)
	return mux
}

// Start begins serving on addr.
// Returns an *http.Server that can be used for graceful shutdown.
func (s *Server) Start(addr string) *http.Server {
	logrus.WithFields(logrus.Fields{
		"function": "Start",
		"addr":     addr,
	}).Info("Starting bridge server")

	srv := &http.Server{
		Addr:    addr,
		Handler: s.Routes(),
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.WithFields(logrus.Fields{
				"function": "Start",
				"error":    err,
			}).Error("HTTP server error")
		}
	}()

	return srv
}
