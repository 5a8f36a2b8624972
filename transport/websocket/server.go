package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rounds/internal/entity"
)

const shutdownTimeout = 5 * time.Second

type sessionUseCase interface {
	CreateSession(ctx context.Context) (*entity.Session, error)
	GetSession(ctx context.Context, id string) (*entity.Session, error)
	MakeTurn(ctx context.Context, id string, cell int) (*entity.Session, bool, error)
	RestartRound(ctx context.Context, id string, starting entity.Player) (*entity.Session, error)
	ResetScores(ctx context.Context, id string) (*entity.Session, error)
}

type Server struct {
	logger   *slog.Logger
	sessions sessionUseCase
	upgrader websocket.Upgrader

	handlers map[string]func(ctx context.Context, msg *Message, c *client) error

	subscribersMutex sync.RWMutex
	subscribers      map[string]map[*client]struct{}
}

func New(logger *slog.Logger, sessions sessionUseCase) *Server {
	server := &Server{
		logger:   logger.With("component", "websocket"),
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(*http.Request) bool {
				return true
			},
		},

		handlers:    make(map[string]func(context.Context, *Message, *client) error),
		subscribers: make(map[string]map[*client]struct{}),
	}

	server.handlers[actionSessionNew] = server.handleNewSession
	server.handlers[actionSessionConnect] = server.handleConnect
	server.handlers[actionGameTurn] = server.handleGameTurn
	server.handlers[actionGameRestart] = server.handleGameRestart
	server.handlers[actionGameReset] = server.handleGameReset

	return server
}

// Start - starts WebSocket server on /ws until ctx is canceled.
func (that *Server) Start(ctx context.Context, port string) error {
	mux := http.NewServeMux()
	mux.Handle("/ws", that)

	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		_ = srv.Shutdown(shutdownCtx)
	}()

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("failed to start server: %w", err)
	}

	return nil
}

// ServeHTTP - upgrades the connection to WebSocket and serves it until the client leaves.
func (that *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := that.logger.With("method", "ServeHTTP")

	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("failed to upgrade connection", "error", err)
		return
	}

	c := newClient(conn)
	defer that.disconnect(c)

	log.Info("WebSocket connection established")

	that.handleMessages(r.Context(), c)
}

// handleMessages - processes messages from the client.
func (that *Server) handleMessages(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleMessages")

	done := make(chan struct{})
	defer close(done)

	go that.keepAlive(c, done)

	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Error("error reading message", "error", err)
			}

			return
		}

		var message Message
		if err = json.Unmarshal(data, &message); err != nil {
			log.Warn("failed to unmarshal message", "error", err)

			if err = that.sendError(c, actionError, "malformed message"); err != nil {
				log.Error("failed to send error", "error", err)
			}

			continue
		}

		handler, ok := that.handlers[message.Action]
		if !ok {
			log.Warn("unknown action", "action", message.Action)

			if err = that.sendError(c, message.Action, "unknown action"); err != nil {
				log.Error("failed to send error", "error", err)
			}

			continue
		}

		if err = handler(ctx, &message, c); err != nil {
			log.Error("error processing message", "action", message.Action, "error", err)
		}
	}
}

func (that *Server) keepAlive(c *client, done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				that.logger.Debug("failed to send ping", "error", err)
				return
			}
		}
	}
}

func (that *Server) subscribe(sessionID string, c *client) {
	that.subscribersMutex.Lock()
	defer that.subscribersMutex.Unlock()

	watchers, ok := that.subscribers[sessionID]
	if !ok {
		watchers = make(map[*client]struct{})
		that.subscribers[sessionID] = watchers
	}

	watchers[c] = struct{}{}
	c.sessions[sessionID] = struct{}{}
}

func (that *Server) disconnect(c *client) {
	that.subscribersMutex.Lock()
	for sessionID := range c.sessions {
		delete(that.subscribers[sessionID], c)

		if len(that.subscribers[sessionID]) == 0 {
			delete(that.subscribers, sessionID)
		}
	}
	that.subscribersMutex.Unlock()

	_ = c.conn.Close()

	that.logger.Info("WebSocket connection closed")
}

// broadcast - sends the session update to every other connection watching it.
func (that *Server) broadcast(session *entity.Session, from *client) {
	log := that.logger.With("method", "broadcast", "sessionID", session.ID)

	that.subscribersMutex.RLock()
	watchers := make([]*client, 0, len(that.subscribers[session.ID]))
	for c := range that.subscribers[session.ID] {
		if c != from {
			watchers = append(watchers, c)
		}
	}
	that.subscribersMutex.RUnlock()

	payload := newSessionPayload(session)

	for _, c := range watchers {
		if err := c.send(actionSessionUpdate, payload); err != nil {
			log.Warn("failed to send session update", "error", err)
		}
	}
}
