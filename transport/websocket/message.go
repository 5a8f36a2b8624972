package websocket

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/tictactoe-rounds/transport/dto"
)

const (
	actionSessionNew     = "session:new"
	actionSessionConnect = "session:connect"
	actionSessionUpdate  = "session:update"
	actionGameTurn       = "game:turn"
	actionGameRestart    = "game:restart"
	actionGameReset      = "game:reset"
	actionError          = "error"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = pongWait * 9 / 10
)

type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Payload carries requests from clients and replies back to them.
type Payload struct {
	SessionID      string           `json:"session_id,omitempty"`
	Cell           *int             `json:"cell,omitempty"`
	StartingPlayer string           `json:"starting_player,omitempty"`
	Session        *dto.SessionView `json:"session,omitempty"`
	Error          string           `json:"error,omitempty"`
}

// client - one websocket connection. Writes go through send so the ping loop and broadcasts don't interleave.
type client struct {
	conn *websocket.Conn

	writeMutex sync.Mutex

	// sessions this connection watches; touched only by the connection's read loop.
	sessions map[string]struct{}
}

func newClient(conn *websocket.Conn) *client {
	return &client{
		conn:     conn,
		sessions: make(map[string]struct{}),
	}
}

func (that *client) send(action string, payload Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	_ = that.conn.SetWriteDeadline(time.Now().Add(writeWait))

	return that.conn.WriteJSON(Message{Action: action, Payload: data})
}

func (that *client) ping() error {
	that.writeMutex.Lock()
	defer that.writeMutex.Unlock()

	return that.conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait))
}
