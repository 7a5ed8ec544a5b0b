package network

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cbodonnell/instalose/pkg/log"
	"github.com/cbodonnell/instalose/pkg/messages"
	"github.com/cbodonnell/instalose/pkg/subscribers"
	"github.com/gorilla/mux"
	"nhooyr.io/websocket"
)

const (
	// WriteTimeout bounds a single write to a connection
	WriteTimeout = 10 * time.Second
	// maxCloseReasonBytes is the longest reason a close frame can carry
	maxCloseReasonBytes = 123
)

var _ subscribers.Sender = &Connection{}

// Connection is a websocket push connection.
type Connection struct {
	id   string
	conn *websocket.Conn

	closeOnce sync.Once
	closed    chan struct{}
}

func NewConnection(id string, conn *websocket.Conn) *Connection {
	return &Connection{
		id:     id,
		conn:   conn,
		closed: make(chan struct{}),
	}
}

func (c *Connection) ID() string {
	return c.id
}

// Send writes msg as a text frame. Any write failure means the peer is gone.
func (c *Connection) Send(ctx context.Context, msg *messages.Message) error {
	select {
	case <-c.closed:
		return &subscribers.ErrGone{ConnectionID: c.id, Err: fmt.Errorf("connection closed")}
	default:
	}

	ctx, cancel := context.WithTimeout(ctx, WriteTimeout)
	defer cancel()
	if err := WriteMessageToWS(ctx, c.conn, msg); err != nil {
		return &subscribers.ErrGone{ConnectionID: c.id, Err: err}
	}
	return nil
}

// Close starts the closing handshake. It is safe to call more than once.
func (c *Connection) Close(reason string) error {
	if len(reason) > maxCloseReasonBytes {
		reason = strings.ToValidUTF8(reason[:maxCloseReasonBytes], "")
	}
	c.closeOnce.Do(func() {
		close(c.closed)
		// the handshake waits for the peer, which may never answer
		go func() {
			if err := c.conn.Close(websocket.StatusNormalClosure, reason); err != nil {
				log.Trace("Failed to close connection %s: %v", c.id, err)
			}
		}()
	})
	return nil
}

type NewWSHandlerOptions struct {
	ConnectionManager *ConnectionManager
	// OriginPatterns are the allowed cross-origin hosts; "*" allows any
	OriginPatterns []string
}

// NewWSHandler upgrades GET /games/{gameID}/ws?playerId=&isHost= requests to
// push connections. Inbound messages are acknowledged and otherwise ignored.
func NewWSHandler(opts NewWSHandlerOptions) http.HandlerFunc {
	acceptOptions := &websocket.AcceptOptions{
		OriginPatterns: opts.OriginPatterns,
	}
	for _, p := range opts.OriginPatterns {
		if p == "*" {
			acceptOptions.InsecureSkipVerify = true
		}
	}

	return func(w http.ResponseWriter, r *http.Request) {
		gameID := mux.Vars(r)["gameID"]
		if gameID == "" {
			http.Error(w, "missing game id", http.StatusBadRequest)
			return
		}
		isHost := false
		if v := r.URL.Query().Get("isHost"); v != "" {
			parsed, err := strconv.ParseBool(v)
			if err != nil {
				http.Error(w, "invalid isHost", http.StatusBadRequest)
				return
			}
			isHost = parsed
		}

		id, err := opts.ConnectionManager.NewConnectionID()
		if err != nil {
			log.Error("Failed to create connection id: %v", err)
			http.Error(w, "failed to create connection", http.StatusInternalServerError)
			return
		}

		wsConn, err := websocket.Accept(w, r, acceptOptions)
		if err != nil {
			log.Error("Failed to upgrade to WebSocket: %v", err)
			return
		}
		wsConn.SetReadLimit(messages.MessageBufferSize)

		conn := NewConnection(id, wsConn)
		log.Debug("New WebSocket connection %s from %s for game %s", id, r.RemoteAddr, gameID)
		opts.ConnectionManager.Connect(ConnectData{
			Connection:     conn,
			GameID:         gameID,
			ViewerPlayerID: r.URL.Query().Get("playerId"),
			IsHost:         isHost,
		})

		handleWSConnection(r.Context(), conn)
		opts.ConnectionManager.Disconnect(id)
		conn.Close("disconnected")
	}
}

// handleWSConnection reads until the connection fails or is closed.
func handleWSConnection(ctx context.Context, conn *Connection) {
	for {
		message, err := ReadMessageFromWS(ctx, conn.conn)
		if err != nil {
			var readErr *readError
			if !errors.As(err, &readErr) {
				log.Debug("Ignoring malformed message from %s: %v", conn.id, err)
				continue
			}
			if websocket.CloseStatus(err) == -1 && !errors.Is(err, context.Canceled) && !isClosed(conn) {
				log.Debug("Error reading WebSocket message from %s: %v", conn.id, err)
			}
			log.Trace("Connection closed for %s", conn.id)
			return
		}

		ack, err := messages.NewServerAck(string(message.Type))
		if err != nil {
			log.Error("Failed to create ack: %v", err)
			continue
		}
		if err := conn.Send(ctx, ack); err != nil {
			log.Debug("Failed to ack message from %s: %v", conn.id, err)
			return
		}
	}
}

func isClosed(conn *Connection) bool {
	select {
	case <-conn.closed:
		return true
	default:
		return false
	}
}

type readError struct {
	err error
}

func (e *readError) Error() string {
	return e.err.Error()
}

func (e *readError) Unwrap() error {
	return e.err
}

// WriteMessageToWS writes a Message to a WebSocket connection
func WriteMessageToWS(ctx context.Context, conn *websocket.Conn, msg *messages.Message) error {
	b, err := messages.SerializeMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to serialize message: %v", err)
	}

	if err := conn.Write(ctx, websocket.MessageText, b); err != nil {
		return fmt.Errorf("failed to write message to WebSocket connection: %v", err)
	}

	return nil
}

// ReadMessageFromWS reads a Message from a WebSocket connection. Transport
// failures are returned as *readError; malformed messages are not.
func ReadMessageFromWS(ctx context.Context, conn *websocket.Conn) (*messages.Message, error) {
	_, data, err := conn.Read(ctx)
	if err != nil {
		return nil, &readError{err: err}
	}

	msg, err := messages.DeserializeMessage(data)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}

	return msg, nil
}
