package network

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/cbodonnell/instalose/pkg/messages"
	"github.com/cbodonnell/instalose/pkg/subscribers"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"nhooyr.io/websocket"
)

func newTestServer(t *testing.T) (*ConnectionManager, string) {
	t.Helper()
	cm := NewConnectionManager()
	router := mux.NewRouter()
	router.HandleFunc("/games/{gameID}/ws", NewWSHandler(NewWSHandlerOptions{
		ConnectionManager: cm,
		OriginPatterns:    []string{"*"},
	}))
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)
	return cm, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func nextEvent(t *testing.T, cm *ConnectionManager) ConnectionEvent {
	t.Helper()
	select {
	case event := <-cm.GetConnectionEventChan():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for connection event")
		return ConnectionEvent{}
	}
}

func readMessage(t *testing.T, ctx context.Context, conn *websocket.Conn) *messages.Message {
	t.Helper()
	_, data, err := conn.Read(ctx)
	require.NoError(t, err)
	msg, err := messages.DeserializeMessage(data)
	require.NoError(t, err)
	return msg
}

func TestWSHandler_Lifecycle(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cm, url := newTestServer(t)

	client, _, err := websocket.Dial(ctx, url+"/games/ROOM42/ws?playerId=p1", nil)
	require.NoError(t, err)
	defer client.CloseNow()

	event := nextEvent(t, cm)
	require.Equal(t, ConnectionEventTypeConnect, event.Type)
	data, ok := event.Data.(ConnectData)
	require.True(t, ok)
	assert.Equal(t, "ROOM42", data.GameID)
	assert.Equal(t, "p1", data.ViewerPlayerID)
	assert.False(t, data.IsHost)
	assert.Len(t, event.ConnectionID, 26)
	assert.Equal(t, 1, cm.Count())

	update, err := messages.NewServerGameUpdate(&messages.ServerGameUpdate{})
	require.NoError(t, err)
	require.NoError(t, data.Connection.Send(ctx, update))
	assert.Equal(t, messages.MessageTypeServerGameUpdate, readMessage(t, ctx, client).Type)

	ping, err := json.Marshal(&messages.Message{Type: "ping"})
	require.NoError(t, err)
	require.NoError(t, client.Write(ctx, websocket.MessageText, ping))
	ack := readMessage(t, ctx, client)
	assert.Equal(t, messages.MessageTypeServerAck, ack.Type)
	assert.JSONEq(t, `{"received":"ping"}`, string(ack.Payload))

	require.NoError(t, client.Close(websocket.StatusNormalClosure, "bye"))
	event = nextEvent(t, cm)
	assert.Equal(t, ConnectionEventTypeDisconnect, event.Type)
	assert.Equal(t, data.Connection.ID(), event.ConnectionID)
	assert.Equal(t, 0, cm.Count())

	err = data.Connection.Send(ctx, update)
	assert.True(t, subscribers.IsGone(err), "got %v", err)
}

func TestWSHandler_ServerClose(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	cm, url := newTestServer(t)

	client, _, err := websocket.Dial(ctx, url+"/games/ROOM42/ws?isHost=true", nil)
	require.NoError(t, err)
	defer client.CloseNow()

	event := nextEvent(t, cm)
	data := event.Data.(ConnectData)
	assert.True(t, data.IsHost)
	assert.Empty(t, data.ViewerPlayerID)

	require.NoError(t, data.Connection.Close("game not found"))
	require.NoError(t, data.Connection.Close("again"))

	_, _, err = client.Read(ctx)
	assert.Equal(t, websocket.StatusNormalClosure, websocket.CloseStatus(err))

	event = nextEvent(t, cm)
	assert.Equal(t, ConnectionEventTypeDisconnect, event.Type)
}

func TestWSHandler_InvalidIsHost(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_, url := newTestServer(t)

	_, resp, err := websocket.Dial(ctx, url+"/games/ROOM42/ws?isHost=maybe", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestConnectionManager_NewConnectionIDIsOrdered(t *testing.T) {
	cm := NewConnectionManager()
	previous := ""
	for i := 0; i < 100; i++ {
		id, err := cm.NewConnectionID()
		require.NoError(t, err)
		assert.Greater(t, id, previous)
		previous = id
	}
}
