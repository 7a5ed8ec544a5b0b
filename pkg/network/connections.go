package network

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

const (
	// ConnectionEventChannelSize represents the size of the connection event channel
	ConnectionEventChannelSize = 1024
)

// ConnectionEvent represents an event that happened to a connection
type ConnectionEvent struct {
	ConnectionID string
	Type         ConnectionEventType
	Data         interface{}
}

// ConnectionEventType represents the type of a connection event
type ConnectionEventType int

const (
	ConnectionEventTypeConnect ConnectionEventType = iota
	ConnectionEventTypeDisconnect
)

// ConnectData is the Data of a connect event
type ConnectData struct {
	Connection     *Connection
	GameID         string
	ViewerPlayerID string
	IsHost         bool
}

// ConnectionManager tracks open push connections and reports connects and
// disconnects on its event channel.
type ConnectionManager struct {
	connections         map[string]*Connection
	connectionsLock     sync.RWMutex
	connectionEventChan chan ConnectionEvent

	entropyLock sync.Mutex
	entropy     *ulid.MonotonicEntropy
}

// NewConnectionManager creates a new ConnectionManager
func NewConnectionManager() *ConnectionManager {
	return &ConnectionManager{
		connections:         make(map[string]*Connection),
		connectionEventChan: make(chan ConnectionEvent, ConnectionEventChannelSize),
		entropy:             ulid.Monotonic(rand.Reader, 0),
	}
}

// GetConnectionEventChan returns a one-way channel for receiving connection events
func (cm *ConnectionManager) GetConnectionEventChan() <-chan ConnectionEvent {
	return cm.connectionEventChan
}

// NewConnectionID returns a unique, time-ordered connection id
func (cm *ConnectionManager) NewConnectionID() (string, error) {
	cm.entropyLock.Lock()
	defer cm.entropyLock.Unlock()
	id, err := ulid.New(ulid.Timestamp(time.Now()), cm.entropy)
	if err != nil {
		return "", fmt.Errorf("failed to generate connection id: %v", err)
	}
	return id.String(), nil
}

// Connect adds a connection to the manager and emits a connect event
func (cm *ConnectionManager) Connect(data ConnectData) {
	cm.connectionsLock.Lock()
	cm.connections[data.Connection.ID()] = data.Connection
	cm.connectionsLock.Unlock()

	cm.connectionEventChan <- ConnectionEvent{
		ConnectionID: data.Connection.ID(),
		Type:         ConnectionEventTypeConnect,
		Data:         data,
	}
}

// Disconnect removes a connection from the manager and emits a disconnect
// event if it was known
func (cm *ConnectionManager) Disconnect(connectionID string) {
	cm.connectionsLock.Lock()
	_, ok := cm.connections[connectionID]
	delete(cm.connections, connectionID)
	cm.connectionsLock.Unlock()
	if !ok {
		return
	}

	cm.connectionEventChan <- ConnectionEvent{
		ConnectionID: connectionID,
		Type:         ConnectionEventTypeDisconnect,
	}
}

func (cm *ConnectionManager) Count() int {
	cm.connectionsLock.RLock()
	defer cm.connectionsLock.RUnlock()
	return len(cm.connections)
}

// CloseAll closes every open connection
func (cm *ConnectionManager) CloseAll(reason string) {
	cm.connectionsLock.RLock()
	connections := make([]*Connection, 0, len(cm.connections))
	for _, c := range cm.connections {
		connections = append(connections, c)
	}
	cm.connectionsLock.RUnlock()

	for _, c := range connections {
		c.Close(reason)
	}
}
