package messages

import (
	"encoding/json"

	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/view"
)

const (
	// MessageBufferSize represents the maximum size of an inbound message
	MessageBufferSize = 4096
)

type MessageType string

// Message types
const (
	MessageTypeServerGameUpdate MessageType = "gameStateUpdate"
	MessageTypeServerAck        MessageType = "ack"
)

// Message is the envelope written to and read from push connections
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// ServerGameUpdate carries a viewer's projection of the game.
// ActionResult is only set on the message sent to the acting player.
type ServerGameUpdate struct {
	State        *view.View    `json:"state"`
	ActionResult *ActionResult `json:"actionResult,omitempty"`
}

// ActionResult holds information private to the player who acted
type ActionResult struct {
	PlayerID    string       `json:"playerId"`
	PeekedCards []cards.Card `json:"peekedCards,omitempty"`
}

type ServerAck struct {
	Received string `json:"received,omitempty"`
}
