package messages

import (
	"encoding/json"
	"fmt"
)

func SerializeMessage(m *Message) ([]byte, error) {
	b, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize message: %v", err)
	}
	return b, nil
}

func DeserializeMessage(data []byte) (*Message, error) {
	if len(data) > MessageBufferSize {
		return nil, fmt.Errorf("message of %d bytes exceeds limit of %d", len(data), MessageBufferSize)
	}
	m := &Message{}
	if err := json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("failed to deserialize message: %v", err)
	}
	return m, nil
}

// NewServerGameUpdate wraps an update in a message envelope.
func NewServerGameUpdate(update *ServerGameUpdate) (*Message, error) {
	payload, err := json.Marshal(update)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal game update: %v", err)
	}
	return &Message{
		Type:    MessageTypeServerGameUpdate,
		Payload: payload,
	}, nil
}

// NewServerAck acknowledges an inbound message of the given type.
func NewServerAck(received string) (*Message, error) {
	payload, err := json.Marshal(&ServerAck{Received: received})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal ack: %v", err)
	}
	return &Message{
		Type:    MessageTypeServerAck,
		Payload: payload,
	}, nil
}
