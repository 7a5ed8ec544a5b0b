package models

import "time"

// Subscriber is the persisted record of a live push connection.
type Subscriber struct {
	ConnectionID string `json:"connectionId"`
	GameID       string `json:"gameId"`
	// ViewerPlayerID is empty for hosts and spectators
	ViewerPlayerID string    `json:"viewerPlayerId,omitempty"`
	IsHost         bool      `json:"isHost"`
	ConnectedAt    time.Time `json:"connectedAt"`
	ExpiresAt      time.Time `json:"expiresAt"`
}

// Expired reports whether the record's time-to-live has passed at now.
func (s *Subscriber) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
