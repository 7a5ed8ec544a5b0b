package types

import "github.com/cbodonnell/instalose/pkg/cards"

type ActionType string

const (
	ActionTypeGameStarted ActionType = "game-started"
	ActionTypeDraw        ActionType = "draw"
	ActionTypePlayCard    ActionType = "play-card"
)

type ActionResult string

const (
	ResultStarted        ActionResult = "started"
	ResultDrewCard       ActionResult = "drew-card"
	ResultEliminated     ActionResult = "eliminated"
	ResultSavedByCounter ActionResult = "saved-by-counter"
	ResultStoleCard      ActionResult = "stole-card"
	ResultPairPlayed     ActionResult = "pair-played"
	ResultSkipped        ActionResult = "skipped"
	ResultShuffled       ActionResult = "shuffled"
	ResultPeeked         ActionResult = "peeked"
	ResultPlayed         ActionResult = "played"
)

// ActionRecord is an immutable entry in the game's action log.
type ActionRecord struct {
	SequenceNumber int64        `json:"sequenceNumber"`
	PlayerID       string       `json:"playerId,omitempty"`
	Type           ActionType   `json:"type"`
	CardKind       *cards.Kind  `json:"cardKind,omitempty"`
	Result         ActionResult `json:"result"`
	TargetPlayerID string       `json:"targetPlayerId,omitempty"`
	// StolenCardKind is only visible to the thief and the victim
	StolenCardKind *cards.Kind `json:"stolenCardKind,omitempty"`
	WinnerID       string      `json:"winnerId,omitempty"`
	Timestamp      int64       `json:"timestamp"`
}

// KindPtr returns a pointer to a copy of k for optional record fields.
func KindPtr(k cards.Kind) *cards.Kind {
	return &k
}
