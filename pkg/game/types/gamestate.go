package types

import (
	"github.com/cbodonnell/instalose/pkg/cards"
)

type Status string

const (
	StatusWaiting    Status = "waiting"
	StatusInProgress Status = "in-progress"
	StatusFinished   Status = "finished"
)

// Game is the authoritative aggregate for one match.
type Game struct {
	ID     string `json:"gameId"`
	HostID string `json:"hostPlayerId"`
	Status Status `json:"status"`
	// MaxPlayers caps the number of players that can join
	MaxPlayers int `json:"maxPlayers"`
	// Players in join order. Players[0] is the MVP.
	Players []*Player `json:"players"`
	// TurnOrder is fixed when the game starts
	TurnOrder           []string     `json:"turnOrder"`
	CurrentTurnPlayerID string       `json:"currentTurnPlayerId,omitempty"`
	Deck                cards.Deck   `json:"deck"`
	Discard             []cards.Card `json:"discard"`
	// Actions holds the most recent action records, oldest first
	Actions          []ActionRecord `json:"actions"`
	TotalActionCount int64          `json:"totalActionCount"`
	WinnerID         string         `json:"winnerId,omitempty"`
	// Version is incremented by the store on every successful save
	Version   int64 `json:"version"`
	CreatedAt int64 `json:"createdAt"`
	UpdatedAt int64 `json:"updatedAt"`
}

// NewGame creates a waiting game with no players.
func NewGame(id, hostID string, maxPlayers int, timestamp int64) *Game {
	return &Game{
		ID:         id,
		HostID:     hostID,
		Status:     StatusWaiting,
		MaxPlayers: maxPlayers,
		Players:    []*Player{},
		TurnOrder:  []string{},
		Deck:       cards.Deck{},
		Discard:    []cards.Card{},
		Actions:    []ActionRecord{},
		CreatedAt:  timestamp,
		UpdatedAt:  timestamp,
	}
}

// Copy returns a deep copy of the game.
func (g *Game) Copy() *Game {
	c := *g
	c.Players = make([]*Player, len(g.Players))
	for i, p := range g.Players {
		c.Players[i] = p.Copy()
	}
	c.TurnOrder = append([]string{}, g.TurnOrder...)
	c.Deck = append(cards.Deck{}, g.Deck...)
	c.Discard = append([]cards.Card{}, g.Discard...)
	c.Actions = append([]ActionRecord{}, g.Actions...)
	return &c
}

// Player returns the player with the given id, or nil.
func (g *Game) Player(id string) *Player {
	for _, p := range g.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// MVP returns the first player to join, or nil if nobody has joined.
func (g *Game) MVP() *Player {
	if len(g.Players) == 0 {
		return nil
	}
	return g.Players[0]
}

// AliveCount returns the number of players still in the game.
func (g *Game) AliveCount() int {
	n := 0
	for _, p := range g.Players {
		if p.Alive {
			n++
		}
	}
	return n
}

// AppendAction numbers the record with the next sequence number and appends
// it, keeping only the most recent window records.
func (g *Game) AppendAction(record ActionRecord, window int) ActionRecord {
	g.TotalActionCount++
	record.SequenceNumber = g.TotalActionCount
	g.Actions = append(g.Actions, record)
	if len(g.Actions) > window {
		g.Actions = append([]ActionRecord{}, g.Actions[len(g.Actions)-window:]...)
	}
	return record
}

// RecentActions returns up to n of the most recent action records.
func (g *Game) RecentActions(n int) []ActionRecord {
	if n >= len(g.Actions) {
		return g.Actions
	}
	return g.Actions[len(g.Actions)-n:]
}
