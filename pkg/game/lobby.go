package game

import (
	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game/constants"
	"github.com/cbodonnell/instalose/pkg/game/types"
)

// JoinRequest describes a participant joining a waiting game.
type JoinRequest struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Color    string `json:"color,omitempty"`
}

func (r JoinRequest) Validate() error {
	if r.PlayerID == "" {
		return ErrMissingField.WithDetail("playerId")
	}
	if r.Name == "" {
		return ErrMissingField.WithDetail("name")
	}
	return nil
}

// Join returns a copy of g with the player added.
func (e *Engine) Join(g *types.Game, req JoinRequest) (*types.Game, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	if g.Status != types.StatusWaiting {
		return nil, ErrAlreadyStarted
	}
	if len(g.Players) >= g.MaxPlayers {
		return nil, ErrGameFull
	}
	if req.PlayerID == g.HostID {
		return nil, ErrAlreadyJoined.WithDetail("the host watches as a spectator")
	}
	if g.Player(req.PlayerID) != nil {
		return nil, ErrAlreadyJoined
	}

	icon := req.Icon
	if icon == "" {
		icon = constants.DefaultPlayerIcon
	}
	color := req.Color
	if color == "" {
		color = constants.DefaultPlayerColor
	}

	next := g.Copy()
	next.Players = append(next.Players, types.NewPlayer(req.PlayerID, req.Name, icon, color))
	next.UpdatedAt = e.now().UnixMilli()
	return next, nil
}

// Start deals the cards, fixes the turn order and puts the game in progress.
// Only the MVP may start a waiting game with at least MinPlayers players.
func (e *Engine) Start(g *types.Game, requestingPlayerID string) (*types.Game, error) {
	if requestingPlayerID == "" {
		return nil, ErrMissingField.WithDetail("playerId")
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	if mvp := g.MVP(); mvp == nil || mvp.ID != requestingPlayerID {
		return nil, ErrNotMVP
	}
	if g.Status != types.StatusWaiting {
		return nil, ErrAlreadyStarted
	}
	if len(g.Players) < constants.MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	next := g.Copy()
	setup := cards.NewSetup(e.rand, len(next.Players), constants.StartingHandSize, constants.DeckBufferPerPlayer)
	turnOrder := make([]string, len(next.Players))
	for i, p := range next.Players {
		p.Hand = setup.Hands[i]
		p.Alive = true
		turnOrder[i] = p.ID
	}
	for i := len(turnOrder) - 1; i > 0; i-- {
		j := e.rand.IntN(i + 1)
		turnOrder[i], turnOrder[j] = turnOrder[j], turnOrder[i]
	}

	timestamp := e.now().UnixMilli()
	next.Status = types.StatusInProgress
	next.Deck = setup.Deck
	next.Discard = []cards.Card{}
	next.TurnOrder = turnOrder
	next.CurrentTurnPlayerID = turnOrder[0]
	next.Actions = []types.ActionRecord{}
	next.AppendAction(types.ActionRecord{
		PlayerID:  requestingPlayerID,
		Type:      types.ActionTypeGameStarted,
		Result:    types.ResultStarted,
		Timestamp: timestamp,
	}, constants.ActionLogSize)
	next.UpdatedAt = timestamp
	return next, nil
}
