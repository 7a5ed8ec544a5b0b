package game

import (
	"time"

	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game/constants"
	"github.com/cbodonnell/instalose/pkg/game/types"
)

// Action is a player's request to draw or play a card.
type Action struct {
	PlayerID       string           `json:"playerId"`
	Type           types.ActionType `json:"actionType"`
	CardID         string           `json:"cardId,omitempty"`
	TargetPlayerID string           `json:"targetPlayerId,omitempty"`
}

// Validate checks the action's fields without looking at any game state.
func (a Action) Validate() error {
	if a.PlayerID == "" {
		return ErrMissingField.WithDetail("playerId")
	}
	switch a.Type {
	case types.ActionTypeDraw:
	case types.ActionTypePlayCard:
		if a.CardID == "" {
			return ErrMissingField.WithDetail("cardId")
		}
	case "":
		return ErrMissingField.WithDetail("actionType")
	default:
		return ErrInvalidActionType.WithDetail("%q", a.Type)
	}
	return nil
}

// Result is the outcome of successfully applying an action.
type Result struct {
	Game   *types.Game
	Record types.ActionRecord
	// PeekedCards is only set for Peek plays and is meant for the acting player alone
	PeekedCards []cards.Card
}

// Engine applies the rules of the game. It holds no game state and is safe
// for concurrent use as long as its Rand is.
type Engine struct {
	rand cards.Rand
	now  func() time.Time
}

type NewEngineOptions struct {
	// Rand defaults to cards.DefaultRand
	Rand cards.Rand
	// Now defaults to time.Now
	Now func() time.Time
}

func NewEngine(opts NewEngineOptions) *Engine {
	e := &Engine{
		rand: opts.Rand,
		now:  opts.Now,
	}
	if e.rand == nil {
		e.rand = cards.DefaultRand
	}
	if e.now == nil {
		e.now = time.Now
	}
	return e
}

// Apply validates action against g and returns a new game with the action
// applied. g is never modified; on error no state changes.
func (e *Engine) Apply(g *types.Game, action Action) (*Result, error) {
	if err := action.Validate(); err != nil {
		return nil, err
	}
	if g == nil {
		return nil, ErrGameNotFound
	}
	if g.Status != types.StatusInProgress {
		return nil, ErrNotInProgress
	}
	if action.PlayerID != g.CurrentTurnPlayerID {
		return nil, ErrNotYourTurn
	}
	if p := g.Player(action.PlayerID); p == nil {
		return nil, ErrUnknownPlayer
	} else if !p.Alive {
		return nil, ErrPlayerNotAlive
	}

	next := g.Copy()
	player := next.Player(action.PlayerID)
	timestamp := e.now().UnixMilli()
	record := types.ActionRecord{
		PlayerID:  action.PlayerID,
		Type:      action.Type,
		Timestamp: timestamp,
	}

	var peeked []cards.Card
	var err error
	switch action.Type {
	case types.ActionTypeDraw:
		err = e.draw(next, player, &record)
	case types.ActionTypePlayCard:
		peeked, err = e.playCard(next, player, action, &record)
	}
	if err != nil {
		return nil, err
	}

	if winner := winnerOf(next); winner != nil {
		next.Status = types.StatusFinished
		next.WinnerID = winner.ID
		record.WinnerID = winner.ID
	}

	record = next.AppendAction(record, constants.ActionLogSize)
	next.UpdatedAt = timestamp

	return &Result{
		Game:        next,
		Record:      record,
		PeekedCards: peeked,
	}, nil
}

func (e *Engine) draw(g *types.Game, player *types.Player, record *types.ActionRecord) error {
	card, ok := g.Deck.Draw()
	if !ok {
		return ErrDeckEmpty
	}
	record.CardKind = types.KindPtr(card.Kind)

	switch card.Kind {
	case cards.KindElimination:
		saveIndex := cards.IndexOfKind(player.Hand, cards.KindSave)
		if saveIndex == -1 {
			player.Alive = false
			g.Discard = append(g.Discard, card)
			record.Result = types.ResultEliminated
			break
		}
		save := player.Hand[saveIndex]
		player.Hand = cards.RemoveAt(player.Hand, saveIndex)
		g.Discard = append(g.Discard, save)
		g.Deck.Push(card)
		g.Deck.Shuffle(e.rand)
		record.Result = types.ResultSavedByCounter
	default:
		player.Hand = append(player.Hand, card)
		record.Result = types.ResultDrewCard
	}

	advanceTurn(g)
	return nil
}

func (e *Engine) playCard(g *types.Game, player *types.Player, action Action, record *types.ActionRecord) ([]cards.Card, error) {
	index := cards.IndexOfID(player.Hand, action.CardID)
	if index == -1 {
		return nil, ErrCardNotInHand
	}
	card := player.Hand[index]
	record.CardKind = types.KindPtr(card.Kind)

	switch {
	case card.Kind == cards.KindSave:
		return nil, ErrInvalidManualPlay
	case card.Kind.IsPair():
		if cards.CountKind(player.Hand, card.Kind) < 2 {
			return nil, ErrMissingPair
		}
		e.playPair(g, player, index, action.TargetPlayerID, record)
		return nil, nil
	}

	player.Hand = cards.RemoveAt(player.Hand, index)
	g.Discard = append(g.Discard, card)

	switch card.Kind {
	case cards.KindSkip:
		advanceTurn(g)
		record.Result = types.ResultSkipped
	case cards.KindShuffle:
		g.Deck.Shuffle(e.rand)
		record.Result = types.ResultShuffled
	case cards.KindPeek:
		record.Result = types.ResultPeeked
		return g.Deck.Peek(constants.PeekCount), nil
	default:
		record.Result = types.ResultPlayed
	}
	return nil, nil
}

// playPair discards the played pair card and its match, then steals a random
// card from the target if the target is another living player holding cards.
func (e *Engine) playPair(g *types.Game, player *types.Player, index int, targetID string, record *types.ActionRecord) {
	played := player.Hand[index]
	player.Hand = cards.RemoveAt(player.Hand, index)
	matchIndex := cards.IndexOfKind(player.Hand, played.Kind)
	match := player.Hand[matchIndex]
	player.Hand = cards.RemoveAt(player.Hand, matchIndex)
	g.Discard = append(g.Discard, played, match)

	target := g.Player(targetID)
	if targetID == "" || target == nil || target.ID == player.ID || !target.Alive || len(target.Hand) == 0 {
		record.Result = types.ResultPairPlayed
		return
	}

	stealIndex := e.rand.IntN(len(target.Hand))
	stolen := target.Hand[stealIndex]
	target.Hand = cards.RemoveAt(target.Hand, stealIndex)
	player.Hand = append(player.Hand, stolen)

	record.Result = types.ResultStoleCard
	record.TargetPlayerID = target.ID
	record.StolenCardKind = types.KindPtr(stolen.Kind)
}

// advanceTurn moves the turn to the next living player in turn order. It does
// nothing when one or no players remain.
func advanceTurn(g *types.Game) {
	if g.AliveCount() <= 1 {
		return
	}
	current := -1
	for i, id := range g.TurnOrder {
		if id == g.CurrentTurnPlayerID {
			current = i
			break
		}
	}
	for i := 1; i <= len(g.TurnOrder); i++ {
		id := g.TurnOrder[(current+i+len(g.TurnOrder))%len(g.TurnOrder)]
		if p := g.Player(id); p != nil && p.Alive {
			g.CurrentTurnPlayerID = id
			return
		}
	}
}

// winnerOf returns the last living player, or nil if more than one remains.
func winnerOf(g *types.Game) *types.Player {
	var alive *types.Player
	for _, p := range g.Players {
		if !p.Alive {
			continue
		}
		if alive != nil {
			return nil
		}
		alive = p
	}
	return alive
}
