package view

import (
	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game/constants"
	"github.com/cbodonnell/instalose/pkg/game/types"
)

// PlayerSummary is the public part of a player.
type PlayerSummary struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
	Color     string `json:"color"`
	CardCount int    `json:"cardCount"`
	IsAlive   bool   `json:"isAlive"`
}

// View is a game as seen by one viewer.
type View struct {
	GameID              string               `json:"gameId"`
	HostPlayerID        string               `json:"hostPlayerId"`
	Status              types.Status         `json:"status"`
	CurrentTurnPlayerID string               `json:"currentTurnPlayerId,omitempty"`
	TurnOrder           []string             `json:"turnOrder"`
	DeckCount           int                  `json:"deckCount"`
	DiscardCount        int                  `json:"discardPileCount"`
	Players             []PlayerSummary      `json:"players"`
	MyHand              []cards.Card         `json:"myHand"`
	Actions             []types.ActionRecord `json:"actions"`
	TotalActionCount    int64                `json:"totalActionCount"`
	WinnerID            string               `json:"winnerId,omitempty"`
	Version             int64                `json:"version"`
	UpdatedAt           int64                `json:"updatedAt"`
}

// Project returns g as seen by viewerPlayerID. An empty viewer is a host or
// spectator and receives no hand. Other players' hands are reduced to counts.
// g is not modified and nothing in the view aliases it.
func Project(g *types.Game, viewerPlayerID string) *View {
	v := &View{
		GameID:              g.ID,
		HostPlayerID:        g.HostID,
		Status:              g.Status,
		CurrentTurnPlayerID: g.CurrentTurnPlayerID,
		TurnOrder:           append([]string{}, g.TurnOrder...),
		DeckCount:           len(g.Deck),
		DiscardCount:        len(g.Discard),
		Players:             make([]PlayerSummary, 0, len(g.Players)),
		MyHand:              []cards.Card{},
		TotalActionCount:    g.TotalActionCount,
		WinnerID:            g.WinnerID,
		Version:             g.Version,
		UpdatedAt:           g.UpdatedAt,
	}

	for _, p := range g.Players {
		if viewerPlayerID != "" && p.ID == viewerPlayerID {
			v.MyHand = append(v.MyHand, p.Hand...)
		}
		v.Players = append(v.Players, PlayerSummary{
			PlayerID:  p.ID,
			Name:      p.Name,
			Icon:      p.Icon,
			Color:     p.Color,
			CardCount: len(p.Hand),
			IsAlive:   p.Alive,
		})
	}

	recent := g.RecentActions(constants.ViewActionCount)
	v.Actions = make([]types.ActionRecord, 0, len(recent))
	for _, record := range recent {
		v.Actions = append(v.Actions, redactRecord(record, viewerPlayerID))
	}

	return v
}

// redactRecord hides card kinds that only some players are allowed to know:
// the kind of a card drawn into a hand and the kind of a stolen card.
func redactRecord(record types.ActionRecord, viewerPlayerID string) types.ActionRecord {
	if record.CardKind != nil {
		record.CardKind = types.KindPtr(*record.CardKind)
	}
	if record.StolenCardKind != nil {
		record.StolenCardKind = types.KindPtr(*record.StolenCardKind)
	}

	involved := viewerPlayerID != "" && viewerPlayerID == record.PlayerID
	if record.Type == types.ActionTypeDraw && record.Result == types.ResultDrewCard && !involved {
		record.CardKind = nil
	}
	if record.StolenCardKind != nil && !involved && (viewerPlayerID == "" || viewerPlayerID != record.TargetPlayerID) {
		record.StolenCardKind = nil
	}
	return record
}
