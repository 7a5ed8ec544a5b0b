package types

import (
	"github.com/cbodonnell/instalose/pkg/cards"
)

type Player struct {
	ID    string       `json:"playerId"`
	Name  string       `json:"name"`
	Icon  string       `json:"icon"`
	Color string       `json:"color"`
	Hand  []cards.Card `json:"hand"`
	Alive bool         `json:"isAlive"`
}

func NewPlayer(id, name, icon, color string) *Player {
	return &Player{
		ID:    id,
		Name:  name,
		Icon:  icon,
		Color: color,
		Hand:  []cards.Card{},
		Alive: true,
	}
}

// Copy returns a copy of the player with its own hand slice
func (p *Player) Copy() *Player {
	c := *p
	c.Hand = append([]cards.Card{}, p.Hand...)
	return &c
}
