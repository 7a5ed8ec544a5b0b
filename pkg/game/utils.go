package game

import (
	"strings"

	"github.com/cbodonnell/instalose/pkg/cards"
	"github.com/cbodonnell/instalose/pkg/game/constants"
)

// NewGameID returns a random room code.
func NewGameID(r cards.Rand) string {
	var b strings.Builder
	b.Grow(constants.GameIDLength)
	for i := 0; i < constants.GameIDLength; i++ {
		b.WriteByte(constants.GameIDAlphabet[r.IntN(len(constants.GameIDAlphabet))])
	}
	return b.String()
}
