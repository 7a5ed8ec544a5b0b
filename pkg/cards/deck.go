package cards

import (
	"math/rand/v2"

	"github.com/google/uuid"
)

// Rand is the source of randomness for shuffling and stealing.
// *rand.Rand from math/rand/v2 satisfies it.
type Rand interface {
	IntN(n int) int
}

type globalRand struct{}

func (globalRand) IntN(n int) int {
	return rand.IntN(n)
}

// DefaultRand is safe for concurrent use.
var DefaultRand Rand = globalRand{}

// fillPattern is cycled to fill the deck. Pairs appear twice per cycle so that
// two of a variant are reasonably likely to meet in one hand.
var fillPattern = []Kind{
	KindPairA, KindPairA,
	KindPairB, KindPairB,
	KindPairC, KindPairC,
	KindPeek, KindPeek, KindPeek,
	KindSkip, KindSkip, KindSkip,
	KindShuffle, KindShuffle,
}

// Deck is a stack of cards. The top of the deck is the end of the slice.
type Deck []Card

// NewCard creates a card with a fresh unique id.
func NewCard(kind Kind) Card {
	return Card{
		ID:   uuid.NewString(),
		Kind: kind,
	}
}

// BuildFillDeck builds the unshuffled non-special part of the deck: enough
// cards to deal every player startingHandSize-1 cards plus bufferPerPlayer
// cards each for play.
func BuildFillDeck(numPlayers, startingHandSize, bufferPerPlayer int) Deck {
	size := numPlayers * (startingHandSize - 1 + bufferPerPlayer)
	deck := make(Deck, 0, size+numPlayers)
	for i := 0; i < size; i++ {
		deck = append(deck, NewCard(fillPattern[i%len(fillPattern)]))
	}
	return deck
}

// Shuffle performs an in-place Fisher-Yates shuffle.
func (d Deck) Shuffle(r Rand) {
	for i := len(d) - 1; i > 0; i-- {
		j := r.IntN(i + 1)
		d[i], d[j] = d[j], d[i]
	}
}

// Draw pops the top card. ok is false when the deck is empty.
func (d *Deck) Draw() (card Card, ok bool) {
	n := len(*d)
	if n == 0 {
		return Card{}, false
	}
	card = (*d)[n-1]
	*d = (*d)[:n-1]
	return card, true
}

// Push puts a card on top of the deck.
func (d *Deck) Push(card Card) {
	*d = append(*d, card)
}

// Peek returns up to n cards from the top, in the order they would be drawn.
func (d Deck) Peek(n int) []Card {
	if n > len(d) {
		n = len(d)
	}
	out := make([]Card, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, d[len(d)-1-i])
	}
	return out
}

// Count returns the number of cards of the given kind in the deck.
func (d Deck) Count(kind Kind) int {
	return CountKind(d, kind)
}

// Deal gives every hand one Save card and then deals perHand-1 cards from the
// top of the deck round-robin. Elimination cards must not be in the deck yet.
// Returns the dealt hands; the deck is consumed in place.
func Deal(d *Deck, numPlayers, perHand int) [][]Card {
	hands := make([][]Card, numPlayers)
	for i := range hands {
		hands[i] = make([]Card, 0, perHand)
		hands[i] = append(hands[i], NewCard(KindSave))
	}
	for round := 0; round < perHand-1; round++ {
		for i := range hands {
			card, ok := d.Draw()
			if !ok {
				return hands
			}
			hands[i] = append(hands[i], card)
		}
	}
	return hands
}

// Setup is the result of dealing a new game.
type Setup struct {
	Hands [][]Card
	Deck  Deck
}

// NewSetup builds, shuffles and deals a game for numPlayers players. The
// numPlayers-1 Elimination cards are added and the deck reshuffled only after
// the hands are dealt, so no starting hand can hold one.
func NewSetup(r Rand, numPlayers, startingHandSize, bufferPerPlayer int) Setup {
	deck := BuildFillDeck(numPlayers, startingHandSize, bufferPerPlayer)
	deck.Shuffle(r)

	hands := Deal(&deck, numPlayers, startingHandSize)

	for i := 0; i < numPlayers-1; i++ {
		deck.Push(NewCard(KindElimination))
	}
	deck.Shuffle(r)

	return Setup{
		Hands: hands,
		Deck:  deck,
	}
}
