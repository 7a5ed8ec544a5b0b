package cards

import (
	"encoding/json"
	"fmt"
)

// Kind is the closed set of card kinds.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindElimination
	KindSave
	KindSkip
	KindShuffle
	KindPeek
	KindPairA
	KindPairB
	KindPairC
)

var kindNames = map[Kind]string{
	KindElimination: "elimination",
	KindSave:        "save",
	KindSkip:        "skip",
	KindShuffle:     "shuffle",
	KindPeek:        "peek",
	KindPairA:       "pair-a",
	KindPairB:       "pair-b",
	KindPairC:       "pair-c",
}

// Kinds lists every playable kind in declaration order.
var Kinds = []Kind{
	KindElimination,
	KindSave,
	KindSkip,
	KindShuffle,
	KindPeek,
	KindPairA,
	KindPairB,
	KindPairC,
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// ParseKind parses the wire name of a kind.
func ParseKind(s string) (Kind, error) {
	for k, name := range kindNames {
		if name == s {
			return k, nil
		}
	}
	return KindUnknown, fmt.Errorf("unknown card kind: %q", s)
}

// IsPair reports whether k is one of the three pair variants.
func (k Kind) IsPair() bool {
	return k == KindPairA || k == KindPairB || k == KindPairC
}

func (k Kind) MarshalJSON() ([]byte, error) {
	if _, ok := kindNames[k]; !ok {
		return nil, fmt.Errorf("cannot marshal card kind %d", k)
	}
	return json.Marshal(k.String())
}

func (k *Kind) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("failed to unmarshal card kind: %v", err)
	}
	parsed, err := ParseKind(s)
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Card is an immutable card. The ID is only used to find the card in a hand.
type Card struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
}

// IndexOfID returns the index of the card with the given id, or -1.
func IndexOfID(hand []Card, id string) int {
	for i, c := range hand {
		if c.ID == id {
			return i
		}
	}
	return -1
}

// IndexOfKind returns the index of the first card of the given kind, or -1.
func IndexOfKind(hand []Card, kind Kind) int {
	for i, c := range hand {
		if c.Kind == kind {
			return i
		}
	}
	return -1
}

// CountKind counts the cards of the given kind.
func CountKind(hand []Card, kind Kind) int {
	n := 0
	for _, c := range hand {
		if c.Kind == kind {
			n++
		}
	}
	return n
}

// RemoveAt returns hand without the card at index i. The input slice is not modified.
func RemoveAt(hand []Card, i int) []Card {
	out := make([]Card, 0, len(hand)-1)
	out = append(out, hand[:i]...)
	return append(out, hand[i+1:]...)
}
