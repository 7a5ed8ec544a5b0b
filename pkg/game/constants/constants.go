package constants

const (
	// StartingHandSize is the number of cards each player holds when play starts,
	// including the Save card every player is given
	StartingHandSize int = 7
	// DeckBufferPerPlayer is the number of extra cards per player left in the deck after dealing
	DeckBufferPerPlayer int = 5

	// MinPlayers is the number of players required to start a game
	MinPlayers int = 2
	// MaxPlayers is the default capacity of a game
	MaxPlayers int = 100

	// ActionLogSize is the number of action records retained on the aggregate
	ActionLogSize int = 50
	// ViewActionCount is the number of action records exposed in a view
	ViewActionCount int = 10
	// PeekCount is the number of cards revealed by a Peek card
	PeekCount int = 3

	// GameIDLength is the length of a room code
	GameIDLength int = 6
	// GameIDAlphabet omits characters that are easy to confuse (I, O, 0, 1)
	GameIDAlphabet string = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	// GameIDMaxRetries is the number of attempts to find an unused room code
	GameIDMaxRetries int = 10

	// DefaultPlayerIcon is used when a player joins without choosing an icon
	DefaultPlayerIcon string = "🐶"
	// DefaultPlayerColor is used when a player joins without choosing a color
	DefaultPlayerColor string = "bg-pink-500"
)
