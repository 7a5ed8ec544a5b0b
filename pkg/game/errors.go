package game

import (
	"errors"
	"fmt"
)

// Category groups errors by how the caller should react to them.
type Category string

const (
	CategoryValidation    Category = "validation"
	CategoryNotFound      Category = "not-found"
	CategoryStateConflict Category = "state-conflict"
	CategoryAuthorization Category = "authorization"
	CategoryRuleViolation Category = "rule-violation"
	CategoryWriteConflict Category = "write-conflict"
	CategoryNotModified   Category = "not-modified"
)

// Error is a recoverable error reported to the caller of a game operation.
// The exported Err* values are compared with errors.Is.
type Error struct {
	Code     string
	Category Category
	Message  string
}

func (e *Error) Error() string {
	return e.Message
}

// Is matches errors with the same code, so that an Error wrapping extra
// detail still matches its sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// WithDetail returns a copy of the error with detail appended to the message.
func (e *Error) WithDetail(format string, args ...interface{}) *Error {
	return &Error{
		Code:     e.Code,
		Category: e.Category,
		Message:  fmt.Sprintf("%s: %s", e.Message, fmt.Sprintf(format, args...)),
	}
}

var (
	ErrMissingField      = &Error{Code: "missing-field", Category: CategoryValidation, Message: "missing required field"}
	ErrInvalidActionType = &Error{Code: "invalid-action-type", Category: CategoryValidation, Message: "invalid action type"}

	ErrGameNotFound = &Error{Code: "game-not-found", Category: CategoryNotFound, Message: "game not found"}

	ErrNotInProgress    = &Error{Code: "not-in-progress", Category: CategoryStateConflict, Message: "game not in progress"}
	ErrAlreadyStarted   = &Error{Code: "already-started", Category: CategoryStateConflict, Message: "game already started"}
	ErrGameFull         = &Error{Code: "game-full", Category: CategoryStateConflict, Message: "game is full"}
	ErrAlreadyJoined    = &Error{Code: "already-joined", Category: CategoryStateConflict, Message: "player already in game"}
	ErrNotEnoughPlayers = &Error{Code: "not-enough-players", Category: CategoryStateConflict, Message: "need at least 2 players to start"}

	ErrNotYourTurn    = &Error{Code: "not-your-turn", Category: CategoryAuthorization, Message: "not your turn"}
	ErrNotMVP         = &Error{Code: "not-mvp", Category: CategoryAuthorization, Message: "only the MVP can start the game"}
	ErrPlayerNotAlive = &Error{Code: "player-not-alive", Category: CategoryAuthorization, Message: "player has been eliminated"}
	ErrUnknownPlayer  = &Error{Code: "unknown-player", Category: CategoryAuthorization, Message: "player is not in this game"}

	ErrDeckEmpty         = &Error{Code: "deck-empty", Category: CategoryRuleViolation, Message: "deck is empty"}
	ErrCardNotInHand     = &Error{Code: "card-not-in-hand", Category: CategoryRuleViolation, Message: "card not in hand"}
	ErrInvalidManualPlay = &Error{Code: "invalid-manual-play", Category: CategoryRuleViolation, Message: "save cards are only played automatically when an elimination card is drawn"}
	ErrMissingPair       = &Error{Code: "missing-pair", Category: CategoryRuleViolation, Message: "a matching pair card is required to play this card"}

	ErrWriteConflict = &Error{Code: "write-conflict", Category: CategoryWriteConflict, Message: "game was modified concurrently"}

	ErrNotModified = &Error{Code: "not-modified", Category: CategoryNotModified, Message: "game not modified"}
)

// CategoryOf returns the category of a game error, or "" for any other error.
func CategoryOf(err error) Category {
	var e *Error
	if errors.As(err, &e) {
		return e.Category
	}
	return ""
}
