package repositories

import (
	"errors"
	"fmt"
)

type ErrNotFound struct {
}

func (e *ErrNotFound) Error() string {
	return "not found"
}

func IsNotFound(err error) bool {
	var target *ErrNotFound
	return errors.As(err, &target)
}

// ErrConflict is returned when a save was based on a stale version.
type ErrConflict struct {
	GameID          string
	ExpectedVersion int64
}

func (e *ErrConflict) Error() string {
	return fmt.Sprintf("version conflict for game %s: expected version %d", e.GameID, e.ExpectedVersion)
}

func IsConflict(err error) bool {
	var target *ErrConflict
	return errors.As(err, &target)
}

type ErrAlreadyExists struct {
	GameID string
}

func (e *ErrAlreadyExists) Error() string {
	return fmt.Sprintf("game %s already exists", e.GameID)
}

func IsAlreadyExists(err error) bool {
	var target *ErrAlreadyExists
	return errors.As(err, &target)
}
