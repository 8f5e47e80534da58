/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package engine

import (
	"errors"
	"strings"
)

var (
	ErrTooFewPlayers = errors.New("not enough players")
	ErrEmptyName     = errors.New("player name cannot be empty")
	ErrDuplicateName = errors.New("player name is already taken")
	ErrUnknownPlayer = errors.New("unknown player")
	ErrWrongPhase    = errors.New("action not allowed in the current phase")
	ErrNotYourTurn   = errors.New("it is not your turn")
	ErrAlreadyActed  = errors.New("player has already acted this round")
	ErrInvalidTarget = errors.New("invalid target")
)

// ValidationError carries the human-readable reasons a submission was rejected.
type ValidationError struct {
	Reasons []string
}

func (e *ValidationError) Error() string {
	return "invalid submission: " + strings.Join(e.Reasons, "; ")
}

// Validate returns a *ValidationError when reasons is non-empty.
func Validate(reasons []string) error {
	if len(reasons) == 0 {
		return nil
	}

	return &ValidationError{Reasons: reasons}
}

// Reasons extracts validation reasons from err, if any.
func Reasons(err error) []string {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Reasons
	}

	return nil
}
