package state

import "errors"

var (
	// ErrCharacterNotFound is returned when a character id is not part of
	// the team.
	ErrCharacterNotFound = errors.New("character not found")
	// ErrNoActiveCharacter is returned when a team has no active character.
	ErrNoActiveCharacter = errors.New("no active character")
)
