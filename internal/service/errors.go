package service

import "errors"

var (
	ErrGameNotFound        = errors.New("game not found")
	ErrGameExists          = errors.New("game already exists")
	ErrNotYourTurn         = errors.New("not your turn")
	ErrNotInGame           = errors.New("player not in game")
	ErrInvalidColor        = errors.New("color must be white or black")
	ErrAlreadyQueued       = errors.New("game already queued for a reply")
	ErrDuplicateConnection = errors.New("connection already exists")
)
