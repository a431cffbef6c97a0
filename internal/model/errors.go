package model

import "errors"

var (
	ErrInvalidPick            = errors.New("invalid pick")
	ErrIllegalMove            = errors.New("illegal move")
	ErrInvalidPromotionChoice = errors.New("invalid promotion choice")
	ErrOutOfBounds            = errors.New("position out of bounds")
	ErrPromotionPending       = errors.New("promotion pending")
	ErrNoPendingPromotion     = errors.New("no pending promotion")
	ErrGameOver               = errors.New("game is over")
	ErrInvalidSetup           = errors.New("invalid board setup")
)
