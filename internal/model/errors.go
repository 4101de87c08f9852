package model

import "errors"

var (
	ErrIllegalMove        = errors.New("illegal move")
	ErrGameOver           = errors.New("game is over")
	ErrPromotionPending   = errors.New("promotion choice pending")
	ErrNoPendingPromotion = errors.New("no promotion pending on that square")
	ErrInvalidPromotion   = errors.New("invalid promotion piece")
	ErrMalformedLayout    = errors.New("malformed layout")
	ErrInvalidPositionID  = errors.New("chess960 position id out of range")
	ErrPlayerInQueue      = errors.New("player already in queue")
)
