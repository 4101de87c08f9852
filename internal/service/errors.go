package service

import "errors"

var (
	ErrGameNotFound      = errors.New("game not found")
	ErrGameFull          = errors.New("game already has two players")
	ErrNotSeated         = errors.New("player is not seated in this game")
	ErrNotYourTurn       = errors.New("not your turn")
	ErrHistoryOutOfRange = errors.New("history index out of range")
)
