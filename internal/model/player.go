package model

type Player struct {
	ID string
}
