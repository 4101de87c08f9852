package model

import "fmt"

// Move is a candidate or committed ply. A king moved onto a friendly rook on the
// same row requests castling on that rook's side.
type Move struct {
	FromRow   int       `json:"fromRow"`
	FromCol   int       `json:"fromCol"`
	ToRow     int       `json:"toRow"`
	ToCol     int       `json:"toCol"`
	Promotion PieceType `json:"promotion"`
}

func (m Move) From() Square {
	return Square{Row: m.FromRow, Col: m.FromCol}
}

func (m Move) To() Square {
	return Square{Row: m.ToRow, Col: m.ToCol}
}

func (m Move) String() string {
	if m.Promotion != None {
		return fmt.Sprintf("%s%s=%s", m.From(), m.To(), m.Promotion.getPieceNotation())
	}
	return fmt.Sprintf("%s%s", m.From(), m.To())
}

// PendingPromotion marks a pawn waiting on the last rank for its new type.
type PendingPromotion struct {
	Row   int        `json:"row"`
	Col   int        `json:"col"`
	Color PieceColor `json:"color"`
}

type CastlingSide int

const (
	Queenside CastlingSide = iota
	Kingside
)

// castleTargets returns the fixed destination columns of king and rook.
func castleTargets(side CastlingSide) (kingCol, rookCol int) {
	if side == Kingside {
		return 6, 5
	}
	return 2, 3
}

// CastlingRights is indexed by color then side. A cleared right is never restored.
type CastlingRights [3][2]bool

func (c CastlingRights) Has(color PieceColor, side CastlingSide) bool {
	return c[color][side]
}

func (c *CastlingRights) revoke(color PieceColor, side CastlingSide) {
	c[color][side] = false
}
