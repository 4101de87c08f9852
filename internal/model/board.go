package model

import "fmt"

type PieceType uint8

const (
	None PieceType = iota
	King
	Queen
	Rook
	Bishop
	Knight
	Pawn
)

func (p PieceType) String() string {
	switch p {
	case King:
		return "king"
	case Queen:
		return "queen"
	case Rook:
		return "rook"
	case Bishop:
		return "bishop"
	case Knight:
		return "knight"
	case Pawn:
		return "pawn"
	}
	return "none"
}

func (p PieceType) getPieceNotation() string {
	switch p {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// IsPromotionChoice reports whether a pawn may be promoted to p.
func (p PieceType) IsPromotionChoice() bool {
	return p == Queen || p == Rook || p == Bishop || p == Knight
}

type PieceColor uint8

const (
	NoColor PieceColor = iota
	White
	Black
)

func (c PieceColor) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	}
	return "none"
}

func (c PieceColor) Opponent() PieceColor {
	switch c {
	case White:
		return Black
	case Black:
		return White
	}
	return NoColor
}

// forward is the row delta of a pawn advance.
func (c PieceColor) forward() int {
	if c == White {
		return -1
	}
	return 1
}

func (c PieceColor) homeRow() int {
	if c == White {
		return 7
	}
	return 0
}

func (c PieceColor) pawnRow() int {
	if c == White {
		return 6
	}
	return 1
}

func (c PieceColor) lastRow() int {
	if c == White {
		return 0
	}
	return 7
}

// Piece is a value; the zero Piece is an empty square.
type Piece struct {
	Type  PieceType  `json:"type"`
	Color PieceColor `json:"color"`
}

func (p Piece) IsEmpty() bool {
	return p.Type == None
}

func (p Piece) String() string {
	if p.IsEmpty() {
		return "empty"
	}
	return p.Color.String() + " " + p.Type.String()
}

// Square addresses a board cell. Row 0 is Black's home rank.
type Square struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (s Square) inBounds() bool {
	return s.Row >= 0 && s.Row < 8 && s.Col >= 0 && s.Col < 8
}

func (s Square) String() string {
	if !s.inBounds() {
		return fmt.Sprintf("(%d,%d)", s.Row, s.Col)
	}
	return fmt.Sprintf("%c%d", s.Col+'a', 8-s.Row)
}

// Board is the 8x8 grid, indexed [row][col].
type Board [8][8]Piece

func (b *Board) At(sq Square) Piece {
	return b[sq.Row][sq.Col]
}

func (b *Board) set(sq Square, p Piece) {
	b[sq.Row][sq.Col] = p
}

func (b *Board) clear(sq Square) {
	b[sq.Row][sq.Col] = Piece{}
}

// FindKing returns the square of color's king.
func (b *Board) FindKing(color PieceColor) (Square, bool) {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if b[r][c].Type == King && b[r][c].Color == color {
				return Square{Row: r, Col: c}, true
			}
		}
	}
	return Square{}, false
}

// NewBoard mirrors rank onto both home rows and fills the pawn rows.
func NewBoard(rank BackRank) Board {
	var b Board
	for col := 0; col < 8; col++ {
		b[Black.homeRow()][col] = Piece{Type: rank[col], Color: Black}
		b[Black.pawnRow()][col] = Piece{Type: Pawn, Color: Black}
		b[White.pawnRow()][col] = Piece{Type: Pawn, Color: White}
		b[White.homeRow()][col] = Piece{Type: rank[col], Color: White}
	}
	return b
}
