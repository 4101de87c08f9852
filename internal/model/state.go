package model

// GameState is the serializable view of a game handed to clients.
type GameState struct {
	Board            Board             `json:"board"`
	Layout           string            `json:"layout"`
	ToMove           PieceColor        `json:"toMove"`
	Status           GameStatus        `json:"status"`
	IsCheck          bool              `json:"isCheck"`
	CapturedPieces   CapturedPieces    `json:"capturedPieces"`
	Castling         CastlingState     `json:"castling"`
	EnPassantTarget  *Square           `json:"enPassantTarget"`  // nullable
	LastMove         *Move             `json:"lastMove"`         // nullable
	PendingPromotion *PendingPromotion `json:"pendingPromotion"` // nullable
	HistoryLen       int               `json:"historyLen"`
}

type CapturedPieces struct {
	White []Piece `json:"white"`
	Black []Piece `json:"black"`
}

type CastlingState struct {
	WhiteQueenside bool `json:"whiteQueenside"`
	WhiteKingside  bool `json:"whiteKingside"`
	BlackQueenside bool `json:"blackQueenside"`
	BlackKingside  bool `json:"blackKingside"`
}

func (g *Game) State() GameState {
	st := GameState{
		Board:   g.state.Board,
		Layout:  g.state.Board.Layout(),
		ToMove:  g.turn,
		Status:  g.status,
		IsCheck: g.InCheck(g.turn),
		CapturedPieces: CapturedPieces{
			White: g.Captured(White),
			Black: g.Captured(Black),
		},
		Castling: CastlingState{
			WhiteQueenside: g.state.Castling.Has(White, Queenside),
			WhiteKingside:  g.state.Castling.Has(White, Kingside),
			BlackQueenside: g.state.Castling.Has(Black, Queenside),
			BlackKingside:  g.state.Castling.Has(Black, Kingside),
		},
		HistoryLen: g.history.Len(),
	}
	if sq, ok := g.EnPassant(); ok {
		st.EnPassantTarget = &sq
	}
	if m, ok := g.LastMove(); ok {
		st.LastMove = &m
	}
	if p, ok := g.PendingPromotion(); ok {
		st.PendingPromotion = &p
	}
	if st.CapturedPieces.White == nil {
		st.CapturedPieces.White = make([]Piece, 0)
	}
	if st.CapturedPieces.Black == nil {
		st.CapturedPieces.Black = make([]Piece, 0)
	}
	return st
}
