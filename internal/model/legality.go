package model

// BoardState is everything the rules need besides the side to move. Predicates take
// it by pointer and never mutate it; simulations work on a copy.
type BoardState struct {
	Board    Board          `json:"board"`
	Castling CastlingRights `json:"-"`
	// RookStart holds each castling rook's origin column, -1 when absent.
	RookStart [3][2]int `json:"-"`
	EnPassant *Square   `json:"enPassantTarget"`
}

type direction struct {
	dr, dc int
}

var (
	bishopDirs = []direction{{1, 1}, {-1, -1}, {1, -1}, {-1, 1}}
	rookDirs   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	queenDirs  = append(append([]direction{}, bishopDirs...), rookDirs...)
)

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

func sign(x int) int {
	switch {
	case x > 0:
		return 1
	case x < 0:
		return -1
	}
	return 0
}

// isMoveValid is the full legality test. With checkKingSafety false it only answers
// the geometry question, which is what attack scans need; castling is never
// considered in that mode so check detection cannot recurse into itself.
func isMoveValid(s *BoardState, turn PieceColor, m Move, checkKingSafety bool) bool {
	from, to := m.From(), m.To()
	if !from.inBounds() || !to.inBounds() || from == to {
		return false
	}
	mover := s.Board.At(from)
	if mover.IsEmpty() || mover.Color != turn {
		return false
	}
	castling := isCastlingRequest(s, m)
	if !castling && s.Board.At(to).Color == turn {
		return false
	}
	if !promotionFits(mover, m) {
		return false
	}

	var ok bool
	switch mover.Type {
	case Pawn:
		ok = isPawnMoveValid(s, m)
	case Knight:
		ok = isKnightMoveValid(m)
	case Bishop:
		ok = isSlidingMoveValid(&s.Board, m, bishopDirs)
	case Rook:
		ok = isSlidingMoveValid(&s.Board, m, rookDirs)
	case Queen:
		ok = isSlidingMoveValid(&s.Board, m, queenDirs)
	case King:
		if castling {
			ok = checkKingSafety && isCastlingValid(s, turn, m)
		} else {
			ok = isKingStepValid(m)
		}
	}
	if !ok {
		return false
	}

	if checkKingSafety {
		scratch := *s
		applyMove(&scratch, m)
		if isKingInCheck(&scratch, turn) {
			return false
		}
	}
	return true
}

// isCastlingRequest reports whether m is the king-onto-own-rook encoding.
func isCastlingRequest(s *BoardState, m Move) bool {
	if m.FromRow != m.ToRow {
		return false
	}
	mover, target := s.Board.At(m.From()), s.Board.At(m.To())
	return mover.Type == King && target.Type == Rook && mover.Color == target.Color
}

func castlingSide(m Move) CastlingSide {
	if m.ToCol > m.FromCol {
		return Kingside
	}
	return Queenside
}

// promotionFits rejects a promotion type on anything but a pawn reaching its last rank.
func promotionFits(mover Piece, m Move) bool {
	if m.Promotion == None {
		return true
	}
	return mover.Type == Pawn && m.ToRow == mover.Color.lastRow() && m.Promotion.IsPromotionChoice()
}

func isPawnMoveValid(s *BoardState, m Move) bool {
	mover := s.Board.At(m.From())
	target := s.Board.At(m.To())
	dir := mover.Color.forward()
	dr, dc := m.ToRow-m.FromRow, m.ToCol-m.FromCol

	if dr == dir && abs(dc) == 1 {
		if !target.IsEmpty() && target.Color != mover.Color {
			return true
		}
		return isEnPassantCapture(s, m)
	}
	if dc != 0 || !target.IsEmpty() {
		return false
	}
	if dr == dir {
		return true
	}
	return dr == 2*dir && m.FromRow == mover.Color.pawnRow() && s.Board[m.FromRow+dir][m.FromCol].IsEmpty()
}

// isEnPassantCapture reports whether m is a pawn capturing onto the en passant target.
func isEnPassantCapture(s *BoardState, m Move) bool {
	if s.EnPassant == nil || *s.EnPassant != m.To() {
		return false
	}
	mover := s.Board.At(m.From())
	if mover.Type != Pawn || m.ToRow-m.FromRow != mover.Color.forward() || abs(m.ToCol-m.FromCol) != 1 {
		return false
	}
	if !s.Board.At(m.To()).IsEmpty() {
		return false
	}
	victim := s.Board[m.ToRow-mover.Color.forward()][m.ToCol]
	return victim.Type == Pawn && victim.Color == mover.Color.Opponent()
}

func isKnightMoveValid(m Move) bool {
	dr, dc := abs(m.ToRow-m.FromRow), abs(m.ToCol-m.FromCol)
	return (dr == 2 && dc == 1) || (dr == 1 && dc == 2)
}

func isKingStepValid(m Move) bool {
	return abs(m.ToRow-m.FromRow) <= 1 && abs(m.ToCol-m.FromCol) <= 1
}

// isSlidingMoveValid requires the destination on one of dirs with every square in
// between empty.
func isSlidingMoveValid(b *Board, m Move, dirs []direction) bool {
	dr, dc := m.ToRow-m.FromRow, m.ToCol-m.FromCol
	if dr != 0 && dc != 0 && abs(dr) != abs(dc) {
		return false
	}
	step := direction{sign(dr), sign(dc)}
	allowed := false
	for _, d := range dirs {
		if d == step {
			allowed = true
			break
		}
	}
	if !allowed {
		return false
	}
	for r, c := m.FromRow+step.dr, m.FromCol+step.dc; r != m.ToRow || c != m.ToCol; r, c = r+step.dr, c+step.dc {
		if !b[r][c].IsEmpty() {
			return false
		}
	}
	return true
}

// isCastlingValid checks rights, check, attacked transit squares and that every
// square spanned by both journeys is empty apart from the two movers. Destination
// columns are fixed whatever the rook's origin.
func isCastlingValid(s *BoardState, turn PieceColor, m Move) bool {
	row := m.FromRow
	if row != turn.homeRow() {
		return false
	}
	side := castlingSide(m)
	if !s.Castling.Has(turn, side) || s.RookStart[turn][side] != m.ToCol {
		return false
	}
	if isKingInCheck(s, turn) {
		return false
	}

	kingDest, rookDest := castleTargets(side)
	opponent := turn.Opponent()
	for c := min(m.FromCol, kingDest); c <= max(m.FromCol, kingDest); c++ {
		if isSquareAttacked(s, Square{Row: row, Col: c}, opponent) {
			return false
		}
	}

	lo := min(m.FromCol, m.ToCol, kingDest, rookDest)
	hi := max(m.FromCol, m.ToCol, kingDest, rookDest)
	for c := lo; c <= hi; c++ {
		if c == m.FromCol || c == m.ToCol {
			continue
		}
		if !s.Board[row][c].IsEmpty() {
			return false
		}
	}
	return true
}

// applyMove relocates pieces for m and returns the captured piece, if any. Castling
// vacates both origins before filling either destination since they may overlap.
// Rights, en passant target and turn are the caller's business.
func applyMove(s *BoardState, m Move) Piece {
	b := &s.Board
	from, to := m.From(), m.To()
	mover, target := b.At(from), b.At(to)

	if isCastlingRequest(s, m) {
		kingDest, rookDest := castleTargets(castlingSide(m))
		b.clear(from)
		b.clear(to)
		b[from.Row][kingDest] = mover
		b[from.Row][rookDest] = target
		return Piece{}
	}

	captured := target
	if isEnPassantCapture(s, m) {
		victim := Square{Row: to.Row - mover.Color.forward(), Col: to.Col}
		captured = b.At(victim)
		b.clear(victim)
	}
	b.set(to, mover)
	b.clear(from)
	if m.Promotion != None {
		b[to.Row][to.Col].Type = m.Promotion
	}
	return captured
}
