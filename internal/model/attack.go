package model

// isSquareAttacked reports whether any attacker piece could capture on sq. Pawns
// attack both forward diagonals whether or not sq is occupied and never attack
// with a push.
func isSquareAttacked(s *BoardState, sq Square, attacker PieceColor) bool {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			p := s.Board[r][c]
			if p.Color != attacker {
				continue
			}
			if p.Type == Pawn {
				if sq.Row-r == attacker.forward() && abs(sq.Col-c) == 1 {
					return true
				}
				continue
			}
			m := Move{FromRow: r, FromCol: c, ToRow: sq.Row, ToCol: sq.Col}
			if isMoveValid(s, attacker, m, false) {
				return true
			}
		}
	}
	return false
}

func isKingInCheck(s *BoardState, color PieceColor) bool {
	king, ok := s.Board.FindKing(color)
	if !ok {
		return false
	}
	return isSquareAttacked(s, king, color.Opponent())
}
