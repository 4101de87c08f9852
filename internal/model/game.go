package model

import (
	"fmt"
	"math/rand/v2"
)

type GameStatus uint8

const (
	InProgress GameStatus = iota
	Checkmate
	Stalemate
	// Aborted ends a game for reasons outside the rules, such as a lost peer.
	Aborted
)

func (s GameStatus) String() string {
	switch s {
	case InProgress:
		return "inProgress"
	case Checkmate:
		return "checkmate"
	case Stalemate:
		return "stalemate"
	case Aborted:
		return "aborted"
	}
	return "unknown"
}

func (s GameStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *GameStatus) UnmarshalText(text []byte) error {
	for _, candidate := range []GameStatus{InProgress, Checkmate, Stalemate, Aborted} {
		if candidate.String() == string(text) {
			*s = candidate
			return nil
		}
	}
	return fmt.Errorf("unknown game status %q", text)
}

// IsOver reports a terminal status; no move is accepted afterwards.
func (s GameStatus) IsOver() bool {
	return s != InProgress
}

// Game is the rules engine for one Chess960 game. It is not safe for concurrent use;
// callers serialize access.
type Game struct {
	state     BoardState
	turn      PieceColor
	status    GameStatus
	captured  [3][]Piece
	lastMove  *Move
	pending   *PendingPromotion
	history   History
	observers []Observer
	rng       *rand.Rand
}

type Option func(*Game)

// WithRand fixes the source used for random starting positions.
func WithRand(rng *rand.Rand) Option {
	return func(g *Game) {
		g.rng = rng
	}
}

func WithObserver(o Observer) Option {
	return func(g *Game) {
		g.observers = append(g.observers, o)
	}
}

// NewGame returns an engine already set up with a random Chess960 position.
func NewGame(opts ...Option) *Game {
	g := &Game{}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g.StartNewGame()
	return g
}

func (g *Game) Subscribe(o Observer) {
	g.observers = append(g.observers, o)
}

func (g *Game) notify(e Event) {
	for _, o := range g.observers {
		o.Notify(e)
	}
}

// StartNewGame discards the current game and sets up a fresh random position.
func (g *Game) StartNewGame() {
	b := NewBoard(RandomBackRank(g.rng))
	g.setup(&b)
}

// StartFromID sets up the Chess960 position with the given number.
func (g *Game) StartFromID(id int) error {
	rank, err := BackRankFromID(id)
	if err != nil {
		return err
	}
	b := NewBoard(rank)
	g.setup(&b)
	return nil
}

// LoadLayout sets up the board encoded by layout with White to move. A layout that
// does not decode falls back to a fresh random game; the result reports which
// happened.
func (g *Game) LoadLayout(layout string) bool {
	b, err := ParseLayout(layout)
	if err != nil {
		g.StartNewGame()
		return false
	}
	g.setup(&b)
	return true
}

func (g *Game) setup(b *Board) {
	g.state = BoardState{Board: *b, EnPassant: nil}
	g.state.Castling, g.state.RookStart = deriveCastling(b)
	g.turn = White
	g.captured = [3][]Piece{}
	g.lastMove = nil
	g.pending = nil
	g.history.reset(b)
	g.updateStatus()
	g.notify(Event{Kind: BoardChanged})
}

// deriveCastling grants a right for each side where the king stands on its home row
// with a rook of its color further out on that row; the outermost rook is used.
func deriveCastling(b *Board) (CastlingRights, [3][2]int) {
	var rights CastlingRights
	rookStart := [3][2]int{{-1, -1}, {-1, -1}, {-1, -1}}
	for _, color := range []PieceColor{White, Black} {
		row := color.homeRow()
		king := -1
		for c := 0; c < 8; c++ {
			if p := b[row][c]; p.Type == King && p.Color == color {
				king = c
				break
			}
		}
		if king < 0 {
			continue
		}
		rook := Piece{Type: Rook, Color: color}
		for c := 0; c < king; c++ {
			if b[row][c] == rook {
				rookStart[color][Queenside] = c
				rights[color][Queenside] = true
				break
			}
		}
		for c := 7; c > king; c-- {
			if b[row][c] == rook {
				rookStart[color][Kingside] = c
				rights[color][Kingside] = true
				break
			}
		}
	}
	return rights, rookStart
}

// TryMove validates m for the side to move and commits it. An illegal move returns
// an error wrapping ErrIllegalMove and leaves every piece of state untouched.
func (g *Game) TryMove(m Move) error {
	if g.status.IsOver() {
		return ErrGameOver
	}
	if g.pending != nil {
		return ErrPromotionPending
	}
	if !isMoveValid(&g.state, g.turn, m, true) {
		return fmt.Errorf("%w: %s %s", ErrIllegalMove, g.turn, m)
	}
	g.commit(m)
	return nil
}

func (g *Game) commit(m Move) {
	mover := g.state.Board.At(m.From())
	captured := applyMove(&g.state, m)
	if !captured.IsEmpty() {
		g.captured[g.turn] = append(g.captured[g.turn], captured)
	}
	g.updateCastlingRights(m, mover, captured)

	g.state.EnPassant = nil
	if mover.Type == Pawn && abs(m.ToRow-m.FromRow) == 2 {
		g.state.EnPassant = &Square{Row: (m.FromRow + m.ToRow) / 2, Col: m.FromCol}
	}
	last := m
	g.lastMove = &last
	g.history.push(&g.state.Board)

	if mover.Type == Pawn && m.ToRow == mover.Color.lastRow() && m.Promotion == None {
		g.pending = &PendingPromotion{Row: m.ToRow, Col: m.ToCol, Color: mover.Color}
		g.notify(Event{Kind: BoardChanged})
		g.notify(Event{Kind: PromotionRequired, Row: m.ToRow, Col: m.ToCol, Color: mover.Color})
		return
	}
	g.finishTurn()
}

func (g *Game) updateCastlingRights(m Move, mover, captured Piece) {
	switch mover.Type {
	case King:
		g.state.Castling.revoke(g.turn, Queenside)
		g.state.Castling.revoke(g.turn, Kingside)
	case Rook:
		if m.FromRow == g.turn.homeRow() {
			for _, side := range []CastlingSide{Queenside, Kingside} {
				if g.state.RookStart[g.turn][side] == m.FromCol {
					g.state.Castling.revoke(g.turn, side)
				}
			}
		}
	}
	opponent := g.turn.Opponent()
	if captured.Type == Rook && m.ToRow == opponent.homeRow() {
		for _, side := range []CastlingSide{Queenside, Kingside} {
			if g.state.RookStart[opponent][side] == m.ToCol {
				g.state.Castling.revoke(opponent, side)
			}
		}
	}
}

// FinishPromotion resolves a pending promotion and completes the suspended turn.
func (g *Game) FinishPromotion(row, col int, chosen PieceType) error {
	if g.pending == nil || g.pending.Row != row || g.pending.Col != col {
		return ErrNoPendingPromotion
	}
	if !chosen.IsPromotionChoice() {
		return fmt.Errorf("%w: %s", ErrInvalidPromotion, chosen)
	}
	g.state.Board[row][col].Type = chosen
	g.history.amend(&g.state.Board)
	g.history.ResetBrowser()
	if g.lastMove != nil {
		g.lastMove.Promotion = chosen
	}
	g.pending = nil
	g.finishTurn()
	return nil
}

func (g *Game) finishTurn() {
	g.turn = g.turn.Opponent()
	g.updateStatus()
	g.notify(Event{Kind: BoardChanged})
}

func (g *Game) updateStatus() {
	if g.HasLegalMoves(g.turn) {
		g.status = InProgress
		return
	}
	if isKingInCheck(&g.state, g.turn) {
		g.status = Checkmate
	} else {
		g.status = Stalemate
	}
}

// ForceEnd ends a running game without a rules outcome, e.g. when the remote peer
// disconnects. History browsing stays available.
func (g *Game) ForceEnd() {
	if g.status.IsOver() {
		return
	}
	g.status = Aborted
	g.pending = nil
	g.notify(Event{Kind: BoardChanged})
}

// LegalMovesFrom lists the legal moves of the side-to-move piece on (row, col). Pawn
// moves onto the last rank are listed once, without a promotion type.
func (g *Game) LegalMovesFrom(row, col int) []Move {
	from := Square{Row: row, Col: col}
	if !from.inBounds() || g.state.Board.At(from).Color != g.turn {
		return nil
	}
	return legalMovesFrom(&g.state, from, g.turn)
}

func legalMovesFrom(s *BoardState, from Square, color PieceColor) []Move {
	var moves []Move
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			m := Move{FromRow: from.Row, FromCol: from.Col, ToRow: r, ToCol: c}
			if isMoveValid(s, color, m, true) {
				moves = append(moves, m)
			}
		}
	}
	return moves
}

func (g *Game) HasLegalMoves(color PieceColor) bool {
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if g.state.Board[r][c].Color != color {
				continue
			}
			if len(legalMovesFrom(&g.state, Square{Row: r, Col: c}, color)) > 0 {
				return true
			}
		}
	}
	return false
}

func (g *Game) Board() Board {
	return g.state.Board
}

func (g *Game) PieceAt(row, col int) Piece {
	sq := Square{Row: row, Col: col}
	if !sq.inBounds() {
		return Piece{}
	}
	return g.state.Board.At(sq)
}

func (g *Game) Turn() PieceColor {
	return g.turn
}

func (g *Game) Status() GameStatus {
	return g.status
}

// InCheck reports whether color's king is attacked on the live board.
func (g *Game) InCheck(color PieceColor) bool {
	return isKingInCheck(&g.state, color)
}

// Captured lists the pieces color has taken, in capture order.
func (g *Game) Captured(color PieceColor) []Piece {
	if color != White && color != Black {
		return nil
	}
	return append([]Piece(nil), g.captured[color]...)
}

func (g *Game) LastMove() (Move, bool) {
	if g.lastMove == nil {
		return Move{}, false
	}
	return *g.lastMove, true
}

func (g *Game) Castling() CastlingRights {
	return g.state.Castling
}

func (g *Game) EnPassant() (Square, bool) {
	if g.state.EnPassant == nil {
		return Square{}, false
	}
	return *g.state.EnPassant, true
}

func (g *Game) PendingPromotion() (PendingPromotion, bool) {
	if g.pending == nil {
		return PendingPromotion{}, false
	}
	return *g.pending, true
}

func (g *Game) Layout() string {
	return g.state.Board.Layout()
}

// BrowseHistory moves the history cursor by step and returns the board there.
func (g *Game) BrowseHistory(step int) (Board, bool) {
	s, ok := g.history.Browse(step)
	return s.Board(), ok
}

func (g *Game) BrowseHistoryTo(index int) (Board, bool) {
	s, ok := g.history.BrowseTo(index)
	return s.Board(), ok
}

// HistoryAt reads an entry without moving the cursor.
func (g *Game) HistoryAt(index int) (Board, bool) {
	s, ok := g.history.At(index)
	return s.Board(), ok
}

func (g *Game) ResetHistoryBrowser() {
	g.history.ResetBrowser()
}

func (g *Game) HistoryLen() int {
	return g.history.Len()
}

func (g *Game) HistoryIndex() int {
	return g.history.Cursor()
}
