package model

import (
	"encoding/json"
	"errors"
	"testing"
)

var enPassantRows = [8]string{
	"....k...",
	"........",
	"........",
	"........",
	"...p....",
	"........",
	"....P...",
	"....K...",
}

func TestEnPassantImmediatelyAfterDoubleStep(t *testing.T) {
	g := newTestGame(t, enPassantRows, White)
	mustMove(t, g, mv(6, 4, 4, 4))

	ep, ok := g.EnPassant()
	if !ok || ep != (Square{Row: 5, Col: 4}) {
		t.Fatalf("expected en passant target e3, got %v %v", ep, ok)
	}

	mustMove(t, g, mv(4, 3, 5, 4))
	b := g.Board()
	if !b[4][4].IsEmpty() {
		t.Fatalf("expected the passed pawn to be removed, found %s", b[4][4])
	}
	if b[5][4] != (Piece{Type: Pawn, Color: Black}) {
		t.Fatalf("expected black pawn on e3, found %s", b[5][4])
	}
	if captured := g.Captured(Black); len(captured) != 1 || captured[0] != (Piece{Type: Pawn, Color: White}) {
		t.Fatalf("expected black to have captured one white pawn, got %v", captured)
	}
	if _, ok := g.EnPassant(); ok {
		t.Fatalf("en passant target must clear after the capture")
	}
}

func TestEnPassantExpiresAfterOnePly(t *testing.T) {
	g := newTestGame(t, enPassantRows, White)
	mustMove(t, g, mv(6, 4, 4, 4))
	mustMove(t, g, mv(0, 4, 0, 3))
	mustMove(t, g, mv(7, 4, 7, 3))

	before := g.Board()
	if err := g.TryMove(mv(4, 3, 5, 4)); !errors.Is(err, ErrIllegalMove) {
		t.Fatalf("stale en passant capture accepted: %v", err)
	}
	if g.Board() != before {
		t.Fatalf("board changed after rejected capture")
	}
}

func TestSingleStepSetsNoEnPassantTarget(t *testing.T) {
	g := newTestGame(t, enPassantRows, White)
	mustMove(t, g, mv(6, 4, 5, 4))
	if _, ok := g.EnPassant(); ok {
		t.Fatalf("single pawn step must not set an en passant target")
	}
}

func TestPromotionDeferredUntilChoice(t *testing.T) {
	rec := &eventRecorder{}
	g := newTestGame(t, [8]string{
		".......k",
		"P.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....K...",
	}, White, WithObserver(rec))
	rec.events = nil

	mustMove(t, g, mv(1, 0, 0, 0))
	if n := rec.count(PromotionRequired); n != 1 {
		t.Fatalf("expected one promotion event, got %d", n)
	}
	var req Event
	for _, e := range rec.events {
		if e.Kind == PromotionRequired {
			req = e
		}
	}
	if req.Row != 0 || req.Col != 0 || req.Color != White {
		t.Fatalf("unexpected promotion event %+v", req)
	}
	if g.Turn() != White {
		t.Fatalf("turn must stay with white until the promotion is chosen")
	}
	if p, ok := g.PendingPromotion(); !ok || p.Row != 0 || p.Col != 0 {
		t.Fatalf("expected pending promotion on a8, got %+v %v", p, ok)
	}
	if err := g.TryMove(mv(7, 4, 6, 4)); !errors.Is(err, ErrPromotionPending) {
		t.Fatalf("expected ErrPromotionPending, got %v", err)
	}

	if err := g.FinishPromotion(0, 1, Queen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Fatalf("expected ErrNoPendingPromotion for wrong square, got %v", err)
	}
	if err := g.FinishPromotion(0, 0, King); !errors.Is(err, ErrInvalidPromotion) {
		t.Fatalf("expected ErrInvalidPromotion, got %v", err)
	}

	changed := rec.count(BoardChanged)
	if err := g.FinishPromotion(0, 0, Queen); err != nil {
		t.Fatalf("finish promotion: %v", err)
	}
	if rec.count(BoardChanged) != changed+1 {
		t.Fatalf("expected a board change event after promotion")
	}
	if g.PieceAt(0, 0) != (Piece{Type: Queen, Color: White}) {
		t.Fatalf("expected a white queen on a8, got %s", g.PieceAt(0, 0))
	}
	if g.Turn() != Black {
		t.Fatalf("expected black to move after promotion")
	}
	if !g.InCheck(Black) {
		t.Fatalf("the new queen should give check along the back rank")
	}
	last, _ := g.LastMove()
	if last.Promotion != Queen {
		t.Fatalf("last move should carry the chosen promotion, got %s", last)
	}
	latest, _ := g.HistoryAt(g.HistoryLen() - 1)
	if latest[0][0].Type != Queen {
		t.Fatalf("history should record the promoted piece")
	}
	if g.HistoryLen() != 2 {
		t.Fatalf("promotion must not add a history entry, got %d", g.HistoryLen())
	}
	if err := g.FinishPromotion(0, 0, Rook); !errors.Is(err, ErrNoPendingPromotion) {
		t.Fatalf("second promotion accepted: %v", err)
	}
}

func TestPromotionCarriedInMove(t *testing.T) {
	rec := &eventRecorder{}
	g := newTestGame(t, [8]string{
		".......k",
		"........",
		"........",
		"........",
		"........",
		"........",
		"p.......",
		"....K...",
	}, Black, WithObserver(rec))
	rec.events = nil

	mustMove(t, g, Move{FromRow: 6, FromCol: 0, ToRow: 7, ToCol: 0, Promotion: Knight})
	if rec.count(PromotionRequired) != 0 {
		t.Fatalf("no promotion prompt expected when the move carries a type")
	}
	if g.PieceAt(7, 0) != (Piece{Type: Knight, Color: Black}) {
		t.Fatalf("expected black knight on a1, got %s", g.PieceAt(7, 0))
	}
	if g.Turn() != White {
		t.Fatalf("expected white to move")
	}
}

func TestCheckmateEndsGame(t *testing.T) {
	g := newTestGame(t, [8]string{
		"......k.",
		".....ppp",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R.....K.",
	}, White)
	mustMove(t, g, mv(7, 0, 0, 0))

	if g.Status() != Checkmate {
		t.Fatalf("expected checkmate, got %s", g.Status())
	}
	if !g.InCheck(Black) || g.HasLegalMoves(Black) {
		t.Fatalf("mated side must be in check without moves")
	}
	if err := g.TryMove(mv(1, 5, 2, 5)); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestStalemateEndsGame(t *testing.T) {
	g := newTestGame(t, [8]string{
		".......k",
		"........",
		"......K.",
		"........",
		"........",
		".....Q..",
		"........",
		"........",
	}, White)
	mustMove(t, g, mv(5, 5, 1, 5))

	if g.Status() != Stalemate {
		t.Fatalf("expected stalemate, got %s", g.Status())
	}
	if g.InCheck(Black) {
		t.Fatalf("stalemated king must not be in check")
	}
	if err := g.TryMove(mv(0, 7, 0, 6)); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver, got %v", err)
	}
}

func TestStatusClassification(t *testing.T) {
	tests := []struct {
		name string
		rows [8]string
		turn PieceColor
		want GameStatus
	}{
		{
			name: "back rank mate",
			rows: [8]string{"R.....k.", ".....ppp", "........", "........", "........", "........", "........", "......K."},
			turn: Black,
			want: Checkmate,
		},
		{
			name: "corner stalemate",
			rows: [8]string{".......k", ".....Q..", "......K.", "........", "........", "........", "........", "........"},
			turn: Black,
			want: Stalemate,
		},
		{
			name: "check with escape",
			rows: [8]string{"R......k", "........", "........", "........", "........", "........", "........", "......K."},
			turn: Black,
			want: InProgress,
		},
		{
			name: "enemy king adjacent to rook",
			rows: [8]string{"........", "........", "........", "........", "........", "........", "k.......", "R.K....."},
			turn: White,
			want: InProgress,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGame(t, tt.rows, tt.turn)
			if got := g.Status(); got != tt.want {
				t.Fatalf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestForceEnd(t *testing.T) {
	g := NewGame(WithRand(seededRand(4)))
	mustMove(t, g, firstLegalMove(t, g))
	g.ForceEnd()
	if g.Status() != Aborted || !g.Status().IsOver() {
		t.Fatalf("expected aborted terminal status, got %s", g.Status())
	}
	if err := g.TryMove(firstLegalMoveIgnoringStatus(t, g)); !errors.Is(err, ErrGameOver) {
		t.Fatalf("expected ErrGameOver after force end, got %v", err)
	}
	if _, ok := g.BrowseHistory(-1); !ok {
		t.Fatalf("history browsing must stay available")
	}
}

func firstLegalMoveIgnoringStatus(t *testing.T, g *Game) Move {
	t.Helper()
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			if g.state.Board[r][c].Color != g.turn {
				continue
			}
			if moves := legalMovesFrom(&g.state, Square{Row: r, Col: c}, g.turn); len(moves) > 0 {
				return moves[0]
			}
		}
	}
	t.Fatalf("no move available")
	return Move{}
}

func TestHistoryBrowsing(t *testing.T) {
	g := newTestGame(t, enPassantRows, White)
	initial := g.Board()
	mustMove(t, g, mv(6, 4, 4, 4))
	afterFirst := g.Board()
	mustMove(t, g, mv(0, 4, 0, 3))
	live := g.Board()

	if g.HistoryLen() != 3 || g.HistoryIndex() != 2 {
		t.Fatalf("expected 3 entries with cursor at 2, got %d/%d", g.HistoryLen(), g.HistoryIndex())
	}
	if b, ok := g.BrowseHistory(-1); !ok || b != afterFirst {
		t.Fatalf("expected to browse back one ply")
	}
	if b, ok := g.BrowseHistory(-1); !ok || b != initial {
		t.Fatalf("expected to browse back to the initial position")
	}
	if _, ok := g.BrowseHistory(-1); ok {
		t.Fatalf("browsing before the first entry must fail")
	}
	if g.HistoryIndex() != 0 {
		t.Fatalf("failed browse moved the cursor to %d", g.HistoryIndex())
	}
	if g.Board() != live || g.Turn() != White {
		t.Fatalf("browsing changed live state")
	}
	if b, ok := g.BrowseHistoryTo(2); !ok || b != live {
		t.Fatalf("absolute browse to the last entry failed")
	}
	g.BrowseHistoryTo(0)
	mustMove(t, g, mv(7, 4, 7, 3))
	if g.HistoryIndex() != g.HistoryLen()-1 {
		t.Fatalf("a committed move must reset the cursor to the newest entry")
	}
	g.BrowseHistoryTo(1)
	g.ResetHistoryBrowser()
	if g.HistoryIndex() != g.HistoryLen()-1 {
		t.Fatalf("reset should move the cursor to the newest entry")
	}
	g.StartNewGame()
	if g.HistoryLen() != 1 || g.HistoryIndex() != 0 {
		t.Fatalf("new game must reset history")
	}
}

func TestObserverSeesEveryCommit(t *testing.T) {
	rec := &eventRecorder{}
	g := NewGame(WithRand(seededRand(5)), WithObserver(rec))
	if rec.count(BoardChanged) != 1 {
		t.Fatalf("expected a board change for the new game, got %d", rec.count(BoardChanged))
	}
	mustMove(t, g, firstLegalMove(t, g))
	if rec.count(BoardChanged) != 2 {
		t.Fatalf("expected a board change per commit, got %d", rec.count(BoardChanged))
	}
	_ = g.TryMove(mv(0, 0, 0, 0))
	if rec.count(BoardChanged) != 2 {
		t.Fatalf("a rejected move must not notify")
	}
}

// Random legal play never leaves the mover in check and keeps one king per side.
func TestRandomPlayKeepsInvariants(t *testing.T) {
	rng := seededRand(99)
	for game := 0; game < 5; game++ {
		g := NewGame(WithRand(rng))
		for ply := 0; ply < 120 && !g.Status().IsOver(); ply++ {
			var moves []Move
			for r := 0; r < 8; r++ {
				for c := 0; c < 8; c++ {
					moves = append(moves, g.LegalMovesFrom(r, c)...)
				}
			}
			if len(moves) == 0 {
				t.Fatalf("game %d ply %d: in progress without legal moves", game, ply)
			}
			mover := g.Turn()
			mustMove(t, g, moves[rng.IntN(len(moves))])
			if p, ok := g.PendingPromotion(); ok {
				if err := g.FinishPromotion(p.Row, p.Col, Queen); err != nil {
					t.Fatalf("promotion: %v", err)
				}
			}
			if g.InCheck(mover) {
				t.Fatalf("game %d ply %d: %s left its king in check", game, ply, mover)
			}
			b := g.Board()
			for _, color := range []PieceColor{White, Black} {
				kings := 0
				for r := 0; r < 8; r++ {
					for c := 0; c < 8; c++ {
						if b[r][c] == (Piece{Type: King, Color: color}) {
							kings++
						}
					}
				}
				if kings != 1 {
					t.Fatalf("game %d ply %d: %s has %d kings", game, ply, color, kings)
				}
			}
		}
	}
}

func TestStateJSON(t *testing.T) {
	g := newTestGame(t, enPassantRows, White)
	mustMove(t, g, mv(6, 4, 4, 4))

	raw, err := json.Marshal(g.State())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded["status"] != "inProgress" {
		t.Fatalf("expected status text, got %v", decoded["status"])
	}
	if decoded["toMove"] != float64(Black) {
		t.Fatalf("expected black to move, got %v", decoded["toMove"])
	}
	ep, ok := decoded["enPassantTarget"].(map[string]any)
	if !ok || ep["row"] != float64(5) || ep["col"] != float64(4) {
		t.Fatalf("unexpected en passant target %v", decoded["enPassantTarget"])
	}
	if decoded["pendingPromotion"] != nil {
		t.Fatalf("expected no pending promotion")
	}
	captured := decoded["capturedPieces"].(map[string]any)
	if white, ok := captured["white"].([]any); !ok || len(white) != 0 {
		t.Fatalf("expected empty captured list, got %v", captured["white"])
	}
	if decoded["layout"] != g.Layout() {
		t.Fatalf("layout mismatch")
	}
	if decoded["historyLen"] != float64(2) {
		t.Fatalf("expected two history entries, got %v", decoded["historyLen"])
	}
}

func TestFinishPromotionResetsHistoryCursor(t *testing.T) {
	g := newTestGame(t, [8]string{
		".......k",
		"P.......",
		"........",
		"........",
		"........",
		"........",
		"........",
		"....K...",
	}, White)
	mustMove(t, g, mv(1, 0, 0, 0))
	if _, ok := g.BrowseHistoryTo(0); !ok {
		t.Fatalf("browse to the initial position failed")
	}
	if err := g.FinishPromotion(0, 0, Queen); err != nil {
		t.Fatalf("finish promotion: %v", err)
	}
	if g.HistoryIndex() != g.HistoryLen()-1 {
		t.Fatalf("cursor should return to the newest entry, got %d of %d", g.HistoryIndex(), g.HistoryLen())
	}
	b, _ := g.BrowseHistory(0)
	if b[0][0] != (Piece{Type: Queen, Color: White}) {
		t.Fatalf("newest entry should show the promoted queen, got %s", b[0][0])
	}
}
