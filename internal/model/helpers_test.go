package model

import (
	"math/rand/v2"
	"testing"
)

var pieceLetters = map[byte]PieceType{
	'k': King, 'q': Queen, 'r': Rook, 'b': Bishop, 'n': Knight, 'p': Pawn,
}

// boardFromRows reads eight rows, row 0 first, using FEN letters and '.' for empty.
func boardFromRows(t *testing.T, rows [8]string) Board {
	t.Helper()
	var b Board
	for r, row := range rows {
		if len(row) != 8 {
			t.Fatalf("row %d has %d cells, want 8", r, len(row))
		}
		for c := 0; c < 8; c++ {
			ch := row[c]
			if ch == '.' {
				continue
			}
			color := Black
			if ch >= 'A' && ch <= 'Z' {
				color = White
				ch += 'a' - 'A'
			}
			typ, ok := pieceLetters[ch]
			if !ok {
				t.Fatalf("row %d: unknown piece %q", r, row[c])
			}
			b[r][c] = Piece{Type: typ, Color: color}
		}
	}
	return b
}

func seededRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// newTestGame sets up rows with turn to move and recomputes the status.
func newTestGame(t *testing.T, rows [8]string, turn PieceColor, opts ...Option) *Game {
	t.Helper()
	g := NewGame(append([]Option{WithRand(seededRand(1))}, opts...)...)
	b := boardFromRows(t, rows)
	g.setup(&b)
	g.turn = turn
	g.updateStatus()
	return g
}

func mv(fromRow, fromCol, toRow, toCol int) Move {
	return Move{FromRow: fromRow, FromCol: fromCol, ToRow: toRow, ToCol: toCol}
}

func mustMove(t *testing.T, g *Game, m Move) {
	t.Helper()
	if err := g.TryMove(m); err != nil {
		t.Fatalf("move %s: %v", m, err)
	}
}

type eventRecorder struct {
	events []Event
}

func (r *eventRecorder) Notify(e Event) {
	r.events = append(r.events, e)
}

func (r *eventRecorder) count(kind EventKind) int {
	n := 0
	for _, e := range r.events {
		if e.Kind == kind {
			n++
		}
	}
	return n
}
