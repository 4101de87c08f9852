package model

import (
	"fmt"
	"math/rand/v2"
)

// BackRank is the piece order of a home row, column 0 first.
type BackRank [8]PieceType

// StandardPositionID is the Chess960 number of the orthodox RNBQKBNR setup.
const StandardPositionID = 518

// knightPairs lists the knight slots among five free squares, by position id remainder.
var knightPairs = [10][2]int{
	{0, 1}, {0, 2}, {0, 3}, {0, 4}, {1, 2},
	{1, 3}, {1, 4}, {2, 3}, {2, 4}, {3, 4},
}

func (r *BackRank) emptySquares() []int {
	empty := make([]int, 0, 8)
	for i, p := range r {
		if p == None {
			empty = append(empty, i)
		}
	}
	return empty
}

// RandomBackRank draws a legal Chess960 back rank: bishops on opposite colors and
// the king strictly between the rooks.
func RandomBackRank(rng *rand.Rand) BackRank {
	var rank BackRank
	rank[rng.IntN(4)*2] = Bishop
	rank[rng.IntN(4)*2+1] = Bishop

	empty := rank.emptySquares()
	kingSlot := 1 + rng.IntN(len(empty)-2)
	rank[empty[kingSlot]] = King
	rank[empty[rng.IntN(kingSlot)]] = Rook
	rank[empty[kingSlot+1+rng.IntN(len(empty)-kingSlot-1)]] = Rook

	rest := rank.emptySquares()
	queenSlot := rng.IntN(len(rest))
	for i, sq := range rest {
		if i == queenSlot {
			rank[sq] = Queen
		} else {
			rank[sq] = Knight
		}
	}
	return rank
}

// BackRankFromID builds the back rank with the given Chess960 number (0..959).
func BackRankFromID(id int) (BackRank, error) {
	var rank BackRank
	if id < 0 || id >= 960 {
		return rank, fmt.Errorf("%w: %d", ErrInvalidPositionID, id)
	}
	n := id
	rank[2*(n%4)+1] = Bishop
	n /= 4
	rank[2*(n%4)] = Bishop
	n /= 4
	rank[rank.emptySquares()[n%6]] = Queen
	n /= 6

	empty := rank.emptySquares()
	for _, slot := range knightPairs[n] {
		rank[empty[slot]] = Knight
	}
	for i, sq := range rank.emptySquares() {
		if i == 1 {
			rank[sq] = King
		} else {
			rank[sq] = Rook
		}
	}
	return rank, nil
}

// ID returns the Chess960 number of r, or false if r is not a legal back rank.
func (r BackRank) ID() (int, bool) {
	if !r.Valid() {
		return 0, false
	}
	for id := 0; id < 960; id++ {
		if candidate, _ := BackRankFromID(id); candidate == r {
			return id, true
		}
	}
	return 0, false
}

// Valid checks piece counts, bishop square colors and the king-between-rooks rule.
func (r BackRank) Valid() bool {
	counts := map[PieceType]int{}
	bishopParity := 0
	king, rooks := -1, []int{}
	for i, p := range r {
		counts[p]++
		switch p {
		case Bishop:
			bishopParity += i % 2
		case King:
			king = i
		case Rook:
			rooks = append(rooks, i)
		}
	}
	if counts[King] != 1 || counts[Queen] != 1 || counts[Rook] != 2 || counts[Bishop] != 2 || counts[Knight] != 2 {
		return false
	}
	return bishopParity == 1 && rooks[0] < king && king < rooks[1]
}

func (r BackRank) String() string {
	s := make([]byte, 0, 8)
	for _, p := range r {
		n := p.getPieceNotation()
		if n == "" {
			n = "."
		}
		s = append(s, n...)
	}
	return string(s)
}
