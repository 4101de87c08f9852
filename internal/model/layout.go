package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Layout encodes b as 64 "type,color;" entries in row-major order.
func (b *Board) Layout() string {
	var sb strings.Builder
	sb.Grow(64 * 4)
	for r := 0; r < 8; r++ {
		for c := 0; c < 8; c++ {
			sb.WriteString(strconv.Itoa(int(b[r][c].Type)))
			sb.WriteByte(',')
			sb.WriteString(strconv.Itoa(int(b[r][c].Color)))
			sb.WriteByte(';')
		}
	}
	return sb.String()
}

// ParseLayout decodes a string produced by Board.Layout. Empty entries are skipped.
func ParseLayout(layout string) (Board, error) {
	var b Board
	entries := strings.FieldsFunc(layout, func(r rune) bool { return r == ';' })
	if len(entries) != 64 {
		return b, fmt.Errorf("%w: %d entries, want 64", ErrMalformedLayout, len(entries))
	}
	for i, entry := range entries {
		typ, color, ok := strings.Cut(strings.TrimSpace(entry), ",")
		if !ok {
			return b, fmt.Errorf("%w: entry %d %q", ErrMalformedLayout, i, entry)
		}
		t, err := strconv.Atoi(typ)
		if err != nil || t < int(None) || t > int(Pawn) {
			return b, fmt.Errorf("%w: entry %d has piece type %q", ErrMalformedLayout, i, typ)
		}
		c, err := strconv.Atoi(color)
		if err != nil || c < int(NoColor) || c > int(Black) {
			return b, fmt.Errorf("%w: entry %d has color %q", ErrMalformedLayout, i, color)
		}
		if (t == int(None)) != (c == int(NoColor)) {
			return b, fmt.Errorf("%w: entry %d mixes empty and occupied", ErrMalformedLayout, i)
		}
		b[i/8][i%8] = Piece{Type: PieceType(t), Color: PieceColor(c)}
	}
	return b, nil
}
