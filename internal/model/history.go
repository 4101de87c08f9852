package model

// Snapshot is a full 64-cell copy of a board, row-major.
type Snapshot [64]Piece

func snapshotOf(b *Board) Snapshot {
	var s Snapshot
	for r := 0; r < 8; r++ {
		copy(s[r*8:(r+1)*8], b[r][:])
	}
	return s
}

func (s Snapshot) Board() Board {
	var b Board
	for r := 0; r < 8; r++ {
		copy(b[r][:], s[r*8:(r+1)*8])
	}
	return b
}

// History is the append-only log of committed positions plus a browsing cursor
// that never touches live game state.
type History struct {
	entries []Snapshot
	cursor  int
}

func (h *History) reset(b *Board) {
	h.entries = append(h.entries[:0], snapshotOf(b))
	h.ResetBrowser()
}

func (h *History) push(b *Board) {
	h.entries = append(h.entries, snapshotOf(b))
	h.ResetBrowser()
}

// amend replaces the newest entry; used when a deferred promotion completes the ply.
func (h *History) amend(b *Board) {
	if len(h.entries) == 0 {
		h.push(b)
		return
	}
	h.entries[len(h.entries)-1] = snapshotOf(b)
}

func (h *History) Len() int {
	return len(h.entries)
}

// Cursor is the index of the entry being browsed, -1 when empty.
func (h *History) Cursor() int {
	return h.cursor
}

func (h *History) ResetBrowser() {
	h.cursor = len(h.entries) - 1
}

func (h *History) At(index int) (Snapshot, bool) {
	if index < 0 || index >= len(h.entries) {
		return Snapshot{}, false
	}
	return h.entries[index], true
}

// Browse moves the cursor by step. Out-of-range steps leave it where it was.
func (h *History) Browse(step int) (Snapshot, bool) {
	return h.BrowseTo(h.cursor + step)
}

func (h *History) BrowseTo(index int) (Snapshot, bool) {
	s, ok := h.At(index)
	if ok {
		h.cursor = index
	}
	return s, ok
}
