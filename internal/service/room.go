package service

import (
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/chess960-backend/internal/model"
	"github.com/benbeisheim/chess960-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

// Conn is the part of a websocket connection a room writes to.
type Conn interface {
	WriteJSON(v interface{}) error
	WriteMessage(messageType int, data []byte) error
	Close() error
}

// Room serializes both players' requests into one engine and fans the results out.
// Moves forwarded to the opponent use the binary frame codec; state goes out as JSON.
type Room struct {
	ID string

	mu    sync.Mutex
	game  *model.Game
	seats map[model.PieceColor]string
	conns map[string]Conn
}

func NewRoom(id string, game *model.Game) *Room {
	r := &Room{
		ID:    id,
		game:  game,
		seats: make(map[model.PieceColor]string),
		conns: make(map[string]Conn),
	}
	game.Subscribe(model.ObserverFunc(r.onEvent))
	return r
}

// onEvent runs inside engine calls, so r.mu is already held.
func (r *Room) onEvent(e model.Event) {
	switch e.Kind {
	case model.BoardChanged:
		r.broadcastJSON(ws.MessageTypeGameState, r.game.State())
	case model.PromotionRequired:
		pending := model.PendingPromotion{Row: e.Row, Col: e.Col, Color: e.Color}
		r.sendJSON(r.seats[e.Color], ws.MessageTypePromotionRequired, pending)
	}
}

// Join seats playerID, White first. Rejoining returns the color already held.
func (r *Room) Join(playerID string) (model.PieceColor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if color, ok := r.colorOf(playerID); ok {
		return color, nil
	}
	for _, color := range []model.PieceColor{model.White, model.Black} {
		if _, taken := r.seats[color]; !taken {
			r.seats[color] = playerID
			return color, nil
		}
	}
	return model.NoColor, ErrGameFull
}

func (r *Room) colorOf(playerID string) (model.PieceColor, bool) {
	for color, id := range r.seats {
		if id == playerID {
			return color, true
		}
	}
	return model.NoColor, false
}

// Attach registers conn for a seated player and sends the current state to it.
func (r *Room) Attach(playerID string, conn Conn) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.colorOf(playerID); !ok {
		return ErrNotSeated
	}
	if old, ok := r.conns[playerID]; ok && old != conn {
		old.Close()
	}
	r.conns[playerID] = conn
	r.sendJSON(playerID, ws.MessageTypeGameState, r.game.State())
	return nil
}

// Detach drops the player's connection. Once both seats are taken, a game still
// running is force-ended so the remaining peer sees a terminal state.
func (r *Room) Detach(playerID string, conn Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if current, ok := r.conns[playerID]; !ok || current != conn {
		return
	}
	delete(r.conns, playerID)
	if len(r.seats) == 2 && !r.game.Status().IsOver() {
		log.Printf("room %s: player %s disconnected, ending game", r.ID, playerID)
		r.game.ForceEnd()
	}
}

func (r *Room) seatFor(playerID string) (model.PieceColor, error) {
	color, ok := r.colorOf(playerID)
	if !ok {
		return model.NoColor, ErrNotSeated
	}
	if color != r.game.Turn() {
		return color, ErrNotYourTurn
	}
	return color, nil
}

// Move re-validates m in the engine on behalf of playerID.
func (r *Room) Move(playerID string, m model.Move) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, err := r.seatFor(playerID)
	if err != nil {
		return err
	}
	if err := r.game.TryMove(m); err != nil {
		return err
	}
	if _, pending := r.game.PendingPromotion(); !pending {
		r.forwardLastMove(color)
	}
	return nil
}

func (r *Room) Promote(playerID string, p ws.PromotionPayload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, err := r.seatFor(playerID)
	if err != nil {
		return err
	}
	if err := r.game.FinishPromotion(p.Row, p.Col, p.Piece); err != nil {
		return err
	}
	r.forwardLastMove(color)
	return nil
}

func (r *Room) forwardLastMove(mover model.PieceColor) {
	m, ok := r.game.LastMove()
	if !ok {
		return
	}
	r.sendBinary(r.seats[mover.Opponent()], ws.EncodeMove(m))
}

// Chat relays text from playerID to the opponent.
func (r *Room) Chat(playerID, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	color, ok := r.colorOf(playerID)
	if !ok {
		return ErrNotSeated
	}
	frame, err := ws.EncodeChat(text)
	if err != nil {
		return err
	}
	r.sendBinary(r.seats[color.Opponent()], frame)
	return nil
}

func (r *Room) State() model.GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.State()
}

func (r *Room) Layout() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.game.Layout()
}

// HistoryAt reads one snapshot without moving the engine's browse cursor.
func (r *Room) HistoryAt(index int) (model.Board, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	b, ok := r.game.HistoryAt(index)
	if !ok {
		return model.Board{}, fmt.Errorf("%w: %d of %d", ErrHistoryOutOfRange, index, r.game.HistoryLen())
	}
	return b, nil
}

func (r *Room) sendJSON(playerID string, t ws.MessageType, payload any) {
	conn, ok := r.conns[playerID]
	if !ok {
		return
	}
	msg, err := ws.NewMessage(t, payload)
	if err != nil {
		log.Printf("room %s: %v", r.ID, err)
		return
	}
	if err := conn.WriteJSON(msg); err != nil {
		log.Printf("room %s: write to %s: %v", r.ID, playerID, err)
	}
}

func (r *Room) broadcastJSON(t ws.MessageType, payload any) {
	for playerID := range r.conns {
		r.sendJSON(playerID, t, payload)
	}
}

func (r *Room) sendBinary(playerID string, frame []byte) {
	conn, ok := r.conns[playerID]
	if !ok {
		return
	}
	if err := conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		log.Printf("room %s: write to %s: %v", r.ID, playerID, err)
	}
}
