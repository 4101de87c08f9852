package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/benbeisheim/chess960-backend/internal/model"
	"github.com/google/uuid"
)

// MatchFoundEvent tells a queued player which game and color they were paired into.
type MatchFoundEvent struct {
	GameID string           `json:"gameId"`
	Color  model.PieceColor `json:"color"`
	Layout string           `json:"layout"`
}

type GameManager struct {
	games            map[string]*Room
	queue            *model.Queue
	matchingChannels map[string]chan MatchFoundEvent
	newGame          func() *model.Game
	mu               sync.RWMutex
}

type ManagerOption func(*GameManager)

// WithGameFactory replaces how fresh engines are built, e.g. with a seeded source.
func WithGameFactory(f func() *model.Game) ManagerOption {
	return func(gm *GameManager) {
		gm.newGame = f
	}
}

func NewGameManager(opts ...ManagerOption) *GameManager {
	gm := &GameManager{
		games:            make(map[string]*Room),
		queue:            model.NewQueue(),
		matchingChannels: make(map[string]chan MatchFoundEvent),
		newGame:          func() *model.Game { return model.NewGame() },
	}
	for _, opt := range opts {
		opt(gm)
	}
	return gm
}

// RegisterMatchmakingChannel replaces any earlier channel of playerID, closing it.
func (gm *GameManager) RegisterMatchmakingChannel(playerID string, ch chan MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if existing, ok := gm.matchingChannels[playerID]; ok && existing != ch {
		delete(gm.matchingChannels, playerID)
		close(existing)
	}
	gm.matchingChannels[playerID] = ch
}

// UnregisterMatchmakingChannel forgets ch and takes the player out of the queue.
// The channel is left open; its creator owns it.
func (gm *GameManager) UnregisterMatchmakingChannel(playerID string, ch chan MatchFoundEvent) {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	if current, ok := gm.matchingChannels[playerID]; ok && current == ch {
		delete(gm.matchingChannels, playerID)
		gm.queue.RemovePlayer(playerID)
	}
}

// Run pairs queued players every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			gm.matchPlayers()
		}
	}
}

func (gm *GameManager) matchPlayers() {
	gm.mu.Lock()
	defer gm.mu.Unlock()

	for {
		white, black, ok := gm.queue.GetNextPair(gm.hasListenerLocked)
		if !ok {
			return
		}
		room := gm.createRoomLocked()
		for _, p := range []model.Player{white, black} {
			color, err := room.Join(p.ID)
			if err != nil {
				log.Printf("matchmaking: seating %s in %s: %v", p.ID, room.ID, err)
				continue
			}
			gm.notifyMatch(p.ID, MatchFoundEvent{GameID: room.ID, Color: color, Layout: room.Layout()})
		}
	}
}

// hasListenerLocked reports whether playerID has an open matchmaking socket; players
// without one stay queued until they connect.
func (gm *GameManager) hasListenerLocked(p model.Player) bool {
	_, ok := gm.matchingChannels[p.ID]
	return ok
}

// notifyMatch delivers event without blocking and retires the player's channel.
func (gm *GameManager) notifyMatch(playerID string, event MatchFoundEvent) {
	ch := gm.matchingChannels[playerID]
	delete(gm.matchingChannels, playerID)
	select {
	case ch <- event:
	default:
		log.Printf("matchmaking: listener for %s not ready", playerID)
	}
	close(ch)
}

func (gm *GameManager) createRoomLocked() *Room {
	id := uuid.New().String()
	room := NewRoom(id, gm.newGame())
	gm.games[id] = room
	return room
}

// CreateGame opens an empty room and returns it.
func (gm *GameManager) CreateGame() *Room {
	gm.mu.Lock()
	defer gm.mu.Unlock()
	return gm.createRoomLocked()
}

func (gm *GameManager) GetRoom(gameID string) (*Room, error) {
	gm.mu.RLock()
	defer gm.mu.RUnlock()

	room, ok := gm.games[gameID]
	if !ok {
		return nil, ErrGameNotFound
	}
	return room, nil
}

func (gm *GameManager) JoinMatchmaking(playerID string) error {
	return gm.queue.AddPlayer(model.Player{ID: playerID})
}

func (gm *GameManager) QueueSize() int {
	return gm.queue.Size()
}
