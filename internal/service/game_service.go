package service

import (
	"fmt"
	"log"

	"github.com/benbeisheim/chess960-backend/internal/model"
	"github.com/benbeisheim/chess960-backend/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame opens a room and returns its id with the starting layout.
func (gs *GameService) CreateGame() (string, string) {
	room := gs.gameManager.CreateGame()
	log.Printf("created game %s", room.ID)
	return room.ID, room.Layout()
}

func (gs *GameService) JoinGame(gameID string, playerID string) (model.PieceColor, error) {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return model.NoColor, err
	}
	color, err := room.Join(playerID)
	if err != nil {
		return model.NoColor, fmt.Errorf("join %s: %w", gameID, err)
	}
	return color, nil
}

func (gs *GameService) JoinMatchmaking(playerID string) error {
	return gs.gameManager.JoinMatchmaking(playerID)
}

func (gs *GameService) GetGameState(gameID string) (model.GameState, error) {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return model.GameState{}, err
	}
	return room.State(), nil
}

func (gs *GameService) GetHistory(gameID string, index int) (model.Board, error) {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return model.Board{}, err
	}
	return room.HistoryAt(index)
}

func (gs *GameService) HandleMove(gameID string, playerID string, move model.Move) error {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return err
	}
	if err := room.Move(playerID, move); err != nil {
		return fmt.Errorf("move in %s: %w", gameID, err)
	}
	return nil
}

func (gs *GameService) HandlePromotion(gameID string, playerID string, p ws.PromotionPayload) error {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return err
	}
	if err := room.Promote(playerID, p); err != nil {
		return fmt.Errorf("promotion in %s: %w", gameID, err)
	}
	return nil
}

func (gs *GameService) HandleChat(gameID string, playerID string, text string) error {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return err
	}
	return room.Chat(playerID, text)
}

func (gs *GameService) RegisterConnection(gameID string, playerID string, conn Conn) error {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return err
	}
	return room.Attach(playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID string, playerID string, conn Conn) {
	room, err := gs.gameManager.GetRoom(gameID)
	if err != nil {
		return
	}
	room.Detach(playerID, conn)
}

func (gs *GameService) RegisterMatchmakingChannel(playerID string, ch chan MatchFoundEvent) {
	gs.gameManager.RegisterMatchmakingChannel(playerID, ch)
}

func (gs *GameService) UnregisterMatchmakingChannel(playerID string, ch chan MatchFoundEvent) {
	gs.gameManager.UnregisterMatchmakingChannel(playerID, ch)
}
