package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/benbeisheim/chess960-backend/internal/middleware"
	"github.com/benbeisheim/chess960-backend/internal/model"
	"github.com/benbeisheim/chess960-backend/internal/service"
	"github.com/benbeisheim/chess960-backend/internal/ws"
	"github.com/gofiber/websocket/v2"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// safeConn serializes writes; the room and the read loop both write to one socket.
type safeConn struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (s *safeConn) WriteJSON(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteJSON(v)
}

func (s *safeConn) WriteMessage(messageType int, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.conn.WriteMessage(messageType, data)
}

func (s *safeConn) Close() error {
	return s.conn.Close()
}

// HandleConnection runs the read loop of one player in one game.
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)
	conn := &safeConn{conn: c}

	if err := wsc.gameService.RegisterConnection(gameID, playerID, conn); err != nil {
		log.Printf("register %s in %s: %v", playerID, gameID, err)
		conn.WriteJSON(ws.NewError(err))
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, conn)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("read %s in %s: %v", playerID, gameID, err)
			}
			return
		}

		switch messageType {
		case websocket.TextMessage:
			var msg ws.Message
			if err := json.Unmarshal(message, &msg); err != nil {
				conn.WriteJSON(ws.NewError(fmt.Errorf("parse message: %w", err)))
				continue
			}
			err = wsc.handleMessage(gameID, playerID, msg)
		case websocket.BinaryMessage:
			err = wsc.handleFrames(gameID, playerID, message)
		default:
			continue
		}
		if err != nil {
			conn.WriteJSON(ws.NewError(err))
		}
	}
}

func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move model.Move
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("parse move: %w", err)
		}
		return wsc.gameService.HandleMove(gameID, playerID, move)
	case ws.MessageTypePromotion:
		var p ws.PromotionPayload
		if err := json.Unmarshal(msg.Payload, &p); err != nil {
			return fmt.Errorf("parse promotion: %w", err)
		}
		return wsc.gameService.HandlePromotion(gameID, playerID, p)
	case ws.MessageTypeChat:
		var chat ws.ChatPayload
		if err := json.Unmarshal(msg.Payload, &chat); err != nil {
			return fmt.Errorf("parse chat: %w", err)
		}
		return wsc.gameService.HandleChat(gameID, playerID, chat.Text)
	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// handleFrames applies every frame of a binary message in order, stopping at the
// first failure.
func (wsc *WebSocketController) handleFrames(gameID, playerID string, buf []byte) error {
	frames, err := ws.DecodeFrames(buf)
	if err != nil {
		return err
	}
	for _, f := range frames {
		switch f.Kind {
		case ws.FrameMove:
			err = wsc.gameService.HandleMove(gameID, playerID, f.Move)
		case ws.FrameChat:
			err = wsc.gameService.HandleChat(gameID, playerID, f.Chat)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// HandleMatchmaking queues the player and waits for the pairing or for the client to
// go away.
func (wsc *WebSocketController) HandleMatchmaking(c *websocket.Conn) {
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	ch := make(chan service.MatchFoundEvent, 1)
	wsc.gameService.RegisterMatchmakingChannel(playerID, ch)
	defer wsc.gameService.UnregisterMatchmakingChannel(playerID, ch)

	if err := wsc.gameService.JoinMatchmaking(playerID); err != nil && !errors.Is(err, model.ErrPlayerInQueue) {
		c.WriteJSON(ws.NewError(err))
		return
	}

	gone := make(chan struct{})
	go func() {
		defer close(gone)
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()

	select {
	case event, ok := <-ch:
		if !ok {
			return
		}
		msg, err := ws.NewMessage(ws.MessageTypeMatchFound, ws.MatchFoundPayload{
			GameID: event.GameID,
			Color:  event.Color,
			Layout: event.Layout,
		})
		if err != nil {
			log.Printf("match event for %s: %v", playerID, err)
			return
		}
		if err := c.WriteJSON(msg); err != nil {
			log.Printf("send match to %s: %v", playerID, err)
		}
	case <-gone:
	}
}
