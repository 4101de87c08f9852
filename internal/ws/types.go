package ws

import (
	"encoding/json"
	"fmt"

	"github.com/benbeisheim/chess960-backend/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove              MessageType = "move"
	MessageTypePromotion         MessageType = "promotion"
	MessageTypeGameState         MessageType = "gameState"
	MessageTypePromotionRequired MessageType = "promotionRequired"
	MessageTypeChat              MessageType = "chat"
	MessageTypeMatchFound        MessageType = "matchFound"
	MessageTypeError             MessageType = "error"
)

// Message represents a WebSocket text frame in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// PromotionPayload answers a promotionRequired message.
type PromotionPayload struct {
	Row   int             `json:"row"`
	Col   int             `json:"col"`
	Piece model.PieceType `json:"piece"`
}

type ChatPayload struct {
	Text string `json:"text"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

type MatchFoundPayload struct {
	GameID string           `json:"gameId"`
	Color  model.PieceColor `json:"color"`
	Layout string           `json:"layout"`
}

// NewMessage wraps payload into an envelope of the given type.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, fmt.Errorf("encode %s payload: %w", t, err)
	}
	return Message{Type: t, Payload: raw}, nil
}

func NewError(err error) Message {
	raw, _ := json.Marshal(ErrorPayload{Error: err.Error()})
	return Message{Type: MessageTypeError, Payload: raw}
}
