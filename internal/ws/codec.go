package ws

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/benbeisheim/chess960-backend/internal/model"
)

// FrameKind is the leading tag byte of a binary frame.
type FrameKind uint8

const (
	FrameMove FrameKind = iota
	FrameChat
)

const (
	moveFrameLen   = 6
	chatHeaderLen  = 5
	maxChatPayload = 4096
)

var (
	ErrShortFrame   = errors.New("truncated frame")
	ErrUnknownFrame = errors.New("unknown frame tag")
	ErrChatTooLong  = errors.New("chat text too long")
)

// Frame is one decoded binary record; Move is set for FrameMove, Chat for FrameChat.
type Frame struct {
	Kind FrameKind
	Move model.Move
	Chat string
}

// EncodeMove produces [tag, fromRow, fromCol, toRow, toCol, promotion].
func EncodeMove(m model.Move) []byte {
	return []byte{
		byte(FrameMove),
		byte(m.FromRow), byte(m.FromCol),
		byte(m.ToRow), byte(m.ToCol),
		byte(m.Promotion),
	}
}

// EncodeChat produces [tag, len:u32 big endian, utf8 bytes].
func EncodeChat(text string) ([]byte, error) {
	if len(text) > maxChatPayload {
		return nil, ErrChatTooLong
	}
	buf := make([]byte, chatHeaderLen, chatHeaderLen+len(text))
	buf[0] = byte(FrameChat)
	binary.BigEndian.PutUint32(buf[1:], uint32(len(text)))
	return append(buf, text...), nil
}

// DecodeFrames splits buf into frames. A buffer may carry several frames back to back;
// any trailing partial frame fails the whole buffer.
func DecodeFrames(buf []byte) ([]Frame, error) {
	var frames []Frame
	for len(buf) > 0 {
		switch FrameKind(buf[0]) {
		case FrameMove:
			if len(buf) < moveFrameLen {
				return nil, fmt.Errorf("move: %w", ErrShortFrame)
			}
			frames = append(frames, Frame{
				Kind: FrameMove,
				Move: model.Move{
					FromRow:   int(buf[1]),
					FromCol:   int(buf[2]),
					ToRow:     int(buf[3]),
					ToCol:     int(buf[4]),
					Promotion: model.PieceType(buf[5]),
				},
			})
			buf = buf[moveFrameLen:]
		case FrameChat:
			if len(buf) < chatHeaderLen {
				return nil, fmt.Errorf("chat header: %w", ErrShortFrame)
			}
			n := binary.BigEndian.Uint32(buf[1:chatHeaderLen])
			if n > maxChatPayload {
				return nil, ErrChatTooLong
			}
			end := chatHeaderLen + int(n)
			if len(buf) < end {
				return nil, fmt.Errorf("chat body: %w", ErrShortFrame)
			}
			frames = append(frames, Frame{Kind: FrameChat, Chat: string(buf[chatHeaderLen:end])})
			buf = buf[end:]
		default:
			return nil, fmt.Errorf("%w: %d", ErrUnknownFrame, buf[0])
		}
	}
	return frames, nil
}
