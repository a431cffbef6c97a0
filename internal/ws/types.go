package ws

import (
	"encoding/json"

	"github.com/benbeisheim/minimax-chess/internal/model"
)

// MessageType represents the different kinds of messages our system can handle
type MessageType string

const (
	MessageTypeMove      MessageType = "move"
	MessageTypePromote   MessageType = "promote"
	MessageTypeGameState MessageType = "gameState"
	MessageTypeError     MessageType = "error"
)

// Message represents a WebSocket message in our system
type Message struct {
	Type    MessageType     `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type MovePayload struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}

type PromotePayload struct {
	Choice model.PromotionChoice `json:"choice"`
}

type ErrorPayload struct {
	Error string `json:"error"`
}

// NewMessage marshals payload into a message of type t.
func NewMessage(t MessageType, payload any) (Message, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return Message{}, err
	}
	return Message{Type: t, Payload: raw}, nil
}

func ErrorMessage(err error) Message {
	raw, _ := json.Marshal(ErrorPayload{Error: err.Error()})
	return Message{Type: MessageTypeError, Payload: raw}
}
