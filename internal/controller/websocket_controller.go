package controller

import (
	"encoding/json"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/minimax-chess/internal/middleware"
	"github.com/benbeisheim/minimax-chess/internal/service"
	"github.com/benbeisheim/minimax-chess/internal/ws"
)

type WebSocketController struct {
	gameService *service.GameService
}

func NewWebSocketController(gameService *service.GameService) *WebSocketController {
	return &WebSocketController{
		gameService: gameService,
	}
}

// HandleConnection is called when a new WebSocket connection is established
func (wsc *WebSocketController) HandleConnection(c *websocket.Conn) {
	gameID := c.Params("gameId")
	playerID, _ := c.Locals(middleware.PlayerIDKey).(string)

	if err := wsc.gameService.RegisterConnection(gameID, playerID, c); err != nil {
		reject(gameID, playerID, c, err)
		return
	}
	defer wsc.gameService.UnregisterConnection(gameID, playerID, c)

	for {
		messageType, message, err := c.ReadMessage()
		if err != nil {
			log.Debugf("game %s: read from player %s: %v", gameID, playerID, err)
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(message, &msg); err != nil {
			wsc.sendError(gameID, c, fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := wsc.handleMessage(gameID, playerID, msg); err != nil {
			wsc.sendError(gameID, c, err)
		}
	}
}

// handleMessage applies one inbound message. The resulting state reaches
// every connection through the game's broadcast.
func (wsc *WebSocketController) handleMessage(gameID, playerID string, msg ws.Message) error {
	switch msg.Type {
	case ws.MessageTypeMove:
		var move ws.MovePayload
		if err := json.Unmarshal(msg.Payload, &move); err != nil {
			return fmt.Errorf("malformed move: %w", err)
		}
		_, err := wsc.gameService.HandleMove(gameID, playerID, move)
		return err

	case ws.MessageTypePromote:
		var promote ws.PromotePayload
		if err := json.Unmarshal(msg.Payload, &promote); err != nil {
			return fmt.Errorf("malformed promotion: %w", err)
		}
		_, err := wsc.gameService.HandlePromotion(gameID, playerID, promote)
		return err

	default:
		return fmt.Errorf("unknown message type: %s", msg.Type)
	}
}

// reject reports err on a connection that was never registered and closes it.
func reject(gameID, playerID string, conn service.Conn, err error) {
	log.Warnf("game %s: rejecting connection for player %s: %v", gameID, playerID, err)
	if writeErr := conn.WriteJSON(ws.ErrorMessage(err)); writeErr != nil {
		log.Debugf("game %s: send rejection: %v", gameID, writeErr)
	}
	if closeErr := conn.Close(); closeErr != nil {
		log.Debugf("game %s: close rejected connection: %v", gameID, closeErr)
	}
}

func (wsc *WebSocketController) sendError(gameID string, c *websocket.Conn, err error) {
	if sendErr := wsc.gameService.SendError(gameID, c, err); sendErr != nil {
		log.Debugf("game %s: send error: %v", gameID, sendErr)
	}
}
