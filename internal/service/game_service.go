package service

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/store"
	"github.com/benbeisheim/minimax-chess/internal/ws"
)

type GameService struct {
	gameManager *GameManager
}

func NewGameService(gameManager *GameManager) *GameService {
	return &GameService{
		gameManager: gameManager,
	}
}

// CreateGame starts a game for owner, who plays color against the engine.
func (gs *GameService) CreateGame(owner string, color model.Player, depth int) (string, error) {
	gameID := uuid.New().String()

	if _, err := gs.gameManager.CreateGame(gameID, owner, color, depth); err != nil {
		return "", fmt.Errorf("failed to create game: %w", err)
	}
	return gameID, nil
}

func (gs *GameService) JoinGame(gameID, playerID string) (model.Player, error) {
	return gs.gameManager.JoinGame(gameID, playerID)
}

func (gs *GameService) GetGameState(gameID string) (GameState, error) {
	return gs.gameManager.GetGameState(gameID)
}

func (gs *GameService) LegalMoves(gameID string, from model.Position) (LegalMovesResponse, error) {
	return gs.gameManager.LegalMoves(gameID, from)
}

func (gs *GameService) HandleMove(gameID, playerID string, move ws.MovePayload) (GameState, error) {
	return gs.gameManager.MakeMove(gameID, playerID, move.From, move.To)
}

func (gs *GameService) HandlePromotion(gameID, playerID string, promote ws.PromotePayload) (GameState, error) {
	return gs.gameManager.Promote(gameID, playerID, promote.Choice)
}

func (gs *GameService) ListGames(owner string) ([]*store.GameRecord, error) {
	return gs.gameManager.ListGames(owner)
}

func (gs *GameService) DeleteGame(gameID, playerID string) error {
	return gs.gameManager.DeleteGame(gameID, playerID)
}

func (gs *GameService) RegisterConnection(gameID, playerID string, conn Conn) error {
	return gs.gameManager.RegisterConnection(gameID, playerID, conn)
}

func (gs *GameService) UnregisterConnection(gameID, playerID string, conn Conn) {
	gs.gameManager.UnregisterConnection(gameID, playerID, conn)
}

// SendError reports err on conn without racing the game's broadcasts.
func (gs *GameService) SendError(gameID string, conn Conn, err error) error {
	game, lookupErr := gs.gameManager.GetGame(gameID)
	if lookupErr != nil {
		return conn.WriteJSON(ws.ErrorMessage(err))
	}
	return game.Send(conn, ws.ErrorMessage(err))
}
