package controller

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/minimax-chess/internal/middleware"
	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/service"
	"github.com/benbeisheim/minimax-chess/internal/ws"
)

type GameController struct {
	gameService *service.GameService
}

func NewGameController(gameService *service.GameService) *GameController {
	return &GameController{gameService: gameService}
}

type createGameRequest struct {
	Color model.Player `json:"color"`
	Depth int          `json:"depth"`
}

// statusFor maps domain and service errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrGameNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, service.ErrNotInGame):
		return fiber.StatusForbidden
	case errors.Is(err, service.ErrGameExists),
		errors.Is(err, service.ErrNotYourTurn),
		errors.Is(err, model.ErrPromotionPending),
		errors.Is(err, model.ErrNoPendingPromotion),
		errors.Is(err, model.ErrGameOver):
		return fiber.StatusConflict
	case errors.Is(err, service.ErrInvalidColor),
		errors.Is(err, model.ErrInvalidPick),
		errors.Is(err, model.ErrIllegalMove),
		errors.Is(err, model.ErrInvalidPromotionChoice),
		errors.Is(err, model.ErrOutOfBounds):
		return fiber.StatusBadRequest
	}
	return fiber.StatusInternalServerError
}

func fail(c *fiber.Ctx, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": err.Error(),
	})
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": msg,
	})
}

func (gc *GameController) CreateGame(c *fiber.Ctx) error {
	req := createGameRequest{Color: model.White}
	if len(c.Body()) > 0 {
		if err := c.BodyParser(&req); err != nil {
			return badRequest(c, "invalid request body")
		}
	}
	if req.Color == model.Empty {
		req.Color = model.White
	}

	gameID, err := gc.gameService.CreateGame(middleware.PlayerID(c), req.Color, req.Depth)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Game created",
		"game_id": gameID,
		"color":   req.Color,
	})
}

func (gc *GameController) JoinGame(c *fiber.Ctx) error {
	color, err := gc.gameService.JoinGame(c.Params("gameId"), middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}

	role := "player"
	if color == model.Empty {
		role = "spectator"
	}
	return c.JSON(fiber.Map{
		"message": "Game joined",
		"color":   color,
		"role":    role,
	})
}

func (gc *GameController) GetGameState(c *fiber.Ctx) error {
	gameState, err := gc.gameService.GetGameState(c.Params("gameId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(gameState)
}

// LegalMoves answers GET /moves?row=&col= for the piece on that cell.
func (gc *GameController) LegalMoves(c *fiber.Ctx) error {
	row, rowErr := strconv.Atoi(c.Query("row"))
	col, colErr := strconv.Atoi(c.Query("col"))
	if rowErr != nil || colErr != nil {
		return badRequest(c, "row and col must be integers")
	}

	moves, err := gc.gameService.LegalMoves(c.Params("gameId"), model.Position{Row: row, Col: col})
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(moves)
}

func (gc *GameController) MakeMove(c *fiber.Ctx) error {
	var move ws.MovePayload
	if err := c.BodyParser(&move); err != nil {
		return badRequest(c, "invalid move body")
	}

	state, err := gc.gameService.HandleMove(c.Params("gameId"), middleware.PlayerID(c), move)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

func (gc *GameController) Promote(c *fiber.Ctx) error {
	var promote ws.PromotePayload
	if err := c.BodyParser(&promote); err != nil {
		return badRequest(c, "invalid promotion body")
	}

	state, err := gc.gameService.HandlePromotion(c.Params("gameId"), middleware.PlayerID(c), promote)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(state)
}

// DeleteGame removes one of the caller's games.
func (gc *GameController) DeleteGame(c *fiber.Ctx) error {
	if err := gc.gameService.DeleteGame(c.Params("gameId"), middleware.PlayerID(c)); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListGames returns the caller's archived games.
func (gc *GameController) ListGames(c *fiber.Ctx) error {
	games, err := gc.gameService.ListGames(middleware.PlayerID(c))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{
		"games": games,
	})
}
