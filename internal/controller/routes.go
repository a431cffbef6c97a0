package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"

	"github.com/benbeisheim/minimax-chess/internal/middleware"
)

// Routes mounts the REST and websocket endpoints on app.
func Routes(app *fiber.App, gc *GameController, wsc *WebSocketController, origins []string) {
	app.Use("/ws/*", middleware.EnsurePlayerID())
	app.Get("/ws/game/:gameId", middleware.WebSocketUpgrade(), websocket.New(wsc.HandleConnection, websocket.Config{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		Origins:         origins,
	}))

	api := app.Group("/api", middleware.EnsurePlayerID())
	api.Get("/games", gc.ListGames)

	gameRoutes := api.Group("/game")
	gameRoutes.Post("/create", gc.CreateGame)
	gameRoutes.Post("/join/:gameId", gc.JoinGame)
	gameRoutes.Get("/:gameId", gc.GetGameState)
	gameRoutes.Delete("/:gameId", gc.DeleteGame)
	gameRoutes.Get("/:gameId/moves", gc.LegalMoves)
	gameRoutes.Post("/:gameId/move", gc.MakeMove)
	gameRoutes.Post("/:gameId/promote", gc.Promote)
}
