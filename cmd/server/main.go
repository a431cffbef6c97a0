package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/benbeisheim/minimax-chess/internal/config"
	"github.com/benbeisheim/minimax-chess/internal/controller"
	"github.com/benbeisheim/minimax-chess/internal/service"
	"github.com/benbeisheim/minimax-chess/internal/store"
)

func main() {
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	log.SetLevel(cfg.LogLevel)

	archive, err := store.Open(cfg.DataDir)
	if err != nil {
		log.Fatalf("store: %v", err)
	}
	defer archive.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gameManager := service.NewGameManager(archive, service.Options{Depth: cfg.Depth, Pruning: cfg.Pruning})
	go gameManager.Run(ctx, cfg.ReplyInterval)
	gameService := service.NewGameService(gameManager)

	gameController := controller.NewGameController(gameService)
	wsController := controller.NewWebSocketController(gameService)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Origins,
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, DELETE, OPTIONS",
		AllowCredentials: true,
	}))
	controller.Routes(app, gameController, wsController, strings.Split(cfg.Origins, ","))

	go func() {
		<-ctx.Done()
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s (depth %d, pruning %v, archive %q)", cfg.Addr, cfg.Depth, cfg.Pruning, cfg.DataDir)
	if err := app.Listen(cfg.Addr); err != nil {
		log.Errorf("listen: %v", err)
	}
}
