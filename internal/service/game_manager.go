package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/store"
)

// Options are the engine defaults for new games.
type Options struct {
	Depth   int
	Pruning bool
}

type GameManager struct {
	games   map[string]*Game
	queue   *ReplyQueue
	archive *store.Store
	opts    Options
	mu      sync.RWMutex
}

// NewGameManager returns a manager archiving to archive, which may be nil.
func NewGameManager(archive *store.Store, opts Options) *GameManager {
	if opts.Depth < 1 {
		opts.Depth = 1
	}
	return &GameManager{
		games:   make(map[string]*Game),
		queue:   NewReplyQueue(),
		archive: archive,
		opts:    opts,
	}
}

// Run drains the reply queue every interval until ctx is done.
func (gm *GameManager) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := gm.QueuedReplies(); n > 0 {
				log.Debugf("%d engine replies queued", n)
			}
			gm.ProcessReplies()
		}
	}
}

// ProcessReplies plays the engine move of every queued game and returns how
// many moves were played.
func (gm *GameManager) ProcessReplies() int {
	played := 0
	for {
		gameID, waited, ok := gm.queue.Next()
		if !ok {
			return played
		}
		game, err := gm.GetGame(gameID)
		if err != nil {
			log.Warnf("reply for game %s dropped: %v", gameID, err)
			continue
		}
		moved, err := game.PlayEngineMove()
		if err != nil {
			log.Errorf("game %s: %v", gameID, err)
			continue
		}
		if !moved {
			continue
		}
		played++
		log.Infof("game %s: engine replied after %s in queue", gameID, waited)
		gm.save(game)
		game.Broadcast()
	}
}

func (gm *GameManager) QueuedReplies() int {
	return gm.queue.Size()
}

func (gm *GameManager) enqueueIfEngineTurn(game *Game) {
	if !game.NeedsEngine() {
		return
	}
	if err := gm.queue.Add(game.ID); err != nil && !errors.Is(err, ErrAlreadyQueued) {
		log.Errorf("game %s: queue reply: %v", game.ID, err)
	}
}

func (gm *GameManager) save(game *Game) {
	if gm.archive == nil {
		return
	}
	if err := gm.archive.SaveGame(game.Record()); err != nil {
		log.Errorf("game %s: archive: %v", game.ID, err)
	}
}

// CreateGame registers a new game for owner playing human. A depth below one
// uses the manager default.
func (gm *GameManager) CreateGame(gameID, owner string, human model.Player, depth int) (*Game, error) {
	if human != model.White && human != model.Black {
		return nil, fmt.Errorf("%w: %q", ErrInvalidColor, human)
	}
	if depth < 1 {
		depth = gm.opts.Depth
	}

	gm.mu.Lock()
	if _, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return nil, ErrGameExists
	}
	game := NewGame(gameID, owner, human, depth, gm.opts.Pruning)
	gm.games[gameID] = game
	gm.mu.Unlock()

	log.Infof("game %s created by %s: human plays %s, depth %d", gameID, owner, human, depth)
	gm.save(game)
	gm.enqueueIfEngineTurn(game)
	return game, nil
}

// GetGame looks the game up in memory and falls back to the archive.
func (gm *GameManager) GetGame(gameID string) (*Game, error) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if exists {
		return game, nil
	}
	if gm.archive == nil {
		return nil, ErrGameNotFound
	}

	rec, err := gm.archive.LoadGame(gameID)
	if errors.Is(err, store.ErrNotFound) {
		return nil, ErrGameNotFound
	}
	if err != nil {
		return nil, err
	}
	restored, err := restoreGame(rec)
	if err != nil {
		return nil, err
	}

	gm.mu.Lock()
	if game, exists := gm.games[gameID]; exists {
		gm.mu.Unlock()
		return game, nil
	}
	gm.games[gameID] = restored
	gm.mu.Unlock()

	log.Infof("game %s restored from archive after %d moves", gameID, len(rec.Moves))
	gm.enqueueIfEngineTurn(restored)
	return restored, nil
}

// JoinGame returns the color playerID controls in the game, Empty for a
// spectator.
func (gm *GameManager) JoinGame(gameID, playerID string) (model.Player, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return model.Empty, err
	}
	if game.isOwner(playerID) {
		return game.Human, nil
	}
	return model.Empty, nil
}

func (gm *GameManager) GetGameState(gameID string) (GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	return game.State(), nil
}

func (gm *GameManager) LegalMoves(gameID string, from model.Position) (LegalMovesResponse, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return LegalMovesResponse{}, err
	}
	return game.LegalMoves(from)
}

func (gm *GameManager) MakeMove(gameID, playerID string, from, to model.Position) (GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	if err := game.MakeMove(playerID, from, to); err != nil {
		return GameState{}, err
	}
	return gm.afterHumanAction(game), nil
}

func (gm *GameManager) Promote(gameID, playerID string, choice model.PromotionChoice) (GameState, error) {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return GameState{}, err
	}
	if err := game.Promote(playerID, choice); err != nil {
		return GameState{}, err
	}
	return gm.afterHumanAction(game), nil
}

func (gm *GameManager) afterHumanAction(game *Game) GameState {
	gm.save(game)
	gm.enqueueIfEngineTurn(game)
	game.Broadcast()
	return game.State()
}

// ListGames returns the archived games of owner.
func (gm *GameManager) ListGames(owner string) ([]*store.GameRecord, error) {
	if gm.archive == nil {
		return []*store.GameRecord{}, nil
	}
	return gm.archive.ListGames(owner)
}

func (gm *GameManager) RegisterConnection(gameID, playerID string, conn Conn) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	return game.RegisterConnection(playerID, conn)
}

func (gm *GameManager) UnregisterConnection(gameID, playerID string, conn Conn) {
	gm.mu.RLock()
	game, exists := gm.games[gameID]
	gm.mu.RUnlock()
	if !exists {
		return
	}
	game.UnregisterConnection(playerID, conn)
	log.Debugf("game %s: %d connections remain", gameID, game.ConnectionCount())
}

// DeleteGame removes the game from memory and the archive and closes its
// connections. Only the owner may delete it.
func (gm *GameManager) DeleteGame(gameID, playerID string) error {
	game, err := gm.GetGame(gameID)
	if err != nil {
		return err
	}
	if !game.isOwner(playerID) {
		return ErrNotInGame
	}

	gm.mu.Lock()
	delete(gm.games, gameID)
	gm.mu.Unlock()

	if gm.archive != nil {
		if err := gm.archive.DeleteGame(gameID); err != nil {
			return fmt.Errorf("delete game %s: %w", gameID, err)
		}
	}
	game.CloseConnections()
	log.Infof("game %s deleted by %s", gameID, playerID)
	return nil
}
