package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2/log"

	"github.com/benbeisheim/minimax-chess/internal/engine"
	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/store"
	"github.com/benbeisheim/minimax-chess/internal/ws"
)

// Conn is the part of a websocket connection a game writes to.
// *websocket.Conn satisfies it.
type Conn interface {
	WriteJSON(v interface{}) error
	Close() error
}

type GameConnections struct {
	connections map[string]Conn // playerID -> connection
	mu          sync.Mutex
}

func NewGameConnections() *GameConnections {
	return &GameConnections{
		connections: make(map[string]Conn),
	}
}

// Game is one human playing one color against the engine.
type Game struct {
	ID        string
	Owner     string
	Human     model.Player
	Depth     int
	Pruning   bool
	CreatedAt time.Time

	mu          sync.Mutex
	board       *model.Board
	sound       string
	clocks      map[model.Player]*Clock
	lastNodes   int
	connections *GameConnections
}

type LastMove struct {
	From model.Position `json:"from"`
	To   model.Position `json:"to"`
}

type ClientClock struct {
	UsedMs  int64 `json:"usedMs"`
	Running bool  `json:"running"`
}

// GameState is what clients see after every change.
type GameState struct {
	ID               string          `json:"id"`
	Sound            string          `json:"sound"`
	Board            model.Grid      `json:"board"`
	ToMove           model.Player    `json:"toMove"`
	Human            model.Player    `json:"human"`
	EngineToMove     bool            `json:"engineToMove"`
	CheckWhiteKing   bool            `json:"checkWhiteKing"`
	CheckBlackKing   bool            `json:"checkBlackKing"`
	PendingPromotion *model.Position `json:"pendingPromotion"`
	Winner           model.Result    `json:"winner"`
	Score            model.Score     `json:"score"`
	LastMove         *LastMove       `json:"lastMove"`
	History          []string        `json:"history"`
	Clocks           struct {
		White ClientClock `json:"white"`
		Black ClientClock `json:"black"`
	} `json:"clocks"`
	EngineNodes int `json:"engineNodes"`
}

// LegalMovesResponse lists the destinations of one picked piece.
type LegalMovesResponse struct {
	From     model.Position   `json:"from"`
	Moves    []model.Position `json:"moves"`
	Captures []model.Position `json:"captures"`
}

func NewGame(id, owner string, human model.Player, depth int, pruning bool) *Game {
	g := &Game{
		ID:        id,
		Owner:     owner,
		Human:     human,
		Depth:     depth,
		Pruning:   pruning,
		CreatedAt: time.Now(),
		board:     model.NewBoard(),
		clocks: map[model.Player]*Clock{
			model.White: NewClock(),
			model.Black: NewClock(),
		},
		connections: NewGameConnections(),
	}
	g.clocks[model.White].Start()
	return g
}

// restoreGame rebuilds an archived game by replaying its moves.
func restoreGame(rec *store.GameRecord) (*Game, error) {
	g := NewGame(rec.ID, rec.Owner, rec.HumanColor, rec.Depth, rec.Pruning)
	g.CreatedAt = rec.CreatedAt
	if err := g.board.Replay(rec.Moves); err != nil {
		return nil, fmt.Errorf("restore game %s: %w", rec.ID, err)
	}
	g.clocks[model.White].Stop()
	if !g.board.IsOver() {
		g.clocks[g.board.Player].Start()
	}
	return g, nil
}

func (g *Game) isOwner(playerID string) bool {
	return playerID != "" && playerID == g.Owner
}

// needsEngine reports whether the engine is due to move.
func (g *Game) needsEngine() bool {
	return !g.board.IsOver() && g.board.PendingPromotion == nil && g.board.Player != g.Human
}

func (g *Game) NeedsEngine() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.needsEngine()
}

func (g *Game) State() GameState {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state()
}

func (g *Game) state() GameState {
	b := g.board
	s := GameState{
		ID:             g.ID,
		Sound:          g.sound,
		Board:          b.Snapshot(),
		ToMove:         b.Player,
		Human:          g.Human,
		EngineToMove:   g.needsEngine(),
		CheckWhiteKing: b.CheckWhiteKing,
		CheckBlackKing: b.CheckBlackKing,
		Winner:         b.Winner,
		Score:          b.Score,
		History:        make([]string, 0, len(b.History())),
		EngineNodes:    g.lastNodes,
	}
	if b.PendingPromotion != nil {
		at := b.PendingPromotion.Position
		s.PendingPromotion = &at
	}
	if from, to, ok := b.RecentMovePositions(); ok {
		s.LastMove = &LastMove{From: from, To: to}
	}
	for _, rec := range b.History() {
		s.History = append(s.History, rec.Notation)
	}
	s.Clocks.White = clientClock(g.clocks[model.White])
	s.Clocks.Black = clientClock(g.clocks[model.Black])
	return s
}

func clientClock(c *Clock) ClientClock {
	return ClientClock{UsedMs: c.Used().Milliseconds(), Running: c.IsRunning()}
}

// record returns the archived form of the game.
func (g *Game) record() *store.GameRecord {
	return &store.GameRecord{
		ID:         g.ID,
		Owner:      g.Owner,
		HumanColor: g.Human,
		Depth:      g.Depth,
		Pruning:    g.Pruning,
		Moves:      g.board.Moves(),
		Winner:     g.board.Winner,
		CreatedAt:  g.CreatedAt,
	}
}

func (g *Game) Record() *store.GameRecord {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.record()
}

// LegalMoves returns the legal destinations of the piece on from, which must
// belong to the side to move.
func (g *Game) LegalMoves(from model.Position) (LegalMovesResponse, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !from.InBounds() {
		return LegalMovesResponse{}, model.ErrOutOfBounds
	}
	if !g.board.IsValidPick(from) {
		return LegalMovesResponse{}, model.ErrInvalidPick
	}
	moves, captures := g.board.AllowedMoves(g.board.PieceAt(from))
	resp := LegalMovesResponse{
		From:     from,
		Moves:    make([]model.Position, 0, len(moves)),
		Captures: make([]model.Position, 0, len(captures)),
	}
	resp.Moves = append(resp.Moves, moves...)
	resp.Captures = append(resp.Captures, captures...)
	return resp, nil
}

func (g *Game) checkHumanTurn(playerID string) error {
	if !g.isOwner(playerID) {
		return ErrNotInGame
	}
	if g.board.IsOver() {
		return model.ErrGameOver
	}
	if g.board.Player != g.Human {
		return ErrNotYourTurn
	}
	return nil
}

// MakeMove plays the human's move.
func (g *Game) MakeMove(playerID string, from, to model.Position) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHumanTurn(playerID); err != nil {
		return err
	}
	if err := g.board.Play(from, to); err != nil {
		return err
	}
	g.afterMove()
	return nil
}

// Promote resolves the human's pending promotion.
func (g *Game) Promote(playerID string, choice model.PromotionChoice) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.checkHumanTurn(playerID); err != nil {
		return err
	}
	if err := g.board.PromotePawn(g.board.PendingPromotion, choice); err != nil {
		return err
	}
	g.afterMove()
	return nil
}

// PlayEngineMove searches and commits the engine's move, promoting to a
// queen. It reports false when the engine was not due to move.
func (g *Game) PlayEngineMove() (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.needsEngine() {
		return false, nil
	}
	side := g.board.Player
	search := engine.NewSearch(g.Depth, g.board, g.Pruning)
	start := time.Now()
	result := search.Best()
	think := time.Since(start)
	g.lastNodes = result.Nodes

	if !result.Found() {
		return false, fmt.Errorf("engine found no move for %s in game %s", side, g.ID)
	}
	if err := g.board.Move(result.Piece, result.To); err != nil {
		return false, fmt.Errorf("engine move %s-%s: %w", result.From, result.To, err)
	}
	if g.board.PendingPromotion != nil {
		if err := g.board.PromotePawn(g.board.PendingPromotion, model.PromoteQueen); err != nil {
			return false, fmt.Errorf("engine promotion: %w", err)
		}
	}
	g.afterMove()

	log.Debugf("game %s: engine played %s-%s score=%.2f nodes=%d think=%s",
		g.ID, result.From, result.To, result.Score, result.Nodes, think)
	return true, nil
}

// afterMove updates sound and clocks once a move has been committed or a
// promotion is awaited.
func (g *Game) afterMove() {
	b := g.board
	rec := b.RecentMove()
	switch {
	case b.IsOver():
		g.sound = "gameOver"
	case b.PendingPromotion != nil:
		g.sound = "promote"
	case b.CheckWhiteKing || b.CheckBlackKing:
		g.sound = "check"
	case rec != nil && rec.CastleRookMove != nil:
		g.sound = "castle"
	case rec != nil && rec.Captured != nil:
		g.sound = "capture"
	default:
		g.sound = "move"
	}

	if b.PendingPromotion != nil {
		return
	}
	g.clocks[b.Player.Opponent()].Stop()
	if !b.IsOver() {
		g.clocks[b.Player].Start()
	}
}

// RegisterConnection attaches conn for playerID and sends it the current
// state. Anyone may watch; only the owner may move.
func (g *Game) RegisterConnection(playerID string, conn Conn) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if _, exists := g.connections.connections[playerID]; exists {
		return ErrDuplicateConnection
	}
	g.connections.connections[playerID] = conn
	log.Debugf("game %s: registered connection for player %s", g.ID, playerID)

	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.State())
	if err != nil {
		return err
	}
	if err := conn.WriteJSON(msg); err != nil {
		delete(g.connections.connections, playerID)
		return err
	}
	return nil
}

// UnregisterConnection drops playerID's connection if it is still conn.
func (g *Game) UnregisterConnection(playerID string, conn Conn) {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()

	if current, exists := g.connections.connections[playerID]; exists && current == conn {
		delete(g.connections.connections, playerID)
		log.Debugf("game %s: unregistered connection for player %s", g.ID, playerID)
	}
}

// Send writes msg to conn, serialized with broadcasts.
func (g *Game) Send(conn Conn, msg ws.Message) error {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return conn.WriteJSON(msg)
}

// Broadcast sends the current state to every connection, dropping those that
// fail.
func (g *Game) Broadcast() {
	msg, err := ws.NewMessage(ws.MessageTypeGameState, g.State())
	if err != nil {
		log.Errorf("game %s: marshal state: %v", g.ID, err)
		return
	}

	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.WriteJSON(msg); err != nil {
			log.Warnf("game %s: failed to send state to player %s: %v", g.ID, playerID, err)
			delete(g.connections.connections, playerID)
		}
	}
}

// CloseConnections closes and forgets every connection.
func (g *Game) CloseConnections() {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	for playerID, conn := range g.connections.connections {
		if err := conn.Close(); err != nil {
			log.Debugf("game %s: close connection for player %s: %v", g.ID, playerID, err)
		}
		delete(g.connections.connections, playerID)
	}
}

func (g *Game) ConnectionCount() int {
	g.connections.mu.Lock()
	defer g.connections.mu.Unlock()
	return len(g.connections.connections)
}
