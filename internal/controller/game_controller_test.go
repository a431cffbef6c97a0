package controller

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"

	"github.com/benbeisheim/minimax-chess/internal/model"
	"github.com/benbeisheim/minimax-chess/internal/service"
	"github.com/benbeisheim/minimax-chess/internal/store"
)

type testServer struct {
	app     *fiber.App
	manager *service.GameManager
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	archive, err := store.Open("")
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	t.Cleanup(func() { archive.Close() })

	manager := service.NewGameManager(archive, service.Options{Depth: 1, Pruning: true})
	gameService := service.NewGameService(manager)
	app := fiber.New()
	Routes(app, NewGameController(gameService), NewWebSocketController(gameService), []string{"*"})
	return &testServer{app: app, manager: manager}
}

func (s *testServer) do(t *testing.T, method, target, player, body string, out any) int {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if player != "" {
		req.Header.Set("X-Player-ID", player)
	}
	resp, err := s.app.Test(req, -1)
	if err != nil {
		t.Fatalf("%s %s: %v", method, target, err)
	}
	defer resp.Body.Close()
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			t.Fatalf("%s %s: decode: %v", method, target, err)
		}
	}
	return resp.StatusCode
}

func (s *testServer) create(t *testing.T, player, body string) string {
	t.Helper()
	var created struct {
		GameID string `json:"game_id"`
	}
	if status := s.do(t, http.MethodPost, "/api/game/create", player, body, &created); status != fiber.StatusCreated {
		t.Fatalf("create: status %d", status)
	}
	if created.GameID == "" {
		t.Fatal("create: empty game id")
	}
	return created.GameID
}

func TestGameLifecycle(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "alice", `{"color":"white","depth":1}`)
	base := "/api/game/" + id

	var state service.GameState
	if status := s.do(t, http.MethodGet, base, "bob", "", &state); status != fiber.StatusOK {
		t.Fatalf("get state: status %d", status)
	}
	if state.ID != id || state.ToMove != model.White || state.Board[6][4].Type != model.Pawn {
		t.Fatalf("unexpected state %+v", state)
	}

	var moves service.LegalMovesResponse
	if status := s.do(t, http.MethodGet, base+"/moves?row=6&col=4", "alice", "", &moves); status != fiber.StatusOK {
		t.Fatalf("moves: status %d", status)
	}
	if len(moves.Moves) != 2 {
		t.Fatalf("expected two pawn moves, got %+v", moves)
	}

	move := `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`
	if status := s.do(t, http.MethodPost, base+"/move", "bob", move, nil); status != fiber.StatusForbidden {
		t.Fatalf("spectator move: status %d", status)
	}
	if status := s.do(t, http.MethodPost, base+"/move", "alice", move, &state); status != fiber.StatusOK {
		t.Fatalf("move: status %d", status)
	}
	if !state.EngineToMove || state.History[0] != "e4" {
		t.Fatalf("unexpected state after move %+v", state)
	}
	if status := s.do(t, http.MethodPost, base+"/move", "alice", `{"from":{"row":6,"col":3},"to":{"row":4,"col":3}}`, nil); status != fiber.StatusConflict {
		t.Fatalf("move out of turn: status %d", status)
	}

	if played := s.manager.ProcessReplies(); played != 1 {
		t.Fatalf("engine replies = %d", played)
	}
	s.do(t, http.MethodGet, base, "alice", "", &state)
	if state.ToMove != model.White || len(state.History) != 2 {
		t.Fatalf("engine reply missing: %+v", state)
	}
	if status := s.do(t, http.MethodPost, base+"/promote", "alice", `{"choice":0}`, nil); status != fiber.StatusConflict {
		t.Fatalf("promote without pending pawn: status %d", status)
	}

	var joined struct {
		Color model.Player `json:"color"`
		Role  string       `json:"role"`
	}
	s.do(t, http.MethodPost, "/api/game/join/"+id, "alice", "", &joined)
	if joined.Color != model.White || joined.Role != "player" {
		t.Fatalf("owner join: %+v", joined)
	}
	s.do(t, http.MethodPost, "/api/game/join/"+id, "bob", "", &joined)
	if joined.Role != "spectator" {
		t.Fatalf("spectator join: %+v", joined)
	}

	var listed struct {
		Games []store.GameRecord `json:"games"`
	}
	s.do(t, http.MethodGet, "/api/games", "alice", "", &listed)
	if len(listed.Games) != 1 || listed.Games[0].ID != id || len(listed.Games[0].Moves) != 2 {
		t.Fatalf("unexpected listing %+v", listed)
	}
}

func TestDeleteGame(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "alice", "")

	if status := s.do(t, http.MethodDelete, "/api/game/"+id, "bob", "", nil); status != fiber.StatusForbidden {
		t.Fatalf("spectator delete: status %d", status)
	}
	if status := s.do(t, http.MethodDelete, "/api/game/"+id, "alice", "", nil); status != fiber.StatusNoContent {
		t.Fatalf("owner delete: status %d", status)
	}
	if status := s.do(t, http.MethodGet, "/api/game/"+id, "alice", "", nil); status != fiber.StatusNotFound {
		t.Fatalf("deleted game: status %d", status)
	}

	var listed struct {
		Games []store.GameRecord `json:"games"`
	}
	s.do(t, http.MethodGet, "/api/games", "alice", "", &listed)
	if listed.Games == nil || len(listed.Games) != 0 {
		t.Fatalf("expected an empty game list, got %+v", listed.Games)
	}
}

func TestBlackCreatorWaitsForEngine(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "alice", `{"color":"black"}`)
	if s.manager.QueuedReplies() != 1 {
		t.Fatal("engine opening move should be queued")
	}
	var state service.GameState
	s.do(t, http.MethodGet, "/api/game/"+id, "alice", "", &state)
	if state.Human != model.Black || !state.EngineToMove {
		t.Fatalf("unexpected state %+v", state)
	}
}

func TestRequestErrors(t *testing.T) {
	s := newTestServer(t)
	id := s.create(t, "alice", "")
	base := "/api/game/" + id

	tests := []struct {
		name   string
		method string
		target string
		player string
		body   string
		status int
	}{
		{"no player id", http.MethodGet, base, "", "", fiber.StatusUnauthorized},
		{"unknown game", http.MethodGet, "/api/game/nope", "alice", "", fiber.StatusNotFound},
		{"bad color", http.MethodPost, "/api/game/create", "alice", `{"color":"green"}`, fiber.StatusBadRequest},
		{"bad body", http.MethodPost, "/api/game/create", "alice", `{"color":`, fiber.StatusBadRequest},
		{"moves without coordinates", http.MethodGet, base + "/moves", "alice", "", fiber.StatusBadRequest},
		{"moves of opponent piece", http.MethodGet, base + "/moves?row=1&col=4", "alice", "", fiber.StatusBadRequest},
		{"moves off board", http.MethodGet, base + "/moves?row=8&col=0", "alice", "", fiber.StatusBadRequest},
		{"illegal move", http.MethodPost, base + "/move", "alice", `{"from":{"row":7,"col":0},"to":{"row":5,"col":0}}`, fiber.StatusBadRequest},
		{"empty square", http.MethodPost, base + "/move", "alice", `{"from":{"row":4,"col":4},"to":{"row":3,"col":4}}`, fiber.StatusBadRequest},
		{"move on unknown game", http.MethodPost, "/api/game/nope/move", "alice", `{"from":{"row":6,"col":4},"to":{"row":4,"col":4}}`, fiber.StatusNotFound},
		{"plain request to websocket", http.MethodGet, "/ws/game/" + id, "alice", "", fiber.StatusUpgradeRequired},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var body struct {
				Error string `json:"error"`
			}
			var out any = &body
			if tt.status == fiber.StatusUpgradeRequired {
				out = nil
			}
			if status := s.do(t, tt.method, tt.target, tt.player, tt.body, out); status != tt.status {
				t.Fatalf("status = %d, want %d", status, tt.status)
			}
			if out != nil && body.Error == "" {
				t.Fatal("error body missing")
			}
		})
	}
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrGameNotFound, fiber.StatusNotFound},
		{service.ErrNotInGame, fiber.StatusForbidden},
		{service.ErrNotYourTurn, fiber.StatusConflict},
		{model.ErrGameOver, fiber.StatusConflict},
		{fmt.Errorf("wrapped: %w", model.ErrIllegalMove), fiber.StatusBadRequest},
		{model.ErrInvalidPromotionChoice, fiber.StatusBadRequest},
		{errors.New("disk on fire"), fiber.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}
