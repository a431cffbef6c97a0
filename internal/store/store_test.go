package store

import (
	"errors"
	"testing"

	"github.com/benbeisheim/minimax-chess/internal/model"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveAndLoad(t *testing.T) {
	s := openMemory(t)

	rec := &GameRecord{
		ID:         "g1",
		Owner:      "alice",
		HumanColor: model.Black,
		Depth:      3,
		Pruning:    true,
		Moves: []model.Move{
			{From: model.Position{Row: 6, Col: 4}, To: model.Position{Row: 4, Col: 4}},
			{From: model.Position{Row: 1, Col: 0}, To: model.Position{Row: 0, Col: 0}, Promotion: model.Queen},
		},
	}
	if err := s.SaveGame(rec); err != nil {
		t.Fatalf("SaveGame: %v", err)
	}
	if rec.CreatedAt.IsZero() || rec.UpdatedAt.IsZero() {
		t.Error("SaveGame should stamp times")
	}

	got, err := s.LoadGame("g1")
	if err != nil {
		t.Fatalf("LoadGame: %v", err)
	}
	if got.Owner != "alice" || got.HumanColor != model.Black || got.Depth != 3 || !got.Pruning {
		t.Errorf("unexpected record %+v", got)
	}
	if len(got.Moves) != 2 || got.Moves[1].Promotion != model.Queen || got.Moves[0].To != rec.Moves[0].To {
		t.Errorf("moves not preserved: %+v", got.Moves)
	}

	rec.Winner = model.Draw
	if err := s.SaveGame(rec); err != nil {
		t.Fatalf("SaveGame again: %v", err)
	}
	got, err = s.LoadGame("g1")
	if err != nil || got.Winner != model.Draw {
		t.Fatalf("overwrite not visible: %+v, %v", got, err)
	}
}

func TestLoadMissing(t *testing.T) {
	s := openMemory(t)
	if _, err := s.LoadGame("nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := s.SaveGame(&GameRecord{}); err == nil {
		t.Fatal("empty id should be rejected")
	}
}

func TestListAndDelete(t *testing.T) {
	s := openMemory(t)
	for _, r := range []*GameRecord{
		{ID: "a", Owner: "alice"},
		{ID: "b", Owner: "bob"},
		{ID: "c", Owner: "alice"},
	} {
		if err := s.SaveGame(r); err != nil {
			t.Fatalf("SaveGame %s: %v", r.ID, err)
		}
	}

	tests := []struct {
		owner string
		want  []string
	}{
		{"alice", []string{"a", "c"}},
		{"bob", []string{"b"}},
		{"", []string{"a", "b", "c"}},
		{"carol", nil},
	}
	for _, tt := range tests {
		t.Run("owner="+tt.owner, func(t *testing.T) {
			recs, err := s.ListGames(tt.owner)
			if err != nil {
				t.Fatalf("ListGames: %v", err)
			}
			if recs == nil {
				t.Fatal("ListGames should return an empty slice, not nil")
			}
			var ids []string
			for _, r := range recs {
				ids = append(ids, r.ID)
			}
			if len(ids) != len(tt.want) {
				t.Fatalf("got %v, want %v", ids, tt.want)
			}
			for i := range ids {
				if ids[i] != tt.want[i] {
					t.Fatalf("got %v, want %v", ids, tt.want)
				}
			}
		})
	}

	if err := s.DeleteGame("a"); err != nil {
		t.Fatalf("DeleteGame: %v", err)
	}
	if _, err := s.LoadGame("a"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("deleted game still loads: %v", err)
	}
	if err := s.DeleteGame("a"); err != nil {
		t.Fatalf("deleting twice: %v", err)
	}
}
