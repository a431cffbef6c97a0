// Package store archives games in BadgerDB so they survive restarts. Only
// the replayable move list is kept; boards are rebuilt by replaying it.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/benbeisheim/minimax-chess/internal/model"
)

const gamePrefix = "game/"

var ErrNotFound = errors.New("game not found in archive")

// GameRecord is the archived form of a game session.
type GameRecord struct {
	ID         string       `json:"id"`
	Owner      string       `json:"owner"`
	HumanColor model.Player `json:"humanColor"`
	Depth      int          `json:"depth"`
	Pruning    bool         `json:"pruning"`
	Moves      []model.Move `json:"moves"`
	Winner     model.Result `json:"winner,omitempty"`
	CreatedAt  time.Time    `json:"createdAt"`
	UpdatedAt  time.Time    `json:"updatedAt"`
}

// Store wraps BadgerDB for the game archive.
type Store struct {
	db *badger.DB
}

// Open opens the archive in dir. An empty dir keeps everything in memory.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func gameKey(id string) []byte {
	return []byte(gamePrefix + id)
}

// SaveGame writes rec, stamping UpdatedAt.
func (s *Store) SaveGame(rec *GameRecord) error {
	if rec.ID == "" {
		return errors.New("save game: empty id")
	}
	rec.UpdatedAt = time.Now()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(gameKey(rec.ID), data)
	})
}

// LoadGame returns the archived game id or ErrNotFound.
func (s *Store) LoadGame(id string) (*GameRecord, error) {
	var rec GameRecord
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(gameKey(id))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &rec)
		})
	})
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// DeleteGame removes id from the archive. Deleting a missing game is not an
// error.
func (s *Store) DeleteGame(id string) error {
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(gameKey(id))
	})
}

// ListGames returns the archived games created by owner, or every game when
// owner is empty, in key order.
func (s *Store) ListGames(owner string) ([]*GameRecord, error) {
	out := []*GameRecord{}
	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(gamePrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var rec GameRecord
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			})
			if err != nil {
				return fmt.Errorf("decode %s: %w", it.Item().Key(), err)
			}
			if owner == "" || rec.Owner == owner {
				out = append(out, &rec)
			}
		}
		return nil
	})
	return out, err
}
