package service

import (
	"sync"
	"time"
)

type queuedReply struct {
	GameID   string
	QueuedAt time.Time
}

// ReplyQueue holds the games waiting for an engine move, oldest first. A
// game is queued at most once.
type ReplyQueue struct {
	games []queuedReply
	mu    sync.Mutex
}

func NewReplyQueue() *ReplyQueue {
	return &ReplyQueue{
		games: []queuedReply{},
	}
}

func (q *ReplyQueue) Add(gameID string) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	for _, r := range q.games {
		if r.GameID == gameID {
			return ErrAlreadyQueued
		}
	}
	q.games = append(q.games, queuedReply{GameID: gameID, QueuedAt: time.Now()})
	return nil
}

// Next pops the game that has waited longest.
func (q *ReplyQueue) Next() (string, time.Duration, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if len(q.games) == 0 {
		return "", 0, false
	}
	r := q.games[0]
	q.games = q.games[1:]
	return r.GameID, time.Since(r.QueuedAt), true
}

func (q *ReplyQueue) Size() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.games)
}
