// Package engine picks moves for one side with a depth-bounded minimax
// search over a live model.Board.
package engine

import (
	"github.com/benbeisheim/minimax-chess/internal/model"
)

const (
	promotionBonus = 80
	enPassantBonus = 10

	infinity = 10000.0
	worst    = 9999.0
)

// Search explores the game tree by simulating moves on the board it was given
// and undoing them. Only one branch is ever materialized, so a Search must
// not run while anything else uses the same Board.
type Search struct {
	Depth   int
	Pruning bool

	board *model.Board
	side  model.Player
	nodes int
}

// Result is the move chosen at the root. Piece is nil when the side to move
// has no legal move.
type Result struct {
	Piece *model.Piece
	From  model.Position
	To    model.Position
	Score float64
	Nodes int
}

func (r Result) Found() bool {
	return r.Piece != nil
}

// NewSearch returns a search favoring the side to move on board.
func NewSearch(depth int, board *model.Board, pruning bool) *Search {
	if depth < 1 {
		depth = 1
	}
	return &Search{
		Depth:   depth,
		Pruning: pruning,
		board:   board,
		side:    board.Player,
	}
}

// Side is the color whose evaluation the search maximizes.
func (s *Search) Side() model.Player {
	return s.side
}

// Start returns the chosen piece and destination, ok false if none exists.
func (s *Search) Start() (*model.Piece, model.Position, bool) {
	r := s.Best()
	return r.Piece, r.To, r.Found()
}

// Best searches every legal root move and keeps the last one scoring at
// least as well as the best seen so far.
func (s *Search) Best() Result {
	s.nodes = 0
	b := s.board
	maximizing := b.Player == s.side

	best := Result{Score: -infinity}
	for _, c := range b.AllLegalMoves(b.Player) {
		from := c.Piece.Position
		bonus := 0.0
		switch {
		case b.IsPromotion(c.Piece, c.To):
			bonus = promotionBonus
		case b.IsEnPassant(c.Piece, c.To):
			bonus = enPassantBonus
		}

		captured := b.MoveSimulation(c.Piece, c.To)
		score := s.minimax(1, !maximizing, -infinity, infinity)
		b.UndoSimulation(c.Piece, from, captured)

		if !maximizing {
			score = -score
		}
		score += bonus
		if score >= best.Score {
			best = Result{Piece: c.Piece, From: from, To: c.To, Score: score}
		}
	}
	best.Nodes = s.nodes
	if best.Piece == nil {
		best.Score = 0
	}
	return best
}

func (s *Search) minimax(depth int, maximizing bool, alpha, beta float64) float64 {
	s.nodes++
	if depth >= s.Depth {
		return s.Evaluate()
	}

	color := s.side
	if !maximizing {
		color = s.side.Opponent()
	}
	candidates := s.ordered(color)
	if len(candidates) == 0 {
		return s.Evaluate()
	}

	best := worst
	if maximizing {
		best = -worst
	}
	for _, c := range candidates {
		from := c.Piece.Position
		captured := s.board.MoveSimulation(c.Piece, c.To)
		score := s.minimax(depth+1, !maximizing, alpha, beta)
		s.board.UndoSimulation(c.Piece, from, captured)

		if maximizing {
			best = max(best, score)
			if s.Pruning {
				alpha = max(alpha, best)
			}
		} else {
			best = min(best, score)
			if s.Pruning {
				beta = min(beta, best)
			}
		}
		if s.Pruning && beta <= alpha {
			break
		}
	}
	return best
}

// Evaluate scores the current board from the search side's point of view.
func (s *Search) Evaluate() float64 {
	return Evaluate(s.board, s.side)
}
