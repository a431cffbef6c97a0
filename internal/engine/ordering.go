package engine

import (
	"cmp"
	"slices"

	"github.com/benbeisheim/minimax-chess/internal/model"
)

const promotionOrderBonus = 90

type scoredCandidate struct {
	model.Candidate
	key int
}

// ordered returns color's legal moves with captures first, each group sorted
// by descending heuristic key so that likely cutoffs are searched early.
func (s *Search) ordered(color model.Player) []model.Candidate {
	legal := s.board.AllLegalMoves(color)
	scored := make([]scoredCandidate, len(legal))
	for i, c := range legal {
		scored[i] = scoredCandidate{Candidate: c, key: orderKey(s.board, c)}
	}
	slices.SortStableFunc(scored, func(a, b scoredCandidate) int {
		if a.Capture != b.Capture {
			if a.Capture {
				return -1
			}
			return 1
		}
		return cmp.Compare(b.key, a.key)
	})

	out := make([]model.Candidate, len(scored))
	for i, sc := range scored {
		out[i] = sc.Candidate
	}
	return out
}

// orderKey ranks captures by victim value against attacker value and rewards
// pawn advances onto the promotion rank.
func orderKey(b *model.Board, c model.Candidate) int {
	key := 0
	if c.Capture {
		if victim := b.PieceAt(c.To); victim != nil {
			key = 10*victim.Score - c.Piece.Score
		} else {
			// en passant: the victim is beside the destination
			key = c.Piece.Score
		}
	}
	if b.IsPromotion(c.Piece, c.To) {
		key += promotionOrderBonus
	}
	return key
}
