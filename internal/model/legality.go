package model

// AllowedMoves returns the legal quiet moves and captures of p.
func (b *Board) AllowedMoves(p *Piece) (moves, captures []Position) {
	candidates, candidateCaptures := p.CandidateMoves(b)
	for _, to := range candidates {
		if b.VerifyMove(p, to) {
			moves = append(moves, to)
		}
	}
	for _, to := range candidateCaptures {
		if b.VerifyMove(p, to) {
			captures = append(captures, to)
		}
	}
	return moves, captures
}

// AllLegalMoves enumerates every legal move of color in grid order, each
// piece's captures before its quiet moves.
func (b *Board) AllLegalMoves(color Player) []Candidate {
	var out []Candidate
	for _, p := range b.Pieces(color) {
		moves, captures := b.AllowedMoves(p)
		for _, to := range captures {
			out = append(out, Candidate{Piece: p, To: to, Capture: true})
		}
		for _, to := range moves {
			out = append(out, Candidate{Piece: p, To: to})
		}
	}
	return out
}

func (b *Board) hasLegalMove(color Player) bool {
	for _, p := range b.Pieces(color) {
		moves, captures := b.AllowedMoves(p)
		if len(moves) > 0 || len(captures) > 0 {
			return true
		}
	}
	return false
}

// isAllowed reports whether to is among p's legal destinations.
func (b *Board) isAllowed(p *Piece, to Position) bool {
	moves, captures := p.CandidateMoves(b)
	for _, set := range [][]Position{moves, captures} {
		for _, pos := range set {
			if pos == to {
				return b.VerifyMove(p, to)
			}
		}
	}
	return false
}

// VerifyMove reports whether moving p to the candidate destination leaves its
// own king safe. The board is restored before returning whatever the result.
func (b *Board) VerifyMove(p *Piece, to Position) bool {
	if !to.InBounds() || b.at(p.Position) != p {
		return false
	}
	if target := b.at(to); target != nil && target.Type == King {
		return false
	}
	if b.IsCastling(p, to) {
		if b.attacked(p.Position, p.Color) {
			return false
		}
		passing := Position{Row: to.Row, Col: (p.Position.Col + to.Col) / 2}
		if !b.safeAfter(p, passing) {
			return false
		}
	}
	return b.safeAfter(p, to)
}

// safeAfter tentatively plays p to `to` on the live grid, tests the mover's
// king, and undoes the change.
func (b *Board) safeAfter(p *Piece, to Position) bool {
	from := p.Position
	captured := b.at(to)

	var passed *Piece
	passedAt := Position{Row: from.Row, Col: to.Col}
	if b.IsEnPassant(p, to) {
		passed = b.at(passedAt)
		b.set(passedAt, nil)
	}

	b.set(from, nil)
	b.set(to, p)
	p.Position = to

	safe := !b.attacked(b.King(p.Color).Position, p.Color)

	p.Position = from
	b.set(from, p)
	b.set(to, captured)
	if passed != nil {
		b.set(passedAt, passed)
	}
	return safe
}

// attacked reports whether pos is in the capture set of any piece not
// belonging to color.
func (b *Board) attacked(pos Position, color Player) bool {
	for i := range b.cells {
		enemy := b.cells[i]
		if enemy == nil || enemy.Color == color {
			continue
		}
		_, captures := enemy.CandidateMoves(b)
		for _, c := range captures {
			if c == pos {
				return true
			}
		}
	}
	return false
}

// IsCastling reports whether moving p to `to` is a castling king move.
func (b *Board) IsCastling(p *Piece, to Position) bool {
	return p.Type == King && abs(to.Col-p.Position.Col) > 1
}

// IsEnPassant reports whether moving p to `to` is an en passant capture: a
// diagonal pawn step onto an empty cell.
func (b *Board) IsEnPassant(p *Piece, to Position) bool {
	return p.Type == Pawn && to.Col != p.Position.Col && to.InBounds() && b.at(to) == nil
}

// IsPromotion reports whether moving p to `to` reaches the last rank.
func (b *Board) IsPromotion(p *Piece, to Position) bool {
	return p.Type == Pawn && to.Row == p.Color.promotionRow()
}
