package model

type direction struct {
	dr, dc int
}

var (
	rookDirs      = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	bishopDirs    = []direction{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirs     = append(append([]direction{}, bishopDirs...), rookDirs...)
	knightOffsets = []direction{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets   = []direction{{1, 0}, {-1, 0}, {0, 1}, {0, -1}, {1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
)

// slideMoves ray-casts along each direction until the edge or the first
// occupied cell, which is a capture only when it holds an enemy.
func (p *Piece) slideMoves(b *Board, dirs []direction) (moves, captures []Position) {
	for _, dir := range dirs {
		target := p.Position.Add(dir.dr, dir.dc)
		for target.InBounds() {
			occupant := b.at(target)
			if occupant == nil {
				moves = append(moves, target)
			} else {
				if occupant.Color != p.Color {
					captures = append(captures, target)
				}
				break
			}
			target = target.Add(dir.dr, dir.dc)
		}
	}
	return moves, captures
}

func (p *Piece) stepMoves(b *Board, offsets []direction) (moves, captures []Position) {
	for _, off := range offsets {
		target := p.Position.Add(off.dr, off.dc)
		if !target.InBounds() {
			continue
		}
		occupant := b.at(target)
		if occupant == nil {
			moves = append(moves, target)
		} else if occupant.Color != p.Color {
			captures = append(captures, target)
		}
	}
	return moves, captures
}

func (p *Piece) pawnMoves(b *Board) (moves, captures []Position) {
	one := p.Position.Add(p.Forward, 0)
	if one.InBounds() && b.at(one) == nil {
		moves = append(moves, one)
		two := one.Add(p.Forward, 0)
		if !p.HasMoved() && p.Position.Row == p.Color.pawnRow() && two.InBounds() && b.at(two) == nil {
			moves = append(moves, two)
		}
	}
	for _, dc := range []int{-1, 1} {
		target := p.Position.Add(p.Forward, dc)
		if !target.InBounds() {
			continue
		}
		if occupant := b.at(target); occupant != nil && occupant.Color != p.Color {
			captures = append(captures, target)
		}
	}
	return moves, append(captures, p.enPassantTargets(b)...)
}

// enPassantTargets is non-empty only on the move right after an enemy pawn
// double-stepped to land beside p.
func (p *Piece) enPassantTargets(b *Board) []Position {
	last := b.lastRecord()
	if last == nil {
		return nil
	}
	var targets []Position
	for _, dc := range []int{-1, 1} {
		beside := p.Position.Add(0, dc)
		if !beside.InBounds() {
			continue
		}
		victim := b.at(beside)
		if victim == nil || victim.Type != Pawn || victim.Color == p.Color {
			continue
		}
		if last.Piece != victim || last.To != beside || abs(last.To.Row-last.From.Row) != 2 {
			continue
		}
		target := p.Position.Add(p.Forward, dc)
		if target.InBounds() && b.at(target) == nil {
			targets = append(targets, target)
		}
	}
	return targets
}

// castleTargets lists the two-square king destinations whose rook and
// intervening cells allow castling. Attacks on the path are checked by the
// board's legality filter, not here.
func (p *Piece) castleTargets(b *Board) []Position {
	home := Position{Row: p.Color.homeRow(), Col: 4}
	if p.HasMoved() || p.Position != home {
		return nil
	}
	var targets []Position
	if b.emptyBetween(home.Row, 1, 3) && b.unmovedRook(Position{Row: home.Row, Col: 0}, p.Color) {
		targets = append(targets, Position{Row: home.Row, Col: 2})
	}
	if b.emptyBetween(home.Row, 5, 6) && b.unmovedRook(Position{Row: home.Row, Col: 7}, p.Color) {
		targets = append(targets, Position{Row: home.Row, Col: 6})
	}
	return targets
}
