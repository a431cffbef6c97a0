package model

import "fmt"

// Play commits the move of the piece on from to to. It is the position-based
// entry point for collaborators.
func (b *Board) Play(from, to Position) error {
	if !from.InBounds() || !to.InBounds() {
		return ErrOutOfBounds
	}
	return b.Move(b.at(from), to)
}

// Move validates and commits a move. A rejected move leaves the board
// untouched. Reaching the last rank with a pawn sets PendingPromotion and
// keeps the turn until PromotePawn resolves it.
func (b *Board) Move(p *Piece, to Position) error {
	if b.IsOver() {
		return ErrGameOver
	}
	if b.PendingPromotion != nil {
		return ErrPromotionPending
	}
	if p == nil || p.Color != b.Player || !p.Position.InBounds() || b.at(p.Position) != p {
		return ErrInvalidPick
	}
	if !to.InBounds() {
		return ErrOutOfBounds
	}
	if !b.isAllowed(p, to) {
		return fmt.Errorf("%w: %s %s to %s", ErrIllegalMove, p.Type, p.Position, to)
	}

	switch {
	case b.IsCastling(p, to):
		b.castleKing(p, to)
	case b.IsEnPassant(p, to):
		b.takeEnPassant(p, to)
	default:
		b.movePiece(p, to)
	}

	if b.IsPromotion(p, to) {
		b.PendingPromotion = p
		return nil
	}
	b.switchTurn()
	return nil
}

// movePiece relocates p, records the move and credits any captured material
// to the mover.
func (b *Board) movePiece(p *Piece, to Position) *Record {
	from := p.Position
	captured := b.at(to)

	b.set(from, nil)
	p.Position = to
	b.set(to, p)

	b.history = append(b.history, Record{
		Index:    b.moveIndex,
		Color:    p.Color,
		Type:     p.Type,
		From:     from,
		To:       to,
		Piece:    p,
		Captured: captured,
		Notation: notation(p, from, to, captured != nil),
	})
	p.MovedAt = b.moveIndex
	b.moveIndex++
	b.CheckWhiteKing = false
	b.CheckBlackKing = false
	if captured != nil {
		b.Score.add(p.Color, captured.Score)
	}
	return b.lastRecord()
}

func (b *Board) takeEnPassant(p *Piece, to Position) {
	victimAt := Position{Row: p.Position.Row, Col: to.Col}
	victim := b.at(victimAt)
	b.set(victimAt, nil)

	rec := b.movePiece(p, to)
	rec.Captured = victim
	rec.Notation = notation(p, rec.From, to, true)
	b.Score.add(p.Color, victim.Score)
}

// castleKing moves the king and its rook in one step so both lose their
// castling rights together.
func (b *Board) castleKing(king *Piece, to Position) {
	rookFrom := Position{Row: to.Row, Col: 7}
	rookTo := Position{Row: to.Row, Col: 5}
	sign := "O-O"
	if to.Col == 2 {
		rookFrom.Col = 0
		rookTo.Col = 3
		sign = "O-O-O"
	}
	rook := b.at(rookFrom)

	rec := b.movePiece(king, to)
	b.set(rookFrom, nil)
	rook.Position = rookTo
	b.set(rookTo, rook)
	rook.MovedAt = king.MovedAt

	rec.Type = king.Type
	rec.CastleRookMove = &CastleRookMove{From: rookFrom, To: rookTo}
	rec.Notation = sign
}

// PromotePawn replaces the pending pawn with a new piece of the chosen type
// and hands the turn over.
func (b *Board) PromotePawn(pawn *Piece, choice PromotionChoice) error {
	if b.PendingPromotion == nil {
		return ErrNoPendingPromotion
	}
	if pawn != b.PendingPromotion {
		return ErrInvalidPick
	}
	t, ok := choice.pieceType()
	if !ok {
		return fmt.Errorf("%w: %d", ErrInvalidPromotionChoice, choice)
	}

	promoted := newPiece(t, pawn.Color, pawn.Position)
	promoted.MovedAt = pawn.MovedAt
	b.set(pawn.Position, promoted)
	b.PendingPromotion = nil

	if last := b.lastRecord(); last != nil && last.Piece == pawn {
		last.Promotion = t
		last.Notation += "=" + t.notation()
	}
	b.switchTurn()
	return nil
}

func (b *Board) switchTurn() {
	b.Player = b.Player.Opponent()
	b.Check()
	mate := b.IsCheckmate()

	last := b.lastRecord()
	if last == nil {
		return
	}
	switch {
	case mate && b.Winner != Draw:
		last.Notation += "#"
	case b.CheckWhiteKing || b.CheckBlackKing:
		last.Notation += "+"
	}
}

// Check recomputes the check flag of the side to move from scratch.
func (b *Board) Check() bool {
	inCheck := b.InCheck(b.Player)
	if b.Player == White {
		b.CheckWhiteKing = inCheck
	} else {
		b.CheckBlackKing = inCheck
	}
	return inCheck
}

// IsCheckmate reports whether the side to move has no legal move at all, and
// records the result: a win for the opponent when in check, a draw otherwise.
func (b *Board) IsCheckmate() bool {
	if b.hasLegalMove(b.Player) {
		return false
	}
	if b.Check() {
		b.Winner = winFor(b.Player.Opponent())
	} else {
		b.Winner = Draw
	}
	return true
}

// MoveSimulation relocates p unconditionally and returns the piece that was
// on to. It writes no history and runs no checks; UndoSimulation reverses it.
func (b *Board) MoveSimulation(p *Piece, to Position) *Piece {
	prev := b.at(to)
	b.set(p.Position, nil)
	p.Position = to
	b.set(to, p)
	return prev
}

// UndoSimulation returns p to from and puts captured back on p's cell.
func (b *Board) UndoSimulation(p *Piece, from Position, captured *Piece) {
	b.set(p.Position, captured)
	p.Position = from
	b.set(from, p)
}
