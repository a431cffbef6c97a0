package model

import "fmt"

// Move is a committed move by positions, enough to replay a game.
type Move struct {
	From      Position  `json:"from"`
	To        Position  `json:"to"`
	Promotion PieceType `json:"promotion,omitempty"`
}

// Candidate is a legal destination for a specific piece.
type Candidate struct {
	Piece   *Piece
	To      Position
	Capture bool
}

type CastleRookMove struct {
	From Position `json:"from"`
	To   Position `json:"to"`
}

// Record is one entry of the append-only move history.
type Record struct {
	Index          int             `json:"index"`
	Color          Player          `json:"color"`
	Type           PieceType       `json:"type"`
	From           Position        `json:"from"`
	To             Position        `json:"to"`
	Piece          *Piece          `json:"-"`
	Captured       *Piece          `json:"captured,omitempty"`
	CastleRookMove *CastleRookMove `json:"castleRookMove,omitempty"`
	Promotion      PieceType       `json:"promotion,omitempty"`
	Notation       string          `json:"notation"`
}

func (b *Board) lastRecord() *Record {
	if len(b.history) == 0 {
		return nil
	}
	return &b.history[len(b.history)-1]
}

// RecentMove returns a copy of the most recent history record, or nil.
func (b *Board) RecentMove() *Record {
	last := b.lastRecord()
	if last == nil {
		return nil
	}
	rec := *last
	return &rec
}

// RecentMovePositions returns the source and destination of the last move.
func (b *Board) RecentMovePositions() (from, to Position, ok bool) {
	last := b.lastRecord()
	if last == nil {
		return Position{}, Position{}, false
	}
	return last.From, last.To, true
}

// History returns a copy of the move history.
func (b *Board) History() []Record {
	return append([]Record(nil), b.history...)
}

// Moves returns the history as replayable moves.
func (b *Board) Moves() []Move {
	moves := make([]Move, len(b.history))
	for i, rec := range b.history {
		moves[i] = Move{From: rec.From, To: rec.To, Promotion: rec.Promotion}
	}
	return moves
}

// Replay plays moves from the current position, resolving promotions with
// the recorded piece type.
func (b *Board) Replay(moves []Move) error {
	for i, m := range moves {
		if err := b.Play(m.From, m.To); err != nil {
			return fmt.Errorf("replay move %d %s-%s: %w", i+1, m.From, m.To, err)
		}
		if b.PendingPromotion == nil {
			continue
		}
		if i == len(moves)-1 && m.Promotion == "" {
			// archived before the choice was made; the pawn stays pending
			return nil
		}
		choice, ok := PromotionChoiceFor(m.Promotion)
		if !ok {
			return fmt.Errorf("replay move %d: %w", i+1, ErrInvalidPromotionChoice)
		}
		if err := b.PromotePawn(b.PendingPromotion, choice); err != nil {
			return fmt.Errorf("replay move %d: %w", i+1, err)
		}
	}
	return nil
}

func notation(p *Piece, from, to Position, capture bool) string {
	prefix := p.Type.notation()
	if p.Type == Pawn && capture {
		prefix = from.fileNotation()
	}
	takes := ""
	if capture {
		takes = "x"
	}
	return fmt.Sprintf("%s%s%s", prefix, takes, to.squareNotation())
}
