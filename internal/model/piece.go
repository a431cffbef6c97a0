package model

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

func (t PieceType) valid() bool {
	switch t {
	case King, Queen, Rook, Bishop, Knight, Pawn:
		return true
	}
	return false
}

// Score is the material value of a piece of this type.
func (t PieceType) Score() int {
	switch t {
	case King:
		return 100
	case Queen:
		return 9
	case Rook:
		return 5
	case Bishop, Knight:
		return 3
	case Pawn:
		return 1
	}
	return 0
}

func (t PieceType) notation() string {
	switch t {
	case King:
		return "K"
	case Queen:
		return "Q"
	case Rook:
		return "R"
	case Bishop:
		return "B"
	case Knight:
		return "N"
	}
	return ""
}

// PromotionChoice is the code a collaborator sends to resolve a promotion.
type PromotionChoice int

const (
	PromoteQueen PromotionChoice = iota
	PromoteBishop
	PromoteKnight
	PromoteRook
)

func (c PromotionChoice) pieceType() (PieceType, bool) {
	switch c {
	case PromoteQueen:
		return Queen, true
	case PromoteBishop:
		return Bishop, true
	case PromoteKnight:
		return Knight, true
	case PromoteRook:
		return Rook, true
	}
	return "", false
}

// PromotionChoiceFor maps a piece type back to its promotion code.
func PromotionChoiceFor(t PieceType) (PromotionChoice, bool) {
	switch t {
	case Queen:
		return PromoteQueen, true
	case Bishop:
		return PromoteBishop, true
	case Knight:
		return PromoteKnight, true
	case Rook:
		return PromoteRook, true
	}
	return 0, false
}

// movedBeforeSetup marks pieces restored from a grid as already moved
// without pointing at any history record.
const movedBeforeSetup = -1

// Piece is a single man on the board. The Board owns every Piece placed on it;
// a Piece's Position always names the cell holding it.
type Piece struct {
	Type     PieceType `json:"type"`
	Color    Player    `json:"color"`
	Position Position  `json:"position"`
	Score    int       `json:"score"`
	// Forward is the pawn-advance row delta derived from Color.
	Forward int `json:"-"`
	// MovedAt is the move index at which the piece last moved, 0 if never.
	MovedAt int `json:"movedAt"`
}

func newPiece(t PieceType, color Player, pos Position) *Piece {
	return &Piece{
		Type:     t,
		Color:    color,
		Position: pos,
		Score:    t.Score(),
		Forward:  color.forward(),
	}
}

func (p *Piece) HasMoved() bool {
	return p.MovedAt != 0
}

// CandidateMoves returns the pseudo-legal quiet moves and captures of p.
// It reads the board and never mutates it.
func (p *Piece) CandidateMoves(b *Board) (moves, captures []Position) {
	switch p.Type {
	case Pawn:
		return p.pawnMoves(b)
	case Knight:
		return p.stepMoves(b, knightOffsets)
	case Bishop:
		return p.slideMoves(b, bishopDirs)
	case Rook:
		return p.slideMoves(b, rookDirs)
	case Queen:
		return p.slideMoves(b, queenDirs)
	case King:
		moves, captures = p.stepMoves(b, kingOffsets)
		return append(moves, p.castleTargets(b)...), captures
	}
	return nil, nil
}
