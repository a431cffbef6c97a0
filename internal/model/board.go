package model

import "strings"

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// Board is the full game state. It is not safe for concurrent use: the
// legality filter and search both mutate it temporarily and restore it.
type Board struct {
	cells [64]*Piece

	Player           Player `json:"player"`
	Score            Score  `json:"score"`
	CheckWhiteKing   bool   `json:"checkWhiteKing"`
	CheckBlackKing   bool   `json:"checkBlackKing"`
	PendingPromotion *Piece `json:"pendingPromotion"`
	Winner           Result `json:"winner"`

	history   []Record
	moveIndex int
	whiteKing *Piece
	blackKing *Piece
}

// NewBoard returns a board in the standard opening position, white to move.
func NewBoard() *Board {
	b := &Board{Player: White, moveIndex: 1}
	for col, t := range backRank {
		b.place(newPiece(t, Black, Position{Row: 0, Col: col}))
		b.place(newPiece(Pawn, Black, Position{Row: 1, Col: col}))
		b.place(newPiece(Pawn, White, Position{Row: 6, Col: col}))
		b.place(newPiece(t, White, Position{Row: 7, Col: col}))
	}
	return b
}

func (b *Board) place(p *Piece) {
	b.set(p.Position, p)
	if p.Type != King {
		return
	}
	if p.Color == White {
		b.whiteKing = p
	} else {
		b.blackKing = p
	}
}

func (b *Board) at(pos Position) *Piece {
	return b.cells[pos.index()]
}

func (b *Board) set(pos Position, p *Piece) {
	b.cells[pos.index()] = p
}

// PieceAt returns the piece on pos, or nil for an empty or off-board cell.
func (b *Board) PieceAt(pos Position) *Piece {
	if !pos.InBounds() {
		return nil
	}
	return b.at(pos)
}

// IsValidPick reports whether a piece of the side to move occupies pos.
func (b *Board) IsValidPick(pos Position) bool {
	p := b.PieceAt(pos)
	return p != nil && p.Color == b.Player
}

// King returns the king of the given color.
func (b *Board) King(color Player) *Piece {
	if color == White {
		return b.whiteKing
	}
	return b.blackKing
}

// Pieces returns the pieces of color in row-major grid order. Empty returns
// every piece.
func (b *Board) Pieces(color Player) []*Piece {
	pieces := make([]*Piece, 0, 16)
	for _, p := range b.cells {
		if p != nil && (color == Empty || p.Color == color) {
			pieces = append(pieces, p)
		}
	}
	return pieces
}

// MoveIndex is the index the next committed move will carry.
func (b *Board) MoveIndex() int {
	return b.moveIndex
}

// InCheck reports whether color's king is attacked.
func (b *Board) InCheck(color Player) bool {
	return b.attacked(b.King(color).Position, color)
}

// IsOver reports whether a terminal result has been recorded.
func (b *Board) IsOver() bool {
	return b.Winner != NoResult
}

func (b *Board) emptyBetween(row, fromCol, toCol int) bool {
	for col := fromCol; col <= toCol; col++ {
		if b.at(Position{Row: row, Col: col}) != nil {
			return false
		}
	}
	return true
}

func (b *Board) unmovedRook(pos Position, color Player) bool {
	p := b.at(pos)
	return p != nil && p.Type == Rook && p.Color == color && !p.HasMoved()
}

// String renders the grid with uppercase white and lowercase black letters.
func (b *Board) String() string {
	var sb strings.Builder
	for row := 0; row < 8; row++ {
		for col := 0; col < 8; col++ {
			p := b.at(Position{Row: row, Col: col})
			switch {
			case p == nil:
				sb.WriteByte('.')
			case p.Type == Knight && p.Color == White:
				sb.WriteByte('N')
			case p.Type == Knight:
				sb.WriteByte('n')
			case p.Color == White:
				sb.WriteString(strings.ToUpper(string(p.Type[0])))
			default:
				sb.WriteByte(p.Type[0])
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
