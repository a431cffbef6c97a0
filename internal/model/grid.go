package model

import "fmt"

// Cell is the serialized content of one grid cell. The zero Cell is empty.
type Cell struct {
	Type  PieceType `json:"type,omitempty"`
	Color Player    `json:"color,omitempty"`
	Moved bool      `json:"moved,omitempty"`
}

// Grid is a per-cell snapshot of a board, indexed [row][col].
type Grid [8][8]Cell

// Snapshot serializes the piece placement.
func (b *Board) Snapshot() Grid {
	var g Grid
	for i, p := range b.cells {
		if p == nil {
			continue
		}
		pos := positionAt(i)
		g[pos.Row][pos.Col] = Cell{Type: p.Type, Color: p.Color, Moved: p.HasMoved()}
	}
	return g
}

// FromGrid builds a board from a snapshot with toMove to play. The history
// starts empty, so no en passant capture is available on the first move.
func FromGrid(g Grid, toMove Player) (*Board, error) {
	if toMove != White && toMove != Black {
		return nil, fmt.Errorf("%w: side to move %q", ErrInvalidSetup, toMove)
	}
	b := &Board{Player: toMove, moveIndex: 1}
	kings := map[Player]int{}
	for row := range g {
		for col, cell := range g[row] {
			if cell.Type == "" {
				continue
			}
			if !cell.Type.valid() || (cell.Color != White && cell.Color != Black) {
				return nil, fmt.Errorf("%w: cell (%d,%d) holds %s %s", ErrInvalidSetup, row, col, cell.Color, cell.Type)
			}
			p := newPiece(cell.Type, cell.Color, Position{Row: row, Col: col})
			if cell.Moved {
				p.MovedAt = movedBeforeSetup
			}
			if p.Type == King {
				kings[p.Color]++
			}
			b.place(p)
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return nil, fmt.Errorf("%w: need one king per side, have %d white and %d black", ErrInvalidSetup, kings[White], kings[Black])
	}
	if b.InCheck(toMove.Opponent()) {
		return nil, fmt.Errorf("%w: %s king can be captured", ErrInvalidSetup, toMove.Opponent())
	}
	b.Check()
	b.IsCheckmate()
	return b, nil
}
