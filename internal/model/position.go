package model

import "fmt"

// Position addresses a cell. Row 0 is black's back rank, column 0 the a-file.
type Position struct {
	Row int `json:"row"`
	Col int `json:"col"`
}

func (p Position) InBounds() bool {
	return p.Row >= 0 && p.Row < 8 && p.Col >= 0 && p.Col < 8
}

func (p Position) Add(dr, dc int) Position {
	return Position{Row: p.Row + dr, Col: p.Col + dc}
}

func (p Position) String() string {
	if !p.InBounds() {
		return fmt.Sprintf("(%d,%d)", p.Row, p.Col)
	}
	return p.squareNotation()
}

func (p Position) index() int {
	return p.Row*8 + p.Col
}

func positionAt(i int) Position {
	return Position{Row: i / 8, Col: i % 8}
}

func (p Position) squareNotation() string {
	return fmt.Sprintf("%c%d", p.Col+'a', 8-p.Row)
}

func (p Position) fileNotation() string {
	return fmt.Sprintf("%c", p.Col+'a')
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
