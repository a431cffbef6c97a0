package model

// Player identifies a side. Empty marks the absence of a piece.
type Player string

const (
	White Player = "white"
	Black Player = "black"
	Empty Player = ""
)

func (p Player) Opponent() Player {
	switch p {
	case White:
		return Black
	case Black:
		return White
	}
	return Empty
}

// forward is the row delta of this side's pawn advance. White starts on rows
// 6-7 and moves toward row 0.
func (p Player) forward() int {
	if p == White {
		return -1
	}
	return 1
}

func (p Player) homeRow() int {
	if p == White {
		return 7
	}
	return 0
}

func (p Player) pawnRow() int {
	if p == White {
		return 6
	}
	return 1
}

func (p Player) promotionRow() int {
	if p == White {
		return 0
	}
	return 7
}

// Result is the terminal state of a game.
type Result string

const (
	NoResult  Result = ""
	WhiteWins Result = "white"
	BlackWins Result = "black"
	Draw      Result = "draw"
)

func winFor(p Player) Result {
	if p == White {
		return WhiteWins
	}
	return BlackWins
}

// Score holds the cumulative material each side has captured.
type Score struct {
	White int `json:"white"`
	Black int `json:"black"`
}

func (s *Score) add(p Player, points int) {
	if p == White {
		s.White += points
	} else {
		s.Black += points
	}
}
