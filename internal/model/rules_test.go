package model

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func TestEnPassant(t *testing.T) {
	setup := func(t *testing.T) *Board {
		b := NewBoard()
		mustPlay(t, b, at(6, 0), at(5, 0))
		mustPlay(t, b, at(1, 6), at(3, 6))
		mustPlay(t, b, at(5, 0), at(4, 0))
		mustPlay(t, b, at(3, 6), at(4, 6))
		mustPlay(t, b, at(6, 7), at(4, 7))
		return b
	}

	t.Run("immediately after the double step", func(t *testing.T) {
		b := setup(t)
		pawn := b.PieceAt(at(4, 6))
		_, captures := b.AllowedMoves(pawn)
		if !contains(captures, at(5, 7)) {
			t.Fatalf("expected en passant capture to (5,7), got %v", captures)
		}
		mustPlay(t, b, at(4, 6), at(5, 7))

		if b.PieceAt(at(4, 7)) != nil {
			t.Error("captured pawn still on the board")
		}
		if b.PieceAt(at(5, 7)) != pawn {
			t.Error("capturing pawn not on (5,7)")
		}
		if b.Score.Black != 1 {
			t.Errorf("expected black score 1, got %d", b.Score.Black)
		}
		rec := b.RecentMove()
		if rec.Captured == nil || rec.Captured.Type != Pawn || rec.Notation != "gxh3" {
			t.Errorf("unexpected record %+v", rec)
		}
	})

	t.Run("one full move later", func(t *testing.T) {
		b := setup(t)
		mustPlay(t, b, at(1, 0), at(2, 0))
		mustPlay(t, b, at(6, 1), at(5, 1))
		_, captures := b.AllowedMoves(b.PieceAt(at(4, 6)))
		if contains(captures, at(5, 7)) {
			t.Fatal("en passant must expire after one move")
		}
		if err := b.Play(at(4, 6), at(5, 7)); !errors.Is(err, ErrIllegalMove) {
			t.Fatalf("expected illegal move, got %v", err)
		}
	})

	t.Run("single step does not qualify", func(t *testing.T) {
		b := NewBoard()
		mustPlay(t, b, at(6, 0), at(5, 0))
		mustPlay(t, b, at(1, 6), at(3, 6))
		mustPlay(t, b, at(5, 0), at(4, 0))
		mustPlay(t, b, at(3, 6), at(4, 6))
		mustPlay(t, b, at(6, 7), at(5, 7))
		mustPlay(t, b, at(1, 0), at(2, 0))
		mustPlay(t, b, at(5, 7), at(4, 7))
		_, captures := b.AllowedMoves(b.PieceAt(at(4, 6)))
		if contains(captures, at(5, 7)) {
			t.Fatal("two single steps must not allow en passant")
		}
	})
}

func castlingBoard(t *testing.T, attacker ...Position) *Board {
	g := parseGrid(t,
		"r...k..r",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R...K..R",
	)
	for _, pos := range attacker {
		g[pos.Row][pos.Col] = Cell{Type: Rook, Color: Black}
	}
	b, err := FromGrid(g, White)
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}
	return b
}

func TestCastling(t *testing.T) {
	tests := []struct {
		name      string
		attackers []Position
		queenSide bool
		kingSide  bool
	}{
		{"free path", nil, true, true},
		{"f1 attacked", []Position{at(3, 5)}, true, false},
		{"g1 attacked", []Position{at(3, 6)}, true, false},
		{"d1 attacked", []Position{at(3, 3)}, false, true},
		{"c1 attacked", []Position{at(3, 2)}, false, true},
		{"b1 attacked only", []Position{at(3, 1)}, true, true},
		{"king in check", []Position{at(3, 4)}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := castlingBoard(t, tt.attackers...)
			moves, _ := b.AllowedMoves(b.King(White))
			if got := contains(moves, at(7, 2)); got != tt.queenSide {
				t.Errorf("queen side castling allowed = %v, want %v", got, tt.queenSide)
			}
			if got := contains(moves, at(7, 6)); got != tt.kingSide {
				t.Errorf("king side castling allowed = %v, want %v", got, tt.kingSide)
			}
		})
	}
}

func TestCastlingMovesRookAtomically(t *testing.T) {
	b := castlingBoard(t)
	king := b.King(White)
	rook := b.PieceAt(at(7, 7))
	mustPlay(t, b, at(7, 4), at(7, 6))

	if b.PieceAt(at(7, 6)) != king || b.PieceAt(at(7, 5)) != rook || b.PieceAt(at(7, 7)) != nil {
		t.Fatalf("unexpected placement after castling:\n%s", b)
	}
	if !king.HasMoved() || king.MovedAt != rook.MovedAt {
		t.Errorf("king and rook should share the castling move index, got %d and %d", king.MovedAt, rook.MovedAt)
	}
	rec := b.RecentMove()
	if rec.Type != King || rec.CastleRookMove == nil || rec.CastleRookMove.To != at(7, 5) || rec.Notation != "O-O" {
		t.Errorf("unexpected castle record %+v", rec)
	}
	if len(b.History()) != 1 {
		t.Errorf("castling should write one history record, got %d", len(b.History()))
	}

	mustPlay(t, b, at(0, 4), at(0, 2))
	if b.PieceAt(at(0, 3)) == nil || b.PieceAt(at(0, 3)).Type != Rook {
		t.Errorf("black queen side rook not on (0,3):\n%s", b)
	}
}

func TestCastlingRightsLost(t *testing.T) {
	g := parseGrid(t,
		"r...k..r",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R...K..R",
	)
	g[7][7].Moved = true
	b, err := FromGrid(g, White)
	if err != nil {
		t.Fatalf("FromGrid: %v", err)
	}
	moves, _ := b.AllowedMoves(b.King(White))
	if contains(moves, at(7, 6)) || !contains(moves, at(7, 2)) {
		t.Fatalf("only queen side castling should remain, got %v", moves)
	}

	mustPlay(t, b, at(7, 4), at(7, 3))
	mustPlay(t, b, at(0, 0), at(1, 0))
	mustPlay(t, b, at(7, 3), at(7, 4))
	moves, _ = b.AllowedMoves(b.King(White))
	if contains(moves, at(7, 2)) || contains(moves, at(7, 6)) {
		t.Fatalf("king that moved must not castle, got %v", moves)
	}
}

func TestPromotion(t *testing.T) {
	b := mustBoard(t, White,
		"....k...",
		"P.......",
		"........",
		"........",
		"........",
		"........",
		".......p",
		"....K...",
	)
	pawn := b.PieceAt(at(1, 0))
	mustPlay(t, b, at(1, 0), at(0, 0))

	if b.PendingPromotion != pawn {
		t.Fatal("expected pending promotion")
	}
	if b.Player != White {
		t.Fatal("turn must not pass while a promotion is pending")
	}

	before := takeFingerprint(b)
	if err := b.Play(at(0, 4), at(0, 3)); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("black move: expected pending promotion error, got %v", err)
	}
	if err := b.Play(at(7, 4), at(7, 3)); !errors.Is(err, ErrPromotionPending) {
		t.Errorf("white move: expected pending promotion error, got %v", err)
	}
	if err := b.PromotePawn(pawn, PromotionChoice(7)); !errors.Is(err, ErrInvalidPromotionChoice) {
		t.Errorf("expected invalid choice error, got %v", err)
	}
	if err := b.PromotePawn(b.PieceAt(at(7, 4)), PromoteQueen); !errors.Is(err, ErrInvalidPick) {
		t.Errorf("expected invalid pick for a non-pending piece, got %v", err)
	}
	if after := takeFingerprint(b); !reflect.DeepEqual(before, after) || b.PendingPromotion != pawn {
		t.Fatal("rejected actions changed the board")
	}

	if err := b.PromotePawn(pawn, PromoteQueen); err != nil {
		t.Fatalf("promote: %v", err)
	}
	queen := b.PieceAt(at(0, 0))
	if queen == nil || queen.Type != Queen || queen.Color != White || queen.Score != 9 {
		t.Fatalf("expected white queen on (0,0), got %+v", queen)
	}
	if b.PendingPromotion != nil || b.Player != Black {
		t.Error("promotion should clear the pending pawn and pass the turn")
	}
	if !b.CheckBlackKing {
		t.Error("queen on the back rank should check the black king")
	}
	if rec := b.RecentMove(); rec.Promotion != Queen || rec.Notation != "a8=Q+" {
		t.Errorf("unexpected promotion record %+v", rec)
	}
	if err := b.PromotePawn(queen, PromoteQueen); !errors.Is(err, ErrNoPendingPromotion) {
		t.Errorf("expected no pending promotion, got %v", err)
	}
}

func TestFoolsMate(t *testing.T) {
	b := NewBoard()
	mustPlay(t, b, at(6, 5), at(5, 5))
	mustPlay(t, b, at(1, 4), at(3, 4))
	mustPlay(t, b, at(6, 6), at(4, 6))
	mustPlay(t, b, at(0, 3), at(4, 7))

	if b.Winner != BlackWins {
		t.Fatalf("expected black to win, got %q", b.Winner)
	}
	if !b.CheckWhiteKing {
		t.Error("white king should be flagged in check")
	}
	if !strings.HasSuffix(b.RecentMove().Notation, "#") {
		t.Errorf("mating move notation %q lacks #", b.RecentMove().Notation)
	}
	if err := b.Play(at(6, 0), at(5, 0)); !errors.Is(err, ErrGameOver) {
		t.Errorf("expected game over, got %v", err)
	}
}

func TestStalemate(t *testing.T) {
	b := mustBoard(t, White,
		"k.......",
		"........",
		"........",
		".Q......",
		"........",
		"........",
		"........",
		".......K",
	)
	if b.IsOver() {
		t.Fatal("position should still be playable")
	}
	mustPlay(t, b, at(3, 1), at(2, 1))

	if b.Winner != Draw {
		t.Fatalf("expected draw by stalemate, got %q", b.Winner)
	}
	if b.CheckBlackKing {
		t.Error("stalemated king is not in check")
	}
	if !b.IsCheckmate() {
		t.Error("no legal moves should report true")
	}
}

func TestCheckFlagsRecomputed(t *testing.T) {
	b := mustBoard(t, White,
		"....k...",
		"........",
		"........",
		"........",
		"........",
		"........",
		"........",
		"R...K...",
	)
	mustPlay(t, b, at(7, 0), at(0, 0))
	if !b.CheckBlackKing || b.CheckWhiteKing {
		t.Fatalf("expected only black in check, got white=%v black=%v", b.CheckWhiteKing, b.CheckBlackKing)
	}
	if rec := b.RecentMove(); rec.Notation != "Ra8+" {
		t.Errorf("unexpected notation %q", rec.Notation)
	}

	mustPlay(t, b, at(0, 4), at(1, 4))
	if b.CheckBlackKing || b.CheckWhiteKing {
		t.Fatal("check flags should clear once the king steps away")
	}
}
