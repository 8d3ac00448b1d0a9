package model

import (
	"testing"

	"github.com/benbeisheim/gridchess-backend/internal/testutil"
)

func TestDirectionDeltas(t *testing.T) {
	tests := []struct {
		d      Direction
		dx, dy int
		back   Direction
	}{
		{Up, 0, 1, Down},
		{Down, 0, -1, Up},
		{Left, -1, 0, Right},
		{Right, 1, 0, Left},
		{UpLeft, -1, 1, DownRight},
		{UpRight, 1, 1, DownLeft},
		{DownLeft, -1, -1, UpRight},
		{DownRight, 1, -1, UpLeft},
	}
	for _, tt := range tests {
		t.Run(tt.d.String(), func(t *testing.T) {
			testutil.AssertEqual(t, tt.d.DeltaX(), tt.dx)
			testutil.AssertEqual(t, tt.d.DeltaY(), tt.dy)
			testutil.AssertEqual(t, tt.d.Backwards(), tt.back)
			testutil.AssertEqual(t, tt.d.Backwards().DeltaX(), -tt.dx)
			testutil.AssertEqual(t, tt.d.Backwards().DeltaY(), -tt.dy)
		})
	}
}

func TestPieceTypeFlags(t *testing.T) {
	tests := []struct {
		kind           PieceType
		repetitive     bool
		jump           bool
		specialCapture bool
		templates      int
	}{
		{King, false, false, false, 8},
		{Queen, true, false, false, 8},
		{Rook, true, false, false, 4},
		{Bishop, true, false, false, 4},
		{Knight, false, true, false, 8},
		{Pawn, false, false, true, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			testutil.AssertEqual(t, tt.kind.IsRepetitive(), tt.repetitive)
			testutil.AssertEqual(t, tt.kind.CanJump(), tt.jump)
			testutil.AssertEqual(t, tt.kind.HasSpecialCapture(), tt.specialCapture)
			testutil.AssertEqual(t, len(NewTemplatePiece(tt.kind).Moves()), tt.templates)
		})
	}
}

func TestPawnTemplates(t *testing.T) {
	pawn := NewTemplatePiece(Pawn)
	testutil.AssertEqual(t, pawn.Moves(), []Template{{Up}, {Up, Up}})
	testutil.AssertEqual(t, pawn.CaptureMoves(), []Template{{UpLeft}, {UpRight}})

	pawn.HasMoved = true
	testutil.AssertEqual(t, pawn.Moves(), []Template{{Up}})
}

func TestCaptureMovesMatchMovesExceptPawn(t *testing.T) {
	for _, kind := range []PieceType{King, Queen, Rook, Bishop, Knight} {
		p := NewTemplatePiece(kind)
		testutil.AssertEqual(t, p.CaptureMoves(), p.Moves(), string(kind))
	}
}

func TestKnightTemplatesReachAllJumps(t *testing.T) {
	seen := make(map[[2]int]bool)
	for _, tmpl := range NewTemplatePiece(Knight).Moves() {
		dx, dy := 0, 0
		for _, d := range tmpl {
			dx += d.DeltaX()
			dy += d.DeltaY()
		}
		seen[[2]int{dx, dy}] = true
	}
	for _, jump := range [][2]int{{1, 2}, {2, 1}, {2, -1}, {1, -2}, {-1, -2}, {-2, -1}, {-2, 1}, {-1, 2}} {
		testutil.AssertTrue(t, seen[jump], "jump %v", jump)
	}
}

func TestTemplateInverse(t *testing.T) {
	testutil.AssertEqual(t, Template{UpLeft, Up}.inverse(), Template{Down, DownRight})
	testutil.AssertEqual(t, Template{Right}.inverse(), Template{Left})
}

func TestPieceEquality(t *testing.T) {
	a := NewPiece(White, Pawn, MustParseSquare("E2"))
	b := NewPiece(White, Pawn, MustParseSquare("E2"))
	testutil.AssertTrue(t, a == b, "same fields compare equal")

	b.HasMoved = true
	testutil.AssertFalse(t, a == b, "has-moved is part of identity")
}

func TestPieceLetter(t *testing.T) {
	testutil.AssertEqual(t, NewTemplatePiece(Knight).Letter(), "N")
	testutil.AssertEqual(t, NewPiece(Black, Knight, Square{}).Letter(), "n")
	testutil.AssertEqual(t, NewPiece(Black, King, Square{}).Letter(), "k")
}

func TestParseColor(t *testing.T) {
	c, err := ParseColor("black")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, c, Black)
	testutil.AssertEqual(t, c.Opposite(), White)

	_, err = ParseColor("red")
	testutil.AssertErrorIs(t, err, ErrInvalidColor)
}
