package model

import (
	"encoding/json"
	"fmt"
	"strings"

	chesslib "github.com/corentings/chess/v2"
)

// Board owns the 8x8 grid and every piece standing on it. It has no locking
// of its own: reads may run concurrently, but Relocate, Remove and Place must
// not overlap with any other call. Game serialises access with its mutex.
type Board struct {
	squares [BoardSize][BoardSize]*Piece // [rank][file]
}

// NewEmptyBoard returns a board with no pieces.
func NewEmptyBoard() *Board {
	return &Board{}
}

// NewBoard returns a board set up in the standard starting position.
func NewBoard() *Board {
	board := &Board{}
	backRank := []PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}
	for file, pieceType := range backRank {
		board.Place(Square{File: File(file), Rank: 0}, White, pieceType)
		board.Place(Square{File: File(file), Rank: 1}, White, Pawn)
		board.Place(Square{File: File(file), Rank: 6}, Black, Pawn)
		board.Place(Square{File: File(file), Rank: 7}, Black, pieceType)
	}
	return board
}

// NewBoardFromFEN sets up the piece placement of a FEN record. Pawns off
// their home rank are treated as having moved.
func NewBoardFromFEN(fen string) (*Board, error) {
	opt, err := chesslib.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidFEN, err)
	}
	game := chesslib.NewGame(opt)

	board := &Board{}
	for sq, p := range game.Position().Board().SquareMap() {
		pieceType, ok := fromLibType(p.Type())
		if !ok {
			continue
		}
		color := White
		if p.Color() == chesslib.Black {
			color = Black
		}
		at := Square{File: File(sq.File()), Rank: Rank(sq.Rank())}
		placed := board.place(at, color, pieceType)
		if pieceType == Pawn && at.Rank != pawnHomeRank(color) {
			placed.HasMoved = true
		}
	}
	return board, nil
}

func fromLibType(t chesslib.PieceType) (PieceType, bool) {
	switch t {
	case chesslib.King:
		return King, true
	case chesslib.Queen:
		return Queen, true
	case chesslib.Rook:
		return Rook, true
	case chesslib.Bishop:
		return Bishop, true
	case chesslib.Knight:
		return Knight, true
	case chesslib.Pawn:
		return Pawn, true
	}
	return "", false
}

func pawnHomeRank(c Color) Rank {
	if c == Black {
		return 6
	}
	return 1
}

// Place puts a new, unmoved piece on sq, replacing whatever stood there.
func (b *Board) Place(sq Square, color Color, pieceType PieceType) Piece {
	return *b.place(sq, color, pieceType)
}

func (b *Board) place(sq Square, color Color, pieceType PieceType) *Piece {
	p := NewPiece(color, pieceType, sq)
	b.squares[sq.Rank][sq.File] = &p
	return &p
}

// PieceAt returns a copy of the piece on sq.
func (b *Board) PieceAt(sq Square) (Piece, bool) {
	p := b.squares[sq.Rank][sq.File]
	if p == nil {
		return Piece{}, false
	}
	return *p, true
}

// Pieces returns the squares holding pieces of the given color, by rank then file.
func (b *Board) Pieces(color Color) []Square {
	set := make(SquareSet)
	for rank := range b.squares {
		for file, p := range b.squares[rank] {
			if p != nil && p.Color == color {
				set.Add(Square{File: File(file), Rank: Rank(rank)})
			}
		}
	}
	return set.Sorted()
}

// Relocate moves the piece on from to to without checking legality. Anything
// standing on to is overwritten. It panics if from is empty.
func (b *Board) Relocate(from, to Square) {
	p := b.squares[from.Rank][from.File]
	if p == nil {
		panic(fmt.Errorf("relocate %s: %w", from, ErrEmptyOrigin))
	}
	b.squares[from.Rank][from.File] = nil
	p.PrevPosition = from
	p.Position = to
	p.HasMoved = true
	b.squares[to.Rank][to.File] = p
}

// Remove clears sq and returns what stood there.
func (b *Board) Remove(sq Square) (Piece, bool) {
	p := b.squares[sq.Rank][sq.File]
	if p == nil {
		return Piece{}, false
	}
	b.squares[sq.Rank][sq.File] = nil
	return *p, true
}

// Clone returns a deep copy of the board.
func (b *Board) Clone() *Board {
	c := &Board{}
	for rank := range b.squares {
		for file, p := range b.squares[rank] {
			if p != nil {
				cp := *p
				c.squares[rank][file] = &cp
			}
		}
	}
	return c
}

// LegalMoves returns every square the piece on origin can reach under the
// current occupancy. It does not look at check. It panics if origin is
// empty; callers holding untrusted input use LegalMovesChecked.
func (b *Board) LegalMoves(origin Square) SquareSet {
	p := b.squares[origin.Rank][origin.File]
	if p == nil {
		panic(fmt.Errorf("legal moves from %s: %w", origin, ErrEmptyOrigin))
	}
	moves := make(SquareSet)
	b.walk(origin, *p, p.Moves(), false, moves)
	if p.Type.HasSpecialCapture() {
		b.walk(origin, *p, p.CaptureMoves(), true, moves)
	}
	return moves
}

// LegalMovesChecked is LegalMoves returning ErrEmptyOrigin instead of panicking.
func (b *Board) LegalMovesChecked(origin Square) (SquareSet, error) {
	if b.squares[origin.Rank][origin.File] == nil {
		return nil, fmt.Errorf("legal moves from %s: %w", origin, ErrEmptyOrigin)
	}
	return b.LegalMoves(origin), nil
}

// walk adds to into every destination the mover reaches along templates.
// With captureOnly set a destination must hold an enemy piece.
func (b *Board) walk(origin Square, mover Piece, templates []Template, captureOnly bool, into SquareSet) {
	for _, t := range templates {
		b.trace(origin, t, mover.Type, mover.Color.forward(), func(sq Square, occupant *Piece) bool {
			switch {
			case occupant == nil:
				if captureOnly {
					return false
				}
				into.Add(sq)
				return true
			case occupant.Color == mover.Color:
				return false
			case !captureOnly && mover.Type.HasSpecialCapture():
				return false
			default:
				into.Add(sq)
				return false
			}
		})
	}
}

// CanCapture returns the squares of every piece of the opposite color that
// could capture onto sq. It probes outward from sq with each piece type's
// capture templates reversed.
func (b *Board) CanCapture(sq Square, color Color) SquareSet {
	attacker := color.Opposite()
	found := make(SquareSet)
	for _, pieceType := range PieceTypes {
		probe := NewTemplatePiece(pieceType)
		for _, t := range probe.CaptureMoves() {
			b.trace(sq, t.inverse(), pieceType, attacker.forward(), func(at Square, occupant *Piece) bool {
				if occupant == nil {
					return true
				}
				if occupant.Color == attacker && occupant.Type == pieceType {
					found.Add(at)
				}
				return false
			})
		}
	}
	return found
}

// trace follows one template from origin. Each time the final step lands on
// the board, land is called with the square and its occupant; the template is
// repeated from there while land returns true and the type slides. Leaving
// the board or hitting a piece mid-template ends the trace.
func (b *Board) trace(origin Square, t Template, pieceType PieceType, forward int, land func(Square, *Piece) bool) {
	cursor := origin
	for {
		for i, d := range t {
			next, ok := cursor.offset(d.DeltaX(), d.DeltaY()*forward)
			if !ok {
				return
			}
			cursor = next
			occupant := b.squares[cursor.Rank][cursor.File]
			if i < len(t)-1 {
				if occupant != nil && !pieceType.CanJump() {
					return
				}
				continue
			}
			if !land(cursor, occupant) {
				return
			}
		}
		if !pieceType.IsRepetitive() {
			return
		}
	}
}

// String draws the board with rank 8 at the top.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString(" ABCDEFGH\n")
	for rank := BoardSize - 1; rank >= 0; rank-- {
		sb.WriteRune(Rank(rank).Char())
		for file := 0; file < BoardSize; file++ {
			if p := b.squares[rank][file]; p != nil {
				sb.WriteString(p.Letter())
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

type boardJSON struct {
	Squares [BoardSize][BoardSize]*Piece `json:"squares"`
}

// MarshalJSON emits the grid as squares[rank][file], null for empty.
func (b *Board) MarshalJSON() ([]byte, error) {
	return json.Marshal(boardJSON{Squares: b.squares})
}
