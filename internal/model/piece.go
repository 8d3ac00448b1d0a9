package model

import "fmt"

type Color string

const (
	White Color = "white"
	Black Color = "black"
)

// ParseColor accepts "white" or "black".
func ParseColor(s string) (Color, error) {
	switch Color(s) {
	case White, Black:
		return Color(s), nil
	}
	return "", fmt.Errorf("%q: %w", s, ErrInvalidColor)
}

func (c Color) Opposite() Color {
	if c == White {
		return Black
	}
	return White
}

// forward is the sign applied to every vertical step a piece of this color
// takes. Templates are written for White.
func (c Color) forward() int {
	if c == Black {
		return -1
	}
	return 1
}

type PieceType string

const (
	King   PieceType = "king"
	Queen  PieceType = "queen"
	Rook   PieceType = "rook"
	Bishop PieceType = "bishop"
	Knight PieceType = "knight"
	Pawn   PieceType = "pawn"
)

// PieceTypes lists every piece type in a fixed order.
var PieceTypes = []PieceType{King, Queen, Rook, Bishop, Knight, Pawn}

// Letter is the upper-case board letter for the type.
func (p PieceType) Letter() string {
	switch p {
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
	case Pawn:
		return "P"
	}
	return "?"
}

// IsRepetitive reports whether templates of this type slide until blocked.
func (p PieceType) IsRepetitive() bool {
	switch p {
	case Queen, Rook, Bishop:
		return true
	case King, Knight, Pawn:
		return false
	}
	return false
}

// CanJump reports whether intermediate steps ignore occupancy.
func (p PieceType) CanJump() bool {
	switch p {
	case Knight:
		return true
	case King, Queen, Rook, Bishop, Pawn:
		return false
	}
	return false
}

// HasSpecialCapture reports whether the type captures along different
// templates than it moves along. Its ordinary moves never capture and its
// capture moves never land on an empty square.
func (p PieceType) HasSpecialCapture() bool {
	switch p {
	case Pawn:
		return true
	case King, Queen, Rook, Bishop, Knight:
		return false
	}
	return false
}

// Template is a sequence of steps taken from an origin to reach one
// candidate destination. Sliding pieces repeat their template.
type Template []Direction

// inverse walks the template back to where it started.
func (t Template) inverse() Template {
	inv := make(Template, len(t))
	for i, d := range t {
		inv[len(t)-1-i] = d.Backwards()
	}
	return inv
}

var (
	orthogonal = []Template{{Up}, {Down}, {Left}, {Right}}
	diagonal   = []Template{{UpLeft}, {UpRight}, {DownLeft}, {DownRight}}
	allRound   = append(append([]Template{}, orthogonal...), diagonal...)
	knightJump = []Template{
		{UpLeft, Up},
		{UpLeft, Left},
		{UpRight, Up},
		{UpRight, Right},
		{DownLeft, Down},
		{DownLeft, Left},
		{DownRight, Down},
		{DownRight, Right},
	}
	pawnCapture = []Template{{UpLeft}, {UpRight}}
)

// Piece is a single man on the board. Two pieces are equal when every field
// matches.
type Piece struct {
	Type         PieceType `json:"type"`
	Color        Color     `json:"color"`
	HasMoved     bool      `json:"hasMoved"`
	PrevPosition Square    `json:"prevPosition"`
	Position     Square    `json:"position"`
}

func NewPiece(color Color, pieceType PieceType, sq Square) Piece {
	return Piece{
		Type:         pieceType,
		Color:        color,
		PrevPosition: sq,
		Position:     sq,
	}
}

// NewTemplatePiece returns an unmoved White piece on A1, used only to ask
// a piece type for its movement rules.
func NewTemplatePiece(pieceType PieceType) Piece {
	return NewPiece(White, pieceType, Square{})
}

// Moves returns the templates for ordinary movement.
func (p Piece) Moves() []Template {
	switch p.Type {
	case King, Queen:
		return allRound
	case Rook:
		return orthogonal
	case Bishop:
		return diagonal
	case Knight:
		return knightJump
	case Pawn:
		if p.HasMoved {
			return []Template{{Up}}
		}
		return []Template{{Up}, {Up, Up}}
	}
	return nil
}

// CaptureMoves returns the templates along which the piece may capture.
func (p Piece) CaptureMoves() []Template {
	if p.Type.HasSpecialCapture() {
		return pawnCapture
	}
	return p.Moves()
}

// Letter is upper case for White and lower case for Black.
func (p Piece) Letter() string {
	if p.Color == Black {
		return string(p.Type.Letter()[0] + 'a' - 'A')
	}
	return p.Type.Letter()
}

func (p Piece) String() string {
	return fmt.Sprintf("%s %s on %s", p.Color, p.Type, p.Position)
}
