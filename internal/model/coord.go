package model

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// BoardSize is the number of files and ranks on the board.
const BoardSize = 8

// File is a board column, 0 (A) through 7 (H).
type File int

// Rank is a board row, 0 (1) through 7 (8).
type Rank int

// NewFile returns the file for i, or ErrOutOfRange.
func NewFile(i int) (File, error) {
	if i < 0 || i >= BoardSize {
		return 0, fmt.Errorf("file %d: %w", i, ErrOutOfRange)
	}
	return File(i), nil
}

// FileFromChar maps 'A'..'H' onto a file.
func FileFromChar(c rune) (File, error) {
	if c < 'A' || c > 'H' {
		return 0, fmt.Errorf("file %q: %w", c, ErrOutOfRange)
	}
	return File(c - 'A'), nil
}

func (f File) Int() int { return int(f) }

func (f File) Char() rune { return rune('A' + f) }

// NewRank returns the rank for i, or ErrOutOfRange.
func NewRank(i int) (Rank, error) {
	if i < 0 || i >= BoardSize {
		return 0, fmt.Errorf("rank %d: %w", i, ErrOutOfRange)
	}
	return Rank(i), nil
}

// RankFromChar maps '1'..'8' onto a rank.
func RankFromChar(c rune) (Rank, error) {
	if c < '1' || c > '8' {
		return 0, fmt.Errorf("rank %q: %w", c, ErrOutOfRange)
	}
	return Rank(c - '1'), nil
}

func (r Rank) Int() int { return int(r) }

func (r Rank) Char() rune { return rune('1' + r) }

// Square is a position on the board. A1 is the zero value.
type Square struct {
	File File
	Rank Rank
}

// NewSquare builds a square from raw integers, validating both axes.
func NewSquare(file, rank int) (Square, error) {
	f, err := NewFile(file)
	if err != nil {
		return Square{}, err
	}
	r, err := NewRank(rank)
	if err != nil {
		return Square{}, err
	}
	return Square{File: f, Rank: r}, nil
}

// ParseSquare reads two-character notation such as "E4" or "e4".
func ParseSquare(s string) (Square, error) {
	if utf8.RuneCountInString(s) != 2 {
		return Square{}, fmt.Errorf("%q: %w", s, ErrInvalidNotation)
	}
	runes := []rune(strings.ToUpper(s))
	f, err := FileFromChar(runes[0])
	if err != nil {
		return Square{}, fmt.Errorf("%q: %w: %w", s, ErrInvalidNotation, err)
	}
	r, err := RankFromChar(runes[1])
	if err != nil {
		return Square{}, fmt.Errorf("%q: %w: %w", s, ErrInvalidNotation, err)
	}
	return Square{File: f, Rank: r}, nil
}

// MustParseSquare is ParseSquare for literals known to be valid.
func MustParseSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

func (s Square) String() string {
	return string([]rune{s.File.Char(), s.Rank.Char()})
}

// offset returns the square dx files and dy ranks away, and false when that
// falls off the board.
func (s Square) offset(dx, dy int) (Square, bool) {
	f, r := int(s.File)+dx, int(s.Rank)+dy
	if f < 0 || f >= BoardSize || r < 0 || r >= BoardSize {
		return Square{}, false
	}
	return Square{File: File(f), Rank: Rank(r)}, true
}

func (s Square) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Square) UnmarshalText(text []byte) error {
	sq, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*s = sq
	return nil
}

func (s Square) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Square) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidNotation, err)
	}
	return s.UnmarshalText([]byte(text))
}
