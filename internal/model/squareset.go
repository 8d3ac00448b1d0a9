package model

import (
	"encoding/json"

	"golang.org/x/exp/slices"
)

// SquareSet is an unordered set of squares.
type SquareSet map[Square]struct{}

func NewSquareSet(squares ...Square) SquareSet {
	set := make(SquareSet, len(squares))
	for _, sq := range squares {
		set.Add(sq)
	}
	return set
}

func (s SquareSet) Add(sq Square) { s[sq] = struct{}{} }

func (s SquareSet) Contains(sq Square) bool {
	_, ok := s[sq]
	return ok
}

func (s SquareSet) Len() int { return len(s) }

// Sorted returns the squares ordered by rank, then file.
func (s SquareSet) Sorted() []Square {
	out := make([]Square, 0, len(s))
	for sq := range s {
		out = append(out, sq)
	}
	slices.SortFunc(out, compareSquares)
	return out
}

func (s SquareSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func compareSquares(a, b Square) int {
	if a.Rank != b.Rank {
		return int(a.Rank) - int(b.Rank)
	}
	return int(a.File) - int(b.File)
}
