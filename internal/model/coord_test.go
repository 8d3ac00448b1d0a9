package model

import (
	"encoding/json"
	"testing"

	"github.com/benbeisheim/gridchess-backend/internal/testutil"
)

func TestFileAndRankRoundTrip(t *testing.T) {
	for i := 0; i < BoardSize; i++ {
		f, err := NewFile(i)
		testutil.AssertNoError(t, err)
		back, err := FileFromChar(f.Char())
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, back.Int(), i)

		r, err := NewRank(i)
		testutil.AssertNoError(t, err)
		rback, err := RankFromChar(r.Char())
		testutil.AssertNoError(t, err)
		testutil.AssertEqual(t, rback.Int(), i)
	}
	testutil.AssertEqual(t, File(0).Char(), 'A')
	testutil.AssertEqual(t, File(7).Char(), 'H')
	testutil.AssertEqual(t, Rank(0).Char(), '1')
	testutil.AssertEqual(t, Rank(7).Char(), '8')
}

func TestCoordinatesOutOfRange(t *testing.T) {
	for _, i := range []int{-1, 8, 100} {
		_, err := NewFile(i)
		testutil.AssertErrorIs(t, err, ErrOutOfRange, "NewFile(%d)", i)
		_, err = NewRank(i)
		testutil.AssertErrorIs(t, err, ErrOutOfRange, "NewRank(%d)", i)
		_, err = NewSquare(i, 0)
		testutil.AssertErrorIs(t, err, ErrOutOfRange, "NewSquare(%d, 0)", i)
		_, err = NewSquare(0, i)
		testutil.AssertErrorIs(t, err, ErrOutOfRange, "NewSquare(0, %d)", i)
	}
	for _, c := range []rune{'I', 'a', '1', ' '} {
		_, err := FileFromChar(c)
		testutil.AssertErrorIs(t, err, ErrOutOfRange, "FileFromChar(%q)", c)
	}
	for _, c := range []rune{'0', '9', 'A'} {
		_, err := RankFromChar(c)
		testutil.AssertErrorIs(t, err, ErrOutOfRange, "RankFromChar(%q)", c)
	}
}

func TestParseSquare(t *testing.T) {
	tests := []struct {
		in   string
		want Square
	}{
		{"A1", Square{File: 0, Rank: 0}},
		{"a1", Square{File: 0, Rank: 0}},
		{"E4", Square{File: 4, Rank: 3}},
		{"h8", Square{File: 7, Rank: 7}},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseSquare(tt.in)
			testutil.AssertNoError(t, err)
			testutil.AssertEqual(t, got, tt.want)
		})
	}

	for _, bad := range []string{"", "E", "E44", "I1", "E9", "E0", "4E", "ÉÉ"} {
		t.Run("invalid "+bad, func(t *testing.T) {
			_, err := ParseSquare(bad)
			testutil.AssertErrorIs(t, err, ErrInvalidNotation)
		})
	}

	_, err := ParseSquare("J5")
	testutil.AssertErrorIs(t, err, ErrOutOfRange, "off-board letter keeps the range cause")
}

func TestSquareString(t *testing.T) {
	testutil.AssertEqual(t, Square{File: 3, Rank: 5}.String(), "D6")
	testutil.AssertEqual(t, MustParseSquare("g7").String(), "G7")
}

func TestSquareJSON(t *testing.T) {
	data, err := json.Marshal(WSMove{From: MustParseSquare("E2"), To: MustParseSquare("E4")})
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, string(data), `{"from":"E2","to":"E4"}`)

	var move WSMove
	testutil.AssertNoError(t, json.Unmarshal([]byte(`{"from":"g1","to":"f3"}`), &move))
	testutil.AssertEqual(t, move, WSMove{From: MustParseSquare("G1"), To: MustParseSquare("F3")})

	err = json.Unmarshal([]byte(`{"from":"Z9","to":"f3"}`), &move)
	testutil.AssertErrorIs(t, err, ErrInvalidNotation)
}
