package model

import (
	"testing"

	"github.com/benbeisheim/gridchess-backend/internal/testutil"
)

func TestQueue(t *testing.T) {
	q := NewQueue()
	_, _, ok := q.GetNextPair()
	testutil.AssertFalse(t, ok, "empty queue")

	testutil.AssertNoError(t, q.AddPlayer(Player{ID: "a"}))
	testutil.AssertErrorIs(t, q.AddPlayer(Player{ID: "a"}), ErrAlreadyQueued)
	testutil.AssertNoError(t, q.AddPlayer(Player{ID: "b"}))
	testutil.AssertNoError(t, q.AddPlayer(Player{ID: "c"}))
	testutil.AssertEqual(t, q.Size(), 3)

	testutil.AssertTrue(t, q.Remove("b"))
	testutil.AssertFalse(t, q.Remove("b"))

	p1, p2, ok := q.GetNextPair()
	testutil.AssertTrue(t, ok)
	testutil.AssertEqual(t, []string{p1.ID, p2.ID}, []string{"a", "c"})
	testutil.AssertEqual(t, q.Size(), 0)
}
