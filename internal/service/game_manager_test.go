package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/benbeisheim/gridchess-backend/internal/model"
	"github.com/benbeisheim/gridchess-backend/internal/testutil"
)

func newTestManager(t *testing.T) *GameManager {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	return NewGameManager(ctx, time.Minute, 5*time.Millisecond)
}

func receiveMatch(t *testing.T, ch chan string) model.MatchFoundEvent {
	t.Helper()
	select {
	case payload, ok := <-ch:
		if !ok {
			t.Fatal("channel closed before a match was sent")
		}
		var event model.MatchFoundEvent
		testutil.AssertNoError(t, json.Unmarshal([]byte(payload), &event))
		return event
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for a match")
	}
	return model.MatchFoundEvent{}
}

func TestMatchmakingPairsPlayers(t *testing.T) {
	gm := newTestManager(t)
	aliceCh, bobCh := make(chan string, 1), make(chan string, 1)
	testutil.AssertNoError(t, gm.RegisterMatchmakingChannel("alice", aliceCh))
	testutil.AssertNoError(t, gm.RegisterMatchmakingChannel("bob", bobCh))
	testutil.AssertNoError(t, gm.JoinMatchmaking("alice"))
	testutil.AssertErrorIs(t, gm.JoinMatchmaking("alice"), model.ErrAlreadyQueued)
	testutil.AssertNoError(t, gm.JoinMatchmaking("bob"))

	alice := receiveMatch(t, aliceCh)
	bob := receiveMatch(t, bobCh)
	testutil.AssertEqual(t, alice.GameID, bob.GameID)
	testutil.AssertEqual(t, alice.Color, model.White)
	testutil.AssertEqual(t, bob.Color, model.Black)

	game, err := gm.GetGame(alice.GameID)
	testutil.AssertNoError(t, err)
	testutil.AssertTrue(t, game.IsPlayerInGame("alice"))
	testutil.AssertTrue(t, game.IsPlayerInGame("bob"))
}

func TestLeaveMatchmaking(t *testing.T) {
	gm := newTestManager(t)
	ch := make(chan string, 1)
	testutil.AssertNoError(t, gm.RegisterMatchmakingChannel("alice", ch))
	testutil.AssertNoError(t, gm.JoinMatchmaking("alice"))

	gs := NewGameService(gm)
	gs.LeaveMatchmaking("alice", ch)
	testutil.AssertEqual(t, gm.queue.Size(), 0)
	testutil.AssertNoError(t, gm.JoinMatchmaking("alice"), "can queue again")
}

func TestGetGameNotFound(t *testing.T) {
	gm := newTestManager(t)
	_, err := gm.GetGame("missing")
	testutil.AssertErrorIs(t, err, ErrGameNotFound)
	testutil.AssertErrorIs(t, gm.MakeMove("missing", "alice", model.WSMove{}), ErrGameNotFound)
}

func TestGameServicePlay(t *testing.T) {
	gs := NewGameService(newTestManager(t))

	gameID, err := gs.CreateGame("")
	testutil.AssertNoError(t, err)
	_, err = gs.JoinGame(gameID, "alice")
	testutil.AssertNoError(t, err)
	_, err = gs.JoinGame(gameID, "bob")
	testutil.AssertNoError(t, err)

	origin, moves, err := gs.LegalMoves(gameID, "b1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, origin, model.MustParseSquare("B1"))
	testutil.AssertEqual(t, moves, []model.Square{model.MustParseSquare("A3"), model.MustParseSquare("C3")})

	_, _, err = gs.LegalMoves(gameID, "Z9")
	testutil.AssertErrorIs(t, err, model.ErrInvalidNotation)

	move := model.WSMove{From: model.MustParseSquare("B1"), To: model.MustParseSquare("C3")}
	testutil.AssertNoError(t, gs.HandleMove(gameID, "alice", move))

	report, err := gs.Threats(gameID, "E5", "white")
	testutil.AssertNoError(t, err)
	testutil.AssertFalse(t, report.Attacked)

	report, err = gs.Threats(gameID, "D5", "black")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, report.Attackers, []model.Square{model.MustParseSquare("C3")})

	_, err = gs.Threats(gameID, "D5", "green")
	testutil.AssertErrorIs(t, err, model.ErrInvalidColor)

	testutil.AssertNoError(t, gs.Resign(gameID, "bob"))
	state, err := gs.GetGameState(gameID)
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, *state.Winner, model.White)
}

func TestGameServiceCreateFromFEN(t *testing.T) {
	gs := NewGameService(newTestManager(t))

	gameID, err := gs.CreateGame("4k3/8/8/8/8/8/8/R3K3 w - - 0 1")
	testutil.AssertNoError(t, err)
	_, moves, err := gs.LegalMoves(gameID, "A1")
	testutil.AssertNoError(t, err)
	testutil.AssertEqual(t, len(moves), 10)

	_, err = gs.CreateGame("not a fen")
	testutil.AssertErrorIs(t, err, model.ErrInvalidFEN)
}
