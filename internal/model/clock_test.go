package model

import (
	"testing"
	"time"

	"github.com/benbeisheim/gridchess-backend/internal/testutil"
)

// fakeClock returns a clock whose time only moves when advance is called.
func fakeClock(total time.Duration) (*Clock, func(time.Duration)) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	c := NewClock(total)
	c.now = func() time.Time { return now }
	return c, func(d time.Duration) { now = now.Add(d) }
}

func TestClock(t *testing.T) {
	c, advance := fakeClock(time.Minute)

	advance(10 * time.Second)
	testutil.AssertEqual(t, c.GetTimeLeft(), time.Minute, "stopped clock does not run")

	c.Start()
	advance(15 * time.Second)
	testutil.AssertEqual(t, c.GetTimeLeft(), 45*time.Second)
	c.Start()
	advance(5 * time.Second)
	c.Stop()
	testutil.AssertEqual(t, c.GetTimeLeft(), 40*time.Second, "second Start is a no-op")
	testutil.AssertEqual(t, c.tenths(), 400)

	advance(time.Hour)
	c.Stop()
	testutil.AssertEqual(t, c.GetTimeLeft(), 40*time.Second, "stopped clock holds its time")
	testutil.AssertFalse(t, c.Expired())
}

func TestClockExpires(t *testing.T) {
	c, advance := fakeClock(time.Second)
	c.Start()
	advance(1500 * time.Millisecond)

	testutil.AssertTrue(t, c.Expired())
	testutil.AssertEqual(t, c.GetTimeLeft(), -500*time.Millisecond)
	testutil.AssertEqual(t, c.tenths(), 0, "clients never see negative time")
}
