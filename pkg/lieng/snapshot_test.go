package lieng

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/sonnh58/lieng.wtf/pkg/deck"
)

// midRoundGame returns a three-player game paused in the betting phase
// after a raise, the worst case for crash recovery
func midRoundGame(t *testing.T) *Game {
	t.Helper()
	a := assert.New(t)

	g := testGame(t, DefaultOptions(), 1000, 1000, 1000)
	g.SetClock(quartz.NewMock(t))

	a.True(g.StartRound())
	g.players[1].hand = deck.CardsFromString("9h,13s,12c")
	g.players[2].hand = deck.CardsFromString("2h,5s,13c")
	g.players[3].hand = deck.CardsFromString("8d,13d,4s")

	g.StartBetting()
	a.True(g.HandleAction(1, ActionRaise, 50).Success)
	a.True(g.HandleAction(2, ActionCall, 0).Success)
	a.Equal(PhaseBetting, g.Phase())
	return g
}

func TestSnapshot_roundTrip(t *testing.T) {
	a := assert.New(t)

	g := midRoundGame(t)

	// the snapshot must survive its storage encoding
	encoded, err := json.Marshal(g.Serialize())
	a.NoError(err)

	var snapshot Snapshot
	a.NoError(json.Unmarshal(encoded, &snapshot))

	restored, err := RestoreFromSnapshot(logrus.StandardLogger(), &snapshot, g.Options())
	a.NoError(err)

	a.Equal(g.Phase(), restored.Phase())
	a.Equal(g.RoundNumber(), restored.RoundNumber())
	a.Equal(g.DealerIndex(), restored.DealerIndex())

	// every seat sees exactly what it saw before the crash
	for _, id := range []int64{1, 2, 3} {
		before, err := json.Marshal(g.GetStateForPlayer(id))
		a.NoError(err)

		after, err := json.Marshal(restored.GetStateForPlayer(id))
		a.NoError(err)

		a.JSONEq(string(before), string(after))
	}
}

func TestSnapshot_restoredRoundPlaysOut(t *testing.T) {
	a := assert.New(t)

	g := midRoundGame(t)

	restored, err := RestoreFromSnapshot(logrus.StandardLogger(), g.Serialize(), g.Options())
	a.NoError(err)

	mock := quartz.NewMock(t)
	restored.SetClock(mock)
	restored.ResumeTimers()

	// seat 3 is still on the clock
	a.EqualValues(3, restored.turns.current())

	a.True(restored.HandleAction(3, ActionCall, 0).Success)
	a.Equal(PhaseEnded, restored.Phase())

	round := lastRoundResult(t, restored)
	a.Equal([]int64{1}, round.Winners)
	a.Equal(map[int64]int{1: 100, 2: -50, 3: -50}, round.Payouts)
	a.Equal(1100, restored.Player(1).Chips())
}

func TestSnapshot_restoreRestartsTurnTimer(t *testing.T) {
	a := assert.New(t)

	g := midRoundGame(t)

	restored, err := RestoreFromSnapshot(logrus.StandardLogger(), g.Serialize(), g.Options())
	a.NoError(err)

	mock := quartz.NewMock(t)
	restored.SetClock(mock)
	restored.ResumeTimers()

	// the timer restarts at the full budget
	ctx := context.Background()
	mock.Advance(60 * time.Second).MustWait(ctx)

	a.Equal(PlayerStateFolded, restored.Player(3).State())
	a.Equal(PhaseEnded, restored.Phase())
}

func TestSnapshot_betweenRounds(t *testing.T) {
	a := assert.New(t)

	g := testGame(t, DefaultOptions(), 1000, 1000)
	snapshot := g.Serialize()
	a.Nil(snapshot.Betting)
	a.Nil(snapshot.Turns)

	restored, err := RestoreFromSnapshot(logrus.StandardLogger(), snapshot, g.Options())
	a.NoError(err)
	a.Equal(PhaseWaiting, restored.Phase())

	// a restored idle table can start a fresh round
	restored.SetClock(quartz.NewMock(t))
	a.True(restored.StartRound())
}

func TestSnapshot_validation(t *testing.T) {
	a := assert.New(t)

	valid := func() *Snapshot {
		return midRoundGame(t).Serialize()
	}

	_, err := RestoreFromSnapshot(logrus.StandardLogger(), nil, DefaultOptions())
	a.EqualError(err, "invalid snapshot: snapshot is nil")

	s := valid()
	s.Phase = 99
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: unknown phase 99")

	s = valid()
	s.Players[1].ID = s.Players[0].ID
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: duplicate player 1")

	s = valid()
	s.Players[0].State = 42
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: player 1: unknown state 42")

	s = valid()
	s.Players[0].Cards = s.Players[0].Cards[:2]
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: player 1: expected 0 or 3 cards, got 2")

	s = valid()
	s.Players[0].Cards[0].Rank = 14
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: player 1: invalid card")

	s = valid()
	s.Players[0].Cards[0].Suit = "swords"
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, `invalid snapshot: player 1: invalid suit "swords"`)

	s = valid()
	s.Betting = nil
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: mid-round snapshot is missing betting or turn state")

	s = valid()
	s.Turns.CurrentIndex = 7
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: turn index 7 out of range")

	s = valid()
	s.Turns.PlayerIDs[0] = 99
	_, err = RestoreFromSnapshot(logrus.StandardLogger(), s, DefaultOptions())
	a.EqualError(err, "invalid snapshot: turn state references unknown player 99")
}
