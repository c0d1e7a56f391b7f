package lieng

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBettingManager_collectAntes(t *testing.T) {
	a := assert.New(t)

	b := newBettingManager(DefaultOptions())
	players := []*Player{
		NewPlayer(1, "alice", 1000),
		NewPlayer(2, "bob", 1000),
		NewPlayer(3, "carol", 4),
	}

	collected := b.collectAntes(players)
	a.Equal(map[int64]int{1: 10, 2: 10, 3: 4}, collected)
	a.Equal(10, b.currentBet)
	a.Equal(10, b.playerBet(1))
	a.Equal(4, b.playerBet(3))
}

func TestBettingManager_validate(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	b := newBettingManager(opts)
	p := NewPlayer(1, "alice", 100)
	b.collectAntes([]*Player{p, NewPlayer(2, "bob", 1000)})

	a.NoError(b.validate(p, ActionFold, 0))
	a.NoError(b.validate(p, ActionCall, 0))
	a.NoError(b.validate(p, ActionRaise, 20))
	a.EqualError(b.validate(p, ActionRaise, 15), "raise must be to at least ${20}")
	a.Equal(ErrNotEnoughToRaise, b.validate(p, ActionRaise, 200))
	a.NoError(b.validate(p, ActionAllIn, 0))
	a.Equal(ErrUnknownAction, b.validate(p, Action("check"), 0))

	// cannot afford the call
	broke := NewPlayer(3, "carol", 0)
	b.currentBet = 30
	a.Equal(ErrNotEnoughToCall, b.validate(broke, ActionCall, 0))
}

func TestBettingManager_validate_tableLimits(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	opts.RaiseInMinBetSteps = true
	b := newBettingManager(opts)
	p := NewPlayer(1, "alice", 5000)
	b.collectAntes([]*Player{p, NewPlayer(2, "bob", 5000)})

	a.EqualError(b.validate(p, ActionRaise, 25), "raise must be a multiple of ${10}")
	a.EqualError(b.validate(p, ActionRaise, 1010), "raise must not exceed the table maximum of ${1000}")
	a.NoError(b.validate(p, ActionRaise, 1000))

	opts.AllowAllIn = false
	b = newBettingManager(opts)
	a.Equal(ErrAllInNotAllowed, b.validate(p, ActionAllIn, 0))
}

func TestBettingManager_process_callAndRaise(t *testing.T) {
	a := assert.New(t)

	b := newBettingManager(DefaultOptions())
	alice := NewPlayer(1, "alice", 1000)
	bob := NewPlayer(2, "bob", 1000)
	b.collectAntes([]*Player{alice, bob})

	// alice raises to 30
	delta, isRaise := b.process(alice, ActionRaise, 30)
	a.Equal(20, delta)
	a.True(isRaise)
	a.Equal(30, b.currentBet)

	// raise escalation: next raise must be to at least 30+30
	a.Equal(30, b.minRaise)
	a.EqualError(b.validate(bob, ActionRaise, 50), "raise must be to at least ${60}")

	// bob calls
	delta, isRaise = b.process(bob, ActionCall, 0)
	a.Equal(20, delta)
	a.False(isRaise)
	a.Equal(30, b.playerBet(2))

	// fold changes nothing
	delta, isRaise = b.process(bob, ActionFold, 0)
	a.Equal(0, delta)
	a.False(isRaise)
}

func TestBettingManager_process_allIn(t *testing.T) {
	a := assert.New(t)

	b := newBettingManager(DefaultOptions())
	alice := NewPlayer(1, "alice", 1000)
	short := NewPlayer(2, "bob", 15)
	b.collectAntes([]*Player{alice, short})
	alice.chips -= 10
	short.chips -= 10

	b.process(alice, ActionRaise, 50)
	alice.chips -= 40

	// short stack shoves 5 more, total 15 < 50: not a raise
	delta, isRaise := b.process(short, ActionAllIn, 0)
	a.Equal(5, delta)
	a.False(isRaise)
	a.Equal(15, b.playerBet(2))
	a.Equal(50, b.currentBet)

	// a covering shove above the live bet re-opens the betting
	delta, isRaise = b.process(alice, ActionAllIn, 0)
	a.Equal(950, delta)
	a.True(isRaise)
	a.Equal(1000, b.currentBet)
}

func TestBettingManager_serializeRoundTrip(t *testing.T) {
	a := assert.New(t)

	opts := DefaultOptions()
	b := newBettingManager(opts)
	alice := NewPlayer(1, "alice", 1000)
	bob := NewPlayer(2, "bob", 1000)
	b.collectAntes([]*Player{alice, bob})
	b.process(alice, ActionRaise, 40)

	restored := restoreBettingManager(b.serialize(), opts)
	a.Equal(b.currentBet, restored.currentBet)
	a.Equal(b.minRaise, restored.minRaise)
	a.Equal(b.bets, restored.bets)
}
