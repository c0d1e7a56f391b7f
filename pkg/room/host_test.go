package room

import (
	"context"
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/sonnh58/lieng.wtf/internal/util"
	"github.com/sonnh58/lieng.wtf/pkg/lieng"
	"github.com/sonnh58/lieng.wtf/pkg/table"
	"github.com/stretchr/testify/assert"
)

func TestHost_AddClient(t *testing.T) {
	h, err := NewHost(&Lobby{}, &table.Room{Options: lieng.DefaultOptions()})
	assert.NoError(t, err)

	c := NewClient(nil, nil, nil)
	c2 := NewClient(nil, nil, nil)

	h.AddClient(c)
	h.AddClient(c2)
	assert.Equal(t, 2, len(h.Clients()))
	assert.Equal(t, h, c.host)

	assert.False(t, h.RemoveClient(c))
	assert.True(t, h.RemoveClient(c2))
	assert.Equal(t, 0, len(h.Clients()))
}

func TestHost_finishRound(t *testing.T) {
	_, rm := hostPlayerAndRoom(t)
	h, err := NewHost(&Lobby{}, rm)
	assert.NoError(t, err)

	h.activeRound.Store(true)
	h.finishRound(&lieng.RoundResult{
		Round:   1,
		Winners: []int64{7},
		Payouts: map[int64]int{},
	})

	assert.False(t, h.InActiveRound())
	assert.Equal(t, int64(7), h.lastWinner)
	assert.Nil(t, h.round)
}

func TestHost_startBettingDelay(t *testing.T) {
	clear := util.SetEnv("LIENG_CONFIG_FILE", "testdata/config.yaml")
	defer clear()

	_, rm := hostPlayerAndRoom(t)
	h, err := NewHost(&Lobby{}, rm)
	assert.NoError(t, err)

	mock := quartz.NewMock(t)
	h.clock = mock
	h.game.SetClock(quartz.NewMock(t))

	assert.NoError(t, h.game.AddPlayer(lieng.NewPlayer(1, "a", 1000)))
	assert.NoError(t, h.game.AddPlayer(lieng.NewPlayer(2, "b", 1000)))
	assert.True(t, h.game.StartRound())
	assert.Equal(t, lieng.PhaseDealing, h.game.Phase())

	h.scheduleStartBetting()
	mock.Advance(5 * time.Second).MustWait(context.Background())

	fn := <-h.execInRunLoop
	fn()

	assert.Equal(t, lieng.PhaseBetting, h.game.Phase())
}

// a betting-delay timer from an earlier round must not fire into the next one
func TestHost_startBettingDelayStaleRound(t *testing.T) {
	clear := util.SetEnv("LIENG_CONFIG_FILE", "testdata/config.yaml")
	defer clear()

	_, rm := hostPlayerAndRoom(t)
	h, err := NewHost(&Lobby{}, rm)
	assert.NoError(t, err)

	mock := quartz.NewMock(t)
	h.clock = mock
	h.game.SetClock(quartz.NewMock(t))

	assert.NoError(t, h.game.AddPlayer(lieng.NewPlayer(1, "a", 1000)))
	assert.NoError(t, h.game.AddPlayer(lieng.NewPlayer(2, "b", 1000)))
	assert.True(t, h.game.StartRound())

	h.scheduleStartBetting()
	h.game.StartBetting()

	mock.Advance(5 * time.Second).MustWait(context.Background())
	fn := <-h.execInRunLoop
	fn()

	assert.Equal(t, lieng.PhaseBetting, h.game.Phase())
}

func hostPlayerAndRoom(t *testing.T) (*table.Player, *table.Room) {
	t.Helper()

	p, err := table.CreatePlayer(context.Background(), util.RandomEmail(), "test-player", "", "127.0.0.1")
	if err != nil {
		t.Fatal(err)
	}

	rm, err := p.CreateRoom(context.Background(), "test room", lieng.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	return p, rm
}
