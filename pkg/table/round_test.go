package table

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoom_CreateRound(t *testing.T) {
	_, room := playerAndRoom()

	count, err := room.GetRoundsCount(cbg)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), count)

	open, err := room.OpenRound(cbg)
	assert.NoError(t, err)
	assert.Nil(t, open)

	round, err := room.CreateRound(cbg, 1)
	assert.NoError(t, err)
	assert.NotNil(t, round)
	assert.Greater(t, round.ID, int64(0))
	assert.Equal(t, room.UUID, round.RoomUUID)
	assert.Equal(t, 1, round.RoundNumber)
	assert.True(t, round.Ended.IsZero())

	count, err = room.GetRoundsCount(cbg)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), count)

	open, err = room.OpenRound(cbg)
	assert.NoError(t, err)
	assert.NotNil(t, open)
	assert.Equal(t, round.ID, open.ID)
}

func TestRound_End(t *testing.T) {
	p1, room := playerAndRoom()
	p2 := player()
	p3 := player()
	_, _ = p2.Join(cbg, room)
	_, _ = p3.Join(cbg, room)
	start := room.Options.StartingChips

	round, err := room.CreateRound(cbg, 1)
	assert.NoError(t, err)

	r2, err := RoundByID(cbg, round.ID)
	assert.NoError(t, err)
	assert.NotNil(t, r2)
	assert.Nil(t, r2.data)
	assert.True(t, r2.Ended.IsZero())

	before := time.Now()
	// p3 sat this round out
	err = round.End(cbg,
		map[string]string{"foo": "bar"},
		map[int64]int{p1.ID: 60, p2.ID: -60},
		map[int64]bool{p1.ID: true})
	assert.NoError(t, err)
	assert.True(t, round.Ended.After(before))

	pr1, _ := p1.GetPlayerRoom(cbg, room)
	assert.Equal(t, start+60, pr1.Chips)
	assert.Equal(t, 1, pr1.Wins)
	assert.Equal(t, 0, pr1.Losses)
	assert.Equal(t, 60, pr1.PnL)

	pr2, _ := p2.GetPlayerRoom(cbg, room)
	assert.Equal(t, start-60, pr2.Chips)
	assert.Equal(t, 0, pr2.Wins)
	assert.Equal(t, 1, pr2.Losses)
	assert.Equal(t, -60, pr2.PnL)

	pr3, _ := p3.GetPlayerRoom(cbg, room)
	assert.Equal(t, start, pr3.Chips)
	assert.Equal(t, 0, pr3.Wins)
	assert.Equal(t, 0, pr3.Losses)
	assert.Equal(t, 0, pr3.PnL)

	r2, err = RoundByID(cbg, round.ID)
	assert.NoError(t, err)
	assert.Equal(t, "bar", r2.data.(map[string]interface{})["foo"])
	assert.True(t, r2.Ended.After(before))

	open, err := room.OpenRound(cbg)
	assert.NoError(t, err)
	assert.Nil(t, open)
}
