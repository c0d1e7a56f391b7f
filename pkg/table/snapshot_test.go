package table

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoom_Snapshots(t *testing.T) {
	_, room := playerAndRoom()

	data, err := room.LoadSnapshot(cbg)
	assert.NoError(t, err)
	assert.Nil(t, data)

	assert.NoError(t, room.SaveSnapshot(cbg, []byte(`{"round":1}`)))

	data, err = room.LoadSnapshot(cbg)
	assert.NoError(t, err)
	assert.JSONEq(t, `{"round":1}`, string(data))

	snapshots, err := ActiveSnapshots(cbg)
	assert.NoError(t, err)
	assert.Contains(t, snapshots, room.UUID)

	// a second save replaces the first
	assert.NoError(t, room.SaveSnapshot(cbg, []byte(`{"round":2}`)))
	data, _ = room.LoadSnapshot(cbg)
	assert.JSONEq(t, `{"round":2}`, string(data))

	assert.NoError(t, room.DeleteSnapshot(cbg))

	data, err = room.LoadSnapshot(cbg)
	assert.NoError(t, err)
	assert.Nil(t, data)

	snapshots, err = ActiveSnapshots(cbg)
	assert.NoError(t, err)
	assert.NotContains(t, snapshots, room.UUID)
}
