package mux

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sonnh58/lieng.wtf/internal/util"
	"github.com/sonnh58/lieng.wtf/pkg/room"
	"github.com/sonnh58/lieng.wtf/pkg/table"
	"github.com/stretchr/testify/assert"
)

func Test_postPlayer(t *testing.T) {
	m := NewMux("", room.NewLobby())
	m.config.playerCreateDelay = time.Second * -1

	ts := httptest.NewServer(m)
	defer ts.Close()

	var obj errorResponse
	assertPost(t, ts, "/player", "{}", &obj, 400)
	assert.Equal(t, "missing or invalid email address", obj.Message)

	obj = errorResponse{}
	assertPost(t, ts, "/player", playerPayload{
		DisplayName: "&",
	}, &obj, 400)
	assert.Equal(t, "display name must only contain letters, numbers, and spaces, and be 40 characters or less", obj.Message)

	email := util.RandomEmail()
	obj = errorResponse{}
	assertPost(t, ts, "/player", playerPayload{
		Email: email,
	}, &obj, 400)
	assert.Equal(t, "password must be 6 or more characters", obj.Message)

	var pObj *table.Player
	assertPost(t, ts, "/player", playerPayload{
		Email:    email,
		Password: "123456",
	}, &pObj, 201)
	assert.Greater(t, pObj.ID, int64(0))
	// no display name requested, so a random one is assigned
	assert.NotEmpty(t, pObj.DisplayName)

	obj = errorResponse{}
	assertPost(t, ts, "/player", playerPayload{
		Email:    email,
		Password: "123456",
	}, &obj, 400)
	assert.Equal(t, "email address is already taken", obj.Message)

	// same remote address must wait before creating another player
	m.config.playerCreateDelay = time.Minute
	obj = errorResponse{}
	assertPost(t, ts, "/player", playerPayload{
		Email:    util.RandomEmail(),
		Password: "123456",
	}, &obj, 400)
	assert.Equal(t, "please wait before creating another player", obj.Message)
}

func Test_postPlayerAuth(t *testing.T) {
	m := NewMux("", room.NewLobby())
	ts := httptest.NewServer(m)
	defer ts.Close()

	email := util.RandomEmail()
	_, err := table.CreatePlayer(context.Background(), email, "test-player", "s3cr3t!", "127.0.0.1")
	assert.NoError(t, err)

	var obj errorResponse
	resp := assertPostWithResp(t, ts, "/player/auth", playerPayload{
		Email:    email,
		Password: "wrong",
	}, &obj, 401)
	_ = resp.Body.Close()
	assert.Equal(t, "invalid email address and/or password", obj.Message)

	// correct password, but the account hasn't been verified yet
	obj = errorResponse{}
	assertPost(t, ts, "/player/auth", playerPayload{
		Email:    email,
		Password: "s3cr3t!",
	}, &obj, 401)
	assert.Equal(t, "account not verified", obj.Message)
}
