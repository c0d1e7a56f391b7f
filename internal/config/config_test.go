package config

import (
	"os"
	"testing"

	"github.com/sonnh58/lieng.wtf/internal/util"
	"github.com/stretchr/testify/assert"
)

func TestInstance(t *testing.T) {
	clear1 := util.SetEnv("LIENG_CONFIG_FILE", "testdata/config.yaml")
	defer clear1()
	clear2 := util.SetEnv("LIENG_JWT_PRIVATE_KEY", "private2.key")
	defer clear2()

	a := assert.New(t)
	a.NoError(Load())

	cfg := Instance()
	a.Equal("public.pem", cfg.JWT.PublicKey)
	a.Equal("private2.key", cfg.JWT.PrivateKey)
	a.Equal(5, cfg.StartBettingDelay)
	a.Equal("debug", cfg.Log.Level)

	// ensure that it's only loaded once
	_ = os.Setenv("LIENG_JWT_PRIVATE_KEY", "private3.key")
	// ensure we aren't using a pointer
	cfg.JWT.PrivateKey = "bad"
	cfg = Instance()
	a.Equal("private2.key", cfg.JWT.PrivateKey)
}

func TestLoad_startBettingDelayDefault(t *testing.T) {
	clear1 := util.SetEnv("LIENG_CONFIG_FILE", "testdata/minimal.yaml")
	defer clear1()

	a := assert.New(t)
	a.NoError(Load())

	cfg := Instance()
	a.Equal(5, cfg.StartBettingDelay)
	a.Equal("warn", cfg.Log.Level)
}
