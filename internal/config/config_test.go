package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("MINES_MODE", "development")
	t.Setenv("MINES_JWT_SECRET", "from env")

	c, err := Load("")
	require.NoError(t, err)
	assert.True(t, c.Development())
	assert.Equal(t, ":8080", c.Addr)
	assert.Equal(t, 64, c.Game.MaxSize)
	assert.Equal(t, 10, c.Game.SafeZone)
	assert.Equal(t, time.Hour, c.Game.IdleTimeout)
	assert.Equal(t, 24*time.Hour, c.JWT.TokenLifetime)
	assert.Equal(t, "from env", c.JWT.Secret)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := writeConfig(t, `{
		"mode": "production",
		"addr": "localhost:9000",
		"log": {"level": "warn"},
		"jwt": {"secret": "s3cr3t", "token_lifetime": "2h"},
		"game": {"max_size": 30, "idle_timeout": "15m"}
	}`)
	t.Setenv("MINES_GAME_MAX_SIZE", "40")

	c, err := Load(path)
	require.NoError(t, err)
	assert.True(t, c.Production())
	assert.Equal(t, "localhost:9000", c.Addr)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Equal(t, "s3cr3t", c.JWT.Secret)
	assert.Equal(t, 2*time.Hour, c.JWT.TokenLifetime)
	assert.Equal(t, 40, c.Game.MaxSize)
	assert.Equal(t, 15*time.Minute, c.Game.IdleTimeout)
	assert.Equal(t, "localhost:9000", c.Fields()["addr"])
}

func TestLoadRejectsProductionWithoutSecret(t *testing.T) {
	path := writeConfig(t, `{"mode": "production"}`)
	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsNegativeSafeZone(t *testing.T) {
	path := writeConfig(t, `{"mode": "development", "game": {"safe_zone": -1}}`)
	_, err := Load(path)
	assert.ErrorContains(t, err, "game.safe_zone")
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	log, err := NewLogger(LogConfig{}, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.DebugLevel, log.GetLevel())

	log, err = NewLogger(LogConfig{Level: "error"}, true)
	require.NoError(t, err)
	assert.Equal(t, logrus.ErrorLevel, log.GetLevel())

	_, err = NewLogger(LogConfig{Level: "loud"}, false)
	assert.Error(t, err)

	file := filepath.Join(t.TempDir(), "mines.log")
	log, err = NewLogger(LogConfig{File: file, MaxSize: 1}, false)
	require.NoError(t, err)
	log.Info("hello")
	data, err := os.ReadFile(file)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"hello"`)
}
