package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cli.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://localhost:3000", c.ServerURL)
	assert.Equal(t, 2*time.Minute, c.Timeout)
}

func TestLoadFile(t *testing.T) {
	t.Run("full file", func(t *testing.T) {
		var c Config
		c.LoadDefaults()
		require.NoError(t, c.LoadFile(writeFile(t, `{"server_url":"https://a.example","timeout":"15s"}`)))

		assert.Equal(t, "https://a.example", c.ServerURL)
		assert.Equal(t, 15*time.Second, c.Timeout)
	})

	t.Run("nanoseconds and partial", func(t *testing.T) {
		var c Config
		c.LoadDefaults()
		require.NoError(t, c.LoadFile(writeFile(t, `{"timeout":1000000000}`)))

		assert.Equal(t, "http://localhost:3000", c.ServerURL)
		assert.Equal(t, time.Second, c.Timeout)
	})

	t.Run("missing file", func(t *testing.T) {
		var c Config
		assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "nope.json")))
	})

	t.Run("invalid json", func(t *testing.T) {
		var c Config
		assert.Error(t, c.LoadFile(writeFile(t, `{ nope`)))
	})
}
