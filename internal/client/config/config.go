package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/htmlkeeper/internal/timex"
)

// Config holds runtime settings for the CLI.
//
// Fields:
//   - ServerURL: base URL of the htmlkeeper server.
//   - Timeout: per-request deadline; zero disables it.
type Config struct {
	ServerURL string
	Timeout   time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:3000"
	c.Timeout = 2 * time.Minute
}

// JsonConfig is the on-disk form. Pointer fields leave absent keys untouched.
type JsonConfig struct {
	ServerURL *string         `json:"server_url"`
	Timeout   *timex.Duration `json:"timeout"`
}

// LoadFile overlays c with the JSON file at path.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	if jc.ServerURL != nil {
		c.ServerURL = *jc.ServerURL
	}
	if jc.Timeout != nil {
		c.Timeout = jc.Timeout.Duration
	}
	return nil
}
