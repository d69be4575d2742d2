package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("RFD_CONFIG", "")
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "bugst", cfg.Serial.Driver)
	assert.Equal(t, 38400, cfg.Serial.Baud)
	assert.Equal(t, 2*time.Second, cfg.Serial.ReadTimeout)
	assert.Equal(t, 7000, cfg.Link.WordLength)
	assert.Equal(t, 5, cfg.Link.MaxRetries)
	assert.Equal(t, "Images", cfg.Link.ImageDir)
	assert.Equal(t, "newimage", cfg.Link.FallbackName)
	assert.Equal(t, "camerasettings.txt", cfg.Link.SettingsFile)
	assert.Equal(t, 10, cfg.Link.TimeSyncPings)
	assert.Equal(t, 8, cfg.Worker.QueueSize)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.Equal(t, int64(500), cfg.Redis.RecentMax)
}

func TestLoadFileAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "station.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
serial:
  driver: tarm
  device: COM4
  baud: 57600
link:
  wordLength: 5000
  imageDir: /var/lib/rfd/images
api:
  auth:
    enabled: true
    apiKeys: ["k1", "k2"]
`), 0o644))
	t.Setenv("RFD_LINK_MAXRETRIES", "3")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "tarm", cfg.Serial.Driver)
	assert.Equal(t, "COM4", cfg.Serial.Device)
	assert.Equal(t, 57600, cfg.Serial.Baud)
	assert.Equal(t, 5000, cfg.Link.WordLength)
	assert.Equal(t, "/var/lib/rfd/images", cfg.Link.ImageDir)
	assert.Equal(t, 3, cfg.Link.MaxRetries)
	assert.True(t, cfg.API.Auth.Enabled)
	assert.Equal(t, []string{"k1", "k2"}, cfg.API.Auth.APIKeys)
	// 未在文件中出现的键仍取默认值
	assert.Equal(t, ".jpg", cfg.Link.Extension)
}

func TestLoadRejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("link:\n  wordLength: 1500\n"), 0o644))
	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "wordLength")
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Serial: SerialConfig{Driver: "bugst", Baud: 38400},
			Link:   LinkConfig{WordLength: 7000, MaxRetries: 5},
			Worker: WorkerConfig{QueueSize: 8},
		}
	}
	c := valid()
	require.NoError(t, c.Validate())

	cases := map[string]func(c *Config){
		"serial.driver":    func(c *Config) { c.Serial.Driver = "usb" },
		"serial.baud":      func(c *Config) { c.Serial.Baud = 0 },
		"link.wordLength":  func(c *Config) { c.Link.WordLength = 500 },
		"link.maxRetries":  func(c *Config) { c.Link.MaxRetries = -1 },
		"worker.queueSize": func(c *Config) { c.Worker.QueueSize = 0 },
	}
	for key, mutate := range cases {
		c := valid()
		mutate(&c)
		err := c.Validate()
		require.Error(t, err, key)
		assert.Contains(t, err.Error(), key)
	}

	c = valid()
	c.Serial.Driver = "TARM"
	assert.NoError(t, c.Validate())
}
