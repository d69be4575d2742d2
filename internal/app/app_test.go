package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	cfgpkg "github.com/taoyao-code/rfd-station/internal/config"
	"github.com/taoyao-code/rfd-station/internal/protocol/rfd"
)

func TestLoadProfile(t *testing.T) {
	p, err := LoadProfile(cfgpkg.LinkConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, rfd.DefaultProfile(), p)

	path := filepath.Join(t.TempDir(), "firmware.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: legacy\npingMarker: P\ntimeSyncOpcode: T\n"), 0o644))
	p, err = LoadProfile(cfgpkg.LinkConfig{ProfilePath: path}, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, "P", p.PingMarker)
	assert.Equal(t, "T", p.TimeSyncOpcode)

	_, err = LoadProfile(cfgpkg.LinkConfig{ProfilePath: filepath.Join(t.TempDir(), "none.yaml")}, zap.NewNop())
	assert.Error(t, err)
}

func TestNewEventFanout(t *testing.T) {
	_, m := NewMetrics()
	fan, ring := NewEventFanout(t.Context(), m, nil, zap.NewNop())

	fan.Notify(rfd.Event{Kind: rfd.EventResync, JobID: "j1"})
	fan.Notify(rfd.Event{Kind: rfd.EventStatus, JobID: "j1", Text: "Image Request Sent"})

	assert.Len(t, ring.Recent(10, "j1"), 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResyncTotal))
}

func TestOptionalStoresDisabled(t *testing.T) {
	store, err := ConnectDBAndMigrate(t.Context(), cfgpkg.DatabaseConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, store)
	store.Close()

	client, err := NewRedisClient(cfgpkg.RedisConfig{}, zap.NewNop())
	require.NoError(t, err)
	assert.Nil(t, client)
}
