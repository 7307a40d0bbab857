// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rbmk-project/ndnsim/netsim"
	"github.com/rbmk-project/ndnsim/netsim/geolink"
	"github.com/rbmk-project/ndnsim/netsim/topology"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// load parses args with a fresh flag set and loads the config.
func load(t *testing.T, args ...string) (*Config, error) {
	fs := pflag.NewFlagSet("ndnsim", pflag.ContinueOnError)
	Flags(fs)
	require.NoError(t, fs.Parse(args))
	return Load(fs)
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := load(t)
	require.NoError(t, err)
	assert.Equal(t, "simple", cfg.Topology)
	assert.Equal(t, "normal", cfg.Speed)
	assert.False(t, cfg.PacketLoss)
	assert.True(t, cfg.AmbientTraffic)
	assert.Equal(t, defaultListenAddr, cfg.ListenAddr)
	assert.True(t, cfg.MetricsEnabled)
	assert.Equal(t, 3, cfg.CSSize)
	assert.Equal(t, netsim.DefaultLevelDuration, cfg.LevelDuration)
	assert.Equal(t, defaultTicks, cfg.Ticks)
}

func TestLoadFlags(t *testing.T) {
	cfg, err := load(t, "--topology=tree", "--speed", "fast", "--packet-loss", "--seed=42", "--headless", "--ticks=10")
	require.NoError(t, err)
	assert.Equal(t, "tree", cfg.Topology)
	assert.Equal(t, "fast", cfg.Speed)
	assert.True(t, cfg.PacketLoss)
	assert.Equal(t, uint64(42), cfg.Seed)
	assert.True(t, cfg.Headless)
	assert.Equal(t, 10, cfg.Ticks)
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("NDNSIM_TOPOLOGY", "mesh")
	t.Setenv("NDNSIM_PACKET_LOSS", "true")
	t.Setenv("NDNSIM_CS_SIZE", "5")
	t.Setenv("NDNSIM_SPEED", "slow")

	cfg, err := load(t, "--speed=fast")
	require.NoError(t, err)
	assert.Equal(t, "mesh", cfg.Topology)
	assert.True(t, cfg.PacketLoss)
	assert.Equal(t, 5, cfg.CSSize)
	// flags win over the environment
	assert.Equal(t, "fast", cfg.Speed)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ndnsim.yaml")
	data := []byte("topology: star\nlevel-duration: 30\nambient-traffic: false\n")
	require.NoError(t, os.WriteFile(path, data, 0600))

	cfg, err := load(t, "--config", path)
	require.NoError(t, err)
	assert.Equal(t, "star", cfg.Topology)
	assert.Equal(t, 30.0, cfg.LevelDuration)
	assert.False(t, cfg.AmbientTraffic)

	_, err = load(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		return Config{
			Topology:      "simple",
			Speed:         "normal",
			ListenAddr:    defaultListenAddr,
			CSSize:        3,
			LevelDuration: 90,
		}
	}

	tests := []struct {
		name   string
		mutate func(c *Config)
		err    error
	}{
		{"valid", func(c *Config) {}, nil},
		{"topology", func(c *Config) { c.Topology = "ring" }, ErrUnknownTopology},
		{"speed", func(c *Config) { c.Speed = "warp" }, ErrUnknownSpeed},
		{"cs size", func(c *Config) { c.CSSize = 0 }, ErrInvalidValue},
		{"duration", func(c *Config) { c.LevelDuration = -1 }, ErrInvalidValue},
		{"ticks", func(c *Config) { c.Headless, c.Ticks = true, 0 }, ErrInvalidValue},
		{"listen addr", func(c *Config) { c.ListenAddr = "" }, ErrInvalidValue},
		{"headless without addr", func(c *Config) { c.Headless, c.Ticks, c.ListenAddr = true, 1, "" }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.err == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.err)
		})
	}

	_, err := load(t, "--topology=ring")
	assert.ErrorIs(t, err, ErrUnknownTopology)
}

func TestSimulator(t *testing.T) {
	cfg, err := load(t, "--topology=mesh", "--speed=slow", "--seed=7")
	require.NoError(t, err)

	simcfg := cfg.Simulator(nil, nil)
	assert.Equal(t, topology.Mesh, simcfg.Topology)
	assert.Equal(t, geolink.Slow, simcfg.Speed)
	assert.Equal(t, uint64(7), simcfg.Seed)

	sim, err := netsim.New(simcfg)
	require.NoError(t, err)
	assert.Equal(t, topology.Mesh, sim.Topology().Name)
}
