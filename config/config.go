// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads the ndnsim configuration.
//
// Values are resolved, from highest to lowest precedence, from command
// line flags, NDNSIM_* environment variables, an optional config file
// and the flag defaults.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/rbmk-project/ndnsim/netsim"
	"github.com/rbmk-project/ndnsim/netsim/geolink"
	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/router"
	"github.com/rbmk-project/ndnsim/netsim/topology"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of the environment variables.
const EnvPrefix = "NDNSIM"

const (
	defaultListenAddr = "127.0.0.1:8080"
	defaultTicks      = 600
)

var (
	// ErrUnknownTopology indicates an unknown topology name.
	ErrUnknownTopology = errors.New("config: unknown topology")

	// ErrUnknownSpeed indicates an unknown speed setting.
	ErrUnknownSpeed = errors.New("config: unknown speed")

	// ErrInvalidValue indicates an out of range value.
	ErrInvalidValue = errors.New("config: invalid value")
)

// Config is the ndnsim configuration.
type Config struct {
	// Topology is the topology name.
	Topology string

	// Speed is the speed setting.
	Speed string

	// PacketLoss enables packet loss injection.
	PacketLoss bool

	// Seed seeds the simulation random source.
	Seed uint64

	// AmbientTraffic enables random background Interests.
	AmbientTraffic bool

	// ListenAddr is the HTTP API listen address.
	ListenAddr string

	// MetricsEnabled exposes the Prometheus metrics.
	MetricsEnabled bool

	// Verbose enables debug logging.
	Verbose bool

	// Headless runs without the HTTP API and prints a summary.
	Headless bool

	// Ticks is the number of ticks to run in headless mode.
	Ticks int

	// CSSize is the content store capacity.
	CSSize int

	// LevelDuration is the level duration in simulated seconds.
	LevelDuration float64
}

// Flags registers the configuration flags on the given flag set.
func Flags(fs *pflag.FlagSet) {
	fs.String("config", "", "optional config file (yaml, json or toml)")
	fs.String("topology", string(topology.Simple), "topology: simple, star, mesh or tree")
	fs.String("speed", string(geolink.Normal), "speed: slow, normal or fast")
	fs.Bool("packet-loss", false, "drop 5% of the packets on arrival")
	fs.Uint64("seed", 0, "random seed")
	fs.Bool("ambient-traffic", true, "send random background Interests")
	fs.String("listen-addr", defaultListenAddr, "HTTP API listen address")
	fs.Bool("metrics", true, "expose Prometheus metrics at /metrics")
	fs.Bool("verbose", false, "enable verbose (debug) logging")
	fs.Bool("headless", false, "run without the HTTP API and print a summary")
	fs.Int("ticks", defaultTicks, "number of ticks to run in headless mode")
	fs.Int("cs-size", node.DefaultCSSize, "content store capacity of each node")
	fs.Float64("level-duration", netsim.DefaultLevelDuration, "level duration in simulated seconds")
}

// Load resolves and validates the configuration. The flag set must
// have been populated with [Flags] and parsed.
func Load(fs *pflag.FlagSet) (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("config: binding flags: %w", err)
	}

	if file := v.GetString("config"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("config: reading %s: %w", file, err)
		}
	}

	cfg := &Config{
		Topology:       v.GetString("topology"),
		Speed:          v.GetString("speed"),
		PacketLoss:     v.GetBool("packet-loss"),
		Seed:           v.GetUint64("seed"),
		AmbientTraffic: v.GetBool("ambient-traffic"),
		ListenAddr:     v.GetString("listen-addr"),
		MetricsEnabled: v.GetBool("metrics"),
		Verbose:        v.GetBool("verbose"),
		Headless:       v.GetBool("headless"),
		Ticks:          v.GetInt("ticks"),
		CSSize:         v.GetInt("cs-size"),
		LevelDuration:  v.GetFloat64("level-duration"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate returns an error if the configuration is not valid.
func (c *Config) Validate() error {
	if _, err := topology.Parse(c.Topology); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownTopology, c.Topology)
	}
	if _, err := geolink.ParseSpeed(c.Speed); err != nil {
		return fmt.Errorf("%w: %q", ErrUnknownSpeed, c.Speed)
	}
	if c.CSSize <= 0 {
		return fmt.Errorf("%w: cs-size must be positive", ErrInvalidValue)
	}
	if c.LevelDuration <= 0 {
		return fmt.Errorf("%w: level-duration must be positive", ErrInvalidValue)
	}
	if c.Headless && c.Ticks <= 0 {
		return fmt.Errorf("%w: ticks must be positive", ErrInvalidValue)
	}
	if !c.Headless && c.ListenAddr == "" {
		return fmt.Errorf("%w: listen-addr must not be empty", ErrInvalidValue)
	}
	return nil
}

// Simulator returns the corresponding [*netsim.Config].
func (c *Config) Simulator(logger *slog.Logger, observer router.Observer) *netsim.Config {
	return &netsim.Config{
		Topology:       topology.Name(c.Topology),
		Speed:          geolink.Speed(c.Speed),
		PacketLoss:     c.PacketLoss,
		AmbientTraffic: c.AmbientTraffic,
		CSSize:         c.CSSize,
		LevelDuration:  c.LevelDuration,
		Seed:           c.Seed,
		Logger:         logger,
		Observer:       observer,
	}
}
