// SPDX-License-Identifier: GPL-3.0-or-later

package netsim

import (
	"errors"
	"log/slog"

	"github.com/rbmk-project/ndnsim/netsim/geolink"
	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/router"
	"github.com/rbmk-project/ndnsim/netsim/topology"
)

const (
	// TickRate is the number of ticks per second of wall time.
	TickRate = 60

	// DefaultLevelDuration is the level duration in simulated seconds.
	DefaultLevelDuration = 90.0

	// BaseAmbientProbability is the per-tick probability of ambient traffic.
	BaseAmbientProbability = 0.02

	// ExtraAmbientProbability is added on topologies other than [topology.Simple].
	ExtraAmbientProbability = 0.03

	// PulseStep is the per-tick advance of the node pulse phase.
	PulseStep = 0.05
)

// Catalog contains the content names consumers request.
var Catalog = []string{
	"/sensor/temp",
	"/sensor/humidity",
	"/sensor/light",
	"/camera/feed",
	"/actuator/control",
}

// Config contains configuration for creating a new [*Simulator].
type Config struct {
	// Topology is the topology to use. If empty, we use [topology.Simple].
	Topology topology.Name

	// Speed is the speed setting. If empty, we use [geolink.Normal].
	Speed geolink.Speed

	// PacketLoss enables dropping packets on arrival.
	PacketLoss bool

	// AmbientTraffic enables random background Interests.
	AmbientTraffic bool

	// CSSize is the content store capacity. If zero, we use [node.DefaultCSSize].
	CSSize int

	// LevelDuration is the level duration in simulated seconds.
	// If zero, we use [DefaultLevelDuration].
	LevelDuration float64

	// Seed seeds the random source.
	Seed uint64

	// Logger is the optional structured logger. If this field
	// is nil, we will not be emitting structured logs.
	Logger *slog.Logger

	// Observer is the optional observer of forwarding events.
	Observer router.Observer
}

var (
	// errNegativeCSSize is returned when the content store size is negative.
	errNegativeCSSize = errors.New("content store size must not be negative")

	// errNegativeDuration is returned when the level duration is negative.
	errNegativeDuration = errors.New("level duration must not be negative")
)

// validate returns an error if the configuration is not valid
// and otherwise fills in the defaults.
func (cfg *Config) validate() error {
	if cfg.Topology == "" {
		cfg.Topology = topology.Simple
	}
	if _, err := topology.Parse(string(cfg.Topology)); err != nil {
		return err
	}
	if cfg.Speed == "" {
		cfg.Speed = geolink.Normal
	}
	if _, err := geolink.ParseSpeed(string(cfg.Speed)); err != nil {
		return err
	}
	if cfg.CSSize < 0 {
		return errNegativeCSSize
	}
	if cfg.CSSize == 0 {
		cfg.CSSize = node.DefaultCSSize
	}
	if cfg.LevelDuration < 0 {
		return errNegativeDuration
	}
	if cfg.LevelDuration == 0 {
		cfg.LevelDuration = DefaultLevelDuration
	}
	return nil
}
