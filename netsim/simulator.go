// SPDX-License-Identifier: GPL-3.0-or-later

package netsim

import (
	"context"
	"log/slog"
	"math/rand/v2"

	"github.com/rbmk-project/common/runtimex"
	"github.com/rbmk-project/ndnsim/netsim/censor"
	"github.com/rbmk-project/ndnsim/netsim/geolink"
	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/rbmk-project/ndnsim/netsim/router"
	"github.com/rbmk-project/ndnsim/netsim/session"
	"github.com/rbmk-project/ndnsim/netsim/topology"
)

// Simulator is the NDN forwarding simulation.
//
// Construct using [New] or [MustNew].
//
// A [*Simulator] IS NOT goroutine safe. All the methods must be
// called from the goroutine driving the ticks.
type Simulator struct {
	// cfg is the validated configuration.
	cfg Config

	// engine forwards packets.
	engine *router.Engine

	// filters contains the extra filters added with AddFilter.
	filters []packet.Filter

	// rng is the random source shared by all random choices.
	rng *rand.Rand

	// sess is the session state.
	sess *session.Session

	// ticks counts the steps taken in the current level.
	ticks int64
}

// New creates a new [*Simulator] in the menu state with the
// topology already built, so it can be inspected before starting.
func New(config *Config) (*Simulator, error) {
	cfg := *config
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	topo, err := topology.Build(cfg.Topology, cfg.CSSize)
	if err != nil {
		return nil, err
	}
	rng := rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15))
	sess := session.New()
	sess.Objective = topo.Objective
	engine := router.New(topo, sess, rng)
	engine.Logger = cfg.Logger
	engine.Observer = cfg.Observer
	engine.SpeedMultiplier = cfg.Speed.Multiplier()
	s := &Simulator{
		cfg:    cfg,
		engine: engine,
		rng:    rng,
		sess:   sess,
	}
	s.installFilters()
	return s, nil
}

// MustNew is like [New] but panics on error.
func MustNew(config *Config) *Simulator {
	return runtimex.Try1(New(config))
}

// StartGame starts a new game from the first level.
func (s *Simulator) StartGame() {
	s.sess.Start()
	s.SetupLevel()
	s.logInfo("gameStarted", slog.String("gameID", s.sess.ID.String()))
}

// NextLevel moves to the second level after completing the first
// one and returns whether it did so.
func (s *Simulator) NextLevel() bool {
	if s.sess.State != session.StateLevelComplete {
		return false
	}
	s.sess.Advance()
	s.SetupLevel()
	s.logInfo("levelStarted", slog.Int("level", s.sess.Level))
	return true
}

// Menu goes back to the menu, pausing the simulation.
func (s *Simulator) Menu() {
	s.sess.State = session.StateMenu
}

// SetupLevel rebuilds the topology, discarding every in-flight packet
// and all cache and PIT state, and restarts the level time.
func (s *Simulator) SetupLevel() {
	topo := topology.MustBuild(s.cfg.Topology, s.cfg.CSSize)
	s.engine.Reset(topo)
	s.sess.Elapsed = 0
	s.sess.Congestion = 0
	s.sess.Objective = topo.Objective
	s.ticks = 0
}

// SetTopology switches topology, rebuilding the graph at once. While
// playing, the level restarts on the new topology.
func (s *Simulator) SetTopology(name topology.Name) error {
	if _, err := topology.Parse(string(name)); err != nil {
		return err
	}
	s.cfg.Topology = name
	s.SetupLevel()
	return nil
}

// SetSpeed changes the speed setting. Packets already in
// flight keep the speed they were created with.
func (s *Simulator) SetSpeed(speed geolink.Speed) error {
	if _, err := geolink.ParseSpeed(string(speed)); err != nil {
		return err
	}
	s.cfg.Speed = speed
	s.engine.SpeedMultiplier = speed.Multiplier()
	return nil
}

// SetPacketLoss enables or disables packet loss injection.
func (s *Simulator) SetPacketLoss(enabled bool) {
	s.cfg.PacketLoss = enabled
	s.installFilters()
}

// AddFilter adds a [packet.Filter] run on every packet arrival
// after the packet loss filter, if enabled.
func (s *Simulator) AddFilter(f packet.Filter) {
	s.filters = append(s.filters, f)
	s.installFilters()
}

// installFilters configures the engine filters.
func (s *Simulator) installFilters() {
	s.engine.ClearFilters()
	if s.cfg.PacketLoss {
		s.engine.AddFilter(censor.NewRandomLoss(censor.DefaultLossProbability, s.rng))
	}
	for _, f := range s.filters {
		s.engine.AddFilter(f)
	}
}

// Step advances the simulation by one tick. It does nothing unless
// a level is being played.
func (s *Simulator) Step() {
	if !s.sess.Playing() {
		return
	}
	mult := s.cfg.Speed.Multiplier()
	topo := s.engine.Topology()
	s.ticks++

	// 1. advance the level time and evaluate the objective when over
	s.sess.Elapsed += mult / TickRate
	if s.sess.Elapsed >= s.cfg.LevelDuration {
		state := s.sess.Finish()
		s.logInfo("levelOver",
			slog.Int("level", s.sess.Level),
			slog.String("state", string(state)),
			slog.Int("score", s.sess.Counters.Score),
		)
	}

	// 2. congestion is bounded by admission control
	s.sess.Congestion = float64(s.engine.Len()) / float64(topo.MaxPackets)

	// 3. animation phase
	for _, n := range topo.Nodes {
		n.Pulse += PulseStep * mult
	}

	// 4. and 5. move packets, routing and removing arrivals
	s.engine.Move()

	// 6. ambient traffic
	if s.cfg.AmbientTraffic && s.rng.Float64() < s.ambientProbability()*mult {
		s.SendRandomInterest()
	}
}

// ambientProbability returns the per-tick ambient traffic probability.
func (s *Simulator) ambientProbability() float64 {
	prob := BaseAmbientProbability
	if s.engine.Topology().Name != topology.Simple {
		prob += ExtraAmbientProbability
	}
	return prob
}

// SendInterest sends an Interest for name from the given consumer. It
// returns false when rejected by admission control.
func (s *Simulator) SendInterest(consumer packet.NodeID, name string) bool {
	return s.engine.SendInterest(consumer, name)
}

// SendRandomInterest sends an Interest for a random catalog name from a
// random consumer. It returns false when rejected or not playing.
func (s *Simulator) SendRandomInterest() bool {
	if !s.sess.Playing() {
		return false
	}
	consumers := s.engine.Topology().WithRole(node.RoleConsumer)
	if len(consumers) <= 0 {
		return false
	}
	consumer := consumers[s.rng.IntN(len(consumers))]
	return s.engine.SendInterest(consumer.ID, s.randomName())
}

// SpawnAt handles a click at the given point: every consumer whose disc
// contains the point sends an Interest for a random catalog name. It
// returns the number of Interests sent.
func (s *Simulator) SpawnAt(pt packet.Point) int {
	if !s.sess.Playing() {
		return 0
	}
	var sent int
	for _, n := range s.engine.Topology().WithRole(node.RoleConsumer) {
		if n.Contains(pt) && s.engine.SendInterest(n.ID, s.randomName()) {
			sent++
		}
	}
	return sent
}

// NodeAt returns the node under the given point, if any.
func (s *Simulator) NodeAt(pt packet.Point) (NodeView, bool) {
	n, found := s.engine.Topology().NodeAt(pt)
	if !found {
		return NodeView{}, false
	}
	return newNodeView(n), true
}

// randomName returns a random catalog name.
func (s *Simulator) randomName() string {
	return Catalog[s.rng.IntN(len(Catalog))]
}

// Topology returns the current topology.
func (s *Simulator) Topology() *topology.Topology {
	return s.engine.Topology()
}

// Counters returns the session counters.
func (s *Simulator) Counters() session.Counters {
	return s.sess.Counters
}

// State returns the game state.
func (s *Simulator) State() session.State {
	return s.sess.State
}

// Leaderboard returns the best scores, best first.
func (s *Simulator) Leaderboard() []session.Entry {
	return s.sess.Leaderboard.Entries()
}

// Congestion returns the congestion computed by the last tick.
func (s *Simulator) Congestion() float64 {
	return s.sess.Congestion
}

// InFlight returns the number of packets in flight.
func (s *Simulator) InFlight() int {
	return s.engine.Len()
}

// Ticks returns the number of ticks taken in the current level.
func (s *Simulator) Ticks() int64 {
	return s.ticks
}

// logInfo emits an info structured log, if a logger is configured.
func (s *Simulator) logInfo(msg string, attrs ...slog.Attr) {
	if s.cfg.Logger != nil {
		s.cfg.Logger.LogAttrs(context.Background(), slog.LevelInfo, msg, attrs...)
	}
}
