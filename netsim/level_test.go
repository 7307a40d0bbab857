// SPDX-License-Identifier: GPL-3.0-or-later

package netsim

import (
	"testing"

	"github.com/rbmk-project/ndnsim/netsim/session"
	"github.com/rbmk-project/ndnsim/netsim/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// finishLevel plays until the level ends with the given counters.
func finishLevel(t *testing.T, s *Simulator, counters session.Counters) {
	s.sess.Counters = counters
	for s.sess.Playing() {
		s.Step()
	}
}

func TestLevelProgression(t *testing.T) {
	s := MustNew(&Config{Topology: topology.Simple, LevelDuration: 1})
	require.False(t, s.NextLevel())

	s.StartGame()
	firstGame := s.sess.ID
	won := session.Counters{Score: 300, Delivered: 20, CacheHits: 12, Sent: 24}
	finishLevel(t, s, won)
	require.Equal(t, session.StateLevelComplete, s.State())
	assert.Empty(t, s.Leaderboard())

	require.True(t, s.NextLevel())
	assert.Equal(t, 2, s.sess.Level)
	assert.Equal(t, session.StatePlaying, s.State())
	assert.Zero(t, s.sess.Elapsed)
	assert.Equal(t, won, s.Counters())

	finishLevel(t, s, won)
	require.Equal(t, session.StateGameOver, s.State())
	require.Len(t, s.Leaderboard(), 1)
	assert.Equal(t, firstGame, s.Leaderboard()[0].GameID)
	assert.Equal(t, 300, s.Leaderboard()[0].Score)
	assert.False(t, s.NextLevel())

	s.StartGame()
	assert.Equal(t, 1, s.sess.Level)
	assert.Zero(t, s.Counters())
	assert.NotEqual(t, firstGame, s.sess.ID)
	assert.Len(t, s.Leaderboard(), 1)
}

func TestLevelFailedObjective(t *testing.T) {
	s := MustNew(&Config{Topology: topology.Star, LevelDuration: 1})
	s.StartGame()
	// enough deliveries for simple but not for star
	finishLevel(t, s, session.Counters{Delivered: 20, CacheHits: 20, Sent: 30})
	assert.Equal(t, session.StateGameOver, s.State())
	assert.Empty(t, s.Leaderboard())
}

func TestMenuPauses(t *testing.T) {
	s := MustNew(&Config{})
	s.StartGame()
	s.Step()
	s.Menu()
	assert.Equal(t, session.StateMenu, s.State())
	elapsed := s.sess.Elapsed
	s.Step()
	assert.Equal(t, elapsed, s.sess.Elapsed)
	assert.Equal(t, int64(1), s.Ticks())
}

func TestSetTopologyOutsideLevel(t *testing.T) {
	s := MustNew(&Config{})
	require.NoError(t, s.SetTopology(topology.Mesh))
	assert.Equal(t, session.StateMenu, s.State())

	snap := s.Snapshot()
	assert.Equal(t, topology.Mesh, snap.Topology)
	assert.Equal(t, 15, snap.MaxPackets)
	assert.Equal(t, 30, snap.Objective.Delivered)
	assert.Len(t, snap.Nodes, 8)

	s.StartGame()
	assert.Equal(t, topology.Mesh, s.Topology().Name)
	assert.Equal(t, 15, s.Topology().MaxPackets)
}

func TestAmbientProbability(t *testing.T) {
	s := MustNew(&Config{})
	assert.Equal(t, BaseAmbientProbability, s.ambientProbability())
	require.NoError(t, s.SetTopology(topology.Tree))
	assert.Equal(t, topology.Tree, s.Topology().Name)
	assert.InDelta(t, BaseAmbientProbability+ExtraAmbientProbability, s.ambientProbability(), 1e-12)

	// the built graph decides, not the remembered setting
	s.cfg.Topology = topology.Simple
	assert.InDelta(t, BaseAmbientProbability+ExtraAmbientProbability, s.ambientProbability(), 1e-12)
}
