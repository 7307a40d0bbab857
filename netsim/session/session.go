// SPDX-License-Identifier: GPL-3.0-or-later

// Package session contains the process-wide simulation state: the
// counters mutated by forwarding, the game state machine, the level
// objective evaluation and the in-memory leaderboard.
package session

import (
	"github.com/google/uuid"
	"github.com/rbmk-project/ndnsim/netsim/topology"
)

// State is the game state.
type State string

const (
	// StateMenu is the initial state, before a game starts.
	StateMenu State = "menu"

	// StatePlaying means the simulation is running.
	StatePlaying State = "playing"

	// StateLevelComplete means the first level objective was met.
	StateLevelComplete State = "level_complete"

	// StateGameOver means the game ended.
	StateGameOver State = "game_over"
)

// Score rewards.
const (
	// DeliveryScore is awarded when Data reaches its consumer.
	DeliveryScore = 10

	// CacheHitScore is awarded when a router answers from its cache.
	CacheHitScore = 20
)

// Counters contains the aggregate forwarding counters.
type Counters struct {
	Score     int `json:"score"`
	CacheHits int `json:"cacheHits"`
	Sent      int `json:"packetsSent"`
	Delivered int `json:"packetsDelivered"`
	Lost      int `json:"packetsLost"`
}

// CacheHitPercent returns the cache hits per sent Interest, in percent,
// and false when no Interest has been sent yet.
func (c Counters) CacheHitPercent() (float64, bool) {
	if c.Sent <= 0 {
		return 0, false
	}
	return float64(c.CacheHits) / float64(c.Sent) * 100, true
}

// Met returns whether the counters satisfy the objective.
func (c Counters) Met(obj topology.Objective) bool {
	pct, ok := c.CacheHitPercent()
	return ok && c.Delivered >= obj.Delivered && pct >= obj.CacheHitPercent
}

// Progress is the objective completion, each value in [0, 100].
type Progress struct {
	Delivered float64 `json:"delivered"`
	Cache     float64 `json:"cache"`
}

// Progress returns the completion of the objective.
func (c Counters) Progress(obj topology.Objective) Progress {
	var p Progress
	if obj.Delivered > 0 {
		p.Delivered = min(float64(c.Delivered)/float64(obj.Delivered)*100, 100)
	}
	if pct, ok := c.CacheHitPercent(); ok && obj.CacheHitPercent > 0 {
		p.Cache = min(pct/obj.CacheHitPercent*100, 100)
	}
	return p
}

// Session is the state of a game.
//
// Construct using [New].
type Session struct {
	// ID identifies the current game.
	ID uuid.UUID

	// Level is the current level, starting from 1.
	Level int

	// State is the game state.
	State State

	// Counters contains the aggregate counters.
	Counters Counters

	// Elapsed is the simulated time spent in the current level, in seconds.
	Elapsed float64

	// Congestion is the ratio of in-flight packets to the packets cap.
	Congestion float64

	// Objective is the objective of the current level.
	Objective topology.Objective

	// Leaderboard contains the best scores.
	Leaderboard *Leaderboard
}

// New creates a new [*Session] in the menu state.
func New() *Session {
	return &Session{
		ID:          uuid.New(),
		Level:       1,
		State:       StateMenu,
		Leaderboard: NewLeaderboard(DefaultLeaderboardSize),
	}
}

// Start starts a new game from level one, resetting all counters.
func (s *Session) Start() {
	s.ID = uuid.New()
	s.Level = 1
	s.State = StatePlaying
	s.Counters = Counters{}
	s.Elapsed = 0
	s.Congestion = 0
}

// Advance moves to the second level. The counters carry over.
func (s *Session) Advance() {
	s.Level = 2
	s.State = StatePlaying
	s.Elapsed = 0
}

// Playing returns whether the simulation is running.
func (s *Session) Playing() bool {
	return s.State == StatePlaying
}

// Finish evaluates the objective at the end of the level and moves
// to the next state, which is returned. Meeting the objective on the
// first level completes it; meeting it later ends the game recording
// the score on the leaderboard; failing it ends the game.
func (s *Session) Finish() State {
	switch {
	case !s.Counters.Met(s.Objective):
		s.State = StateGameOver
	case s.Level == 1:
		s.State = StateLevelComplete
	default:
		s.State = StateGameOver
		s.Leaderboard.Add(Entry{GameID: s.ID, Score: s.Counters.Score})
	}
	return s.State
}
