// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"cmp"
	"slices"

	"github.com/google/uuid"
)

// DefaultLeaderboardSize is the number of scores kept.
const DefaultLeaderboardSize = 5

// Entry is a leaderboard entry.
type Entry struct {
	GameID uuid.UUID `json:"gameId"`
	Score  int       `json:"score"`
}

// Leaderboard keeps the best scores in memory, best first.
//
// Construct using [NewLeaderboard].
type Leaderboard struct {
	// size is the maximum number of entries.
	size int

	// entries contains the entries sorted by descending score.
	entries []Entry
}

// NewLeaderboard creates a new [*Leaderboard] keeping size entries.
func NewLeaderboard(size int) *Leaderboard {
	return &Leaderboard{size: size}
}

// Add records an entry, keeping only the best entries. Entries
// with the same score keep their insertion order.
func (lb *Leaderboard) Add(e Entry) {
	lb.entries = append(lb.entries, e)
	slices.SortStableFunc(lb.entries, func(a, b Entry) int {
		return cmp.Compare(b.Score, a.Score)
	})
	if len(lb.entries) > lb.size {
		lb.entries = lb.entries[:lb.size]
	}
}

// Entries returns a copy of the entries, best first.
func (lb *Leaderboard) Entries() []Entry {
	return slices.Clone(lb.entries)
}
