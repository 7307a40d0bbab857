// SPDX-License-Identifier: GPL-3.0-or-later

package censor

import (
	"math/rand/v2"

	"github.com/rbmk-project/ndnsim/netsim/packet"
)

// DefaultLossProbability is the per-arrival drop probability
// used when packet loss is enabled.
const DefaultLossProbability = 0.05

// RandomLoss drops packets with a fixed, independent probability.
//
// Construct using [NewRandomLoss].
type RandomLoss struct {
	// probability is the drop probability in [0, 1].
	probability float64

	// rng is the random source.
	rng *rand.Rand
}

// NewRandomLoss creates a new [*RandomLoss] dropping packets with
// the given probability and drawing from the given random source.
func NewRandomLoss(probability float64, rng *rand.Rand) *RandomLoss {
	return &RandomLoss{
		probability: min(max(probability, 0), 1),
		rng:         rng,
	}
}

// Filter implements [packet.Filter].
func (l *RandomLoss) Filter(pkt *packet.Packet) packet.Target {
	if l.rng.Float64() < l.probability {
		return packet.DROP
	}
	return packet.ACCEPT
}
