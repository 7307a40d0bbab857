// SPDX-License-Identifier: GPL-3.0-or-later

package censor_test

import (
	"math/rand/v2"
	"testing"

	"github.com/rbmk-project/ndnsim/netsim/censor"
	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/stretchr/testify/assert"
)

func TestRandomLoss(t *testing.T) {
	t.Run("never drops with zero probability", func(t *testing.T) {
		loss := censor.NewRandomLoss(0, rand.New(rand.NewPCG(1, 2)))
		for range 1000 {
			assert.Equal(t, packet.ACCEPT, loss.Filter(&packet.Packet{}))
		}
	})

	t.Run("always drops with probability one", func(t *testing.T) {
		loss := censor.NewRandomLoss(1, rand.New(rand.NewPCG(1, 2)))
		for range 1000 {
			assert.Equal(t, packet.DROP, loss.Filter(&packet.Packet{}))
		}
	})

	t.Run("drop rate is close to the probability", func(t *testing.T) {
		loss := censor.NewRandomLoss(censor.DefaultLossProbability, rand.New(rand.NewPCG(7, 7)))
		const total = 100000
		var dropped int
		for range total {
			if loss.Filter(&packet.Packet{Kind: packet.KindInterest}) == packet.DROP {
				dropped++
			}
		}
		assert.InDelta(t, 0.05, float64(dropped)/total, 0.005)
	})

	t.Run("same seed same outcome", func(t *testing.T) {
		a := censor.NewRandomLoss(0.5, rand.New(rand.NewPCG(3, 4)))
		b := censor.NewRandomLoss(0.5, rand.New(rand.NewPCG(3, 4)))
		for range 100 {
			pkt := &packet.Packet{}
			assert.Equal(t, a.Filter(pkt), b.Filter(pkt))
		}
	})
}

func TestDropper(t *testing.T) {
	t.Run("drops only matching packets within budget", func(t *testing.T) {
		d := censor.NewDropper(1, censor.DataTo(3))

		assert.Equal(t, packet.ACCEPT, d.Filter(&packet.Packet{Kind: packet.KindInterest, Target: 3}))
		assert.Equal(t, packet.ACCEPT, d.Filter(&packet.Packet{Kind: packet.KindData, Target: 2}))
		assert.Equal(t, packet.DROP, d.Filter(&packet.Packet{Kind: packet.KindData, Target: 3}))
		assert.Equal(t, packet.ACCEPT, d.Filter(&packet.Packet{Kind: packet.KindData, Target: 3}))
		assert.Equal(t, 1, d.Dropped())
	})

	t.Run("negative budget is unlimited", func(t *testing.T) {
		d := censor.NewDropper(-1, func(*packet.Packet) bool { return true })
		for range 10 {
			assert.Equal(t, packet.DROP, d.Filter(&packet.Packet{}))
		}
		assert.Equal(t, 10, d.Dropped())
	})
}
