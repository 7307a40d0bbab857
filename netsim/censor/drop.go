// SPDX-License-Identifier: GPL-3.0-or-later

package censor

import "github.com/rbmk-project/ndnsim/netsim/packet"

// Dropper drops packets matching a predicate.
//
// Construct using [NewDropper].
type Dropper struct {
	// match selects the packets to drop.
	match func(pkt *packet.Packet) bool

	// budget is the number of drops left; negative means unlimited.
	budget int

	// dropped counts the dropped packets.
	dropped int
}

// NewDropper creates a new [*Dropper] dropping at most budget packets
// matching the given predicate. A negative budget means unlimited.
func NewDropper(budget int, match func(pkt *packet.Packet) bool) *Dropper {
	return &Dropper{match: match, budget: budget}
}

// Filter implements [packet.Filter].
func (d *Dropper) Filter(pkt *packet.Packet) packet.Target {
	if d.budget == 0 || !d.match(pkt) {
		return packet.ACCEPT
	}
	if d.budget > 0 {
		d.budget--
	}
	d.dropped++
	return packet.DROP
}

// Dropped returns the number of packets dropped so far.
func (d *Dropper) Dropped() int {
	return d.dropped
}

// DataTo matches Data packets arriving at the given node.
func DataTo(id packet.NodeID) func(pkt *packet.Packet) bool {
	return func(pkt *packet.Packet) bool {
		return pkt.Kind == packet.KindData && pkt.Target == id
	}
}
