// SPDX-License-Identifier: GPL-3.0-or-later

// Package geolink models packets travelling on geographic links.
//
// A packet moves in a straight line from its current position toward
// the position of its target node at a constant per-tick speed, which
// is fixed when the packet is created.
package geolink

import (
	"errors"
	"fmt"
	"math"

	"github.com/rbmk-project/ndnsim/netsim/packet"
)

// Speed is the simulation speed setting.
type Speed string

const (
	// Slow halves the simulation speed.
	Slow Speed = "slow"

	// Normal is the default simulation speed.
	Normal Speed = "normal"

	// Fast doubles the simulation speed.
	Fast Speed = "fast"
)

// ErrUnknownSpeed is returned when parsing an unknown speed setting.
var ErrUnknownSpeed = errors.New("unknown speed")

// ParseSpeed parses a speed setting.
func ParseSpeed(s string) (Speed, error) {
	switch sp := Speed(s); sp {
	case Slow, Normal, Fast:
		return sp, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownSpeed, s)
	}
}

// Multiplier returns the factor scaling packet speed, elapsed
// time and ambient traffic. Unknown settings behave like [Normal].
func (s Speed) Multiplier() float64 {
	switch s {
	case Slow:
		return 0.5
	case Fast:
		return 2.0
	default:
		return 1.0
	}
}

const (
	// BaseSpeed is the speed of a packet on an idle network.
	BaseSpeed = 3.0

	// MinSpeed is the speed floor on a congested network.
	MinSpeed = 1.0

	// CongestionPenalty is the speed lost per unit of congestion.
	CongestionPenalty = 0.5
)

// PacketSpeed returns the per-tick speed of a new packet given the
// current congestion ratio and the speed multiplier.
func PacketSpeed(congestion, multiplier float64) float64 {
	return max(BaseSpeed-congestion*CongestionPenalty, MinSpeed) * multiplier
}

// Advance moves pkt one tick toward its target.
//
// It returns true, without moving the packet, when the remaining distance
// is shorter than the packet speed, meaning the packet has arrived.
func Advance(pkt *packet.Packet) bool {
	dx := pkt.TargetPos.X - pkt.Pos.X
	dy := pkt.TargetPos.Y - pkt.Pos.Y
	dist := math.Hypot(dx, dy)
	if dist < pkt.Speed {
		return true
	}
	pkt.Pos.X += dx / dist * pkt.Speed
	pkt.Pos.Y += dy / dist * pkt.Speed
	return false
}

// TicksToArrive returns the number of calls to [Advance] needed
// before it reports arrival for a hop of the given length.
func TicksToArrive(length, speed float64) int {
	if speed <= 0 {
		return math.MaxInt
	}
	return int(math.Floor(length/speed)) + 1
}
