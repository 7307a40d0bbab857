// SPDX-License-Identifier: GPL-3.0-or-later

// Package packet contains [*Packet] and the related definitions.
package packet

import (
	"fmt"
	"math"
)

// Kind is the kind of an NDN packet.
type Kind uint8

const (
	// KindInterest is a request naming the desired content.
	KindInterest Kind = iota

	// KindData is a response carrying the named content.
	KindData
)

// String returns the string representation of the packet kind.
func (k Kind) String() string {
	switch k {
	case KindInterest:
		return "interest"

	case KindData:
		return "data"

	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (k *Kind) UnmarshalText(data []byte) error {
	switch string(data) {
	case "interest":
		*k = KindInterest
	case "data":
		*k = KindData
	default:
		return fmt.Errorf("packet: unknown kind %q", data)
	}
	return nil
}

// Point is a position in world coordinates.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distance returns the Euclidean distance between p and q.
func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// NodeID identifies a node inside a topology.
//
// The zero value is a valid identifier (the first node).
type NodeID int

// Packet is an NDN packet travelling on a link.
type Packet struct {
	// Kind is the packet kind.
	Kind Kind

	// Name is the content name (e.g., "/sensor/temp").
	Name string

	// Pos is the current position.
	Pos Point

	// Target is the node the packet is travelling to.
	Target NodeID

	// TargetPos is the position of Target.
	TargetPos Point

	// Speed is the distance travelled per tick, fixed at creation.
	Speed float64

	// Origin is the consumer that originally requested the content.
	//
	// Both the Interest and its Data carry the origin so that the
	// return path can be resolved without reverse-path state.
	Origin NodeID

	// Hops counts the hops travelled so far.
	Hops int

	// Retries is the retry counter of an Interest.
	Retries int
}

// String returns the string representation of the packet.
func (p *Packet) String() string {
	return fmt.Sprintf(
		"%s %s origin=%d target=%d hops=%d speed=%.2f",
		p.Kind, p.Name, p.Origin, p.Target, p.Hops, p.Speed,
	)
}

// Target is the verdict of a [Filter].
type Target int

const (
	// ACCEPT lets the packet continue.
	ACCEPT Target = iota

	// DROP silently discards the packet.
	DROP
)

// Filter inspects a packet arriving at a node and decides
// whether the packet should be delivered or dropped.
type Filter interface {
	Filter(pkt *Packet) Target
}

// FilterFunc adapts a function to the [Filter] interface.
type FilterFunc func(pkt *Packet) Target

// Filter implements [Filter].
func (fx FilterFunc) Filter(pkt *Packet) Target {
	return fx(pkt)
}
