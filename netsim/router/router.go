// SPDX-License-Identifier: GPL-3.0-or-later

// Package router implements NDN forwarding for the simulation.
//
// The [*Engine] owns the in-flight packets and decides, when a packet
// reaches its target node, what happens next: recording PIT state,
// answering from a router content store, answering at a producer,
// forwarding the Interest, or walking the Data back to its consumer.
package router

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/rbmk-project/ndnsim/netsim/geolink"
	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/rbmk-project/ndnsim/netsim/session"
	"github.com/rbmk-project/ndnsim/netsim/topology"
)

// Outcome is the result of routing an arrived packet.
type Outcome int

const (
	// Forwarded means the packet was sent on to another node.
	Forwarded Outcome = iota

	// Delivered means Data reached its consumer.
	Delivered

	// CacheHit means a router answered the Interest from its cache.
	CacheHit

	// Answered means a producer answered the Interest.
	Answered

	// Lost means loss injection dropped the packet.
	Lost

	// NoRoute means there was nowhere to send the packet.
	NoRoute
)

// String returns the string representation of the outcome.
func (o Outcome) String() string {
	switch o {
	case Forwarded:
		return "forwarded"
	case Delivered:
		return "delivered"
	case CacheHit:
		return "cacheHit"
	case Answered:
		return "answered"
	case Lost:
		return "lost"
	case NoRoute:
		return "noRoute"
	default:
		return "unknown"
	}
}

// Engine is the forwarding engine.
//
// Construct using [New].
//
// An [*Engine] IS NOT goroutine safe: it is owned by the simulation tick.
type Engine struct {
	// Logger is the optional structured logger. If this field
	// is nil, we will not be emitting structured logs.
	Logger *slog.Logger

	// Observer is the optional [Observer] of forwarding events.
	Observer Observer

	// SpeedMultiplier scales the speed of new packets.
	SpeedMultiplier float64

	// filters are run on every arrival before routing.
	filters []packet.Filter

	// packets contains the in-flight packets.
	packets []*packet.Packet

	// rng breaks ties when choosing the next hop.
	rng *rand.Rand

	// sess contains the counters mutated by forwarding.
	sess *session.Session

	// topo is the topology packets travel on.
	topo *topology.Topology
}

// New creates a new [*Engine] forwarding on the given topology,
// accounting on the given session and breaking ties using rng.
func New(topo *topology.Topology, sess *session.Session, rng *rand.Rand) *Engine {
	return &Engine{
		SpeedMultiplier: 1,
		packets:         []*packet.Packet{},
		rng:             rng,
		sess:            sess,
		topo:            topo,
	}
}

// AddFilter adds a [packet.Filter] run on every arrival.
func (e *Engine) AddFilter(f packet.Filter) {
	e.filters = append(e.filters, f)
}

// ClearFilters removes all the filters.
func (e *Engine) ClearFilters() {
	e.filters = nil
}

// Reset replaces the topology and discards all in-flight packets.
func (e *Engine) Reset(topo *topology.Topology) {
	e.topo = topo
	e.packets = []*packet.Packet{}
}

// Topology returns the current topology.
func (e *Engine) Topology() *topology.Topology {
	return e.topo
}

// Len returns the number of in-flight packets.
func (e *Engine) Len() int {
	return len(e.packets)
}

// Packets returns a copy of the in-flight packets.
func (e *Engine) Packets() []packet.Packet {
	out := make([]packet.Packet, 0, len(e.packets))
	for _, pkt := range e.packets {
		out = append(out, *pkt)
	}
	return out
}

// SendInterest sends an Interest for name from the given consumer toward
// its first neighbor. It returns false, doing nothing, when the number
// of in-flight packets has reached the topology cap or the consumer
// has no neighbors.
func (e *Engine) SendInterest(consumer packet.NodeID, name string) bool {
	if len(e.packets) >= e.topo.MaxPackets {
		return false
	}
	from := e.topo.Node(consumer)
	if len(from.Neighbors) <= 0 {
		return false
	}
	e.push(packet.KindInterest, name, from, e.topo.Node(from.Neighbors[0]), consumer, 0, 0)
	e.sess.Counters.Sent++
	e.log("interestSent", slog.String("name", name), slog.String("at", from.Name))
	e.notify(Event{Kind: EventInterestSent, Name: name, Node: consumer, NodeName: from.Name, PacketKind: packet.KindInterest})
	return true
}

// Move advances every in-flight packet by one tick. Packets reaching
// their target are routed and removed. Packets created while routing
// start moving on the next tick.
func (e *Engine) Move() {
	inflight := e.packets
	e.packets = make([]*packet.Packet, 0, len(inflight))
	kept := make([]*packet.Packet, 0, len(inflight))
	for _, pkt := range inflight {
		if geolink.Advance(pkt) {
			e.Route(pkt)
			continue
		}
		kept = append(kept, pkt)
	}
	e.packets = append(kept, e.packets...)
}

// Route handles a packet that reached its target node.
//
// The filters run first: a dropped packet is counted as lost and has no
// other effect. Then, an Interest always leaves a PIT entry naming its
// origin at the node before being answered or forwarded, while Data is
// either delivered to its origin or moved one hop closer to it.
func (e *Engine) Route(pkt *packet.Packet) Outcome {
	cur := e.topo.Node(pkt.Target)

	for _, f := range e.filters {
		if f.Filter(pkt) == packet.DROP {
			e.sess.Counters.Lost++
			e.log("packetLost", slog.String("kind", pkt.Kind.String()),
				slog.String("name", pkt.Name), slog.String("at", cur.Name))
			e.notify(Event{Kind: EventPacketLost, Name: pkt.Name, Node: cur.ID, NodeName: cur.Name, PacketKind: pkt.Kind})
			return Lost
		}
	}

	if pkt.Kind == packet.KindInterest {
		return e.routeInterest(cur, pkt)
	}
	return e.routeData(cur, pkt)
}

// routeInterest handles an Interest arriving at cur.
func (e *Engine) routeInterest(cur *node.Node, pkt *packet.Packet) Outcome {
	cur.PIT.Set(pkt.Name, pkt.Origin)

	if cur.Role == node.RoleRouter && cur.CS.Contains(pkt.Name) {
		cur.CacheHits++
		cur.Pulse = math.Pi
		e.sess.Counters.CacheHits++
		e.sess.Counters.Score += session.CacheHitScore
		e.SynthesizeData(cur.ID, pkt.Origin, pkt.Name)
		cur.PIT.Delete(pkt.Name)
		e.log("cacheHit", slog.String("name", pkt.Name), slog.String("at", cur.Name))
		e.notify(Event{Kind: EventCacheHit, Name: pkt.Name, Node: cur.ID, NodeName: cur.Name, PacketKind: packet.KindInterest})
		return CacheHit
	}

	if cur.Role == node.RoleProducer {
		e.SynthesizeData(cur.ID, pkt.Origin, pkt.Name)
		cur.PIT.Delete(pkt.Name)
		e.log("interestAnswered", slog.String("name", pkt.Name), slog.String("at", cur.Name))
		return Answered
	}

	next := e.chooseUpstream(cur)
	if next == nil {
		e.log("noRoute", slog.String("kind", pkt.Kind.String()),
			slog.String("name", pkt.Name), slog.String("at", cur.Name))
		return NoRoute
	}
	e.push(packet.KindInterest, pkt.Name, cur, next, pkt.Origin, pkt.Hops+1, pkt.Retries)
	e.log("interestForwarded", slog.String("name", pkt.Name),
		slog.String("at", cur.Name), slog.String("next", next.Name), slog.Int("hops", pkt.Hops+1))
	return Forwarded
}

// chooseUpstream selects where to forward an Interest: a random producer
// neighbor, else a random router neighbor, else a random producer
// anywhere in the topology. It returns nil when there is no producer.
func (e *Engine) chooseUpstream(cur *node.Node) *node.Node {
	var producers, routers []*node.Node
	for _, id := range cur.Neighbors {
		neigh := e.topo.Node(id)
		switch neigh.Role {
		case node.RoleProducer:
			producers = append(producers, neigh)
		case node.RoleRouter:
			routers = append(routers, neigh)
		}
	}
	if len(producers) > 0 {
		return producers[e.rng.IntN(len(producers))]
	}
	if len(routers) > 0 {
		return routers[e.rng.IntN(len(routers))]
	}
	if all := e.topo.WithRole(node.RoleProducer); len(all) > 0 {
		return all[e.rng.IntN(len(all))]
	}
	return nil
}

// routeData handles Data arriving at cur.
func (e *Engine) routeData(cur *node.Node, pkt *packet.Packet) Outcome {
	if cur.ID == pkt.Origin {
		cur.Pulse = math.Pi
		e.sess.Counters.Delivered++
		e.sess.Counters.Score += session.DeliveryScore
		e.log("dataDelivered", slog.String("name", pkt.Name),
			slog.String("at", cur.Name), slog.Int("hops", pkt.Hops))
		e.notify(Event{Kind: EventDataDelivered, Name: pkt.Name, Node: cur.ID, NodeName: cur.Name, PacketKind: packet.KindData})
		return Delivered
	}

	hop, found := e.topo.NextHop(cur.ID, pkt.Origin)
	if !found {
		e.log("noRoute", slog.String("kind", pkt.Kind.String()),
			slog.String("name", pkt.Name), slog.String("at", cur.Name))
		return NoRoute
	}
	e.push(packet.KindData, pkt.Name, cur, e.topo.Node(hop), pkt.Origin, pkt.Hops+1, 0)
	return Forwarded
}

// SynthesizeData creates a Data packet for name travelling from the
// responder toward the consumer. Every router on the shortest path from
// the responder to the consumer caches name, regardless of the path the
// packet will actually follow. It returns false, doing nothing, when the
// responder has no neighbors.
func (e *Engine) SynthesizeData(responder, consumer packet.NodeID, name string) bool {
	hop, found := e.topo.NextHop(responder, consumer)
	if !found {
		return false
	}
	from := e.topo.Node(responder)
	e.push(packet.KindData, name, from, e.topo.Node(hop), consumer, 0, 0)

	for _, id := range e.topo.ShortestPath(responder, consumer) {
		e.topo.Node(id).Cache(name)
	}
	return true
}

// push enqueues a new packet travelling from one node to another.
func (e *Engine) push(kind packet.Kind, name string, from, to *node.Node, origin packet.NodeID, hops, retries int) {
	e.packets = append(e.packets, &packet.Packet{
		Kind:      kind,
		Name:      name,
		Pos:       from.Pos,
		Target:    to.ID,
		TargetPos: to.Pos,
		Speed:     geolink.PacketSpeed(e.sess.Congestion, e.SpeedMultiplier),
		Origin:    origin,
		Hops:      hops,
		Retries:   retries,
	})
}

// log emits a debug structured log, if a logger is configured.
func (e *Engine) log(msg string, attrs ...slog.Attr) {
	if e.Logger != nil {
		e.Logger.LogAttrs(context.Background(), slog.LevelDebug, msg, attrs...)
	}
}
