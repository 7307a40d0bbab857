// SPDX-License-Identifier: GPL-3.0-or-later

package netsim

import (
	"github.com/rbmk-project/ndnsim/netsim/geolink"
	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/rbmk-project/ndnsim/netsim/session"
	"github.com/rbmk-project/ndnsim/netsim/topology"
)

// NodeView is the read-only view of a node.
type NodeView struct {
	ID           packet.NodeID   `json:"id"`
	Name         string          `json:"name"`
	Role         node.Role       `json:"role"`
	Pos          packet.Point    `json:"pos"`
	Neighbors    []packet.NodeID `json:"neighbors"`
	ContentStore []string        `json:"contentStore"`
	PITSize      int             `json:"pitSize"`
	CacheHits    int             `json:"cacheHits"`
	Pulse        float64         `json:"pulse"`
}

// newNodeView creates a [NodeView] copying the node state.
func newNodeView(n *node.Node) NodeView {
	return NodeView{
		ID:           n.ID,
		Name:         n.Name,
		Role:         n.Role,
		Pos:          n.Pos,
		Neighbors:    append([]packet.NodeID{}, n.Neighbors...),
		ContentStore: n.CS.Names(),
		PITSize:      n.PIT.Len(),
		CacheHits:    n.CacheHits,
		Pulse:        n.Pulse,
	}
}

// PacketView is the read-only view of a packet.
type PacketView struct {
	Kind   packet.Kind   `json:"kind"`
	Name   string        `json:"name"`
	Pos    packet.Point  `json:"pos"`
	Target packet.NodeID `json:"target"`
	Origin packet.NodeID `json:"origin"`
}

// Snapshot is a consistent view of the simulation after a tick.
type Snapshot struct {
	Topology      topology.Name      `json:"topology"`
	Speed         geolink.Speed      `json:"speed"`
	PacketLoss    bool               `json:"packetLoss"`
	State         session.State      `json:"state"`
	Level         int                `json:"level"`
	Elapsed       float64            `json:"elapsed"`
	LevelDuration float64            `json:"levelDuration"`
	Congestion    float64            `json:"congestion"`
	MaxPackets    int                `json:"maxPackets"`
	Counters      session.Counters   `json:"counters"`
	Objective     topology.Objective `json:"objective"`
	Progress      session.Progress   `json:"progress"`
	Nodes         []NodeView         `json:"nodes"`
	Packets       []PacketView       `json:"packets"`
}

// Snapshot returns a deep copy of the state the presentation needs.
func (s *Simulator) Snapshot() Snapshot {
	topo := s.engine.Topology()
	snap := Snapshot{
		Topology:      topo.Name,
		Speed:         s.cfg.Speed,
		PacketLoss:    s.cfg.PacketLoss,
		State:         s.sess.State,
		Level:         s.sess.Level,
		Elapsed:       s.sess.Elapsed,
		LevelDuration: s.cfg.LevelDuration,
		Congestion:    s.sess.Congestion,
		MaxPackets:    topo.MaxPackets,
		Counters:      s.sess.Counters,
		Objective:     s.sess.Objective,
		Progress:      s.sess.Counters.Progress(s.sess.Objective),
		Nodes:         make([]NodeView, 0, len(topo.Nodes)),
		Packets:       []PacketView{},
	}
	for _, n := range topo.Nodes {
		snap.Nodes = append(snap.Nodes, newNodeView(n))
	}
	for _, pkt := range s.engine.Packets() {
		snap.Packets = append(snap.Packets, PacketView{
			Kind:   pkt.Kind,
			Name:   pkt.Name,
			Pos:    pkt.Pos,
			Target: pkt.Target,
			Origin: pkt.Origin,
		})
	}
	return snap
}
