// SPDX-License-Identifier: GPL-3.0-or-later

// Package topology builds the fixed NDN topologies and
// implements path finding over their adjacency.
//
// Nodes live in a dense slice indexed by [packet.NodeID] and
// neighbors are expressed as IDs into that slice, so the graph
// contains no pointer cycles.
package topology

import (
	"errors"
	"fmt"

	"github.com/rbmk-project/common/runtimex"
	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/packet"
)

// Name names one of the fixed topologies.
type Name string

const (
	// Simple is one consumer, one router and two producers.
	Simple Name = "simple"

	// Star is two consumers and three producers around one router.
	Star Name = "star"

	// Mesh is two consumers, three interconnected routers and three producers.
	Mesh Name = "mesh"

	// Tree is two consumers, five routers arranged as a tree and three producers.
	Tree Name = "tree"
)

// Names lists all the available topologies.
var Names = []Name{Simple, Star, Mesh, Tree}

// ErrUnknown is returned when the topology name is not known.
var ErrUnknown = errors.New("unknown topology")

// Parse parses a topology name.
func Parse(s string) (Name, error) {
	for _, name := range Names {
		if string(name) == s {
			return name, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknown, s)
}

// Objective contains the level completion thresholds.
type Objective struct {
	// Delivered is the minimum number of delivered Data packets.
	Delivered int `json:"delivered"`

	// CacheHitPercent is the minimum cache hits per sent Interest, in percent.
	CacheHitPercent float64 `json:"cacheHitPercent"`
}

// Topology is a built topology.
type Topology struct {
	// Name is the topology name.
	Name Name

	// Nodes contains the nodes indexed by their ID.
	Nodes []*node.Node

	// MaxPackets is the in-flight packets cap.
	MaxPackets int

	// Objective contains the level objective.
	Objective Objective
}

// Node returns the node with the given ID.
//
// This method panics if the ID is out of range.
func (t *Topology) Node(id packet.NodeID) *node.Node {
	runtimex.Assert(int(id) >= 0 && int(id) < len(t.Nodes), "node ID out of range")
	return t.Nodes[id]
}

// Lookup returns the node with the given name.
func (t *Topology) Lookup(name string) (*node.Node, bool) {
	for _, n := range t.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return nil, false
}

// WithRole returns the nodes having the given role, in ID order.
func (t *Topology) WithRole(role node.Role) []*node.Node {
	var out []*node.Node
	for _, n := range t.Nodes {
		if n.Role == role {
			out = append(out, n)
		}
	}
	return out
}

// NodeAt returns the last node whose disc contains pt.
func (t *Topology) NodeAt(pt packet.Point) (*node.Node, bool) {
	var found *node.Node
	for _, n := range t.Nodes {
		if n.Contains(pt) {
			found = n
		}
	}
	return found, found != nil
}
