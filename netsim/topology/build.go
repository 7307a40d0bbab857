// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import (
	"fmt"

	"github.com/rbmk-project/common/runtimex"
	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/packet"
)

const (
	// Width is the width of the world.
	Width = 1200

	// Height is the height of the world.
	Height = 700
)

// nodeDesc describes a node of a fixed topology.
type nodeDesc struct {
	name      string
	role      node.Role
	x, y      float64
	neighbors []string
}

// layout describes a fixed topology.
type layout struct {
	nodes      []nodeDesc
	maxPackets int
	delivered  int
}

// layouts contains the fixed topologies. Neighbor order matters
// because it breaks ties in [*Topology.NextHop] and [*Topology.ShortestPath].
var layouts = map[Name]layout{
	Simple: {
		nodes: []nodeDesc{
			{"C1", node.RoleConsumer, 150, Height / 2, []string{"R1"}},
			{"R1", node.RoleRouter, 400, Height / 2, []string{"C1", "P1", "P2"}},
			{"P1", node.RoleProducer, 650, Height/2 - 100, []string{"R1"}},
			{"P2", node.RoleProducer, 650, Height/2 + 100, []string{"R1"}},
		},
		maxPackets: 8,
		delivered:  20,
	},

	Star: {
		nodes: []nodeDesc{
			{"C1", node.RoleConsumer, 200, 200, []string{"R1"}},
			{"C2", node.RoleConsumer, 200, 500, []string{"R1"}},
			{"R1", node.RoleRouter, 500, 350, []string{"C1", "C2", "P1", "P2", "P3"}},
			{"P1", node.RoleProducer, 800, 200, []string{"R1"}},
			{"P2", node.RoleProducer, 800, 350, []string{"R1"}},
			{"P3", node.RoleProducer, 800, 500, []string{"R1"}},
		},
		maxPackets: 12,
		delivered:  30,
	},

	Mesh: {
		nodes: []nodeDesc{
			{"C1", node.RoleConsumer, 100, 200, []string{"R1"}},
			{"C2", node.RoleConsumer, 100, 600, []string{"R2"}},
			{"R1", node.RoleRouter, 300, 250, []string{"C1", "R2", "R3"}},
			{"R2", node.RoleRouter, 300, 550, []string{"C2", "R1", "R3"}},
			{"R3", node.RoleRouter, 600, 400, []string{"R1", "R2", "P1", "P2", "P3"}},
			{"P1", node.RoleProducer, 900, 200, []string{"R3"}},
			{"P2", node.RoleProducer, 900, 400, []string{"R3"}},
			{"P3", node.RoleProducer, 900, 600, []string{"R3"}},
		},
		maxPackets: 15,
		delivered:  30,
	},

	Tree: {
		nodes: []nodeDesc{
			{"C1", node.RoleConsumer, 100, 250, []string{"R1"}},
			{"C2", node.RoleConsumer, 100, 550, []string{"R2"}},
			{"R1", node.RoleRouter, 300, 250, []string{"C1", "R3"}},
			{"R2", node.RoleRouter, 300, 550, []string{"C2", "R3"}},
			{"R3", node.RoleRouter, 600, 400, []string{"R1", "R2", "R4", "R5"}},
			{"R4", node.RoleRouter, 850, 300, []string{"R3", "P1"}},
			{"R5", node.RoleRouter, 850, 500, []string{"R3", "P2", "P3"}},
			{"P1", node.RoleProducer, 1050, 250, []string{"R4"}},
			{"P2", node.RoleProducer, 1050, 400, []string{"R5"}},
			{"P3", node.RoleProducer, 1050, 550, []string{"R5"}},
		},
		maxPackets: 18,
		delivered:  30,
	},
}

// defaultCacheHitPercent is the cache hit objective shared by all topologies.
const defaultCacheHitPercent = 50

// Build builds the topology with the given name, giving each
// node a content store holding at most csSize names.
//
// The result is deterministic: same name, same graph.
func Build(name Name, csSize int) (*Topology, error) {
	lay, found := layouts[name]
	if !found {
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}

	index := make(map[string]packet.NodeID, len(lay.nodes))
	for idx, desc := range lay.nodes {
		index[desc.name] = packet.NodeID(idx)
	}

	topo := &Topology{
		Name:       name,
		Nodes:      make([]*node.Node, 0, len(lay.nodes)),
		MaxPackets: lay.maxPackets,
		Objective: Objective{
			Delivered:       lay.delivered,
			CacheHitPercent: defaultCacheHitPercent,
		},
	}
	for idx, desc := range lay.nodes {
		n := node.New(packet.NodeID(idx), desc.name, desc.role, packet.Point{X: desc.x, Y: desc.y}, csSize)
		for _, neigh := range desc.neighbors {
			id, found := index[neigh]
			runtimex.Assert(found, "neighbor does not exist")
			n.Neighbors = append(n.Neighbors, id)
		}
		topo.Nodes = append(topo.Nodes, n)
	}

	runtimex.Assert(topo.symmetric(), "topology adjacency is not symmetric")
	return topo, nil
}

// MustBuild is like [Build] but panics on error.
func MustBuild(name Name, csSize int) *Topology {
	return runtimex.Try1(Build(name, csSize))
}

// symmetric returns whether every link is listed by both endpoints.
func (t *Topology) symmetric() bool {
	for _, n := range t.Nodes {
		for _, id := range n.Neighbors {
			if !t.Nodes[id].HasNeighbor(n.ID) {
				return false
			}
		}
	}
	return true
}
