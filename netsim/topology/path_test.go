// SPDX-License-Identifier: GPL-3.0-or-later

package topology_test

import (
	"testing"

	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/rbmk-project/ndnsim/netsim/topology"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ids converts node names into IDs.
func ids(t *testing.T, topo *topology.Topology, names ...string) []packet.NodeID {
	out := []packet.NodeID{}
	for _, name := range names {
		n, found := topo.Lookup(name)
		require.True(t, found, name)
		out = append(out, n.ID)
	}
	return out
}

// newIsland returns a topology with two connected nodes and an isolated one.
func newIsland() *topology.Topology {
	a := node.New(0, "A", node.RoleConsumer, packet.Point{X: 0, Y: 0}, 3)
	b := node.New(1, "B", node.RoleRouter, packet.Point{X: 100, Y: 0}, 3)
	c := node.New(2, "C", node.RoleProducer, packet.Point{X: 200, Y: 0}, 3)
	a.Neighbors = []packet.NodeID{1}
	b.Neighbors = []packet.NodeID{0}
	return &topology.Topology{Nodes: []*node.Node{a, b, c}, MaxPackets: 4}
}

func TestShortestPath(t *testing.T) {
	t.Run("same node", func(t *testing.T) {
		topo := topology.MustBuild(topology.Simple, 3)
		c1 := ids(t, topo, "C1")[0]
		assert.Equal(t, []packet.NodeID{c1}, topo.ShortestPath(c1, c1))
	})

	t.Run("unreachable node", func(t *testing.T) {
		topo := newIsland()
		assert.Empty(t, topo.ShortestPath(0, 2))
		assert.NotNil(t, topo.ShortestPath(0, 2))
	})

	t.Run("simple", func(t *testing.T) {
		topo := topology.MustBuild(topology.Simple, 3)
		got := topo.ShortestPath(ids(t, topo, "P1")[0], ids(t, topo, "C1")[0])
		assert.Equal(t, ids(t, topo, "P1", "R1", "C1"), got)
	})

	t.Run("tree", func(t *testing.T) {
		topo := topology.MustBuild(topology.Tree, 3)
		got := topo.ShortestPath(ids(t, topo, "P3")[0], ids(t, topo, "C1")[0])
		assert.Equal(t, ids(t, topo, "P3", "R5", "R3", "R1", "C1"), got)
	})

	t.Run("mesh prefers the direct router link", func(t *testing.T) {
		topo := topology.MustBuild(topology.Mesh, 3)
		got := topo.ShortestPath(ids(t, topo, "C2")[0], ids(t, topo, "C1")[0])
		assert.Equal(t, ids(t, topo, "C2", "R2", "R1", "C1"), got)
	})

	t.Run("no repeated nodes", func(t *testing.T) {
		for _, name := range topology.Names {
			topo := topology.MustBuild(name, 3)
			for _, src := range topo.Nodes {
				for _, dst := range topo.Nodes {
					path := topo.ShortestPath(src.ID, dst.ID)
					require.NotEmpty(t, path)
					assert.Equal(t, src.ID, path[0])
					assert.Equal(t, dst.ID, path[len(path)-1])
					seen := map[packet.NodeID]bool{}
					for idx, id := range path {
						assert.False(t, seen[id])
						seen[id] = true
						if idx > 0 {
							assert.True(t, topo.Node(path[idx-1]).HasNeighbor(id))
						}
					}
				}
			}
		}
	})
}

func TestNextHop(t *testing.T) {
	t.Run("direct neighbor wins regardless of distance", func(t *testing.T) {
		topo := topology.MustBuild(topology.Star, 3)
		r1 := ids(t, topo, "R1")[0]
		for _, name := range []string{"C1", "C2", "P1", "P2", "P3"} {
			dst := ids(t, topo, name)[0]
			hop, found := topo.NextHop(r1, dst)
			require.True(t, found)
			assert.Equal(t, dst, hop)
		}
	})

	t.Run("greedy geometric choice", func(t *testing.T) {
		topo := topology.MustBuild(topology.Tree, 3)
		hop, found := topo.NextHop(ids(t, topo, "R3")[0], ids(t, topo, "C1")[0])
		require.True(t, found)
		assert.Equal(t, ids(t, topo, "R1")[0], hop)
	})

	t.Run("single neighbor", func(t *testing.T) {
		topo := topology.MustBuild(topology.Simple, 3)
		hop, found := topo.NextHop(ids(t, topo, "P2")[0], ids(t, topo, "C1")[0])
		require.True(t, found)
		assert.Equal(t, ids(t, topo, "R1")[0], hop)
	})

	t.Run("dead end", func(t *testing.T) {
		topo := newIsland()
		_, found := topo.NextHop(2, 0)
		assert.False(t, found)
	})
}
