// SPDX-License-Identifier: GPL-3.0-or-later

package topology

import (
	"slices"

	"github.com/rbmk-project/ndnsim/netsim/packet"
)

// ShortestPath returns the nodes from src to dst, both included, using
// a breadth-first search over the adjacency. Every link has the same
// weight and the first discovered path wins. The result is empty when
// dst is not reachable from src.
func (t *Topology) ShortestPath(src, dst packet.NodeID) []packet.NodeID {
	if src == dst {
		return []packet.NodeID{src}
	}

	parent := make(map[packet.NodeID]packet.NodeID, len(t.Nodes))
	visited := map[packet.NodeID]bool{src: true}
	queue := []packet.NodeID{src}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		for _, next := range t.Node(cur).Neighbors {
			if visited[next] {
				continue
			}
			visited[next] = true
			parent[next] = cur
			if next == dst {
				return t.unwind(parent, src, dst)
			}
			queue = append(queue, next)
		}
	}
	return []packet.NodeID{}
}

// unwind rebuilds the path from src to dst walking the parent links.
func (t *Topology) unwind(parent map[packet.NodeID]packet.NodeID, src, dst packet.NodeID) []packet.NodeID {
	path := []packet.NodeID{dst}
	for cur := dst; cur != src; {
		cur = parent[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

// NextHop returns the neighbor of src to use to get closer to dst.
//
// When dst is a neighbor of src, the result is dst. Otherwise, it is the
// neighbor geometrically closest to dst, with ties going to the neighbor
// listed first. This is a greedy heuristic and does not guarantee the
// shortest path. The boolean is false when src has no neighbors.
func (t *Topology) NextHop(src, dst packet.NodeID) (packet.NodeID, bool) {
	from := t.Node(src)
	if from.HasNeighbor(dst) {
		return dst, true
	}
	if len(from.Neighbors) <= 0 {
		return 0, false
	}

	target := t.Node(dst).Pos
	best := from.Neighbors[0]
	bestDist := t.Node(best).Pos.Distance(target)
	for _, id := range from.Neighbors[1:] {
		if dist := t.Node(id).Pos.Distance(target); dist < bestDist {
			best, bestDist = id, dist
		}
	}
	return best, true
}
