// SPDX-License-Identifier: GPL-3.0-or-later

// Package node models the nodes of a simulated NDN topology.
package node

import (
	"fmt"
	"slices"

	"github.com/rbmk-project/ndnsim/netsim/packet"
)

// Role is the role a [*Node] plays in the topology.
type Role uint8

const (
	// RoleConsumer issues Interests.
	RoleConsumer Role = iota

	// RoleRouter forwards Interests and caches Data.
	RoleRouter

	// RoleProducer answers Interests with Data.
	RoleProducer
)

// String returns the string representation of the role.
func (r Role) String() string {
	switch r {
	case RoleConsumer:
		return "consumer"
	case RoleRouter:
		return "router"
	case RoleProducer:
		return "producer"
	default:
		return "unknown"
	}
}

// MarshalText implements [encoding.TextMarshaler].
func (r Role) MarshalText() ([]byte, error) {
	return []byte(r.String()), nil
}

// UnmarshalText implements [encoding.TextUnmarshaler].
func (r *Role) UnmarshalText(data []byte) error {
	for _, role := range []Role{RoleConsumer, RoleRouter, RoleProducer} {
		if role.String() == string(data) {
			*r = role
			return nil
		}
	}
	return fmt.Errorf("node: unknown role %q", data)
}

const (
	// DefaultCSSize is the default content store capacity.
	DefaultCSSize = 3

	// Radius is the radius of a node disc in world coordinates.
	Radius = 30.0
)

// Node is a vertex of the topology.
//
// Construct using [New].
type Node struct {
	// ID is the index of the node inside its topology.
	ID packet.NodeID

	// Name is the unique label (e.g., "R1").
	Name string

	// Role is the node role.
	Role Role

	// Pos is the fixed position of the node.
	Pos packet.Point

	// Neighbors contains the IDs of the adjacent nodes, in order.
	Neighbors []packet.NodeID

	// CS is the content store.
	CS *ContentStore

	// PIT is the pending interest table.
	PIT PIT

	// CacheHits counts the Interests satisfied from CS.
	CacheHits int

	// Pulse is the animation phase consumed by the presentation.
	Pulse float64
}

// New creates a new [*Node] with a content store of the given capacity.
func New(id packet.NodeID, name string, role Role, pos packet.Point, csSize int) *Node {
	return &Node{
		ID:        id,
		Name:      name,
		Role:      role,
		Pos:       pos,
		Neighbors: []packet.NodeID{},
		CS:        NewContentStore(csSize),
		PIT:       PIT{},
	}
}

// HasNeighbor returns whether id is a direct neighbor of n.
func (n *Node) HasNeighbor(id packet.NodeID) bool {
	return slices.Contains(n.Neighbors, id)
}

// Cache inserts name into the content store. Only routers cache
// content, so this is a no-op returning false for other roles.
func (n *Node) Cache(name string) bool {
	if n.Role != RoleRouter {
		return false
	}
	n.CS.Insert(name)
	return true
}

// Contains returns whether the point lies inside the node disc.
func (n *Node) Contains(pt packet.Point) bool {
	return n.Pos.Distance(pt) < Radius
}

// PIT is the pending interest table: content name to requester.
//
// The zero value is not ready to use; use a composite literal.
type PIT map[string]packet.NodeID

// Set records that origin is waiting for name, overwriting any
// previous entry for the same name.
func (p PIT) Set(name string, origin packet.NodeID) {
	p[name] = origin
}

// Get returns the requester waiting for name.
func (p PIT) Get(name string) (packet.NodeID, bool) {
	origin, ok := p[name]
	return origin, ok
}

// Delete removes the entry for name.
func (p PIT) Delete(name string) {
	delete(p, name)
}

// Len returns the number of pending entries.
func (p PIT) Len() int {
	return len(p)
}
