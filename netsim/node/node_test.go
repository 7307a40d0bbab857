// SPDX-License-Identifier: GPL-3.0-or-later

package node_test

import (
	"testing"

	"github.com/rbmk-project/ndnsim/netsim/node"
	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNodeCache(t *testing.T) {
	tests := []struct {
		role node.Role
		want bool
	}{
		{role: node.RoleConsumer, want: false},
		{role: node.RoleRouter, want: true},
		{role: node.RoleProducer, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.role.String(), func(t *testing.T) {
			n := node.New(0, "N", tt.role, packet.Point{}, node.DefaultCSSize)
			assert.Equal(t, tt.want, n.Cache("/sensor/temp"))
			assert.Equal(t, tt.want, n.CS.Contains("/sensor/temp"))
		})
	}
}

func TestNodeContains(t *testing.T) {
	n := node.New(0, "C1", node.RoleConsumer, packet.Point{X: 100, Y: 100}, 3)
	assert.True(t, n.Contains(packet.Point{X: 100, Y: 100}))
	assert.True(t, n.Contains(packet.Point{X: 120, Y: 110}))
	assert.False(t, n.Contains(packet.Point{X: 130, Y: 100}))
}

func TestPIT(t *testing.T) {
	pit := node.PIT{}
	pit.Set("/a", 1)
	pit.Set("/a", 2)

	origin, found := pit.Get("/a")
	assert.True(t, found)
	assert.Equal(t, packet.NodeID(2), origin)
	assert.Equal(t, 1, pit.Len())

	pit.Delete("/a")
	_, found = pit.Get("/a")
	assert.False(t, found)
	assert.Equal(t, 0, pit.Len())
}

func TestRoleString(t *testing.T) {
	assert.Equal(t, "consumer", node.RoleConsumer.String())
	assert.Equal(t, "router", node.RoleRouter.String())
	assert.Equal(t, "producer", node.RoleProducer.String())
	assert.Equal(t, "unknown", node.Role(42).String())
}

func TestRoleText(t *testing.T) {
	for _, role := range []node.Role{node.RoleConsumer, node.RoleRouter, node.RoleProducer} {
		data, err := role.MarshalText()
		require.NoError(t, err)
		var got node.Role
		require.NoError(t, got.UnmarshalText(data))
		assert.Equal(t, role, got)
	}
	var r node.Role
	assert.Error(t, r.UnmarshalText([]byte("switch")))
}
