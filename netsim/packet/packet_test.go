// SPDX-License-Identifier: GPL-3.0-or-later

package packet_test

import (
	"encoding/json"
	"testing"

	"github.com/rbmk-project/ndnsim/netsim/packet"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistance(t *testing.T) {
	p := packet.Point{X: 0, Y: 0}
	q := packet.Point{X: 3, Y: 4}
	assert.Equal(t, 5.0, p.Distance(q))
	assert.Equal(t, 5.0, q.Distance(p))
	assert.Zero(t, p.Distance(p))
}

func TestKindJSON(t *testing.T) {
	data, err := json.Marshal([]packet.Kind{packet.KindInterest, packet.KindData})
	require.NoError(t, err)
	assert.Equal(t, `["interest","data"]`, string(data))

	var kinds []packet.Kind
	require.NoError(t, json.Unmarshal(data, &kinds))
	assert.Equal(t, []packet.Kind{packet.KindInterest, packet.KindData}, kinds)

	assert.Error(t, json.Unmarshal([]byte(`["nack"]`), &kinds))
	assert.Equal(t, "unknown", packet.Kind(7).String())
}

func TestPacketString(t *testing.T) {
	pkt := &packet.Packet{Kind: packet.KindData, Name: "/sensor/temp", Origin: 0, Target: 1, Hops: 2, Speed: 3}
	assert.Equal(t, "data /sensor/temp origin=0 target=1 hops=2 speed=3.00", pkt.String())
}

func TestFilterFunc(t *testing.T) {
	var f packet.Filter = packet.FilterFunc(func(pkt *packet.Packet) packet.Target {
		if pkt.Kind == packet.KindData {
			return packet.DROP
		}
		return packet.ACCEPT
	})
	assert.Equal(t, packet.DROP, f.Filter(&packet.Packet{Kind: packet.KindData}))
	assert.Equal(t, packet.ACCEPT, f.Filter(&packet.Packet{Kind: packet.KindInterest}))
}
