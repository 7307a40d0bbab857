// SPDX-License-Identifier: GPL-3.0-or-later

/*
Package netsim simulates Named-Data-Networking (NDN) forwarding over a
small set of fixed topologies.

# Usage and Features

The [New] function creates a [*Simulator] from a [*Config]. The simulator
is a deterministic state machine advanced by calling [*Simulator.Step]
once per tick: the caller decides the cadence, which is normally 60
ticks per second of wall time (see the runner subpackage), but tests
and headless drivers may call Step in a tight loop.

Each tick advances the simulated level time, recomputes congestion,
moves every in-flight packet toward its target node, routes the packets
that arrived, and may inject ambient Interest traffic. Routing is
implemented by the router subpackage: consumers send Interests toward
routers, routers answer from their content store or forward toward
producers, producers answer with Data, and Data walks back to the
consumer that asked for it, populating router caches on the way.

Consumers, routers and producers live in a [topology.Topology] built
by the topology subpackage. The session subpackage holds the counters
and the game state, which the [*Simulator] evaluates when the level
time is over.

The presentation layer consumes [*Simulator.Snapshot] after each tick
and drives the simulation only through [*Simulator.SpawnAt] and
[*Simulator.NodeAt], plus the game controls.

# Randomness

All random choices (next hop tie-breaking, packet loss, ambient traffic)
draw from a single source seeded with [Config.Seed], so runs with the
same seed and inputs are identical.

# Known Limitations

PIT entries never expire. Routers that forward an Interest keep the
PIT entry after the Data has passed, and an Interest whose Data is lost
leaves its entries in place forever.
*/
package netsim
