// SPDX-License-Identifier: GPL-3.0-or-later

/*
Package censor implements packet loss injection for the simulation.

All filters implement the [packet.Filter] interface. The forwarding
engine runs its filters when a packet reaches its target node and
before any routing decision, so a dropped packet never touches the
PIT or the content store of the node it was travelling to.

# Random Loss

The [*RandomLoss] type drops each arriving packet independently with a
fixed probability, regardless of kind or hop. It models lossy wireless
IoT links. The random source is injected so runs are reproducible.

# Targeted Drops

The [*Dropper] type drops the packets matching a predicate, optionally
only a limited number of times. It allows scripting deterministic
scenarios, e.g. losing the Data packet on the last hop toward a consumer.
*/
package censor
