// SPDX-License-Identifier: GPL-3.0-or-later

package netsim_test

import (
	"fmt"

	"github.com/rbmk-project/ndnsim/netsim"
	"github.com/rbmk-project/ndnsim/netsim/censor"
	"github.com/rbmk-project/ndnsim/netsim/router"
	"github.com/rbmk-project/ndnsim/netsim/topology"
)

// This example shows how a router caches Data on the way back to
// the consumer, such that the second request is a cache hit that
// never reaches a producer.
func Example_cacheHit() {
	// Print every forwarding event as it happens
	observer := router.ObserverFunc(func(ev router.Event) {
		fmt.Printf("%s %s at %s\n", ev.Kind, ev.Name, ev.NodeName)
	})

	// Create the simulator and start playing
	sim := netsim.MustNew(&netsim.Config{
		Topology: topology.Simple,
		Observer: observer,
	})
	sim.StartGame()

	c1, _ := sim.Topology().Lookup("C1")
	r1, _ := sim.Topology().Lookup("R1")

	// Request the same content twice, waiting for each delivery
	for round := 1; round <= 2; round++ {
		sim.SendInterest(c1.ID, "/sensor/temp")
		for sim.Counters().Delivered < round {
			sim.Step()
		}
		fmt.Printf("R1 content store: %v\n", r1.CS.Names())
	}

	counters := sim.Counters()
	fmt.Printf("sent=%d delivered=%d cacheHits=%d score=%d\n",
		counters.Sent, counters.Delivered, counters.CacheHits, counters.Score)

	// Output:
	// interestSent /sensor/temp at C1
	// dataDelivered /sensor/temp at C1
	// R1 content store: [/sensor/temp]
	// interestSent /sensor/temp at C1
	// cacheHit /sensor/temp at R1
	// dataDelivered /sensor/temp at C1
	// R1 content store: [/sensor/temp]
	// sent=2 delivered=2 cacheHits=1 score=40
}

// This example shows how to use a [*censor.Dropper] to drop the
// Data on its last hop, which leaves a stale PIT entry behind.
func Example_dropLastHop() {
	sim := netsim.MustNew(&netsim.Config{Topology: topology.Simple})
	sim.StartGame()

	// Starting rebuilds the topology, so lookup nodes afterwards
	c1, _ := sim.Topology().Lookup("C1")
	r1, _ := sim.Topology().Lookup("R1")

	// Drop the first Data packet arriving at the consumer
	sim.AddFilter(censor.NewDropper(1, censor.DataTo(c1.ID)))

	sim.SendInterest(c1.ID, "/sensor/temp")
	for sim.Counters().Lost < 1 {
		sim.Step()
	}

	counters := sim.Counters()
	origin, found := r1.PIT.Get("/sensor/temp")
	fmt.Printf("delivered=%d lost=%d\n", counters.Delivered, counters.Lost)
	fmt.Printf("R1 PIT entry: %v %v\n", found, origin == c1.ID)
	fmt.Printf("R1 content store: %v\n", r1.CS.Names())

	// Output:
	// delivered=0 lost=1
	// R1 PIT entry: true true
	// R1 content store: [/sensor/temp]
}
