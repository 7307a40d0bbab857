// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"io"

	"github.com/rbmk-project/ndnsim/netsim/router"
)

// newBell returns an observer ringing the terminal bell on cache
// hits and deliveries, standing in for the game sound effects.
func newBell(w io.Writer) router.Observer {
	return router.ObserverFunc(func(ev router.Event) {
		switch ev.Kind {
		case router.EventCacheHit, router.EventDataDelivered:
			_, _ = io.WriteString(w, "\a")
		}
	})
}
