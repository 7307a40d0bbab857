// SPDX-License-Identifier: GPL-3.0-or-later

package router

import (
	"fmt"
	"log/slog"

	"github.com/rbmk-project/ndnsim/netsim/packet"
)

// EventKind is the kind of a forwarding [Event].
type EventKind int

const (
	// EventInterestSent is emitted when a consumer sends an Interest.
	EventInterestSent EventKind = iota

	// EventDataDelivered is emitted when Data reaches its consumer.
	EventDataDelivered

	// EventCacheHit is emitted when a router answers from its cache.
	EventCacheHit

	// EventPacketLost is emitted when loss injection drops a packet.
	EventPacketLost
)

// String returns the string representation of the event kind.
func (k EventKind) String() string {
	switch k {
	case EventInterestSent:
		return "interestSent"
	case EventDataDelivered:
		return "dataDelivered"
	case EventCacheHit:
		return "cacheHit"
	case EventPacketLost:
		return "packetLost"
	default:
		return "unknown"
	}
}

// Event is a notable forwarding event.
type Event struct {
	// Kind is the event kind.
	Kind EventKind

	// Name is the content name.
	Name string

	// Node is the node where the event happened.
	Node packet.NodeID

	// NodeName is the name of Node.
	NodeName string

	// PacketKind is the kind of the packet involved.
	PacketKind packet.Kind
}

// Observer is notified of forwarding events (e.g., to play sounds
// or to update metrics). Observers must not mutate the simulation.
type Observer interface {
	OnEvent(ev Event)
}

// ObserverFunc adapts a function to the [Observer] interface.
type ObserverFunc func(ev Event)

// OnEvent implements [Observer].
func (fx ObserverFunc) OnEvent(ev Event) {
	fx(ev)
}

// Observers fans out events to several observers.
type Observers []Observer

// OnEvent implements [Observer].
func (obs Observers) OnEvent(ev Event) {
	for _, o := range obs {
		o.OnEvent(ev)
	}
}

// notify delivers ev to the observer, if any. A panicking observer
// is logged and otherwise ignored so that it cannot affect the
// simulation state.
func (e *Engine) notify(ev Event) {
	if e.Observer == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.log("observerPanic",
				slog.String("event", ev.Kind.String()),
				slog.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	e.Observer.OnEvent(ev)
}
