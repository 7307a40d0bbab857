// SPDX-License-Identifier: GPL-3.0-or-later

// Package metrics exports the simulation activity as Prometheus metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rbmk-project/ndnsim/netsim/router"
)

var (
	// InterestsSent tracks the Interests sent by each consumer
	InterestsSent = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndnsim_interests_sent_total",
			Help: "Total number of Interests sent by consumers",
		},
		[]string{"node"},
	)

	// DataDelivered tracks the Data delivered to each consumer
	DataDelivered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndnsim_data_delivered_total",
			Help: "Total number of Data packets delivered to consumers",
		},
		[]string{"node"},
	)

	// CacheHits tracks the Interests answered from each router cache
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndnsim_cache_hits_total",
			Help: "Total number of Interests answered from a router content store",
		},
		[]string{"node"},
	)

	// PacketsLost tracks the packets dropped by loss injection
	PacketsLost = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ndnsim_packets_lost_total",
			Help: "Total number of packets dropped on arrival",
		},
		[]string{"kind"},
	)

	// Congestion tracks the ratio of in-flight packets to the cap
	Congestion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ndnsim_congestion_ratio",
			Help: "Ratio of in-flight packets to the topology packets cap",
		},
	)

	// InFlight tracks the packets in flight
	InFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "ndnsim_packets_in_flight",
			Help: "Number of packets currently travelling on links",
		},
	)

	// Ticks tracks the simulation steps
	Ticks = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ndnsim_ticks_total",
			Help: "Total number of simulation steps while playing",
		},
	)
)

// Observer is a [router.Observer] updating the metrics.
type Observer struct{}

var _ router.Observer = Observer{}

// OnEvent implements [router.Observer].
func (Observer) OnEvent(ev router.Event) {
	switch ev.Kind {
	case router.EventInterestSent:
		InterestsSent.WithLabelValues(ev.NodeName).Inc()
	case router.EventDataDelivered:
		DataDelivered.WithLabelValues(ev.NodeName).Inc()
	case router.EventCacheHit:
		CacheHits.WithLabelValues(ev.NodeName).Inc()
	case router.EventPacketLost:
		PacketsLost.WithLabelValues(ev.PacketKind.String()).Inc()
	}
}

// RecordTick records the state after a simulation step.
func RecordTick(congestion float64, inflight int) {
	Ticks.Inc()
	Congestion.Set(congestion)
	InFlight.Set(float64(inflight))
}

// Reset resets all the metrics except [Ticks], which is a plain counter.
func Reset() {
	InterestsSent.Reset()
	DataDelivered.Reset()
	CacheHits.Reset()
	PacketsLost.Reset()
	Congestion.Set(0)
	InFlight.Set(0)
}
