// Package telemetry records the structured per-tick events spec.md §6
// defines, decoupled from the logrus-based operational logging
// (SPEC_FULL.md §10.1). Grounded on the teacher's sim/trace package: an
// in-process accumulator that is cheap to write to on the hot path and
// only touches logrus when flushed.
package telemetry

import (
	"sync"

	"github.com/sirupsen/logrus"
)

// TrafficLine is one "[Traffic Monitor]" record: the per-batch downlink,
// uplink, and ISL counters (spec.md §6).
type TrafficLine struct {
	SatelliteID int
	Downlink    int
	Uplink      int
	ISLNext     int
	ISLPrev     int
	ISLLeft     int
	ISLRight    int
}

// MissedButAvailable is one "[Missed but available]" record: remote-hit
// requests resolved this batch, with their distances and hop counts.
type MissedButAvailable struct {
	SatelliteID   int
	ContentIDs    []string
	ISLHops       []int
	Distances     []float64
	ShortestHops  []int
}

// CacheContent is one "[Cache content]" record: a satellite's cache
// snapshot, oldest first (spec.md §4.2, §6).
type CacheContent struct {
	SatelliteID int
	OrderedIDs  []string
}

// HitRate is one "[Hit rate]" record for a single requester dispatch.
type HitRate struct {
	SatelliteID int
	Rate        float64
}

// RequestResult is one "[Request Result]" record: the raw per-request
// hit/miss booleans a requester's chunk produced.
type RequestResult struct {
	SatelliteID int
	Hits        []bool
}

// OutOfServiceEvent records a requester finding no satellite in view.
type OutOfServiceEvent struct {
	RequesterID string
}

// Sink accumulates telemetry events in memory; nothing here blocks on
// I/O, matching spec.md §5's "no I/O on the hot path" requirement. A
// single Sink is shared across every provider and requester, and
// phase P1 runs requesters concurrently (enginerun.TickDriver.Run), so
// every method takes mu: the per-provider lock in cdnprovider.Provider
// guards that provider's cache and directory traffic, not the shared
// sink's slices.
type Sink struct {
	mu         sync.Mutex
	traffic    []TrafficLine
	missed     []MissedButAvailable
	cacheDumps []CacheContent
	hitRates   []HitRate
	results    []RequestResult
	outOfSvc   []OutOfServiceEvent
}

// NewSink returns an empty telemetry sink.
func NewSink() *Sink {
	return &Sink{}
}

func (s *Sink) RecordTraffic(l TrafficLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.traffic = append(s.traffic, l)
}

func (s *Sink) RecordMissedButAvailable(m MissedButAvailable) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.missed = append(s.missed, m)
}

func (s *Sink) RecordCacheContent(c CacheContent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cacheDumps = append(s.cacheDumps, c)
}

func (s *Sink) RecordHitRate(h HitRate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.hitRates = append(s.hitRates, h)
}

func (s *Sink) RecordRequestResult(r RequestResult) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, r)
}

func (s *Sink) RecordOutOfService(o OutOfServiceEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.outOfSvc = append(s.outOfSvc, o)
}

// Traffic returns all recorded traffic-monitor lines, in recording order.
func (s *Sink) Traffic() []TrafficLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]TrafficLine(nil), s.traffic...)
}

// MissedButAvailableRecords returns all recorded remote-hit records.
func (s *Sink) MissedButAvailableRecords() []MissedButAvailable {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]MissedButAvailable(nil), s.missed...)
}

// HitRates returns all recorded hit-rate records.
func (s *Sink) HitRates() []HitRate {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]HitRate(nil), s.hitRates...)
}

// Flush renders every accumulated event through logrus, each record kind
// at its own fixed level (Info, Debug for cache contents and empty
// remote-hit records, Warn for out-of-service events), in the line
// formats spec.md §6 specifies, and clears the sink. Intended to be called once per tick or at run end, never on the
// hot path.
func (s *Sink) Flush() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, l := range s.traffic {
		logrus.Infof("[Traffic Monitor]:[%d, %d, %d, %d, %d, %d]", l.Downlink, l.Uplink, l.ISLNext, l.ISLPrev, l.ISLLeft, l.ISLRight)
	}
	for _, m := range s.missed {
		if len(m.ContentIDs) == 0 {
			logrus.Debug("No remote hit")
			continue
		}
		logrus.Infof("[Missed but available]%d,%v,%v,%v,%v", len(m.ContentIDs), m.ContentIDs, m.ISLHops, m.Distances, m.ShortestHops)
	}
	for _, c := range s.cacheDumps {
		logrus.Debugf("[Cache content]%v", c.OrderedIDs)
	}
	for _, h := range s.hitRates {
		logrus.Infof("[Hit rate]:%d,%f", h.SatelliteID, h.Rate)
	}
	for _, r := range s.results {
		logrus.Infof("[Request Result]:%d, %v", r.SatelliteID, r.Hits)
	}
	for _, o := range s.outOfSvc {
		logrus.Warnf("[Warning]: Out of service (%s)", o.RequesterID)
	}
	s.traffic = nil
	s.missed = nil
	s.cacheDumps = nil
	s.hitRates = nil
	s.results = nil
	s.outOfSvc = nil
}
