// Package enginerun implements the fixed-delta tick loop (spec.md §4.9,
// §5): a two-phase barrier where phase P1 (requesters) runs in parallel
// across worker goroutines and phase P2 (post-epoch hooks) begins only
// once every P1 task has returned.
//
// The parallel-fan-out-then-barrier shape is grounded on the teacher's
// own per-tick cluster step, generalized from a single-goroutine loop to
// an errgroup.Group fan-out since spec.md §5 explicitly allows
// requesters to run concurrently within a tick.
package enginerun

import (
	"context"
	"fmt"

	"github.com/orbitcache/orbitcache-sim/cdnprovider"
	"github.com/orbitcache/orbitcache-sim/simtime"
	"github.com/orbitcache/orbitcache-sim/telemetry"
	"golang.org/x/sync/errgroup"
)

// Sender is the per-tick operation a requester exposes; satisfied by
// *requester.Requester. Kept as a narrow interface so tests can exercise
// TickDriver's phase barrier and panic recovery without a real
// requester.
type Sender interface {
	SendRequests(t simtime.SimTime)
}

// FatalError wraps a recovered SanityError at the tick boundary
// (SPEC_FULL.md §10.2): a sanity failure never crosses into the CLI
// layer as a bare panic.
type FatalError struct {
	Tick int
	Err  error
}

func (e *FatalError) Error() string { return fmt.Sprintf("tick %d: %v", e.Tick, e.Err) }
func (e *FatalError) Unwrap() error { return e.Err }

// TickDriver owns the fixed-delta loop over a fixed set of requesters and
// satellite providers, advancing simulated time from Start past End in
// increments of Delta seconds (spec.md §4.9).
type TickDriver struct {
	Start, End simtime.SimTime
	Delta      float64

	requesters []Sender
	providers  map[int]*cdnprovider.Provider
	sink       *telemetry.Sink
}

// New creates a TickDriver over the given requesters and satellite
// providers (keyed by satellite ID). Run processes ticks at start+delta,
// start+2*delta, and so on, up to and including the first step past end.
func New(start, end simtime.SimTime, delta float64, requesters []Sender, providers map[int]*cdnprovider.Provider, sink *telemetry.Sink) *TickDriver {
	return &TickDriver{Start: start, End: end, Delta: delta, requesters: requesters, providers: providers, sink: sink}
}

// Provider implements requester.ProviderLookup.
func (d *TickDriver) Provider(satelliteID int) *cdnprovider.Provider {
	return d.providers[satelliteID]
}

// Run executes the tick loop until t exceeds End, per spec.md §4.9:
// `while t <= tEnd: t += delta; P1 requesters (parallel); P2 post-epoch
// hooks (sequential, only after all of P1 completes)`. A SanityError
// panicking out of any CDNProvider call is recovered and returned as a
// *FatalError, aborting the run.
func (d *TickDriver) Run(ctx context.Context) (err error) {
	tick := 0
	t := d.Start
	for !t.After(d.End) {
		t = t.Add(d.Delta)
		tick++
		if err := d.runTick(ctx, tick, t); err != nil {
			return err
		}
	}
	return nil
}

func (d *TickDriver) runTick(ctx context.Context, tick int, t simtime.SimTime) error {
	group, _ := errgroup.WithContext(ctx)
	for _, r := range d.requesters {
		r := r
		group.Go(func() (err error) {
			defer recoverSanity(&err)
			r.SendRequests(t)
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return &FatalError{Tick: tick, Err: err}
	}

	for _, p := range d.providers {
		p.PostEpoch()
	}
	d.sink.Flush()
	return nil
}

// recoverSanity catches a panicking cdnprovider.SanityError and turns it
// into a returned error, so it can cross the errgroup goroutine boundary
// cleanly instead of crashing the process (recover only works within the
// panicking goroutine itself). Any other panic is re-raised.
func recoverSanity(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if se, ok := r.(cdnprovider.SanityError); ok {
		*err = se
		return
	}
	panic(r)
}
