// Package simrng provides deterministic, per-subsystem random number
// generation so that a simulation run with a fixed seed is reproducible
// regardless of how many subsystems draw from it or in what order they
// are first used.
//
// Grounded on the teacher's sim/cluster/rng.go PartitionedRNG: each
// subsystem gets its own *rand.Rand, lazily created and deterministically
// derived from the master seed, so concurrent requesters (spec.md §5)
// drawing from independent subsystem streams never race on a shared
// generator and are order-independent to boot.
package simrng

import (
	"hash/fnv"
	"math/rand"
)

const (
	// SubsystemAccess is the RNG subsystem for AccessGenerator sampling.
	SubsystemAccess = "access"
)

// Partitioned lazily derives one *rand.Rand per named subsystem from a
// single master seed.
type Partitioned struct {
	masterSeed int64
	streams    map[string]*rand.Rand
}

// NewPartitioned creates a Partitioned RNG rooted at masterSeed.
func NewPartitioned(masterSeed int64) *Partitioned {
	return &Partitioned{masterSeed: masterSeed, streams: make(map[string]*rand.Rand)}
}

// ForSubsystem returns the *rand.Rand for name, creating it on first use.
// Repeated calls with the same name return the same generator instance.
func (p *Partitioned) ForSubsystem(name string) *rand.Rand {
	if r, ok := p.streams[name]; ok {
		return r
	}
	r := rand.New(rand.NewSource(p.deriveSeed(name)))
	p.streams[name] = r
	return r
}

// ForRequester returns a subsystem stream scoped to one requester, so
// that two requesters with the same pattern never draw identical
// sequences.
func (p *Partitioned) ForRequester(requesterID string) *rand.Rand {
	return p.ForSubsystem(SubsystemAccess + ":" + requesterID)
}

// deriveSeed XORs the master seed with an FNV hash of the subsystem name,
// so subsystem seeds are order-independent (creating "router" before
// "access" yields the same per-subsystem seeds either way).
func (p *Partitioned) deriveSeed(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))
	return p.masterSeed ^ int64(h.Sum64())
}
