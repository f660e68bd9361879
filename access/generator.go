// Package access implements AccessGenerator (spec.md §4.6): categorical
// sampling of ContentIDs from a configured access pattern, with optional
// one-hitter noise.
//
// The inverse-CDF sampling technique is grounded on the teacher's
// sim/workload/distribution.go EmpiricalPDFSampler, adapted from sampling
// token-count values to sampling ContentID strings.
package access

import (
	"math/rand"
	"sort"
)

// Pattern maps ContentID to its draw probability; probabilities must sum
// to 1 within the 1e-6 tolerance spec.md §6 requires (enforced by
// config.LoadAccessPattern, not here).
type Pattern map[string]float64

// categorical is an inverse-CDF sampler over a fixed set of ContentIDs.
type categorical struct {
	ids []string
	cdf []float64
}

func newCategorical(p Pattern) *categorical {
	ids := make([]string, 0, len(p))
	for id := range p {
		ids = append(ids, id)
	}
	sort.Strings(ids) // deterministic iteration order for a given pattern

	cdf := make([]float64, len(ids))
	cumulative := 0.0
	for i, id := range ids {
		cumulative += p[id]
		cdf[i] = cumulative
	}
	if len(cdf) > 0 {
		cdf[len(cdf)-1] = 1.0 // guard against float drift
	}
	return &categorical{ids: ids, cdf: cdf}
}

func (c *categorical) sample(rng *rand.Rand) string {
	if len(c.ids) == 0 {
		return ""
	}
	u := rng.Float64()
	idx := sort.SearchFloat64s(c.cdf, u)
	if idx >= len(c.ids) {
		idx = len(c.ids) - 1
	}
	return c.ids[idx]
}

const oneHitterAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
const oneHitterLength = 10

// Generator samples batches of ContentIDs from a fixed Pattern, with
// independent probability ProbOneHitter of replacing any given draw with
// a freshly generated random alphanumeric string (spec.md §4.6).
type Generator struct {
	dist          *categorical
	probOneHitter float64
}

// NewGenerator builds a Generator over pattern. probOneHitter == 0
// disables noise, the default for the load-balanced requester path.
func NewGenerator(pattern Pattern, probOneHitter float64) *Generator {
	return &Generator{dist: newCategorical(pattern), probOneHitter: probOneHitter}
}

// Generate returns numToGen ContentIDs, each independently drawn from the
// configured pattern and then, with probability ProbOneHitter, replaced
// by a random 10-character alphanumeric string.
func (g *Generator) Generate(rng *rand.Rand, numToGen int) []string {
	out := make([]string, numToGen)
	for i := range out {
		id := g.dist.sample(rng)
		if g.probOneHitter > 0 && rng.Float64() < g.probOneHitter {
			id = randomAlphanumeric(rng, oneHitterLength)
		}
		out[i] = id
	}
	return out
}

func randomAlphanumeric(rng *rand.Rand, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = oneHitterAlphabet[rng.Intn(len(oneHitterAlphabet))]
	}
	return string(b)
}
