package access

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerator_LengthAndMembership(t *testing.T) {
	pattern := Pattern{"a": 0.5, "b": 0.3, "c": 0.2}
	g := NewGenerator(pattern, 0)
	rng := rand.New(rand.NewSource(1))

	got := g.Generate(rng, 1000)
	assert.Len(t, got, 1000)
	for _, id := range got {
		assert.Contains(t, pattern, id)
	}
}

func TestGenerator_Deterministic(t *testing.T) {
	pattern := Pattern{"x": 1.0}
	g := NewGenerator(pattern, 0)
	r1 := g.Generate(rand.New(rand.NewSource(42)), 20)
	r2 := g.Generate(rand.New(rand.NewSource(42)), 20)
	assert.Equal(t, r1, r2)
}

func TestGenerator_SinglePatternAlwaysSameKey(t *testing.T) {
	pattern := Pattern{"only": 1.0}
	g := NewGenerator(pattern, 0)
	rng := rand.New(rand.NewSource(7))
	for _, id := range g.Generate(rng, 50) {
		assert.Equal(t, "only", id)
	}
}

func TestGenerator_ProbOneHitterZeroNeverInjectsNoise(t *testing.T) {
	pattern := Pattern{"a": 1.0}
	g := NewGenerator(pattern, 0)
	rng := rand.New(rand.NewSource(3))
	for _, id := range g.Generate(rng, 200) {
		assert.Equal(t, "a", id)
	}
}

func TestGenerator_ProbOneHitterOneAlwaysInjectsNoise(t *testing.T) {
	pattern := Pattern{"a": 1.0}
	g := NewGenerator(pattern, 1)
	rng := rand.New(rand.NewSource(3))
	for _, id := range g.Generate(rng, 50) {
		assert.Len(t, id, oneHitterLength)
		assert.NotEqual(t, "a", id)
	}
}
