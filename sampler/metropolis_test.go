package sampler

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"

	"github.com/statlab/mnlmc/model"
	"github.com/statlab/mnlmc/rand"
)

// gaussTarget is an independent standard normal in every dimension - simple
// enough that we know exactly what the chain should look like.
type gaussTarget struct {
	dim int
}

func (g gaussTarget) Dim() int {
	return g.dim
}

func (g gaussTarget) LogProb(beta []float64) (float64, error) {
	if len(beta) != g.dim {
		return 0, errors.Errorf("Expected len %d, got %d", g.dim, len(beta))
	}
	total := 0.0
	for _, b := range beta {
		total -= 0.5 * b * b
	}
	return total, nil
}

// failTarget always errors, standing in for a misconfigured posterior.
type failTarget struct{}

func (f failTarget) Dim() int { return 1 }

func (f failTarget) LogProb(beta []float64) (float64, error) {
	return 0, errors.Errorf("Deliberate failure")
}

func mustGen(t *testing.T, seed int64) *rand.Generator {
	g, err := rand.NewGenerator(seed)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestMetropolisValidation(t *testing.T) {
	assert := assert.New(t)

	gen := mustGen(t, 1)
	target := gaussTarget{dim: 2}
	goodScales := []float64{0.5, 0.5}

	cases := []struct {
		name   string
		gen    *rand.Generator
		target LogProber
		scales []float64
		iters  int
	}{
		{"NilGen", nil, target, goodScales, 100},
		{"NilTarget", gen, nil, goodScales, 100},
		{"ZeroIters", gen, target, goodScales, 0},
		{"ScaleLenMismatch", gen, target, []float64{0.5}, 100},
		{"ZeroScale", gen, target, []float64{0.5, 0.0}, 100},
		{"NegativeScale", gen, target, []float64{-0.5, 0.5}, 100},
	}

	for _, c := range cases {
		samp, err := NewMetropolis(c.gen, c.target, c.scales, c.iters)
		assert.Nil(samp, c.name)
		assert.Error(err, c.name)
	}
}

func TestMetropolisChainShape(t *testing.T) {
	assert := assert.New(t)

	samp, err := NewMetropolis(mustGen(t, 7), gaussTarget{dim: 2}, []float64{0.5, 0.5}, 1000)
	assert.NoError(err)

	chain, err := samp.Run()
	assert.NoError(err)
	assert.Equal(1000, chain.Len())
	assert.Equal(2, chain.Dim)

	// A random-walk chain on a smooth target accepts some but rarely all
	rate := chain.AcceptRate()
	assert.True(rate > 0.0 && rate <= 1.0)

	kept, err := chain.Burn(100)
	assert.NoError(err)
	assert.Equal(900, len(kept))
}

func TestMetropolisDeterminism(t *testing.T) {
	assert := assert.New(t)

	run := func() *Chain {
		samp, err := NewMetropolis(mustGen(t, 42), gaussTarget{dim: 3}, []float64{0.3, 0.3, 0.3}, 500)
		assert.NoError(err)
		ch, err := samp.Run()
		assert.NoError(err)
		return ch
	}

	c1 := run()
	c2 := run()

	// Same seed, same config: bit-identical chains
	assert.Equal(c1.Accepts, c2.Accepts)
	assert.Equal(c1.Draws, c2.Draws)

	// Different seed: different chain
	samp, err := NewMetropolis(mustGen(t, 43), gaussTarget{dim: 3}, []float64{0.3, 0.3, 0.3}, 500)
	assert.NoError(err)
	c3, err := samp.Run()
	assert.NoError(err)
	assert.NotEqual(c1.Draws, c3.Draws)
}

func TestMetropolisAbortsBeforeIterating(t *testing.T) {
	assert := assert.New(t)

	samp, err := NewMetropolis(mustGen(t, 1), failTarget{}, []float64{0.5}, 100)
	assert.NoError(err)

	chain, err := samp.Run()
	assert.Nil(chain)
	assert.Error(err)
}

func TestMetropolisProgress(t *testing.T) {
	assert := assert.New(t)

	samp, err := NewMetropolis(mustGen(t, 1), gaussTarget{dim: 1}, []float64{0.5}, 100)
	assert.NoError(err)

	var calls []int
	samp.Progress = func(iters int, accepts int) {
		assert.True(accepts >= 0 && accepts <= iters)
		calls = append(calls, iters)
	}
	samp.ProgressEvery = 25

	_, err = samp.Run()
	assert.NoError(err)
	assert.Equal([]int{25, 50, 75, 100}, calls)
}

// Recovery check: generate choices from a known coefficient and make sure
// the posterior mean lands near it.
func TestMetropolisRecoversCoefficient(t *testing.T) {
	assert := assert.New(t)

	trueBeta := 1.0
	ds, err := model.Synthetic(10000, 2, []float64{trueBeta}, 12345)
	assert.NoError(err)

	post, err := model.NewPosterior(ds, []float64{5.0})
	assert.NoError(err)

	samp, err := NewMetropolis(mustGen(t, 999), post, []float64{0.1}, 5000)
	assert.NoError(err)

	chain, err := samp.Run()
	assert.NoError(err)
	assert.Equal(5000, chain.Len())

	sums, err := chain.Summary(500, ds.Names)
	assert.NoError(err)
	assert.Equal(1, len(sums))

	s := sums[0]
	assert.InDelta(trueBeta, s.Mean, 0.15)
	assert.True(s.Lower < s.Mean && s.Mean < s.Upper)
	assert.True(s.Std > 0.0)
}
