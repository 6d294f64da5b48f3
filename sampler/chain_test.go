package sampler

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewChainValidation(t *testing.T) {
	assert := assert.New(t)

	cases := []struct {
		name   string
		dim    int
		iters  int
		window int
	}{
		{"ZeroDim", 0, 10, 4},
		{"ZeroIters", 1, 0, 4},
		{"TinyWindow", 1, 10, 1},
	}

	for _, c := range cases {
		ch, err := NewChain(c.dim, c.iters, c.window)
		assert.Nil(ch, c.name)
		assert.Error(err, c.name)
	}

	ch, err := NewChain(2, 10, 4)
	assert.NoError(err)
	assert.Equal(0, ch.Len())
	assert.Equal(0.0, ch.AcceptRate())
}

func TestChainAdd(t *testing.T) {
	assert := assert.New(t)

	ch, err := NewChain(2, 10, 4)
	assert.NoError(err)

	assert.Error(ch.Add([]float64{1.0}, true))

	beta := []float64{1.0, 2.0}
	assert.NoError(ch.Add(beta, true))
	assert.NoError(ch.Add(beta, false))

	// Snapshots must be copies, not aliases
	beta[0] = 99.0
	assert.Equal(1.0, ch.Draws[0][0])
	assert.Equal(1.0, ch.Draws[1][0])

	assert.Equal(2, ch.Len())
	assert.Equal(1, ch.Accepts)
	assert.Equal(0.5, ch.AcceptRate())
	assert.Equal(int64(2), ch.History[0].TotalSeen)
}

func TestChainBurn(t *testing.T) {
	assert := assert.New(t)

	ch, err := NewChain(1, 10, 4)
	assert.NoError(err)
	for i := 0; i < 10; i++ {
		assert.NoError(ch.Add([]float64{float64(i)}, true))
	}

	kept, err := ch.Burn(3)
	assert.NoError(err)
	assert.Equal(7, len(kept))
	assert.Equal(3.0, kept[0][0])

	kept, err = ch.Burn(0)
	assert.NoError(err)
	assert.Equal(10, len(kept))

	_, err = ch.Burn(10)
	assert.Error(err)
	_, err = ch.Burn(11)
	assert.Error(err)
	_, err = ch.Burn(-1)
	assert.Error(err)
}

func TestChainSummary(t *testing.T) {
	assert := assert.New(t)

	// Known values 1..100 so the summary stats are easy to check
	ch, err := NewChain(1, 100, 10)
	assert.NoError(err)
	for i := 1; i <= 100; i++ {
		assert.NoError(ch.Add([]float64{float64(i)}, true))
	}

	sums, err := ch.Summary(0, []string{"price"})
	assert.NoError(err)
	assert.Equal(1, len(sums))

	s := sums[0]
	assert.Equal("price", s.Name)
	assert.InDelta(50.5, s.Mean, 1e-9)
	assert.InDelta(29.0115, s.Std, 1e-3)
	assert.True(s.Lower >= 1.0 && s.Lower <= 5.0)
	assert.True(s.Upper >= 96.0 && s.Upper <= 100.0)
	assert.True(s.Lower < s.Mean && s.Mean < s.Upper)

	// Burn-in trims the low values and drags the mean up
	sums, err = ch.Summary(50, nil)
	assert.NoError(err)
	assert.Equal("beta[0]", sums[0].Name)
	assert.InDelta(75.5, sums[0].Mean, 1e-9)

	// Bad burn-in and bad names must fail
	_, err = ch.Summary(100, nil)
	assert.Error(err)
	_, err = ch.Summary(0, []string{"a", "b"})
	assert.Error(err)
}
