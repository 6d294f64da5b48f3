package sampler

import (
	"fmt"
	"sort"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/statlab/mnlmc/buffer"
)

// Chain is the record of a Metropolis run: one coefficient snapshot per
// completed iteration plus a running accept count. The sampler is the only
// writer; readers should wait until Run returns. Snapshots are never mutated
// retroactively - rejected iterations repeat the previous value.
type Chain struct {
	Draws   [][]float64
	Dim     int
	Accepts int

	// History holds a fixed-size recent window per coefficient for the
	// split-window diagnostics.
	History []*buffer.CircularFloat
}

// CoefSummary is the posterior summary for a single coefficient over the
// post-burn-in chain: mean, standard deviation, and the equal-tailed 95%
// credible interval.
type CoefSummary struct {
	Name  string
	Mean  float64
	Std   float64
	Lower float64
	Upper float64
}

// NewChain pre-sizes storage for a run of the given length. window is the
// per-coefficient history size for diagnostics.
func NewChain(dim int, iters int, window int) (*Chain, error) {
	if dim < 1 {
		return nil, errors.Errorf("Chain dimension must be >= 1, got %d", dim)
	}
	if iters < 1 {
		return nil, errors.Errorf("Chain length must be >= 1, got %d", iters)
	}
	if window < 2 {
		return nil, errors.Errorf("History window must be >= 2, got %d", window)
	}

	c := &Chain{
		Draws:   make([][]float64, 0, iters),
		Dim:     dim,
		History: make([]*buffer.CircularFloat, dim),
	}

	for i := range c.History {
		c.History[i] = buffer.NewCircularFloat(window)
	}

	return c, nil
}

// Add appends one snapshot (copied, so the caller may reuse the slice) and
// feeds the per-coefficient history windows.
func (c *Chain) Add(beta []float64, accepted bool) error {
	if len(beta) != c.Dim {
		return errors.Errorf("Snapshot has len %d, chain dimension is %d", len(beta), c.Dim)
	}

	snap := make([]float64, c.Dim)
	copy(snap, beta)
	c.Draws = append(c.Draws, snap)

	for i, v := range snap {
		c.History[i].Add(v)
	}

	if accepted {
		c.Accepts++
	}

	return nil
}

// Len is the number of snapshots recorded so far.
func (c *Chain) Len() int {
	return len(c.Draws)
}

// AcceptRate is the fraction of recorded iterations that accepted their
// proposal.
func (c *Chain) AcceptRate() float64 {
	if len(c.Draws) < 1 {
		return 0.0
	}
	return float64(c.Accepts) / float64(len(c.Draws))
}

// Burn returns the chain with the first burnIn snapshots discarded. The
// returned slice aliases the chain's storage - it is a view, not a copy.
func (c *Chain) Burn(burnIn int) ([][]float64, error) {
	if burnIn < 0 {
		return nil, errors.Errorf("Burn-in must be >= 0, got %d", burnIn)
	}
	if burnIn >= len(c.Draws) {
		return nil, errors.Errorf("Burn-in %d >= chain length %d", burnIn, len(c.Draws))
	}
	return c.Draws[burnIn:], nil
}

// Coef extracts a single coefficient's values from a slice of snapshots.
func Coef(draws [][]float64, k int) []float64 {
	vals := make([]float64, len(draws))
	for i, d := range draws {
		vals[i] = d[k]
	}
	return vals
}

// Summary computes per-coefficient posterior summaries over the post-burn-in
// chain. names may be nil (indexed defaults) or must have len == Dim.
func (c *Chain) Summary(burnIn int, names []string) ([]CoefSummary, error) {
	kept, err := c.Burn(burnIn)
	if err != nil {
		return nil, errors.Wrap(err, "Can not summarize chain")
	}

	if names == nil {
		names = make([]string, c.Dim)
		for k := range names {
			names[k] = fmt.Sprintf("beta[%d]", k)
		}
	}
	if len(names) != c.Dim {
		return nil, errors.Errorf("Have %d names for %d coefficients", len(names), c.Dim)
	}

	sums := make([]CoefSummary, c.Dim)
	for k := 0; k < c.Dim; k++ {
		vals := Coef(kept, k)
		sorted := make([]float64, len(vals))
		copy(sorted, vals)
		sort.Float64s(sorted)

		sums[k] = CoefSummary{
			Name:  names[k],
			Mean:  stat.Mean(vals, nil),
			Std:   stat.StdDev(vals, nil),
			Lower: stat.Quantile(0.025, stat.Empirical, sorted, nil),
			Upper: stat.Quantile(0.975, stat.Empirical, sorted, nil),
		}
	}

	return sums, nil
}
