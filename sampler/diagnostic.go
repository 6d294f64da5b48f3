package sampler

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/stat"

	"github.com/statlab/mnlmc/buffer"
)

// Split-window convergence checks. Both compare the older and newer halves
// of a coefficient's history window: if the chain has settled, the two
// halves should look like draws from the same distribution.

// splitHalves copies the two halves of a full window out into slices.
func splitHalves(h *buffer.CircularFloat) ([]float64, []float64, error) {
	if h == nil {
		return nil, nil, errors.Errorf("No history window supplied")
	}
	if !h.Full() {
		return nil, nil, errors.Errorf("History window only has %d of %d values", h.Count, h.BufSize)
	}

	half := h.BufSize / 2
	first := make([]float64, 0, half)
	second := make([]float64, 0, half)

	for iter := h.FirstHalf(); iter.Next(); {
		first = append(first, iter.Value())
	}
	for iter := h.SecondHalf(); iter.Next(); {
		second = append(second, iter.Value())
	}

	return first, second, nil
}

// SplitScore returns the standardized difference between the means of the
// two window halves (a Geweke-style z statistic). Values near zero suggest
// the window is sampling from a settled distribution; values beyond ~2 are
// suspicious.
func SplitScore(h *buffer.CircularFloat) (float64, error) {
	first, second, err := splitHalves(h)
	if err != nil {
		return 0, err
	}

	const eps = 1e-12

	m1 := stat.Mean(first, nil)
	m2 := stat.Mean(second, nil)
	v1 := stat.Variance(first, nil)
	v2 := stat.Variance(second, nil)

	denom := math.Sqrt(v1/float64(len(first)) + v2/float64(len(second)))
	if denom < eps {
		denom = eps
	}

	diff := m1 - m2
	if math.Abs(diff) < eps {
		return 0.0, nil
	}

	return diff / denom, nil
}

// SplitHellinger bins the two window halves into a shared histogram and
// returns the Hellinger-style distance between the binned distributions:
// sum((sqrt(p) - sqrt(q))**2) / sqrt(2). Zero means identical histograms;
// sqrt(2) means fully disjoint support.
func SplitHellinger(h *buffer.CircularFloat, bins int) (float64, error) {
	if bins < 1 {
		return 0, errors.Errorf("Bin count must be >= 1, got %d", bins)
	}

	first, second, err := splitHalves(h)
	if err != nil {
		return 0, err
	}

	const eps = 1e-12

	lo, hi := first[0], first[0]
	for _, v := range first {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	for _, v := range second {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	if hi-lo < eps {
		return 0.0, nil // Both halves are a single constant value
	}

	width := (hi - lo) / float64(bins)
	binOf := func(v float64) int {
		b := int((v - lo) / width)
		if b >= bins {
			b = bins - 1 // hi itself lands in the last bin
		}
		return b
	}

	p := make([]float64, bins)
	q := make([]float64, bins)
	for _, v := range first {
		p[binOf(v)]++
	}
	for _, v := range second {
		q[binOf(v)]++
	}

	tot1 := float64(len(first))
	tot2 := float64(len(second))

	errSum := 0.0
	for b := 0; b < bins; b++ {
		adjVal1 := math.Sqrt(p[b] / tot1)
		adjVal2 := math.Sqrt(q[b] / tot2)
		errSum += math.Pow(adjVal1-adjVal2, 2) // squared, so always positive
	}

	return errSum / math.Sqrt2, nil
}
