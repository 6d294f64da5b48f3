package sampler

import (
	"math"

	"github.com/pkg/errors"

	"github.com/statlab/mnlmc/rand"
)

// DefaultWindow is the per-coefficient history size used for the split
// diagnostics when the caller does not choose one.
const DefaultWindow = 2000

// Metropolis is a random-walk Metropolis-Hastings sampler over a LogProber
// target. The proposal adds independent Gaussian noise per coefficient with
// a fixed scale, which is symmetric, so the acceptance ratio is the plain
// posterior ratio with no correction term. All run state lives on the
// instance - no package globals - so independent samplers can run and be
// tested side by side.
type Metropolis struct {
	Target     LogProber
	Scales     []float64
	Gen        *rand.Generator
	Iterations int
	Window     int

	// Progress, when set, is called with the completed iteration count and
	// the accept count so far, every ProgressEvery iterations.
	Progress      func(iters int, accepts int)
	ProgressEvery int

	current []float64
	logProb float64
}

// NewMetropolis validates the whole run configuration up front: a bad scale
// vector or iteration budget is a caller bug and must fail before iteration
// zero ever runs.
func NewMetropolis(gen *rand.Generator, target LogProber, scales []float64, iters int) (*Metropolis, error) {
	if gen == nil {
		return nil, errors.Errorf("No random generator supplied")
	}
	if target == nil {
		return nil, errors.Errorf("No target distribution supplied")
	}
	if iters < 1 {
		return nil, errors.Errorf("Iteration count must be >= 1, got %d", iters)
	}
	if len(scales) != target.Dim() {
		return nil, errors.Errorf("Have %d proposal scales for %d coefficients", len(scales), target.Dim())
	}
	for i, s := range scales {
		if s <= 0 {
			return nil, errors.Errorf("Proposal scale %d is %f, must be > 0", i, s)
		}
	}

	sc := make([]float64, len(scales))
	copy(sc, scales)

	return &Metropolis{
		Target:     target,
		Scales:     sc,
		Gen:        gen,
		Iterations: iters,
		Window:     DefaultWindow,
	}, nil
}

// Run executes the configured number of transitions from the zero vector and
// returns the completed chain. Per iteration the generator is consumed in a
// fixed order - Dim normal draws then one uniform - so a seeded run is
// bit-reproducible.
func (m *Metropolis) Run() (*Chain, error) {
	dim := m.Target.Dim()

	m.current = make([]float64, dim)
	var err error
	m.logProb, err = m.Target.LogProb(m.current)
	if err != nil {
		return nil, errors.Wrap(err, "Could not score the initial state")
	}

	chain, err := NewChain(dim, m.Iterations, m.Window)
	if err != nil {
		return nil, err
	}

	prop := make([]float64, dim)
	for i := 0; i < m.Iterations; i++ {
		for k := 0; k < dim; k++ {
			prop[k] = m.current[k] + m.Gen.NormFloat64()*m.Scales[k]
		}

		propLogProb, err := m.Target.LogProb(prop)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not score proposal at iteration %d", i)
		}

		// log(u) < 0 always, so an uphill proposal always accepts
		accepted := math.Log(m.Gen.Float64()) < propLogProb-m.logProb
		if accepted {
			copy(m.current, prop)
			m.logProb = propLogProb
		}

		// Every iteration contributes exactly one snapshot: rejections
		// repeat the previous value
		if err := chain.Add(m.current, accepted); err != nil {
			return nil, err
		}

		if m.Progress != nil && m.ProgressEvery > 0 && (i+1)%m.ProgressEvery == 0 {
			m.Progress(i+1, chain.Accepts)
		}
	}

	return chain, nil
}
