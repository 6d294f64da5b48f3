package model

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// LogLikelihood returns the total multinomial-logit log-likelihood of the
// observed choices under the coefficient vector beta. Per instance, the
// chosen alternative's log-probability is its utility minus the
// log-sum-of-exponentials of all the instance's utilities; LogSumExp
// subtracts the max utility before exponentiating, so large utilities can
// not overflow for any finite input.
func (ds *Dataset) LogLikelihood(beta []float64) (float64, error) {
	if len(beta) != ds.NumCoefs {
		return 0, errors.Errorf("Coefficient vector has len %d but dataset has %d covariates", len(beta), ds.NumCoefs)
	}

	util := make([]float64, ds.NumAlts)
	total := 0.0

	for i, inst := range ds.Insts {
		chosen := -1
		for j := range inst.Alts {
			util[j] = floats.Dot(inst.Alts[j].Covariates, beta)
			if inst.Alts[j].Chosen {
				chosen = j
			}
		}
		if chosen < 0 {
			return 0, errors.Errorf("Instance %d has no chosen alternative", i)
		}

		total += util[chosen] - floats.LogSumExp(util)
	}

	return total, nil
}

// InstanceProbs returns, per decision instance, the softmax choice
// probabilities across its alternatives under beta. Each instance's
// probabilities sum to 1.
func (ds *Dataset) InstanceProbs(beta []float64) ([][]float64, error) {
	if len(beta) != ds.NumCoefs {
		return nil, errors.Errorf("Coefficient vector has len %d but dataset has %d covariates", len(beta), ds.NumCoefs)
	}

	probs := make([][]float64, len(ds.Insts))
	util := make([]float64, ds.NumAlts)

	for i, inst := range ds.Insts {
		for j := range inst.Alts {
			util[j] = floats.Dot(inst.Alts[j].Covariates, beta)
		}

		lse := floats.LogSumExp(util)
		p := make([]float64, ds.NumAlts)
		for j, u := range util {
			p[j] = math.Exp(u - lse)
		}
		probs[i] = p
	}

	return probs, nil
}

// LogPrior returns the log-density of beta under independent zero-mean
// Gaussian priors with the given per-coefficient standard deviations.
func LogPrior(beta []float64, priorSD []float64) (float64, error) {
	if len(beta) != len(priorSD) {
		return 0, errors.Errorf("Coefficient vector has len %d but have %d prior SDs", len(beta), len(priorSD))
	}

	total := 0.0
	for i, sd := range priorSD {
		if sd <= 0 {
			return 0, errors.Errorf("Prior SD %d is %f, must be > 0", i, sd)
		}
		n := distuv.Normal{Mu: 0.0, Sigma: sd}
		total += n.LogProb(beta[i])
	}

	return total, nil
}

// Posterior glues the choice likelihood to its prior: LogProb is just
// LogLikelihood + LogPrior. It implements the sampler's target interface.
type Posterior struct {
	Data    *Dataset
	PriorSD []float64
}

// NewPosterior validates the prior configuration against the dataset up
// front so a bad run dies before any sampling happens.
func NewPosterior(ds *Dataset, priorSD []float64) (*Posterior, error) {
	if ds == nil {
		return nil, errors.Errorf("No dataset supplied")
	}
	if err := ds.Check(); err != nil {
		return nil, errors.Wrap(err, "Can not build posterior over invalid dataset")
	}
	if len(priorSD) != ds.NumCoefs {
		return nil, errors.Errorf("Have %d prior SDs for %d coefficients", len(priorSD), ds.NumCoefs)
	}
	for i, sd := range priorSD {
		if sd <= 0 {
			return nil, errors.Errorf("Prior SD for %s is %f, must be > 0", ds.Names[i], sd)
		}
	}

	sds := make([]float64, len(priorSD))
	copy(sds, priorSD)

	return &Posterior{Data: ds, PriorSD: sds}, nil
}

// Dim is the length of the coefficient vector the posterior scores.
func (p *Posterior) Dim() int {
	return p.Data.NumCoefs
}

// LogProb returns the (unnormalized) log-posterior density of beta.
func (p *Posterior) LogProb(beta []float64) (float64, error) {
	ll, err := p.Data.LogLikelihood(beta)
	if err != nil {
		return 0, errors.Wrap(err, "Likelihood evaluation failed")
	}

	lp, err := LogPrior(beta, p.PriorSD)
	if err != nil {
		return 0, errors.Wrap(err, "Prior evaluation failed")
	}

	return ll + lp, nil
}
