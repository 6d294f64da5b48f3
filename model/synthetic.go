package model

import (
	"math"

	"github.com/pkg/errors"
	exprand "golang.org/x/exp/rand"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// Synthetic generates a choice dataset from a known coefficient vector:
// standard-normal covariates, utilities from the dot product with beta, and
// the chosen alternative drawn from the softmax probabilities. Handy for
// recovery checks - a sampler run on the output should land near beta.
func Synthetic(numInsts int, numAlts int, beta []float64, seed uint64) (*Dataset, error) {
	if numInsts < 1 {
		return nil, errors.Errorf("Need at least 1 instance, got %d", numInsts)
	}
	if numAlts < 2 {
		return nil, errors.Errorf("Need at least 2 alternatives, got %d", numAlts)
	}
	if len(beta) < 1 {
		return nil, errors.Errorf("Need at least one coefficient")
	}

	src := exprand.New(exprand.NewSource(seed))
	covDist := distuv.Normal{Mu: 0.0, Sigma: 1.0, Src: src}

	numCoefs := len(beta)
	rows := make([]Row, 0, numInsts*numAlts)
	util := make([]float64, numAlts)

	for i := 0; i < numInsts; i++ {
		covs := make([][]float64, numAlts)
		for j := 0; j < numAlts; j++ {
			cov := make([]float64, numCoefs)
			for k := range cov {
				cov[k] = covDist.Rand()
			}
			covs[j] = cov
			util[j] = floats.Dot(cov, beta)
		}

		// Softmax choice rule, stabilized the same way the likelihood is
		lse := floats.LogSumExp(util)
		u := src.Float64()
		chosen := numAlts - 1
		cum := 0.0
		for j := 0; j < numAlts; j++ {
			cum += math.Exp(util[j] - lse)
			if u < cum {
				chosen = j
				break
			}
		}

		for j := 0; j < numAlts; j++ {
			rows = append(rows, Row{
				Respondent: i,
				Task:       0,
				Covariates: covs[j],
				Chosen:     j == chosen,
			})
		}
	}

	return NewDataset(rows, numAlts, nil)
}
