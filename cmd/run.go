package cmd

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/statlab/mnlmc/model"
	"github.com/statlab/mnlmc/rand"
	"github.com/statlab/mnlmc/sampler"
)

// defaultScales is the fixed random-walk step everyone starts from; tune
// with --scale if the acceptance rate looks bad.
func defaultScales(numCoefs int) []float64 {
	scales := make([]float64, numCoefs)
	for i := range scales {
		scales[i] = 0.1
	}
	return scales
}

// defaultPriorSD follows the usual encoding convention: wide priors for
// indicator-style coefficients and a tighter one on the last coefficient,
// which is price-style in our datasets and lives on a smaller scale. Pass
// --prior-sd to override per coefficient.
func defaultPriorSD(numCoefs int) []float64 {
	sds := make([]float64, numCoefs)
	for i := range sds {
		sds[i] = 5.0
	}
	if numCoefs > 1 {
		sds[numCoefs-1] = 1.0
	}
	return sds
}

func runSampler(cmd *cobra.Command, sp *startupParams) error {
	sp.setupLoggers()

	if sp.cfgFile != "" {
		cfg, err := loadRunConfig(sp.cfgFile)
		if err != nil {
			return err
		}
		sp.applyConfig(cfg, cmd.Flags().Changed)
	}

	if sp.dataFile == "" {
		return errors.Errorf("No choice data file given (--data)")
	}
	if sp.iterations < 1 {
		return errors.Errorf("Iteration count must be >= 1, got %d", sp.iterations)
	}
	if sp.burnIn < 0 || sp.burnIn >= sp.iterations {
		return errors.Errorf("Burn-in %d must be in [0, %d)", sp.burnIn, sp.iterations)
	}

	sp.out.Printf("mnlmc\n")
	sp.out.Printf("Data:     %s\n", sp.dataFile)
	sp.out.Printf("Iters:    %d (burn-in %d)\n", sp.iterations, sp.burnIn)
	sp.out.Printf("Rnd Seed: %d\n", sp.randomSeed)

	ds, err := model.ReadCSVFile(sp.dataFile, sp.numAlts)
	if err != nil {
		return err
	}
	sp.out.Printf("Read %d instances x %d alternatives x %d covariates\n",
		ds.NumInstances(), ds.NumAlts, ds.NumCoefs)

	scales := sp.proposalSD
	if len(scales) < 1 {
		scales = defaultScales(ds.NumCoefs)
	}
	priorSD := sp.priorSD
	if len(priorSD) < 1 {
		priorSD = defaultPriorSD(ds.NumCoefs)
	}
	sp.verb.Printf("Proposal SDs: %v\n", scales)
	sp.verb.Printf("Prior SDs:    %v\n", priorSD)

	post, err := model.NewPosterior(ds, priorSD)
	if err != nil {
		return err
	}

	gen, err := rand.NewGenerator(sp.randomSeed)
	if err != nil {
		return err
	}

	samp, err := sampler.NewMetropolis(gen, post, scales, sp.iterations)
	if err != nil {
		return err
	}
	if sp.window > 1 {
		samp.Window = sp.window
	}

	startTime := time.Now()

	if sp.monitorAddr != "" {
		mon := &monitor{}
		if err := mon.Start(sp.monitorAddr); err != nil {
			return err
		}
		defer mon.Stop()

		mon.MaxIters.Set(int64(sp.iterations))
		mon.BurnIn.Set(int64(sp.burnIn))

		samp.ProgressEvery = 500
		samp.Progress = func(iters int, accepts int) {
			mon.Iterations.Set(int64(iters))
			mon.Accepts.Set(int64(accepts))
			mon.AcceptRate.Set(float64(accepts) / float64(iters))
			mon.RunTime.Set(time.Since(startTime).Seconds())
		}
	}

	chain, err := samp.Run()
	if err != nil {
		return errors.Wrap(err, "Sampling run failed")
	}

	sp.out.Printf("Sampled %d iterations in %v (accept rate %.3f)\n",
		chain.Len(), time.Since(startTime), chain.AcceptRate())

	sums, err := chain.Summary(sp.burnIn, ds.Names)
	if err != nil {
		return err
	}

	sp.out.Printf("\n%-12s %9s %9s %9s %9s\n", "Coef", "Mean", "Std", "CI 2.5%", "CI 97.5%")
	postMean := make([]float64, ds.NumCoefs)
	for k, s := range sums {
		sp.out.Printf("%-12s %9.4f %9.4f %9.4f %9.4f\n", s.Name, s.Mean, s.Std, s.Lower, s.Upper)
		postMean[k] = s.Mean
	}

	diagnosticReport(sp, chain, ds.Names)

	return shareReport(sp, ds, postMean)
}

// diagnosticReport prints the split-window checks for every coefficient.
// Purely advisory: nothing here changes the chain.
func diagnosticReport(sp *startupParams, chain *sampler.Chain, names []string) {
	sp.out.Printf("\nSplit diagnostics (|z| > 2 is suspicious)\n")

	for k, h := range chain.History {
		score, err := sampler.SplitScore(h)
		if err != nil {
			sp.verb.Printf("%-12s skipped: %v\n", names[k], err)
			continue
		}

		hel, err := sampler.SplitHellinger(h, 20)
		if err != nil {
			sp.verb.Printf("%-12s skipped: %v\n", names[k], err)
			continue
		}

		sp.out.Printf("%-12s z:%8.3f Hel:%7.3f\n", names[k], score, hel)
	}
}

// shareReport prints the model's predicted choice shares per alternative
// slot at the posterior mean - a quick sanity check against the raw data.
func shareReport(sp *startupParams, ds *model.Dataset, beta []float64) error {
	probs, err := ds.InstanceProbs(beta)
	if err != nil {
		return errors.Wrap(err, "Could not compute predicted shares")
	}

	shares := make([]float64, ds.NumAlts)
	for _, p := range probs {
		for j, v := range p {
			shares[j] += v
		}
	}

	n := float64(len(probs))
	sp.out.Printf("\nPredicted choice shares at the posterior mean\n")
	for j, s := range shares {
		sp.out.Printf("Alt %d: %6.3f\n", j+1, s/n)
	}

	return nil
}
