package cmd

import (
	"io/ioutil"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// RunConfig mirrors the command-line flags for batch runs: point --config at
// a YAML file and only override the odd value on the command line.
type RunConfig struct {
	Data       string    `yaml:"data"`
	Alts       int       `yaml:"alts"`
	Iterations int       `yaml:"iterations"`
	BurnIn     int       `yaml:"burnin"`
	Window     int       `yaml:"window"`
	Seed       int64     `yaml:"seed"`
	ProposalSD []float64 `yaml:"proposal_sd"`
	PriorSD    []float64 `yaml:"prior_sd"`
	Monitor    string    `yaml:"monitor"`
}

// loadRunConfig reads and parses the named YAML run config.
func loadRunConfig(filename string) (*RunConfig, error) {
	data, err := ioutil.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ run config from %s", filename)
	}

	cfg := &RunConfig{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE run config from %s", filename)
	}

	return cfg, nil
}

// applyConfig copies config values onto the params for every flag the user
// did NOT set explicitly: explicit flags always win. changed reports whether
// the named flag was set on the command line.
func (sp *startupParams) applyConfig(cfg *RunConfig, changed func(name string) bool) {
	if cfg.Data != "" && !changed("data") {
		sp.dataFile = cfg.Data
	}
	if cfg.Alts > 0 && !changed("alts") {
		sp.numAlts = cfg.Alts
	}
	if cfg.Iterations > 0 && !changed("iters") {
		sp.iterations = cfg.Iterations
	}
	if cfg.BurnIn > 0 && !changed("burnin") {
		sp.burnIn = cfg.BurnIn
	}
	if cfg.Window > 0 && !changed("window") {
		sp.window = cfg.Window
	}
	if cfg.Seed != 0 && !changed("seed") {
		sp.randomSeed = cfg.Seed
	}
	if len(cfg.ProposalSD) > 0 && !changed("scale") {
		sp.proposalSD = cfg.ProposalSD
	}
	if len(cfg.PriorSD) > 0 && !changed("prior-sd") {
		sp.priorSD = cfg.PriorSD
	}
	if cfg.Monitor != "" && !changed("monitor") {
		sp.monitorAddr = cfg.Monitor
	}
}
