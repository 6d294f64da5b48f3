package model

import (
	"github.com/pkg/errors"
)

// Alternative is one row of a choice task: the covariates the respondent saw
// for this option and whether it was the option they picked.
type Alternative struct {
	Covariates []float64
	Chosen     bool
}

// Instance is a single decision: one respondent, one task, and the competing
// alternatives shown together. Exactly one alternative is chosen.
type Instance struct {
	Respondent int
	Task       int
	Alts       []Alternative
}

// Row is one flat record as produced by an upstream encoding step: grouping
// keys, the covariate vector, and the 0/1 chosen flag. Rows are stacked so
// that every NumAlts consecutive rows form one Instance.
type Row struct {
	Respondent int
	Task       int
	Covariates []float64
	Chosen     bool
}

// Dataset is a validated, immutable set of decision instances. Build it once
// before sampling; the likelihood never mutates it.
type Dataset struct {
	Insts    []*Instance
	NumAlts  int      // J: alternatives per decision instance
	NumCoefs int      // K: covariates per alternative
	Names    []string // coefficient names, len == NumCoefs
}

// NewDataset groups flat rows into decision instances of numAlts rows each
// and validates the result. The grouping is explicit and checked here, NOT
// inferred later from array arithmetic: a malformed table fails now, before
// any sampling can start. If names is nil, default names are generated.
func NewDataset(rows []Row, numAlts int, names []string) (*Dataset, error) {
	if numAlts < 2 {
		return nil, errors.Errorf("Need at least 2 alternatives per instance, got %d", numAlts)
	}
	if len(rows) < numAlts {
		return nil, errors.Errorf("Need at least %d rows (one instance), got %d", numAlts, len(rows))
	}
	if len(rows)%numAlts != 0 {
		return nil, errors.Errorf("Row count %d is not a multiple of %d alternatives", len(rows), numAlts)
	}

	numCoefs := len(rows[0].Covariates)
	if numCoefs < 1 {
		return nil, errors.Errorf("Rows must have at least one covariate")
	}

	if names == nil {
		names = make([]string, numCoefs)
		for i := range names {
			names[i] = coefName(i)
		}
	}
	if len(names) != numCoefs {
		return nil, errors.Errorf("Have %d coefficient names for %d covariates", len(names), numCoefs)
	}

	ds := &Dataset{
		Insts:    make([]*Instance, 0, len(rows)/numAlts),
		NumAlts:  numAlts,
		NumCoefs: numCoefs,
		Names:    names,
	}

	for start := 0; start < len(rows); start += numAlts {
		group := rows[start : start+numAlts]

		inst := &Instance{
			Respondent: group[0].Respondent,
			Task:       group[0].Task,
			Alts:       make([]Alternative, numAlts),
		}

		for j, r := range group {
			if r.Respondent != inst.Respondent || r.Task != inst.Task {
				return nil, errors.Errorf(
					"Row %d breaks instance grouping: (resp=%d,task=%d) != (resp=%d,task=%d)",
					start+j, r.Respondent, r.Task, inst.Respondent, inst.Task,
				)
			}
			if len(r.Covariates) != numCoefs {
				return nil, errors.Errorf("Row %d has %d covariates, expected %d", start+j, len(r.Covariates), numCoefs)
			}

			cov := make([]float64, numCoefs)
			copy(cov, r.Covariates)
			inst.Alts[j] = Alternative{Covariates: cov, Chosen: r.Chosen}
		}

		ds.Insts = append(ds.Insts, inst)
	}

	if err := ds.Check(); err != nil {
		return nil, errors.Wrap(err, "Constructed dataset is not valid")
	}

	return ds, nil
}

// NumInstances is the number of decision instances (N).
func (ds *Dataset) NumInstances() int {
	return len(ds.Insts)
}

// Check returns an error if any problem is found
func (ds *Dataset) Check() error {
	if ds.NumAlts < 2 {
		return errors.Errorf("Dataset has %d alternatives per instance, need >= 2", ds.NumAlts)
	}
	if ds.NumCoefs < 1 {
		return errors.Errorf("Dataset has no covariates")
	}
	if len(ds.Names) != ds.NumCoefs {
		return errors.Errorf("Dataset has %d names for %d covariates", len(ds.Names), ds.NumCoefs)
	}
	if len(ds.Insts) < 1 {
		return errors.Errorf("Dataset has no instances")
	}

	for i, inst := range ds.Insts {
		if len(inst.Alts) != ds.NumAlts {
			return errors.Errorf("Instance %d has %d alternatives, expected %d", i, len(inst.Alts), ds.NumAlts)
		}

		chosen := 0
		for j, alt := range inst.Alts {
			if len(alt.Covariates) != ds.NumCoefs {
				return errors.Errorf("Instance %d alt %d has %d covariates, expected %d", i, j, len(alt.Covariates), ds.NumCoefs)
			}
			if alt.Chosen {
				chosen++
			}
		}

		if chosen != 1 {
			return errors.Errorf("Instance %d (resp=%d,task=%d) has %d chosen alternatives, expected exactly 1",
				i, inst.Respondent, inst.Task, chosen)
		}
	}

	return nil
}

func divmod(numerator, denominator int) (quotient, remainder int) {
	quotient = numerator / denominator
	remainder = numerator % denominator
	return
}

// coefName gives a default name to an unnamed coefficient based on its
// index. Sort of base-26 with only letters, but A=0 *and* the start digit
// (so 0=A, 1=B, and ZZ+1=AAA) - the same scheme spreadsheets use for
// columns.
func coefName(n int) string {
	if n == 0 {
		return "A"
	}
	n++

	const letters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	digits := make([]byte, 0, 8)
	var remain int
	for n > 0 {
		n, remain = divmod(n-1, 26)
		digits = append(digits, letters[remain])
	}

	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return string(digits)
}
