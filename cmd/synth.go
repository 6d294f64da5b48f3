package cmd

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/statlab/mnlmc/model"
)

// synthCommand generates a synthetic choice dataset CSV from a known
// coefficient vector - useful for recovery checks and demos.
func synthCommand() *cobra.Command {
	var outFile string
	var numInsts int
	var numAlts int
	var beta []float64
	var seed uint64

	cmd := &cobra.Command{
		Use:   "synth",
		Short: "Generate a synthetic choice dataset CSV from known coefficients",
		RunE: func(cmd *cobra.Command, args []string) error {
			ds, err := model.Synthetic(numInsts, numAlts, beta, seed)
			if err != nil {
				return err
			}
			return writeDatasetCSV(outFile, ds)
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&outFile, "out", "o", "synthetic.csv", "Output CSV file")
	flags.IntVarP(&numInsts, "insts", "n", 1000, "Decision instances to generate")
	flags.IntVarP(&numAlts, "alts", "a", 3, "Alternatives per decision instance (J)")
	flags.Float64SliceVar(&beta, "beta", []float64{1.0, 0.5, -0.8, -1.5}, "True coefficient vector")
	flags.Uint64VarP(&seed, "seed", "r", 1, "Random seed to use")

	return cmd
}

// writeDatasetCSV writes a dataset in the same layout ReadCSV expects, so
// the output feeds straight back into the root command.
func writeDatasetCSV(filename string, ds *model.Dataset) error {
	f, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "Could not CREATE output file %s", filename)
	}
	defer f.Close()

	w := csv.NewWriter(f)

	header := append([]string{"resp", "task", "chosen"}, ds.Names...)
	if err := w.Write(header); err != nil {
		return errors.Wrap(err, "Could not write CSV header")
	}

	rec := make([]string, len(header))
	for _, inst := range ds.Insts {
		for _, alt := range inst.Alts {
			rec = rec[:0]
			rec = append(rec, strconv.Itoa(inst.Respondent), strconv.Itoa(inst.Task))
			if alt.Chosen {
				rec = append(rec, "1")
			} else {
				rec = append(rec, "0")
			}
			for _, v := range alt.Covariates {
				rec = append(rec, strconv.FormatFloat(v, 'g', -1, 64))
			}

			if err := w.Write(rec); err != nil {
				return errors.Wrap(err, "Could not write CSV row")
			}
		}
	}

	w.Flush()
	return errors.Wrapf(w.Error(), "Could not finish writing %s", filename)
}
