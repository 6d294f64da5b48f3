package model

import (
	"encoding/csv"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// CSV layout for choice data: a header row followed by one row per
// alternative. The first three columns are the grouping keys and the chosen
// flag ("resp", "task", "chosen"); every remaining column is a numeric
// covariate and its header cell names the coefficient. Every NumAlts
// consecutive rows form one decision instance.
const (
	colResp   = 0
	colTask   = 1
	colChosen = 2
	colCovar  = 3 // first covariate column
)

// ReadCSV parses choice data from r, grouping every numAlts rows into one
// decision instance, and returns a validated Dataset.
func ReadCSV(r io.Reader, numAlts int) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	recs, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "Could not parse CSV data")
	}
	if len(recs) < 2 {
		return nil, errors.Errorf("CSV has %d rows, need a header and at least one data row", len(recs))
	}

	header := recs[0]
	if len(header) < colCovar+1 {
		return nil, errors.Errorf("CSV header has %d columns, need at least %d (resp,task,chosen + covariates)",
			len(header), colCovar+1)
	}
	if !strings.EqualFold(header[colResp], "resp") ||
		!strings.EqualFold(header[colTask], "task") ||
		!strings.EqualFold(header[colChosen], "chosen") {
		return nil, errors.Errorf("CSV header must start with resp,task,chosen - found %v", header[:colCovar])
	}

	names := make([]string, len(header)-colCovar)
	copy(names, header[colCovar:])

	rows := make([]Row, 0, len(recs)-1)
	for i, rec := range recs[1:] {
		if len(rec) != len(header) {
			return nil, errors.Errorf("CSV row %d has %d columns, header has %d", i+1, len(rec), len(header))
		}

		row, err := parseRow(rec)
		if err != nil {
			return nil, errors.Wrapf(err, "Could not parse CSV row %d", i+1)
		}
		rows = append(rows, row)
	}

	return NewDataset(rows, numAlts, names)
}

// ReadCSVFile reads and parses the named choice data file.
func ReadCSVFile(filename string, numAlts int) (*Dataset, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not READ choice data from %s", filename)
	}
	defer f.Close()

	ds, err := ReadCSV(f, numAlts)
	if err != nil {
		return nil, errors.Wrapf(err, "Could not PARSE choice data from %s", filename)
	}

	return ds, nil
}

func parseRow(rec []string) (Row, error) {
	var row Row
	var err error

	row.Respondent, err = strconv.Atoi(rec[colResp])
	if err != nil {
		return row, errors.Wrapf(err, "Bad respondent id %q", rec[colResp])
	}

	row.Task, err = strconv.Atoi(rec[colTask])
	if err != nil {
		return row, errors.Wrapf(err, "Bad task id %q", rec[colTask])
	}

	switch rec[colChosen] {
	case "0":
		row.Chosen = false
	case "1":
		row.Chosen = true
	default:
		return row, errors.Errorf("Bad chosen flag %q, must be 0 or 1", rec[colChosen])
	}

	row.Covariates = make([]float64, len(rec)-colCovar)
	for i, s := range rec[colCovar:] {
		row.Covariates[i], err = strconv.ParseFloat(s, 64)
		if err != nil {
			return row, errors.Wrapf(err, "Bad covariate value %q", s)
		}
	}

	return row, nil
}
