package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
)

type reader struct {
	r        io.Reader
	features []feature.Feature
}

type writer struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
NewReader takes an io.Reader for a CSV stream and a slice of features and
returns a dataset.Reader that parses the stream's rows into samples with
the feature values laid out in the order of the given slice.

The header or first row of the CSV content is expected to consist of the
names of the features in the given slice, in any column order. The last
column may name a feature not in the slice, in which case its values are
ignored. The rest of the rows should consist of valid numeric values for
all features.
*/
func NewReader(r io.Reader, features []feature.Feature) dataset.Reader {
	return &reader{r: r, features: features}
}

/*
ReadDatasetFromFilePath takes a filepath string and a slice of features,
opens the file the filepath points to (os.Stdin if the filepath is "")
and returns a dataset.Dataset with the samples parsed from it or an
error. It will return an error if the given filepath cannot be opened
for reading.
*/
func ReadDatasetFromFilePath(ctx context.Context, filepath string, features []feature.Feature) (dataset.Dataset, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("reading samples: %v", err)
		}
	}
	defer f.Close()
	ds, err := NewReader(f, features).Read(ctx)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return ds, err
}

/*
ReadDatasetBySampleFromFilePath takes a filepath string, a slice of
features and a lambda function on an integer and a dataset.Sample that
returns a boolean value. It opens the file the filepath points to
(os.Stdin if the filepath is ""), parses the samples from it and for
each calls the lambda function with the sample and its index as
parameters. If the lambda function returns true, it will continue
processing the next sample, otherwise it will stop. An error is returned
if something goes wrong when reading the file or parsing a sample.
*/
func ReadDatasetBySampleFromFilePath(ctx context.Context, filepath string, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return fmt.Errorf("reading samples: %v", err)
		}
	}
	defer f.Close()
	return NewReader(f, features).BySample(ctx, lambda)
}

/*
NewWriter takes an io.Writer and a slice of features and returns a
dataset.Writer that dumps every written sample to the io.Writer in CSV
format, with the feature names as the header row and the feature values
as columns in the order of the given slice. It returns an error if the
header cannot be written.
*/
func NewWriter(w io.Writer, features []feature.Feature) (dataset.Writer, error) {
	cw := csv.NewWriter(w)
	record := make([]string, len(features))
	for i, f := range features {
		record[i] = f.Name()
	}
	err := cw.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &writer{features: features, w: cw}, nil
}

func (cr *reader) Read(ctx context.Context) (dataset.Dataset, error) {
	ds := dataset.Dataset{}
	err := cr.BySample(ctx, func(_ int, s dataset.Sample) (bool, error) {
		ds = append(ds, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (cr *reader) BySample(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(cr.r)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseColumnsFromCSVHeader(header, cr.features)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseSampleFromCSVRow(row, columns, cr.features)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

func (cw *writer) Write(ctx context.Context, s dataset.Sample) error {
	if len(s) != len(cw.features) {
		return fmt.Errorf("writing CSV row for sample %d: sample has %d values for %d columns", cw.count+1, len(s), len(cw.features))
	}
	record := make([]string, len(s))
	for j, v := range s {
		record[j] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *writer) Flush(ctx context.Context) error {
	cw.w.Flush()
	return cw.w.Error()
}

func (cw *writer) Count() int {
	return cw.count
}

/*
parseColumnsFromCSVHeader maps every CSV column to the position of its
feature in the given slice, with -1 for an ignored trailing column.
Every feature must be covered by exactly one column.
*/
func parseColumnsFromCSVHeader(header []string, features []feature.Feature) ([]int, error) {
	positions := make(map[string]int)
	for i, f := range features {
		positions[f.Name()] = i
	}
	columns := make([]int, len(header))
	covered := make([]bool, len(features))
	for i, name := range header {
		j, ok := positions[name]
		if !ok {
			if i != len(header)-1 {
				return nil, fmt.Errorf("parsing header: reference to unknown feature %s", name)
			}
			columns[i] = -1
			continue
		}
		if covered[j] {
			return nil, fmt.Errorf("parsing header: duplicate column for feature %s", name)
		}
		covered[j] = true
		columns[i] = j
	}
	for j, ok := range covered {
		if !ok {
			return nil, fmt.Errorf("parsing header: no column for feature %s", features[j].Name())
		}
	}
	return columns, nil
}

func parseSampleFromCSVRow(row []string, columns []int, features []feature.Feature) (dataset.Sample, error) {
	sample := make(dataset.Sample, len(features))
	for i, j := range columns {
		if j < 0 {
			continue
		}
		value, err := strconv.ParseFloat(row[i], 64)
		if err != nil {
			return nil, fmt.Errorf("converting %s to float64: %v", row[i], err)
		}
		f := features[j]
		if ok, err := f.Valid(value); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", value, f.Name(), err)
		}
		sample[j] = value
	}
	return sample, nil
}
