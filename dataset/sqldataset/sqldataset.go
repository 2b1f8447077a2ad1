package sqldataset

import (
	"context"
	"fmt"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
)

// writeBatchSize is the number of written samples buffered before they
// are added to the database in a single batch.
const writeBatchSize = 100

/*
Dataset is a dataset.Reader and dataset.Writer that stores its samples
on a SQL database through an Adapter.
*/
type Dataset interface {
	dataset.Reader
	dataset.Writer
}

type sqlDataset struct {
	db             Adapter
	features       []feature.Feature
	featureColumns []string
	classColumn    string
	pending        [][]float64
	written        int
}

/*
Open takes an Adapter to a db backend and a slice of feature.Feature
whose last element is the class feature, and returns a Dataset backed
by the given adapter or an error if no dataset is available through the
given adapter.

This function expects the adapter to have the samples table already
created.
*/
func Open(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Dataset, error) {
	sd, err := newSQLDataset(dbAdapter, features)
	if err != nil {
		return nil, err
	}
	_, err = sd.db.CountSamples(ctx)
	if err != nil {
		return nil, fmt.Errorf("opening dataset: %v", err)
	}
	return sd, nil
}

/*
Create takes an Adapter and a slice of feature.Feature whose last
element is the class feature and returns a Dataset backed by the given
adapter or an error.

This function will ensure that the samples table is created on the
database.
*/
func Create(ctx context.Context, dbAdapter Adapter, features []feature.Feature) (Dataset, error) {
	sd, err := newSQLDataset(dbAdapter, features)
	if err != nil {
		return nil, err
	}
	err = sd.db.CreateSampleTable(ctx, sd.featureColumns, sd.classColumn)
	if err != nil {
		return nil, err
	}
	return sd, nil
}

func newSQLDataset(dbAdapter Adapter, features []feature.Feature) (*sqlDataset, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("a dataset needs at least a class feature")
	}
	sd := &sqlDataset{db: dbAdapter, features: features}
	err := sd.initFeatureColumns()
	if err != nil {
		return nil, err
	}
	return sd, nil
}

func (sd *sqlDataset) Read(ctx context.Context) (dataset.Dataset, error) {
	ds := dataset.Dataset{}
	err := sd.BySample(ctx, func(_ int, s dataset.Sample) (bool, error) {
		ds = append(ds, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return ds, nil
}

func (sd *sqlDataset) BySample(ctx context.Context, lambda func(int, dataset.Sample) (bool, error)) error {
	return sd.db.IterateOnSamples(ctx, sd.featureColumns, sd.classColumn, func(i int, row []float64) (bool, error) {
		s := dataset.Sample(row)
		for j, f := range sd.features {
			if ok, err := f.Valid(s[j]); !ok {
				return false, fmt.Errorf("sample %d has invalid value %v for feature %s: %v", i, s[j], f.Name(), err)
			}
		}
		return lambda(i, s)
	})
}

func (sd *sqlDataset) Write(ctx context.Context, s dataset.Sample) error {
	row, err := sd.newRow(s)
	if err != nil {
		return err
	}
	sd.pending = append(sd.pending, row)
	sd.written++
	if len(sd.pending) < writeBatchSize {
		return nil
	}
	return sd.flushPending(ctx)
}

func (sd *sqlDataset) Flush(ctx context.Context) error {
	if len(sd.pending) == 0 {
		return nil
	}
	return sd.flushPending(ctx)
}

func (sd *sqlDataset) Count() int {
	return sd.written
}

func (sd *sqlDataset) flushPending(ctx context.Context) error {
	n, err := sd.db.AddSamples(ctx, sd.pending, sd.featureColumns, sd.classColumn)
	if err != nil {
		sd.pending = sd.pending[n:]
		return fmt.Errorf("writing samples: %v", err)
	}
	sd.pending = nil
	return nil
}

func (sd *sqlDataset) newRow(s dataset.Sample) ([]float64, error) {
	if len(s) != len(sd.features) {
		return nil, fmt.Errorf("sample has %d values for %d features", len(s), len(sd.features))
	}
	row := make([]float64, len(s))
	for i, f := range sd.features {
		if ok, err := f.Valid(s[i]); !ok {
			return nil, fmt.Errorf("invalid value %v for feature %s: %v", s[i], f.Name(), err)
		}
		row[i] = s[i]
	}
	return row, nil
}

func (sd *sqlDataset) initFeatureColumns() error {
	columnFeatures := make(map[string]feature.Feature)
	for _, f := range sd.features {
		column, err := sd.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		of, ok := columnFeatures[column]
		if ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		columnFeatures[column] = f
		sd.featureColumns = append(sd.featureColumns, column)
	}
	sd.classColumn = sd.featureColumns[len(sd.featureColumns)-1]
	sd.featureColumns = sd.featureColumns[:len(sd.featureColumns)-1]
	return nil
}
