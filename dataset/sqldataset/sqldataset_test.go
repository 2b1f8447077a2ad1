package sqldataset

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
	"github.com/stretchr/testify/assert"
)

type fakeAdapter struct {
	created        bool
	featureColumns []string
	classColumn    string
	rows           [][]float64
	addCalls       int
	countErr       error
}

func (fa *fakeAdapter) ColumnName(featureName string) (string, error) {
	if featureName == "id" {
		return "", fmt.Errorf("'id' is reserved and cannot be used as feature name")
	}
	return strings.ToLower(featureName), nil
}

func (fa *fakeAdapter) CreateSampleTable(ctx context.Context, featureColumns []string, classColumn string) error {
	fa.created = true
	fa.featureColumns = featureColumns
	fa.classColumn = classColumn
	return nil
}

func (fa *fakeAdapter) AddSamples(ctx context.Context, rows [][]float64, featureColumns []string, classColumn string) (int, error) {
	fa.addCalls++
	fa.rows = append(fa.rows, rows...)
	return len(rows), nil
}

func (fa *fakeAdapter) IterateOnSamples(ctx context.Context, featureColumns []string, classColumn string, lambda func(int, []float64) (bool, error)) error {
	for i, r := range fa.rows {
		row := make([]float64, len(r))
		copy(row, r)
		ok, err := lambda(i, row)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

func (fa *fakeAdapter) CountSamples(ctx context.Context) (int, error) {
	if fa.countErr != nil {
		return 0, fa.countErr
	}
	return len(fa.rows), nil
}

func testFeatures() []feature.Feature {
	return []feature.Feature{
		feature.NewContinuousFeature("size"),
		feature.NewContinuousFeature("weight"),
		feature.NewClassFeature("poisonous"),
	}
}

func TestCreateWriteAndRead(t *testing.T) {

	ctx := context.Background()
	fa := &fakeAdapter{}
	sd, err := Create(ctx, fa, testFeatures())
	assert.NoError(t, err)
	assert.True(t, fa.created)
	assert.Equal(t, []string{"size", "weight"}, fa.featureColumns)
	assert.Equal(t, "poisonous", fa.classColumn)

	samples := dataset.Dataset{{1, 10, 0}, {2.5, 20, 1}, {3, 30, 1}}
	for _, s := range samples {
		assert.NoError(t, sd.Write(ctx, s))
	}
	assert.Equal(t, 3, sd.Count())
	assert.Equal(t, 0, fa.addCalls)
	assert.NoError(t, sd.Flush(ctx))
	assert.Equal(t, 1, fa.addCalls)

	ds, err := sd.Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, samples, ds)

}

func TestWriteFlushesFullBatches(t *testing.T) {

	ctx := context.Background()
	fa := &fakeAdapter{}
	sd, err := Create(ctx, fa, testFeatures())
	assert.NoError(t, err)

	for i := 0; i < writeBatchSize; i++ {
		assert.NoError(t, sd.Write(ctx, dataset.Sample{float64(i), 10, 1}))
	}
	assert.Equal(t, 1, fa.addCalls)
	assert.Equal(t, writeBatchSize, len(fa.rows))
	assert.NoError(t, sd.Flush(ctx))
	assert.Equal(t, 1, fa.addCalls)

}

func TestWriteValidatesSamples(t *testing.T) {

	type test struct {
		sample  dataset.Sample
		message string
	}

	tests := map[string]test{
		"wrong width": {
			sample:  dataset.Sample{1, 10},
			message: "2 values for 3 features",
		},
		"label outside the class domain": {
			sample:  dataset.Sample{1, 10, 2},
			message: "invalid value 2 for feature poisonous",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sd, err := Create(ctx, &fakeAdapter{}, testFeatures())
			assert.NoError(t, err)
			err = sd.Write(ctx, tt.sample)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, 0, sd.Count())
		})
	}

}

func TestReadValidatesSamples(t *testing.T) {

	ctx := context.Background()
	fa := &fakeAdapter{rows: [][]float64{{1, 10, 0}, {2, 20, 3}}}
	sd, err := Open(ctx, fa, testFeatures())
	assert.NoError(t, err)

	ds, err := sd.Read(ctx)
	assert.Nil(t, ds)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "sample 1 has invalid value 3 for feature poisonous")

}

func TestBySampleStopsOnFalse(t *testing.T) {

	ctx := context.Background()
	fa := &fakeAdapter{rows: [][]float64{{1, 10, 0}, {2, 20, 1}, {3, 30, 1}}}
	sd, err := Open(ctx, fa, testFeatures())
	assert.NoError(t, err)

	var read []dataset.Sample
	err = sd.BySample(ctx, func(i int, s dataset.Sample) (bool, error) {
		read = append(read, s)
		return i < 1, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []dataset.Sample{{1, 10, 0}, {2, 20, 1}}, read)

}

func TestOpenReportsUnavailableDatasets(t *testing.T) {

	fa := &fakeAdapter{countErr: fmt.Errorf("no such table: samples")}
	sd, err := Open(context.Background(), fa, testFeatures())
	assert.Nil(t, sd)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "opening dataset")

}

func TestFeatureColumnErrors(t *testing.T) {

	type test struct {
		features []feature.Feature
		message  string
	}

	tests := map[string]test{
		"no features": {
			features: nil,
			message:  "at least a class feature",
		},
		"reserved feature name": {
			features: []feature.Feature{
				feature.NewContinuousFeature("id"),
				feature.NewClassFeature("poisonous"),
			},
			message: "invalid feature id",
		},
		"colliding column names": {
			features: []feature.Feature{
				feature.NewContinuousFeature("Size"),
				feature.NewContinuousFeature("size"),
				feature.NewClassFeature("poisonous"),
			},
			message: "translate to the same column name size",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			sd, err := Create(context.Background(), &fakeAdapter{}, tt.features)
			assert.Nil(t, sd)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

}
