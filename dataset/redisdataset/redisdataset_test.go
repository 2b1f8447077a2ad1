package redisdataset

import (
	"testing"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
	"github.com/stretchr/testify/assert"
)

func testDataset() *redisdataset {
	return &redisdataset{
		prefix: "train",
		features: []feature.Feature{
			feature.NewContinuousFeature("size"),
			feature.NewContinuousFeature("weight"),
			feature.NewClassFeature("poisonous"),
		},
	}
}

func TestKeys(t *testing.T) {

	rds := testDataset()
	assert.Equal(t, "train:0", rds.sampleKey(0))
	assert.Equal(t, "train:41", rds.sampleKey(41))
	assert.Equal(t, "train:count", rds.countKey())

}

func TestNewRow(t *testing.T) {

	rds := testDataset()

	row, err := rds.newRow(dataset.Sample{1.5, 10, 1})
	assert.NoError(t, err)
	assert.Equal(t, `{"poisonous":1,"size":1.5,"weight":10}`, string(row))

	row, err = rds.newRow(dataset.Sample{1.5, 10})
	assert.Nil(t, row)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "2 values for 3 features")

	row, err = rds.newRow(dataset.Sample{1.5, 10, 2})
	assert.Nil(t, row)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value 2 for feature poisonous")

}

func TestNewSample(t *testing.T) {

	type test struct {
		data     string
		expected dataset.Sample
		message  string
	}

	tests := map[string]test{
		"valid row": {
			data:     `{"size":1.5,"weight":10,"poisonous":1}`,
			expected: dataset.Sample{1.5, 10, 1},
		},
		"row missing a feature": {
			data:    `{"size":1.5,"weight":10}`,
			message: "no value for feature poisonous",
		},
		"row that is not a JSON object": {
			data:    "[1.5,10,1]",
			message: "decoding",
		},
		"row with a non-numeric value": {
			data:    `{"size":"big","weight":10,"poisonous":1}`,
			message: "decoding",
		},
		"row with a label outside the class domain": {
			data:    `{"size":1.5,"weight":10,"poisonous":3}`,
			message: "invalid value 3 for feature poisonous",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := testDataset().newSample([]byte(tt.data))
			if tt.message != "" {
				assert.Nil(t, s)
				assert.Error(t, err)
				assert.Contains(t, err.Error(), tt.message)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, s)
		})
	}

}

func TestValidateFeatureNames(t *testing.T) {

	rds := testDataset()
	assert.NoError(t, rds.validateFeatureNames())

	rds.features = append(rds.features, feature.NewContinuousFeature("size"))
	err := rds.validateFeatureNames()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "several features share the name size")

}
