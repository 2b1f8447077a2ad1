package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSampleAccessors(t *testing.T) {

	type test struct {
		sample   Sample
		features []float64
		label    float64
	}

	tests := map[string]test{
		"two features and a label": {
			sample:   Sample{1.5, -2, 1},
			features: []float64{1.5, -2},
			label:    1,
		},
		"label only": {
			sample:   Sample{0},
			features: []float64{},
			label:    0,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tt.features, tt.sample.Features())
			assert.Equal(t, tt.label, tt.sample.Label())
		})
	}

	t.Run("empty sample has no features", func(t *testing.T) {
		assert.Nil(t, Sample{}.Features())
	})

}

func TestDatasetColumns(t *testing.T) {

	ds := Dataset{
		{1, 10, 0},
		{2, 20, 1},
		{3, 30, 1},
	}

	assert.Equal(t, 3, ds.Count())
	assert.Equal(t, []float64{0, 1, 1}, ds.Labels())
	assert.Equal(t, []float64{1, 2, 3}, ds.FeatureValues(0))
	assert.Equal(t, []float64{10, 20, 30}, ds.FeatureValues(1))

	empty := Dataset{}
	assert.Equal(t, 0, empty.Count())
	assert.Equal(t, []float64{}, empty.Labels())

}
