package feature

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestContinuousFeatureValid(t *testing.T) {

	type test struct {
		value float64
		valid bool
	}

	tests := map[string]test{
		"zero": {
			value: 0,
			valid: true,
		},
		"negative": {
			value: -12.5,
			valid: true,
		},
		"large": {
			value: 1e18,
			valid: true,
		},
		"NaN": {
			value: math.NaN(),
			valid: false,
		},
		"positive infinity": {
			value: math.Inf(1),
			valid: false,
		},
		"negative infinity": {
			value: math.Inf(-1),
			valid: false,
		},
	}

	f := NewContinuousFeature("sepal_length")
	assert.Equal(t, "sepal_length", f.Name())

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ok, err := f.Valid(tt.value)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

}

func TestClassFeatureValid(t *testing.T) {

	type test struct {
		value float64
		valid bool
	}

	tests := map[string]test{
		"class 0": {
			value: 0,
			valid: true,
		},
		"class 1": {
			value: 1,
			valid: true,
		},
		"class 2": {
			value: 2,
			valid: false,
		},
		"negative class": {
			value: -1,
			valid: false,
		},
		"fractional value": {
			value: 0.9,
			valid: false,
		},
		"NaN": {
			value: math.NaN(),
			valid: false,
		},
	}

	f := NewClassFeature("poisonous")
	assert.Equal(t, "poisonous", f.Name())

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ok, err := f.Valid(tt.value)
			assert.Equal(t, tt.valid, ok)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}

}
