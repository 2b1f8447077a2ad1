package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
	"github.com/stretchr/testify/assert"
)

func testFeatures() []feature.Feature {
	return []feature.Feature{
		feature.NewContinuousFeature("size"),
		feature.NewContinuousFeature("weight"),
		feature.NewClassFeature("poisonous"),
	}
}

func TestReaderRead(t *testing.T) {

	type test struct {
		input    string
		features []feature.Feature
		expected dataset.Dataset
	}

	tests := map[string]test{
		"columns in feature order": {
			input:    "size,weight,poisonous\n1,10,0\n2.5,20,1\n",
			features: testFeatures(),
			expected: dataset.Dataset{{1, 10, 0}, {2.5, 20, 1}},
		},
		"columns in a different order": {
			input:    "weight,size,poisonous\n10,1,0\n20,2.5,1\n",
			features: testFeatures(),
			expected: dataset.Dataset{{1, 10, 0}, {2.5, 20, 1}},
		},
		"unknown trailing column is ignored": {
			input:    "size,weight,poisonous\n1,10,0\n2.5,20,1\n",
			features: testFeatures()[:2],
			expected: dataset.Dataset{{1, 10}, {2.5, 20}},
		},
		"no samples": {
			input:    "size,weight,poisonous\n",
			features: testFeatures(),
			expected: dataset.Dataset{},
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := NewReader(strings.NewReader(tt.input), tt.features).Read(context.Background())
			assert.NoError(t, err)
			assert.Equal(t, tt.expected, ds)
		})
	}

}

func TestReaderErrors(t *testing.T) {

	type test struct {
		input    string
		features []feature.Feature
		message  string
	}

	tests := map[string]test{
		"empty input": {
			input:    "",
			features: testFeatures(),
			message:  "reading header",
		},
		"unknown column before the last": {
			input:    "size,color,poisonous\n1,10,0\n",
			features: testFeatures(),
			message:  "unknown feature color",
		},
		"missing feature column": {
			input:    "size,poisonous\n1,0\n",
			features: testFeatures(),
			message:  "no column for feature weight",
		},
		"duplicate feature column": {
			input:    "size,size,poisonous\n1,1,0\n",
			features: testFeatures(),
			message:  "duplicate column for feature size",
		},
		"non-numeric value": {
			input:    "size,weight,poisonous\n1,heavy,0\n",
			features: testFeatures(),
			message:  "converting heavy to float64",
		},
		"label outside the class domain": {
			input:    "size,weight,poisonous\n1,10,2\n",
			features: testFeatures(),
			message:  "invalid value 2 for feature poisonous",
		},
		"ragged row": {
			input:    "size,weight,poisonous\n1,10\n",
			features: testFeatures(),
			message:  "reading body",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			ds, err := NewReader(strings.NewReader(tt.input), tt.features).Read(context.Background())
			assert.Nil(t, ds)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

}

func TestReaderBySampleStopsOnFalse(t *testing.T) {

	input := "size,weight,poisonous\n1,10,0\n2.5,20,1\n3,30,1\n"
	var read []dataset.Sample
	err := NewReader(strings.NewReader(input), testFeatures()).BySample(context.Background(), func(i int, s dataset.Sample) (bool, error) {
		read = append(read, s)
		return i < 1, nil
	})
	assert.NoError(t, err)
	assert.Equal(t, []dataset.Sample{{1, 10, 0}, {2.5, 20, 1}}, read)

}

func TestWriterRoundTrip(t *testing.T) {

	ctx := context.Background()
	ds := dataset.Dataset{{1, 10, 0}, {2.5, 20, 1}, {0.125, 0.5, 1}}
	var buf bytes.Buffer

	w, err := NewWriter(&buf, testFeatures())
	assert.NoError(t, err)
	for _, s := range ds {
		assert.NoError(t, w.Write(ctx, s))
	}
	assert.NoError(t, w.Flush(ctx))
	assert.Equal(t, 3, w.Count())

	read, err := NewReader(&buf, testFeatures()).Read(ctx)
	assert.NoError(t, err)
	assert.Equal(t, ds, read)

}

func TestWriterRejectsWrongWidth(t *testing.T) {

	var buf bytes.Buffer
	w, err := NewWriter(&buf, testFeatures())
	assert.NoError(t, err)
	err = w.Write(context.Background(), dataset.Sample{1, 10})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "2 values for 3 columns")
	assert.Equal(t, 0, w.Count())

}
