package mongodataset

import (
	"testing"

	"github.com/pbanos/dicot/dataset"
	"github.com/pbanos/dicot/feature"
	"github.com/stretchr/testify/assert"
	"gopkg.in/mgo.v2/bson"
)

func testDataset() *mongodataset {
	return &mongodataset{
		features: []feature.Feature{
			feature.NewContinuousFeature("size"),
			feature.NewContinuousFeature("weight"),
			feature.NewClassFeature("poisonous"),
		},
	}
}

func TestNewDoc(t *testing.T) {

	mds := testDataset()

	doc, err := mds.newDoc(dataset.Sample{1.5, 10, 1})
	assert.NoError(t, err)
	assert.Equal(t, bson.M{"size": 1.5, "weight": 10.0, "poisonous": 1.0}, doc)

	doc, err = mds.newDoc(dataset.Sample{1.5, 10})
	assert.Nil(t, doc)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "2 values for 3 features")

	doc, err = mds.newDoc(dataset.Sample{1.5, 10, 2})
	assert.Nil(t, doc)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid value 2 for feature poisonous")

}

func TestNewSample(t *testing.T) {

	type test struct {
		doc      bson.M
		expected dataset.Sample
		message  string
	}

	tests := map[string]test{
		"doc with float values": {
			doc:      bson.M{"size": 1.5, "weight": 10.0, "poisonous": 1.0},
			expected: dataset.Sample{1.5, 10, 1},
		},
		"doc with integer values": {
			doc:      bson.M{"size": 2, "weight": int64(20), "poisonous": 0},
			expected: dataset.Sample{2, 20, 0},
		},
		"doc missing a feature": {
			doc:     bson.M{"size": 1.5, "poisonous": 1.0},
			message: "no value for feature weight",
		},
		"doc with a non-numeric value": {
			doc:     bson.M{"size": "big", "weight": 10.0, "poisonous": 1.0},
			message: "expected numeric value for feature size, got string",
		},
		"doc with a label outside the class domain": {
			doc:     bson.M{"size": 1.5, "weight": 10.0, "poisonous": 3.0},
			message: "invalid value 3 for feature poisonous",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			s, err := testDataset().newSample(tt.doc)
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

	type test struct {
		names   []string
		message string
	}

	tests := map[string]test{
		"valid names": {
			names: []string{"size", "weight", "poisonous"},
		},
		"reserved field": {
			names:   []string{"size", "_id", "poisonous"},
			message: "reserved collection field",
		},
		"name with a dot": {
			names:   []string{"size", "cap.width", "poisonous"},
			message: "reserved characters",
		},
		"name with a dollar sign": {
			names:   []string{"$size", "weight", "poisonous"},
			message: "reserved characters",
		},
		"duplicate names": {
			names:   []string{"size", "size", "poisonous"},
			message: "several features share the name size",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			var features []feature.Feature
			for _, n := range tt.names {
				features = append(features, feature.NewContinuousFeature(n))
			}
			mds := &mongodataset{features: features}
			err := mds.validateFeatureNames()
			if tt.message == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.message)
		})
	}

}
